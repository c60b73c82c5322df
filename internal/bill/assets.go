package bill

import _ "embed"

//go:embed static/app.css
var appCSS []byte

//go:embed static/app.js
var appJS []byte
