package bill

import (
	"log/slog"
	"strings"
)

// InvalidFileMessage is shown when a proof is not a jpg, jpeg or png file
const InvalidFileMessage = "Veuillez choisir un fichier au format jpg, jpeg ou png."

var proofExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// InvalidFileError reports a proof whose extension is not accepted
type InvalidFileError struct {
	FileName  string
	Extension string
}

func (e *InvalidFileError) Error() string {
	return InvalidFileMessage
}

// baseName keeps what follows the last path separator, as browsers report C:\fakepath\name.jpg
func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

// proofExtension returns the lower-cased text after the last dot of the file name
func proofExtension(name string) string {
	name = baseName(name)
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return strings.ToLower(name)
	}
	return strings.ToLower(name[i+1:])
}

// checkProofExtension returns the extension of an accepted proof
func checkProofExtension(name string) (string, error) {
	ext := proofExtension(name)
	if _, ok := proofExtensions[ext]; !ok {
		return ext, &InvalidFileError{FileName: baseName(name), Extension: ext}
	}
	return ext, nil
}

// proofContentType returns the type a proof is stored and served with.
// It follows the extension only; a declared type is never trusted.
func proofContentType(name, declared string) string {
	ct, ok := proofExtensions[proofExtension(name)]
	if !ok {
		return "application/octet-stream"
	}
	declared = strings.ToLower(strings.TrimSpace(declared))
	if declared != ct {
		slog.Debug("Ignoring declared proof content type", "filename", name, "declared", declared, "content_type", ct)
	}
	return ct
}
