package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"
)

// proofScanPrompt is shared by every model used to read proofs
const proofScanPrompt = `You are reading the photo of a receipt or invoice attached to a French expense report. Carefully read all text in the image and extract:

1. **Name**: a short label starting with the merchant name, e.g. "SNCF - Paris Lyon", "Hôtel Ibis".

2. **Type**: the closest category among "Transports", "Restaurants et bars", "Hôtel et logement", "Services en ligne", "IT et électronique", "Equipement et matériel", "Fournitures de bureau".

3. **Date**: the transaction date, in YYYY-MM-DD format.

4. **Amount**: the total including taxes (TTC), as a number.

5. **VAT**: the VAT (TVA) amount, as a number, 0 if not printed.

Return ONLY valid JSON in this exact format:
{
  "name": "Merchant - Description",
  "type": "Transports",
  "date": "YYYY-MM-DD",
  "amount": 0.00,
  "vat": 0.00
}

Important:
- Numbers must be numbers, not strings
- If you cannot find a field, use null for that field
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// toPNG re-encodes a jpeg proof as png. png data is returned unchanged.
func toPNG(imageData []byte, contentType string) ([]byte, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "image/png" {
		return imageData, nil
	}

	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	if format == "png" {
		return imageData, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}
