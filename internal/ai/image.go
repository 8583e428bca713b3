package ai

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"alcyxob/fitness-planner/internal/errs"
)

var dataURIPattern = regexp.MustCompile(`^data:(image/[a-zA-Z0-9+.-]+);base64,(.+)$`)

// DefaultImageMimeType is assumed for bare base64 payloads.
const DefaultImageMimeType = "image/png"

// ParseDataURI splits "data:image/<type>;base64,<payload>" into mime type and
// base64 payload. A bare base64 payload is accepted as image/png.
func ParseDataURI(uri string) (mimeType, payload string, err error) {
	s := strings.TrimSpace(uri)
	if m := dataURIPattern.FindStringSubmatch(s); len(m) == 3 {
		mimeType, payload = m[1], m[2]
	} else if strings.HasPrefix(s, "data:") {
		return "", "", errs.Validation(map[string]string{"image": "Unsupported image data URI"})
	} else {
		mimeType, payload = DefaultImageMimeType, s
	}
	if payload == "" {
		return "", "", errs.Validation(map[string]string{"image": "Image data is empty"})
	}
	if _, decErr := base64.StdEncoding.DecodeString(payload); decErr != nil {
		return "", "", errs.Validation(map[string]string{"image": "Image data is not valid base64"})
	}
	return mimeType, payload, nil
}

// DecodeDataURI is ParseDataURI plus base64 decoding of the payload.
func DecodeDataURI(uri string) (mimeType string, data []byte, err error) {
	mimeType, payload, err := ParseDataURI(uri)
	if err != nil {
		return "", nil, err
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode image payload: %w", err)
	}
	return mimeType, data, nil
}

func pngDataURI(payload string) string {
	return "data:image/png;base64," + payload
}
