package ingest

import (
	"encoding/base64"
	"strings"
	"unicode"

	e "github.com/julianlk522/miniface/error"
)

const DATA_URL_PREFIX = "data:"

// DecodeBase64Image accepts raw, URL-safe or data-URL base64 and returns
// the decoded bytes plus the MIME type declared by a data URL, if any.
func DecodeBase64Image(raw string) ([]byte, string, error) {
	var mime_type string

	payload := strings.TrimSpace(raw)
	if strings.HasPrefix(payload, DATA_URL_PREFIX) {
		header, data, found := strings.Cut(payload[len(DATA_URL_PREFIX):], ",")
		if !found {
			return nil, "", e.ErrInvalidDataURL
		}

		// "image/png;base64" -> "image/png"
		declared, _, _ := strings.Cut(header, ";")
		mime_type = strings.TrimSpace(declared)
		payload = data
	}

	b, err := DecodeBase64Body(payload)
	if err != nil {
		return nil, "", err
	}

	return b, mime_type, nil
}

// DecodeBase64Body strips whitespace, maps the URL-safe alphabet onto the
// standard one, repairs padding and then decodes. Characters outside the
// alphabet and impossible lengths are rejected; non-zero trailing bits
// are not.
func DecodeBase64Body(s string) ([]byte, error) {
	normalized := NormalizeBase64(s)

	b, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return nil, e.ErrInvalidBase64
	}
	if len(b) == 0 {
		return nil, e.ErrEmptyImage
	}

	return b, nil
}

func NormalizeBase64(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 3)

	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '-':
			sb.WriteByte('+')
		case r == '_':
			sb.WriteByte('/')
		default:
			sb.WriteRune(r)
		}
	}

	if rem := sb.Len() % 4; rem != 0 {
		sb.WriteString(strings.Repeat("=", 4-rem))
	}

	return sb.String()
}
