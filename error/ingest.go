package error

import (
	"errors"
	"fmt"
)

// Ingestion error kinds. Concrete errors wrap one of these so that
// handlers can pick a status with errors.Is.
var (
	ErrMissingField              error = errors.New("required field missing")
	ErrFieldTooLong              error = errors.New("field too long")
	ErrUnsupportedMediaType      error = errors.New("unsupported media type")
	ErrInvalidEncoding           error = errors.New("invalid image encoding")
	ErrUnreadableBinaryReference error = errors.New("binary reference unreadable")
	ErrAuthorRequired            error = errors.New("author required")
	ErrAuthorNotFound            error = errors.New("author user not found")
	ErrAutomationUnavailable     error = errors.New("automation endpoint is not configured")
	ErrInvalidAPIKey             error = errors.New("invalid API key")
)

var (
	ErrNoContent        error = fmt.Errorf("%w: content", ErrMissingField)
	ErrFileNotImage     error = fmt.Errorf("%w: file must be an image", ErrUnsupportedMediaType)
	ErrInvalidDataURL   error = fmt.Errorf("%w: invalid data URL format", ErrInvalidEncoding)
	ErrInvalidBase64    error = fmt.Errorf("%w: invalid base64 payload", ErrInvalidEncoding)
	ErrEmptyImage       error = fmt.Errorf("%w: empty image payload", ErrInvalidEncoding)
	ErrNoUsableData     error = fmt.Errorf("%w: no usable data", ErrUnreadableBinaryReference)
	ErrNoAuthorEmail    error = fmt.Errorf("%w: author_email is required when N8N_DEFAULT_AUTHOR_EMAIL is not configured", ErrAuthorRequired)
	ErrMalformedPayload error = errors.New("malformed request body")
)

func ErrAuthorEmailNotFound(email string) error {
	return fmt.Errorf("%w: %s", ErrAuthorNotFound, email)
}

func ErrInvalidBinaryField(field string) error {
	return fmt.Errorf("%w: field %q must be a string", ErrUnreadableBinaryReference, field)
}
