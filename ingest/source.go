// Package ingest turns the image a client sends (multipart upload, base64,
// data URL or an n8n binary reference) into bytes stored in the media
// directory, and resolves the author of the post being created.
package ingest

import (
	e "github.com/julianlk522/miniface/error"
)

// ImageSource is one of MultipartFile, Base64Payload or WorkflowBinaryRef.
type ImageSource interface {
	isImageSource()
}

type MultipartFile struct {
	Bytes               []byte
	DeclaredContentType string
	Filename            string
}

type Base64Payload struct {
	Raw      string
	Filename string
}

// n8n binary data descriptor. Empty strings mean the field was absent.
type WorkflowBinaryRef struct {
	MimeType      string
	FileName      string
	FileExtension string
	Data          string
	ID            string
}

func (MultipartFile) isImageSource()     {}
func (Base64Payload) isImageSource()     {}
func (WorkflowBinaryRef) isImageSource() {}

// Bytes is never empty; decoders fail before constructing one otherwise.
type DecodedImage struct {
	Bytes    []byte
	MimeType string
	Filename string

	// multipart uploads take their extension from the filename only
	from_upload bool
}

// MIME type the Blob Store may use to pick an extension.
func (di *DecodedImage) ExtensionMimeHint() string {
	if di.from_upload {
		return ""
	}
	return di.MimeType
}

var workflow_binary_fields = map[string]func(*WorkflowBinaryRef, string){
	"mimeType":      func(ref *WorkflowBinaryRef, v string) { ref.MimeType = v },
	"fileName":      func(ref *WorkflowBinaryRef, v string) { ref.FileName = v },
	"fileExtension": func(ref *WorkflowBinaryRef, v string) { ref.FileExtension = v },
	"data":          func(ref *WorkflowBinaryRef, v string) { ref.Data = v },
	"id":            func(ref *WorkflowBinaryRef, v string) { ref.ID = v },
}

// ParseWorkflowBinaryRef validates the untyped image_binary mapping.
// Only the consulted fields are checked; they must be strings when present.
// Other keys (fileSize, directory...) are ignored.
func ParseWorkflowBinaryRef(raw map[string]any) (WorkflowBinaryRef, error) {
	var ref WorkflowBinaryRef

	for key, set := range workflow_binary_fields {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok {
			return WorkflowBinaryRef{}, e.ErrInvalidBinaryField(key)
		}
		set(&ref, s)
	}

	return ref, nil
}
