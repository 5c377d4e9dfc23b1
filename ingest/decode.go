package ingest

import (
	"context"
	"fmt"
	"strings"

	e "github.com/julianlk522/miniface/error"
)

const IMAGE_MEDIA_TYPE_PREFIX = "image/"

func DecodeMultipartFile(f MultipartFile) (*DecodedImage, error) {
	content_type := strings.ToLower(strings.TrimSpace(f.DeclaredContentType))
	if !strings.HasPrefix(content_type, IMAGE_MEDIA_TYPE_PREFIX) {
		return nil, e.ErrFileNotImage
	}
	if len(f.Bytes) == 0 {
		return nil, e.ErrEmptyImage
	}

	return &DecodedImage{
		Bytes:       f.Bytes,
		MimeType:    f.DeclaredContentType,
		Filename:    f.Filename,
		from_upload: true,
	}, nil
}

func DecodeBase64Payload(p Base64Payload) (*DecodedImage, error) {
	b, mime_type, err := DecodeBase64Image(p.Raw)
	if err != nil {
		return nil, err
	}

	return &DecodedImage{
		Bytes:    b,
		MimeType: mime_type,
		Filename: strings.TrimSpace(p.Filename),
	}, nil
}

// Decode dispatches on the concrete source. A nil source yields a nil image.
func Decode(src ImageSource, resolver *BinaryResolver) (*DecodedImage, error) {
	switch s := src.(type) {
	case nil:
		return nil, nil
	case MultipartFile:
		return DecodeMultipartFile(s)
	case Base64Payload:
		return DecodeBase64Payload(s)
	case WorkflowBinaryRef:
		return DecodeWorkflowBinaryRef(s, resolver)
	default:
		return nil, fmt.Errorf("unknown image source %T", src)
	}
}

// Persist writes a decoded image and returns its locator.
func Persist(ctx context.Context, blobs BlobStore, img *DecodedImage) (string, error) {
	return blobs.Store(ctx, img.Bytes, img.Filename, img.ExtensionMimeHint())
}
