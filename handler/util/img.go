package handler

import (
	"bytes"
	"image"
	"io"
	"log"

	"image/gif"
	"image/jpeg"
	"image/png"

	_ "golang.org/x/image/webp"

	"github.com/nfnt/resize"

	e "github.com/julianlk522/miniface/error"
	"github.com/julianlk522/miniface/model"
)

const (
	THUMBNAIL_WIDTH_PX int = 200
	// checked from the header before decoding pixels
	MAX_AVATAR_SIDE_PX int = 4096
)

// PrepareAvatar verifies the upload is a decodable image with an
// acceptable aspect ratio and scales it down if needed.
// Returns the bytes to store and a filename hint carrying the format.
func PrepareAvatar(upload *model.AvatarUpload) ([]byte, string, error) {
	cfg, _, err := image.DecodeConfig(upload.Bytes)
	if err != nil {
		if err == image.ErrFormat {
			return nil, "", e.ErrInvalidFileType
		}
		return nil, "", err
	}
	if cfg.Width > MAX_AVATAR_SIDE_PX || cfg.Height > MAX_AVATAR_SIDE_PX {
		return nil, "", e.AvatarExceedsDimensionLimit(MAX_AVATAR_SIDE_PX)
	}
	if _, err = upload.Bytes.Seek(0, io.SeekStart); err != nil {
		return nil, "", err
	}

	img, file_type, err := image.Decode(upload.Bytes)
	if err != nil {
		if err == image.ErrFormat {
			return nil, "", e.ErrInvalidFileType
		}
		return nil, "", err
	}

	if !HasAcceptableAspectRatio(img) {
		return nil, "", e.ErrInvalidAvatarAspectRatio
	}

	var out bytes.Buffer

	// Scale down if needed
	// there is no webp encoder, so webp is kept at full size
	if img.Bounds().Dx() > THUMBNAIL_WIDTH_PX && file_type != "webp" {
		if err = ScaleToThumbnailSize(img, file_type, &out); err != nil {
			return nil, "", err
		}
	} else {
		// reset bytes to beginning
		if _, err = upload.Bytes.Seek(0, io.SeekStart); err != nil {
			return nil, "", err
		}
		if _, err = io.Copy(&out, upload.Bytes); err != nil {
			return nil, "", err
		}
	}

	return out.Bytes(), "avatar." + file_type, nil
}

func HasAcceptableAspectRatio(img image.Image) bool {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if height == 0 {
		return false
	}
	ratio := float64(width) / float64(height)

	if ratio > 2.0 || ratio < 0.5 {
		return false
	}

	return true
}

func ScaleToThumbnailSize(img image.Image, file_type string, out io.Writer) error {
	resized_img := resize.Resize(
		uint(THUMBNAIL_WIDTH_PX),
		0,
		img,
		resize.Lanczos3,
	)

	var err error
	switch file_type {
	case "jpg", "jpeg":
		err = jpeg.Encode(out, resized_img, nil)
	case "png":
		err = png.Encode(out, resized_img)
	case "gif":
		err = gif.Encode(out, resized_img, nil)
	case "webp":
		err = e.ErrCannotEncodeAsWebp
	default:
		log.Printf("unknown file type: %s", file_type)
		err = e.ErrInvalidFileType
	}

	return err
}
