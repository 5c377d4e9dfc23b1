package error

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFileType          error = errors.New("invalid file type")
	ErrInvalidAvatarAspectRatio error = errors.New("avatar aspect ratio must be between 0.5 and 2.0")
	ErrCannotEncodeAsWebp       error = errors.New("cannot encode webp to file")
	ErrNoAvatar                 error = errors.New("no avatar to delete")
	ErrCouldNotSaveAvatar       error = errors.New("could not save avatar")
	ErrInvalidLocator           error = errors.New("locator does not point into the media directory")
	ErrAvatarTooLarge           error = errors.New("avatar too large")
)

func AvatarExceedsDimensionLimit(limit int) error {
	return fmt.Errorf("%w (max %dpx per side)", ErrAvatarTooLarge, limit)
}
