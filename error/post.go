package error

import (
	"errors"
	"fmt"
)

var (
	ErrNoPostID      error = errors.New("no post ID provided")
	ErrInvalidPostID error = errors.New("invalid post ID provided")
	ErrNoPostWithID  error = errors.New("post not found")
	ErrDoesntOwnPost error = errors.New("not enough permissions")
	ErrInvalidPage   error = errors.New("invalid page provided")
)

func ContentExceedsLimit(limit int) error {
	return fmt.Errorf("%w: content too long (max %d chars)", ErrFieldTooLong, limit)
}
