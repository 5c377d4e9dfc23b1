package error

import (
	"errors"
	"fmt"
)

var (
	ErrNoEmail            error = errors.New("no email provided")
	ErrInvalidEmail       error = errors.New("invalid email provided")
	ErrNoUsername         error = errors.New("no username provided")
	ErrNoPassword         error = errors.New("no password provided")
	ErrEmailTaken         error = errors.New("email already exists")
	ErrUsernameTaken      error = errors.New("username already exists")
	ErrInvalidLogin       error = errors.New("invalid credentials")
	ErrIncorrectPassword  error = errors.New("incorrect password")
	ErrInvalidCredentials error = errors.New("could not validate credentials")

	ErrInvalidUserID error = errors.New("invalid user ID provided")
)

func EmailExceedsLimit(limit int) error {
	return fmt.Errorf("email too long (max %d chars)", limit)
}

func UsernameExceedsLimit(limit int) error {
	return fmt.Errorf("username too long (max %d chars)", limit)
}

func PasswordExceedsLimit(limit int) error {
	return fmt.Errorf("password too long (max %d bytes)", limit)
}
