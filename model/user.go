package model

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	e "github.com/julianlk522/miniface/error"
	util "github.com/julianlk522/miniface/model/util"
)

var validate = validator.New()

type User struct {
	ID             int64   `json:"id"`
	Email          string  `json:"email"`
	Username       string  `json:"username"`
	HashedPassword string  `json:"-"`
	AvatarURL      *string `json:"avatar_url"`
	CreatedAt      string  `json:"created_at"`
}

// AUTH
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username"`
	Password string `json:"password"`

	CreatedAt string `json:"-"`
}

func (sr *SignUpRequest) Bind(r *http.Request) error {
	sr.Email = strings.TrimSpace(sr.Email)
	sr.Username = strings.TrimSpace(sr.Username)

	// lengths are the column sizes, plus bcrypt's 72-byte input cap
	switch {
	case sr.Email == "":
		return e.ErrNoEmail
	case utf8.RuneCountInString(sr.Email) > util.EMAIL_CHAR_LIMIT:
		return e.EmailExceedsLimit(util.EMAIL_CHAR_LIMIT)
	case validate.Struct(sr) != nil:
		return e.ErrInvalidEmail

	case sr.Username == "":
		return e.ErrNoUsername
	case utf8.RuneCountInString(sr.Username) > util.USERNAME_CHAR_LIMIT:
		return e.UsernameExceedsLimit(util.USERNAME_CHAR_LIMIT)

	case sr.Password == "":
		return e.ErrNoPassword
	case len(sr.Password) > util.PASSWORD_BYTE_LIMIT:
		return e.PasswordExceedsLimit(util.PASSWORD_BYTE_LIMIT)
	}

	sr.CreatedAt = util.NEW_LONG_TIMESTAMP()
	return nil
}

// OAuth2 password form: "username" carries the email
type LogInRequest struct {
	Email    string
	Password string
}

func (lr *LogInRequest) Bind(r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	lr.Email = strings.TrimSpace(r.PostForm.Get("username"))
	lr.Password = r.PostForm.Get("password")

	if lr.Email == "" {
		return e.ErrNoEmail
	} else if lr.Password == "" {
		return e.ErrNoPassword
	}

	return nil
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
