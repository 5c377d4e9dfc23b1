package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"

	"github.com/julianlk522/miniface/db"
	e "github.com/julianlk522/miniface/error"
	"github.com/julianlk522/miniface/model"
)

const USER_FIELDS = `id, email, username, hashed_password, avatar_url, created_at`

// Auth
func EmailTaken(email string) bool {
	var s sql.NullString
	if err := db.Client.QueryRow("SELECT email FROM users WHERE email = ?", email).Scan(&s); err == nil {
		return true
	}
	return false
}

func UsernameTaken(username string) bool {
	var s sql.NullString
	if err := db.Client.QueryRow("SELECT username FROM users WHERE username = ?", username).Scan(&s); err == nil {
		return true
	}
	return false
}

// AuthenticateUser returns the user when email and password match.
func AuthenticateUser(ctx context.Context, email string, password string) (*model.User, error) {
	user, err := GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	} else if user == nil {
		return nil, e.ErrInvalidLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, e.ErrIncorrectPassword
	}

	return user, nil
}

func GetJWTFromUserID(token_auth *jwtauth.JWTAuth, user_id int64, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		"sub": strconv.FormatInt(user_id, 10),
	}
	jwtauth.SetIssuedNow(claims)
	jwtauth.SetExpiry(claims, time.Now().Add(ttl))

	_, token, err := token_auth.Encode(claims)
	if err != nil {
		return "", err
	}

	return token, nil
}

func RenderJWT(token string, w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, model.Token{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Lookups return a nil user (no error) when nothing matches
func GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(db.Client.QueryRowContext(
		ctx,
		"SELECT "+USER_FIELDS+" FROM users WHERE email = ?",
		email,
	))
}

func GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return scanUser(db.Client.QueryRowContext(
		ctx,
		"SELECT "+USER_FIELDS+" FROM users WHERE id = ?",
		id,
	))
}

func scanUser(row *sql.Row) (*model.User, error) {
	var u model.User
	var avatar_url sql.NullString

	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.HashedPassword,
		&avatar_url,
		&u.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if avatar_url.Valid {
		u.AvatarURL = &avatar_url.String
	}
	return &u, nil
}

// UserStore exposes the email lookup to the ingestion pipeline.
type UserStore struct{}

func (UserStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return GetUserByEmail(ctx, email)
}

// Avatar
func GetAvatarURL(user_id int64) (string, bool) {
	var p sql.NullString
	if err := db.Client.QueryRow("SELECT avatar_url FROM users WHERE id = ?", user_id).Scan(&p); err != nil {
		return "", false
	}
	return p.String, p.Valid
}

func SetAvatarURL(user_id int64, avatar_url *string) error {
	_, err := db.Client.Exec(`UPDATE users SET avatar_url = ? WHERE id = ?`, avatar_url, user_id)
	return err
}
