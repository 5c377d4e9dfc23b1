package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/lestrrat-go/jwx/v2/jwt"

	e "github.com/julianlk522/miniface/error"
	"github.com/julianlk522/miniface/model"
)

// Looks up the user a verified token belongs to. Returns a nil user
// when the ID no longer exists.
type UserByIDFunc func(ctx context.Context, id int64) (*model.User, error)

// CurrentUser must run after jwtauth.Verifier / jwtauth.Authenticator.
// It resolves the token subject to a user and rejects tokens whose user
// is gone.
func CurrentUser(find_user UserByIDFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				render.Render(w, r, e.ErrUnauthorized(e.ErrInvalidCredentials))
				return
			}

			user_id, err := UserIDFromToken(token)
			if err != nil {
				render.Render(w, r, e.ErrUnauthorized(e.ErrInvalidCredentials))
				return
			}

			user, err := find_user(r.Context(), user_id)
			if err != nil {
				render.Render(w, r, e.Err500(err))
				return
			} else if user == nil {
				render.Render(w, r, e.ErrUnauthorized(e.ErrInvalidCredentials))
				return
			}

			ctx := context.WithValue(r.Context(), CurrentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func UserIDFromToken(token jwt.Token) (int64, error) {
	sub := token.Subject()
	if sub == "" {
		return 0, e.ErrInvalidCredentials
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidCredentials
	}

	return id, nil
}

// Panics if CurrentUser did not run, like a missing route group would.
func UserFromContext(ctx context.Context) *model.User {
	return ctx.Value(CurrentUserKey).(*model.User)
}
