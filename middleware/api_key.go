package middleware

import (
	"crypto/hmac"
	"net/http"

	"github.com/go-chi/render"

	e "github.com/julianlk522/miniface/error"
)

const API_KEY_HEADER = "X-N8N-API-Key"

// RequireAPIKey guards automation routes. An empty configured key means
// the feature is off (503); a missing or wrong key is 401.
func RequireAPIKey(configured_key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if configured_key == "" {
				render.Render(w, r, e.ErrServiceUnavailable(e.ErrAutomationUnavailable))
				return
			}

			provided_key := r.Header.Get(API_KEY_HEADER)
			if provided_key == "" || !hmac.Equal([]byte(provided_key), []byte(configured_key)) {
				render.Render(w, r, e.ErrUnauthorized(e.ErrInvalidAPIKey))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
