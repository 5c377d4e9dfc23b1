package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	e "github.com/julianlk522/miniface/error"
)

var ErrRateLimited = errors.New("rate limit exceeded, try again later")

// LimitByIP allows limit requests per window for each client IP and
// answers the rest with a JSON 429.
func LimitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(RateLimited),
	)
}

// LimitAll shares one budget between all clients.
func LimitAll(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return "*", nil
		}),
		httprate.WithLimitHandler(RateLimited),
	)
}

func RateLimited(w http.ResponseWriter, r *http.Request) {
	render.Render(w, r, e.ErrTooManyRequests(ErrRateLimited))
}
