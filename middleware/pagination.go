package middleware

import (
	"context"
	"net/http"
	"strconv"
)

func Pagination(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := 1

		page_params := r.URL.Query().Get("page")
		if page_params != "" {
			if page_int, err := strconv.Atoi(page_params); err == nil && page_int > 1 {
				page = page_int
			}
		}

		ctx := context.WithValue(r.Context(), PageKey, page)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
