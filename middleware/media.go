package middleware

import (
	"net/http"
	"path"
	"strings"
)

// Raster formats browsers render without running script.
var inline_media_extensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".avif": true,
}

// MediaHeaders hardens responses for stored blobs. Content is never
// sniffed or allowed to run script, and anything that is not a raster
// image (svg, html...) is sent as a download.
func MediaHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Content-Security-Policy", "default-src 'none'; sandbox")

		ext := strings.ToLower(path.Ext(r.URL.Path))
		if !inline_media_extensions[ext] {
			h.Set("Content-Disposition", "attachment")
		}

		next.ServeHTTP(w, r)
	})
}
