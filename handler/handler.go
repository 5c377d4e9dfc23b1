package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"

	"github.com/julianlk522/miniface/config"
	e "github.com/julianlk522/miniface/error"
	util "github.com/julianlk522/miniface/handler/util"
	"github.com/julianlk522/miniface/ingest"
)

var (
	app_name, app_version string

	token_auth *jwtauth.JWTAuth
	token_ttl  time.Duration

	max_upload_bytes int64
	blobs            *ingest.DiskBlobStore
	normalizer       *ingest.Normalizer
)

// Configure must be called before serving (main) or testing.
func Configure(cfg *config.Config, ta *jwtauth.JWTAuth) {
	app_name = cfg.App.Name
	app_version = cfg.App.Version

	token_auth = ta
	token_ttl = cfg.Auth.AccessTokenTTL()

	max_upload_bytes = cfg.Media.MaxUploadBytes
	blobs = ingest.NewDiskBlobStore(cfg.Media.Dir, cfg.Media.MountPath())
	normalizer = &ingest.Normalizer{
		Blobs:              blobs,
		Users:              util.UserStore{},
		Binary:             ingest.NewBinaryResolver(cfg.N8N.BinaryDataDir),
		DefaultAuthorEmail: cfg.N8N.DefaultAuthorEmail,
	}
}

// RenderIngestError picks the response status for an ingestion error.
func RenderIngestError(w http.ResponseWriter, r *http.Request, err error) {
	var max_bytes_err *http.MaxBytesError

	switch {
	case errors.As(err, &max_bytes_err):
		render.Render(w, r, e.ErrContentTooLarge(err))
	case errors.Is(err, e.ErrMissingField),
		errors.Is(err, e.ErrFieldTooLong):
		render.Render(w, r, e.ErrUnprocessable(err))
	case errors.Is(err, e.ErrAuthorNotFound):
		render.Render(w, r, e.ErrNotFound(err))
	case errors.Is(err, e.ErrUnsupportedMediaType),
		errors.Is(err, e.ErrInvalidEncoding),
		errors.Is(err, e.ErrUnreadableBinaryReference),
		errors.Is(err, e.ErrAuthorRequired),
		errors.Is(err, e.ErrMalformedPayload):
		render.Render(w, r, e.ErrInvalidRequest(err))
	default:
		render.Render(w, r, e.Err500(err))
	}
}

func limitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, max_upload_bytes)
}
