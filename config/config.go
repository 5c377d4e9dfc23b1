package config

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type (
	Config struct {
		App   App
		HTTP  HTTP
		DB    DB
		Auth  Auth
		Media Media
		N8N   N8N
		Log   Log
	}

	App struct {
		Name    string `env:"APP_NAME" envDefault:"miniface-api"`
		Version string `env:"APP_VERSION" envDefault:"0.1.0"`
	}

	HTTP struct {
		Addr string `env:"HTTP_ADDR" envDefault:":8000"`
	}

	DB struct {
		URL string `env:"DATABASE_URL,required,notEmpty"`
	}

	Auth struct {
		SecretKey                string `env:"SECRET_KEY,required,notEmpty"`
		Algorithm                string `env:"ALGORITHM" envDefault:"HS256"`
		AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"1440"`
	}

	Media struct {
		Dir            string `env:"MEDIA_DIR" envDefault:"uploads"`
		MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	}

	// Automation (n8n) ingestion. An empty APIKey disables the endpoint.
	N8N struct {
		APIKey             string `env:"N8N_API_KEY"`
		DefaultAuthorEmail string `env:"N8N_DEFAULT_AUTHOR_EMAIL"`
		BinaryDataDir      string `env:"N8N_BINARY_DATA_DIR"`
	}

	Log struct {
		ErrLogFile string `env:"ERR_LOG_FILE"`
	}
)

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf(
			"missing or invalid environment variables: %w",
			err,
		)
	}

	return cfg, nil
}

func (a Auth) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

// URL path under which stored media is served. Relative dirs keep their
// full path ("data/uploads" -> "/data/uploads"); absolute dirs and dirs
// outside the working directory only contribute their last element.
func (m Media) MountPath() string {
	dir := path.Clean(strings.ReplaceAll(m.Dir, "\\", "/"))

	if path.IsAbs(dir) || strings.Contains(dir, ":") || dir == ".." || strings.HasPrefix(dir, "../") {
		return "/" + path.Base(dir)
	}

	return "/" + dir
}
