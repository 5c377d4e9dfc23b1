package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"

	"github.com/julianlk522/miniface/config"
	"github.com/julianlk522/miniface/db"
	h "github.com/julianlk522/miniface/handler"
	util "github.com/julianlk522/miniface/handler/util"
	m "github.com/julianlk522/miniface/middleware"
)

// per-IP requests per minute on the automation route
var automation_limit_per_minute = 120

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err = db.Connect(cfg.DB.URL); err != nil {
		log.Fatal(err)
	}
	defer db.Client.Close()

	if err = os.MkdirAll(cfg.Media.Dir, 0o755); err != nil {
		log.Fatalf("could not create media dir %s: %s", cfg.Media.Dir, err)
	}

	token_auth := jwtauth.New(cfg.Auth.Algorithm, []byte(cfg.Auth.SecretKey), nil)
	h.Configure(cfg, token_auth)

	log_formatter, err := m.NewSplitLogFormatter(log.New(os.Stdout, "", log.LstdFlags), cfg.Log.ErrLogFile)
	if err != nil {
		log.Fatal(err)
	}

	r := NewRouter(cfg, token_auth, log_formatter)

	log.Printf("%s %s listening on %s", cfg.App.Name, cfg.App.Version, cfg.HTTP.Addr)
	if err := http.ListenAndServe(cfg.HTTP.Addr, r); err != nil {
		log.Fatal(err)
	}
}

func NewRouter(cfg *config.Config, token_auth *jwtauth.JWTAuth, log_formatter *m.SplitLogFormatter) chi.Router {
	r := chi.NewRouter()

	// ROUTER-WIDE MIDDLEWARE
	// LOGGER
	// should go before any other middleware that may change
	// the response, such as middleware.Recoverer
	// split logger "tees" requests with status code 300+
	// to the err log file in addition to stdout
	r.Use(m.SplitRequestLogger(log_formatter))

	// RATE LIMIT
	// per minute (overall)
	r.Use(m.LimitAll(4000, time.Minute))
	// per minute (IP)
	r.Use(m.LimitByIP(600, time.Minute))
	// per second (IP)
	// (stop short bursts quickly)
	r.Use(m.LimitByIP(50, time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{
			"Authorization",
			"Content-Type",
			m.API_KEY_HEADER,
		},
	}))

	// ROUTES
	// PUBLIC
	r.Get("/health", h.HealthCheck)

	// stored blobs
	media_path := cfg.Media.MountPath()
	r.
		With(m.MediaHeaders).
		Handle(
			media_path+"/*",
			http.StripPrefix(media_path+"/", http.FileServer(http.Dir(cfg.Media.Dir))),
		)

	r.Route("/api", func(r chi.Router) {
		// auth routes get a tighter per-IP limit (password guessing)
		r.Group(func(r chi.Router) {
			r.Use(m.LimitByIP(10, time.Minute))

			r.Post("/auth/register", h.SignUp)
			r.Post("/auth/token", h.LogIn)
		})

		r.
			With(m.Pagination).
			Get("/posts", h.GetPosts)

		// PROTECTED
		// (bearer token required)
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(token_auth))
			r.Use(jwtauth.Authenticator(token_auth))
			r.Use(m.CurrentUser(util.GetUserByID))

			// Users
			r.Get("/users/me", h.GetMe)
			r.Post("/users/me/avatar", h.UploadAvatar)
			r.Delete("/users/me/avatar", h.DeleteAvatar)

			// Posts
			r.Post("/posts", h.CreatePost)
			r.Delete("/posts/{post_id}", h.DeletePost)
		})

		// AUTOMATION
		// (n8n API key required)
		r.Group(func(r chi.Router) {
			// limit first so failed key guesses count too
			r.Use(m.LimitByIP(automation_limit_per_minute, time.Minute))
			r.Use(m.RequireAPIKey(cfg.N8N.APIKey))

			r.Post("/automation/n8n/posts", h.CreatePostFromAutomation)
		})
	})

	return r
}
