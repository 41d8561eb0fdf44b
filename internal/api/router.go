package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/futureed/archive/internal/catalog"
	"github.com/futureed/archive/internal/imaging"
	"github.com/futureed/archive/internal/metrics"
)

// jsonBodyLimit caps non-upload request bodies.
const jsonBodyLimit = 1 << 20

// Config holds the dependencies and options for NewRouter.
type Config struct {
	Service        *catalog.Service
	Blobs          BlobOpener
	CORSOrigins    []string
	AuthRateLimit  int
	HandlerTimeout time.Duration
	MaxUploadBytes int64
	IsDevelopment  bool
}

// NewRouter creates the HTTP router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = imaging.MaxInputBytes
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = 30 * time.Second
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}

	authHandler := &AuthHandler{Svc: cfg.Service}
	itemsHandler := &ItemsHandler{Svc: cfg.Service, MaxUploadBytes: cfg.MaxUploadBytes}
	favoritesHandler := &FavoritesHandler{Svc: cfg.Service}
	commentsHandler := &CommentsHandler{Svc: cfg.Service}
	uploadsHandler := &UploadsHandler{Blobs: cfg.Blobs}
	healthHandler := &HealthHandler{Svc: cfg.Service}

	requireAuth := RequireAuth(cfg.Service)
	optionalAuth := OptionalAuth(cfg.Service)

	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'none'; img-src 'self'",
		IsDevelopment:         cfg.IsDevelopment,
	})

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		LoggingMiddleware,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}),
		middleware.Timeout(cfg.HandlerTimeout),
		sec.Handler,
	)

	r.Get("/", healthHandler.Root)
	r.Get("/healthz", healthHandler.Check)
	r.Handle("/metrics", metrics.Handler())
	r.Get("/uploads/{name}", uploadsHandler.Serve)

	r.Route("/api", func(r chi.Router) {
		// Multipart uploads set their own limit.
		r.With(requireAuth).Post("/upload", itemsHandler.Upload)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequestSize(jsonBodyLimit))

			r.Group(func(r chi.Router) {
				if cfg.AuthRateLimit > 0 {
					r.Use(httprate.LimitByIP(cfg.AuthRateLimit, time.Minute))
				}
				r.Post("/signup", authHandler.Signup)
				r.Post("/login", authHandler.Login)
			})

			// Public reads.
			r.Get("/items", itemsHandler.List)
			r.Get("/book/{id}", itemsHandler.Get)
			r.Get("/search/{key}", itemsHandler.Search)
			r.Get("/hearts/{userId}", favoritesHandler.List)
			r.Get("/comments/{id}", commentsHandler.List)
			r.Post("/items/{id}/decrease", itemsHandler.Decrease)

			// Token optional; a token identity overrides the body.
			r.With(optionalAuth).Post("/toggle-heart", favoritesHandler.Toggle)
			r.With(optionalAuth).Post("/comments", commentsHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/protected", authHandler.Protected)
				r.Get("/users", authHandler.ListUsers)
				r.Delete("/items/{id}", itemsHandler.Delete)
				r.Put("/comments/{id}", commentsHandler.Update)
				r.Delete("/comments/{id}", commentsHandler.Delete)
			})
		})
	})

	return r
}
