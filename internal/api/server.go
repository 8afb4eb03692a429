// Package api provides the HTTP API server and handlers for the Up4Down catalog.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/up4down/up4down-server/internal/auth"
	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/http/response"
	"github.com/up4down/up4down-server/internal/ratelimit"
	"github.com/up4down/up4down-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalogService  *service.CatalogService
	suggestService  *service.SuggestService
	ratingService   *service.RatingService
	downloadService *service.DownloadService
	itemService     *service.ItemService
	categoryService *service.CategoryService
	adminService    *service.AdminService
	tokens          *auth.TokenService
	ratingLimiter   *ratelimit.KeyedRateLimiter
	corsOrigins     []string
	router          *chi.Mux
	logger          *slog.Logger
}

// ServerOptions bundles the dependencies for NewServer.
type ServerOptions struct {
	Catalog       *service.CatalogService
	Suggest       *service.SuggestService
	Ratings       *service.RatingService
	Downloads     *service.DownloadService
	Items         *service.ItemService
	Categories    *service.CategoryService
	Admin         *service.AdminService
	Tokens        *auth.TokenService
	RatingLimiter *ratelimit.KeyedRateLimiter
	Server        config.ServerConfig
	Logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts ServerOptions) *Server {
	s := &Server{
		catalogService:  opts.Catalog,
		suggestService:  opts.Suggest,
		ratingService:   opts.Ratings,
		downloadService: opts.Downloads,
		itemService:     opts.Items,
		categoryService: opts.Categories,
		adminService:    opts.Admin,
		tokens:          opts.Tokens,
		ratingLimiter:   opts.RatingLimiter,
		corsOrigins:     opts.Server.CORSOrigins,
		router:          chi.NewRouter(),
		logger:          opts.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Public browsing surface.
		r.Get("/categories", s.handleListCategories)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", s.handleBrowseItems)
			r.Get("/featured", s.handleFeaturedItems)
			r.Get("/{id}", s.handleGetItem)
			r.Get("/{id}/related", s.handleRelatedItems)
			r.With(s.rateLimitRatings).Post("/{id}/ratings", s.handleSubmitRating)
			r.Post("/{id}/download", s.handleTriggerDownload)
		})

		r.Get("/search/suggest", s.handleSuggest)

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.handleAdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Route("/items", func(r chi.Router) {
					r.Post("/", s.handleCreateItem)
					r.Patch("/{id}", s.handleUpdateItem)
					r.Delete("/{id}", s.handleDeleteItem)
					r.Post("/script/test", s.handleTestScript)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Post("/", s.handleCreateCategory)
					r.Patch("/{id}", s.handleUpdateCategory)
					r.Delete("/{id}", s.handleDeleteCategory)
				})
			})
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
