// Package api provides the HTTP API server and handlers for the Stackroom
// library server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/stackroomapp/stackroom-server/internal/service"
	"github.com/stackroomapp/stackroom-server/internal/store"
)

// Services bundles the service dependencies of the HTTP handlers.
type Services struct {
	Books        *service.BookService
	Authors      *service.AuthorService
	Categories   *service.CategoryService
	Members      *service.MemberService
	Loans        *service.LoanService
	Reservations *service.ReservationService
	Catalog      *service.CatalogService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st *store.Store, services *Services, logger *slog.Logger) *Server {
	s := &Server{
		store:    st,
		services: services,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	// Middleware must be installed before humachi registers the
	// OpenAPI routes; chi refuses middleware once a route exists.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Stackroom API", "1.0.0")
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerBookRoutes()
	s.registerAuthorRoutes()
	s.registerCategoryRoutes()
	s.registerMemberRoutes()
	s.registerLoanRoutes()
	s.registerReservationRoutes()

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
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}
