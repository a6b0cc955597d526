// Package server provides the HTTP server and routing for partydex.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/partydex/partydex/internal/config"
	"github.com/partydex/partydex/internal/di"
	authhandlers "github.com/partydex/partydex/internal/modules/auth/handlers"
	pokemonhandlers "github.com/partydex/partydex/internal/modules/pokemon/handlers"
	teamhandlers "github.com/partydex/partydex/internal/modules/team/handlers"
	typecharthandlers "github.com/partydex/partydex/internal/modules/typechart/handlers"
)

// Config holds server configuration
type Config struct {
	Log       zerolog.Logger
	Config    *config.Config
	Container *di.Container // DI container with all services
	Jobs      *di.JobInstances
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	container      *di.Container
	systemHandlers *SystemHandlers
	startedAt      time.Time
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Config,
		container: cfg.Container,
		startedAt: time.Now(),
	}

	s.systemHandlers = NewSystemHandlers(
		cfg.Container.PokemonService,
		cfg.Container.TypeChart,
		cfg.Container.DB,
		cfg.Jobs.Rebuild,
		cfg.Jobs.Scheduler,
		cfg.Log,
	)

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	// No WriteTimeout: event streams stay open; non-streaming routes are bounded by middleware.Timeout
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(devMode bool) {
	// Recovery from panics
	s.router.Use(middleware.Recoverer)

	// Request ID
	s.router.Use(middleware.RequestID)

	// Real IP
	s.router.Use(middleware.RealIP)

	// Logging
	s.router.Use(s.loggingMiddleware)

	// CORS: cookie sessions need an explicit origin with credentials
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Compress responses
	if !devMode {
		s.router.Use(middleware.Compress(5, "application/json"))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	c := s.container
	s.router.Route("/api", func(r chi.Router) {
		// Long-lived streams sit outside the request timeout
		eventsStream := NewEventsStreamHandler(c.EventBus, s.log)
		r.Get("/events/stream", eventsStream.ServeHTTP)
		eventsWS := NewEventsWebSocketHandler(c.EventBus, []string{s.cfg.FrontendURL}, s.log)
		r.Get("/events/ws", eventsWS.ServeHTTP)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Route("/system", func(r chi.Router) {
				r.Get("/status", s.systemHandlers.HandleSystemStatus)
				r.Post("/rebuild", s.systemHandlers.HandleRebuild)
			})

			pokemonhandlers.NewHandler(c.PokemonService, s.log).RegisterRoutes(r)
			typecharthandlers.NewHandler(c.Analyzer, c.TypeChart, s.log).RegisterRoutes(r)

			authHandler := authhandlers.NewHandler(c.AuthService, s.cfg.CookieSecure, s.log)
			authHandler.RegisterRoutes(r)
			teamhandlers.NewHandler(c.TeamService, authHandler.RequireAuth, s.log).RegisterRoutes(r)
		})
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleHealth reports liveness; the service is alive even while caches build.
// An unreachable database answers 503.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status, code := "healthy", http.StatusOK
	dbOK := true
	if s.container.DB != nil {
		if err := s.container.DB.QuickCheck(r.Context()); err != nil {
			s.log.Error().Err(err).Msg("Database ping failed")
			status, code, dbOK = "unhealthy", http.StatusServiceUnavailable, false
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         status,
		"database_ok":    dbOK,
		"uptime_seconds": int64(time.Since(s.startedAt).Seconds()),
		"roster_ready":   s.container.PokemonService.Ready(),
		"matrix_ready":   s.container.TypeChart.Ready(),
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
