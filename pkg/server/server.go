package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/noteline/noteline/pkg/admin"
	"github.com/noteline/noteline/pkg/ai"
	aihttp "github.com/noteline/noteline/pkg/ai/http"
	"github.com/noteline/noteline/pkg/auth"
	"github.com/noteline/noteline/pkg/config"
	"github.com/noteline/noteline/pkg/db"
	"github.com/noteline/noteline/pkg/http/response"
	"github.com/noteline/noteline/pkg/logger"
	"github.com/noteline/noteline/pkg/metrics"
)

// Server wires the HTTP surface together.
type Server struct {
	cfg     *config.Config
	logger  *logger.Logger
	httpSrv *http.Server
}

func New(cfg *config.Config, queries *db.Queries, log *logger.Logger) *Server {
	m := metrics.New()

	factory := ai.NewServiceFactory(log)
	chatService := ai.NewChatService(queries, factory, log).WithObserver(m)
	chatHandler := aihttp.NewChatHandler(chatService, log)
	adminHandler := admin.NewHandler(queries, log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(m.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", m.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.Middleware(queries, log))
		chatHandler.RegisterRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireStaff)
			adminHandler.RegisterRoutes(r)
		})
	})

	return &Server{
		cfg:    cfg,
		logger: log,
		httpSrv: &http.Server{
			Addr:         cfg.ListenAddress,
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Infof("listening on %s", s.cfg.ListenAddress)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
