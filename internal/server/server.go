package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"jellywrapped/internal/auth"
	"jellywrapped/internal/stats"
)

type Server struct {
	router     chi.Router
	engine     *stats.Engine
	auth       *auth.Service
	corsOrigin string
}

func NewServer(engine *stats.Engine, authSvc *auth.Service, opts ...Option) *Server {
	srv := &Server{
		router: chi.NewRouter(),
		engine: engine,
		auth:   authSvc,
	}
	for _, o := range opts {
		o(srv)
	}
	srv.router.Use(middleware.Logger)
	srv.router.Use(middleware.Recoverer)
	srv.routes()
	return srv
}

type Option func(*Server)

func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
