package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(limitBody)
		r.Use(corsMiddleware(s.corsOrigin))
		r.With(rateLimit).Post("/auth/login", s.auth.HandleLogin)
		r.Post("/auth/logout", s.auth.HandleLogout)
	})

	s.router.Route("/api/wrapped", func(r chi.Router) {
		r.Use(limitBody)
		r.Use(jsonContentType)
		r.Use(corsMiddleware(s.corsOrigin))
		r.Use(RequireAuth(s.auth))

		r.Get("/movies", s.handleTopMovies)
		r.Get("/shows", s.handleTopShows)
		r.Get("/audio", s.handleTopAudio)
		r.Get("/music-videos", s.handleTopMusicVideos)
		r.Get("/livetv", s.handleTopLiveTV)
		r.Get("/devices", s.handleDeviceStats)
		r.Get("/punchcard", s.handlePunchCard)
		r.Get("/monthly-shows", s.handleMonthlyShows)
		r.Get("/unfinished", s.handleUnfinishedShows)
		r.Get("/actors", s.handleFavoriteActors)
		r.Get("/watched-on", s.handleWatchedOn)
		r.Get("/summary", s.handleSummary)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
