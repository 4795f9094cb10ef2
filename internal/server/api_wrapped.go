package server

import (
	"log"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"jellywrapped/internal/models"
)

// parseTimeframe validates the start/end query params before anything
// reaches query construction. Query text is assembled by interpolation
// downstream, so rejecting malformed dates here is the injection boundary:
// only values that parsed as 2006-01-02 continue.
func parseTimeframe(r *http.Request) (models.Timeframe, string) {
	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		return models.Timeframe{}, "invalid start, use YYYY-MM-DD"
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		return models.Timeframe{}, "invalid end, use YYYY-MM-DD"
	}
	tf := models.Timeframe{Start: start, End: end}
	if err := tf.Validate(); err != nil {
		return models.Timeframe{}, err.Error()
	}
	return tf, ""
}

func requestSession(w http.ResponseWriter, r *http.Request) (models.Session, bool) {
	sess, ok := SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return sess, ok
}

// run executes one aggregation with the common plumbing: timeframe
// validation, the session's credentials, and upstream error translation.
func (s *Server) run(w http.ResponseWriter, r *http.Request, view string, fn func(models.Credentials, models.Timeframe) (any, error)) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}
	tf, msg := parseTimeframe(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	result, err := fn(sess.Credentials(), tf)
	if err != nil {
		log.Printf("stats: %s: %v", view, err)
		writeError(w, http.StatusBadGateway, "upstream query failed")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTopMovies(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "movies", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		return s.engine.TopMovies(r.Context(), creds, tf)
	})
}

func (s *Server) handleTopAudio(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "audio", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		return s.engine.TopAudio(r.Context(), creds, tf)
	})
}

func (s *Server) handleTopMusicVideos(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "music videos", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		return s.engine.TopMusicVideos(r.Context(), creds, tf)
	})
}

func (s *Server) handleTopLiveTV(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "livetv", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		return s.engine.TopLiveTVChannels(r.Context(), creds, tf)
	})
}

type showsResponse struct {
	Shows    []models.AggregatedShow `json:"shows"`
	Orphaned int                     `json:"orphaned"`
}

func (s *Server) handleTopShows(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "shows", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		shows, orphaned, err := s.engine.TopShows(r.Context(), creds, tf)
		return showsResponse{Shows: shows, Orphaned: orphaned}, err
	})
}

func (s *Server) handleDeviceStats(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "devices", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		return s.engine.DeviceStats(r.Context(), creds, tf)
	})
}

func (s *Server) handlePunchCard(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "punchcard", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		return s.engine.PunchCard(r.Context(), creds, tf)
	})
}

type monthlyResponse struct {
	Months   []models.MonthlyShow `json:"months"`
	Orphaned int                  `json:"orphaned"`
}

func (s *Server) handleMonthlyShows(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "monthly shows", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		months, orphaned, err := s.engine.MonthlyShows(r.Context(), creds, tf)
		return monthlyResponse{Months: months, Orphaned: orphaned}, err
	})
}

func (s *Server) handleUnfinishedShows(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "unfinished shows", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		return s.engine.UnfinishedShows(r.Context(), creds, tf)
	})
}

func (s *Server) handleFavoriteActors(w http.ResponseWriter, r *http.Request) {
	s.run(w, r, "favorite actors", func(creds models.Credentials, tf models.Timeframe) (any, error) {
		return s.engine.FavoriteActors(r.Context(), creds, tf)
	})
}

func (s *Server) handleWatchedOn(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date, use YYYY-MM-DD")
		return
	}

	items, err := s.engine.WatchedOn(r.Context(), sess.Credentials(), date)
	if err != nil {
		log.Printf("stats: watched on: %v", err)
		writeError(w, http.StatusBadGateway, "upstream query failed")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type summaryResponse struct {
	Movies       []models.AggregatedItem `json:"movies"`
	Shows        []models.AggregatedShow `json:"shows"`
	Devices      models.DeviceStats      `json:"devices"`
	PunchCard    []models.PunchCell      `json:"punch_card"`
	MonthlyShows []models.MonthlyShow    `json:"monthly_shows"`
	Actors       []models.FavoriteActor  `json:"actors"`
	Orphaned     int                     `json:"orphaned"`
}

// handleSummary fans the independent aggregations out concurrently; they
// share no state beyond the upstream gateways.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sess, ok := requestSession(w, r)
	if !ok {
		return
	}
	tf, msg := parseTimeframe(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	creds := sess.Credentials()

	var resp summaryResponse
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		var err error
		resp.Movies, err = s.engine.TopMovies(ctx, creds, tf)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Shows, resp.Orphaned, err = s.engine.TopShows(ctx, creds, tf)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Devices, err = s.engine.DeviceStats(ctx, creds, tf)
		return err
	})
	g.Go(func() error {
		var err error
		resp.PunchCard, err = s.engine.PunchCard(ctx, creds, tf)
		return err
	})
	g.Go(func() error {
		var err error
		resp.MonthlyShows, _, err = s.engine.MonthlyShows(ctx, creds, tf)
		return err
	})
	g.Go(func() error {
		var err error
		resp.Actors, err = s.engine.FavoriteActors(ctx, creds, tf)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Printf("stats: summary: %v", err)
		writeError(w, http.StatusBadGateway, "upstream query failed")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
