package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jellywrapped/internal/auth"
	"jellywrapped/internal/jellyfin"
	"jellywrapped/internal/models"
	"jellywrapped/internal/session"
	"jellywrapped/internal/stats"
)

type stubGateway struct {
	result jellyfin.QueryResult
	err    error
}

func (g *stubGateway) ExecuteQuery(ctx context.Context, query string) (jellyfin.QueryResult, error) {
	return g.result, g.err
}

type stubCatalog struct {
	items map[string]models.ContentItem
}

func (c *stubCatalog) ItemsByID(ctx context.Context, creds models.Credentials, ids []string) (map[string]models.ContentItem, int) {
	resolved := make(map[string]models.ContentItem)
	for _, id := range ids {
		if item, ok := c.items[id]; ok {
			resolved[id] = item
		}
	}
	return resolved, 0
}

func (c *stubCatalog) EpisodeCounts(ctx context.Context, creds models.Credentials, showID string) (int, int, error) {
	return 0, 0, errors.New("not implemented")
}

// testServer wires the full router against a stubbed engine and a fake
// Jellyfin auth endpoint, then logs in and returns a usable bearer token.
func testServer(t *testing.T, gateway *stubGateway, catalog *stubCatalog) (*Server, string) {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Users/AuthenticateByName" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"User": {"Id": "u1", "Name": "alice"}, "AccessToken": "tok"}`))
	}))
	t.Cleanup(upstream.Close)

	authSvc, err := auth.NewService(jellyfin.New(upstream.URL, "api-key"), session.NewCache(), []byte("test-secret"))
	require.NoError(t, err)

	srv := NewServer(stats.New(gateway, catalog), authSvc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username": "alice", "password": "pw"}`))
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
	return srv, login.Token
}

func get(srv *Server, target, token string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t, &stubGateway{}, &stubCatalog{})
	rec := get(srv, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWrappedRequiresAuth(t *testing.T) {
	srv, _ := testServer(t, &stubGateway{}, &stubCatalog{})

	rec := get(srv, "/api/wrapped/movies?start=2024-01-01&end=2024-12-31", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = get(srv, "/api/wrapped/movies?start=2024-01-01&end=2024-12-31", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrappedMovies(t *testing.T) {
	gateway := &stubGateway{result: jellyfin.QueryResult{
		Columns: []string{"ItemId", "PlayCount", "TotalDuration"},
		Rows:    [][]string{{"m1", "2", "7200"}},
	}}
	catalog := &stubCatalog{items: map[string]models.ContentItem{
		"m1": {ID: "m1", Name: "Heat", Type: "Movie", RuntimeSeconds: 3600},
	}}
	srv, token := testServer(t, gateway, catalog)

	rec := get(srv, "/api/wrapped/movies?start=2024-01-01&end=2024-12-31", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var movies []models.AggregatedItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "Heat", movies[0].Item.Name)
	assert.Equal(t, int64(2), movies[0].CompletedWatches)
}

func TestWrappedRejectsBadDates(t *testing.T) {
	srv, token := testServer(t, &stubGateway{}, &stubCatalog{})

	for name, target := range map[string]string{
		"missing start":    "/api/wrapped/movies?end=2024-12-31",
		"malformed start":  "/api/wrapped/movies?start=notadate&end=2024-12-31",
		"malformed end":    "/api/wrapped/movies?start=2024-01-01&end=31-12-2024",
		"end before start": "/api/wrapped/movies?start=2024-12-31&end=2024-01-01",
		"injection":        "/api/wrapped/movies?start=2024-01-01'--&end=2024-12-31",
	} {
		rec := get(srv, target, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestWatchedOnRequiresDate(t *testing.T) {
	srv, token := testServer(t, &stubGateway{}, &stubCatalog{})

	rec := get(srv, "/api/wrapped/watched-on", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = get(srv, "/api/wrapped/watched-on?date=2024-05-01", token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpstreamFailureIsBadGateway(t *testing.T) {
	gateway := &stubGateway{err: errors.New("upstream exploded")}
	srv, token := testServer(t, gateway, &stubCatalog{})

	rec := get(srv, "/api/wrapped/shows?start=2024-01-01&end=2024-12-31", token)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = get(srv, "/api/wrapped/summary?start=2024-01-01&end=2024-12-31", token)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSummary(t *testing.T) {
	srv, token := testServer(t, &stubGateway{}, &stubCatalog{})

	rec := get(srv, "/api/wrapped/summary?start=2024-01-01&end=2024-12-31", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Zero(t, resp.Orphaned)
}

func TestCORSPreflight(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(upstream.Close)
	authSvc, err := auth.NewService(jellyfin.New(upstream.URL, "key"), session.NewCache(), []byte("secret"))
	require.NoError(t, err)

	srv := NewServer(stats.New(&stubGateway{}, &stubCatalog{}), authSvc,
		WithCORSOrigin("https://app.example.com"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"), "third request within the window is refused")
	assert.True(t, rl.allow("10.0.0.2"), "limits are per IP")
}
