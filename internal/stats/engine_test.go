package stats

import (
	"context"
	"errors"
	"strings"
	"time"

	"jellywrapped/internal/jellyfin"
	"jellywrapped/internal/models"
)

var testCreds = models.Credentials{UserID: "user1", Token: "tok1"}

func year2024() models.Timeframe {
	return models.Timeframe{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

// fakeQueries routes each query to a canned result by matching fragments
// of the generated SQL.
type fakeQueries struct {
	results map[string]jellyfin.QueryResult
	err     error
	queries []string
}

func (f *fakeQueries) ExecuteQuery(ctx context.Context, query string) (jellyfin.QueryResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return jellyfin.QueryResult{}, f.err
	}
	for fragment, res := range f.results {
		if strings.Contains(query, fragment) {
			return res, nil
		}
	}
	return jellyfin.QueryResult{}, nil
}

type episodeCount struct {
	total   int
	watched int
}

type fakeCatalog struct {
	items     map[string]models.ContentItem
	counts    map[string]episodeCount
	countsErr map[string]error
	failed    int
	resolved  [][]string
}

func (f *fakeCatalog) ItemsByID(ctx context.Context, creds models.Credentials, ids []string) (map[string]models.ContentItem, int) {
	f.resolved = append(f.resolved, ids)
	out := make(map[string]models.ContentItem, len(ids))
	for _, id := range ids {
		if item, ok := f.items[id]; ok {
			out[id] = item
		}
	}
	return out, f.failed
}

func (f *fakeCatalog) EpisodeCounts(ctx context.Context, creds models.Credentials, showID string) (int, int, error) {
	if err := f.countsErr[showID]; err != nil {
		return 0, 0, err
	}
	c, ok := f.counts[showID]
	if !ok {
		return 0, 0, errors.New("unknown show")
	}
	return c.total, c.watched, nil
}

func result(columns []string, rows ...[]string) jellyfin.QueryResult {
	return jellyfin.QueryResult{Columns: columns, Rows: rows}
}

// episodeFixture builds the standard three-level tree used across tests:
// two shows, one with a season level and one with episodes directly under
// the series.
func episodeFixture() map[string]models.ContentItem {
	return map[string]models.ContentItem{
		"ep1": {ID: "ep1", ParentID: "season1", Name: "Pilot", Type: "Episode", RuntimeSeconds: 1800},
		"ep2": {ID: "ep2", ParentID: "season1", Name: "Two", Type: "Episode", RuntimeSeconds: 1800},
		"ep3": {ID: "ep3", ParentID: "show2", Name: "Special", Type: "Episode", RuntimeSeconds: 2400},
		"season1": {ID: "season1", ParentID: "show1", Name: "Season 1", Type: "Season"},
		"show1":   {ID: "show1", Name: "Severance", Type: "Series"},
		"show2":   {ID: "show2", Name: "Black Mirror", Type: "Series"},
	}
}
