// Package stats turns raw playback reporting rows into the derived views
// the year-in-review surfaces: top items, show rollups, device and
// time-of-day breakdowns, monthly highlights, unfinished series, and
// favorite actors. All aggregation is request-scoped; nothing is cached
// between calls.
package stats

import (
	"context"

	"jellywrapped/internal/jellyfin"
	"jellywrapped/internal/models"
)

// QueryGateway executes one custom query against the playback reporting
// endpoint. A gateway failure is fatal to the enclosing aggregation.
type QueryGateway interface {
	ExecuteQuery(ctx context.Context, query string) (jellyfin.QueryResult, error)
}

// Catalog resolves content ids to metadata. Resolution failures degrade
// results (missing items are skipped) rather than failing the aggregation.
type Catalog interface {
	ItemsByID(ctx context.Context, creds models.Credentials, ids []string) (map[string]models.ContentItem, int)
	EpisodeCounts(ctx context.Context, creds models.Credentials, showID string) (total, watched int, err error)
}

type Engine struct {
	queries QueryGateway
	catalog Catalog
}

func New(q QueryGateway, c Catalog) *Engine {
	return &Engine{queries: q, catalog: c}
}
