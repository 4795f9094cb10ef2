package stats

import (
	"context"
	"time"

	"jellywrapped/internal/models"
)

// WatchedOn lists everything played on one calendar day: the movies
// watched plus the shows any watched episodes belong to, deduplicated and
// unranked.
func (e *Engine) WatchedOn(ctx context.Context, creds models.Credentials, date time.Time) ([]models.ContentItem, error) {
	tf := dayTimeframe(date)

	movieRes, err := e.queries.ExecuteQuery(ctx, itemTotalsQuery(models.MediaTypeMovie, tf))
	if err != nil {
		return nil, err
	}
	movieTable, err := newTable(movieRes, "ItemId")
	if err != nil {
		return nil, err
	}

	episodeRes, err := e.queries.ExecuteQuery(ctx, episodeRowsQuery(tf))
	if err != nil {
		return nil, err
	}
	episodeTable, err := newTable(episodeRes, "ItemId")
	if err != nil {
		return nil, err
	}

	movieIDs := distinctIDs(movieTable)
	movies, _ := e.catalog.ItemsByID(ctx, creds, movieIDs)

	h := e.buildHierarchy(ctx, creds, distinctIDs(episodeTable))

	var watched []models.ContentItem
	seen := make(map[string]bool)

	for _, id := range movieIDs {
		if item, ok := movies[id]; ok && !seen[item.ID] {
			seen[item.ID] = true
			watched = append(watched, item)
		}
	}
	for _, id := range distinctIDs(episodeTable) {
		if show, ok := h.showFor(id); ok && !seen[show.ID] {
			seen[show.ID] = true
			watched = append(watched, show)
		}
	}
	return watched, nil
}
