package stats

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"jellywrapped/internal/models"
)

// lastWatchedLayout matches the DateCreated text the reporting store keeps.
const lastWatchedLayout = "2006-01-02 15:04:05"

// UnfinishedShows finds series the user has started but not completed:
// strictly more than zero and fewer than all episodes played. Episode
// totals and watched counts are all-time series properties; only the
// last-watched date is scoped to the timeframe.
func (e *Engine) UnfinishedShows(ctx context.Context, creds models.Credentials, tf models.Timeframe) ([]models.UnfinishedShow, error) {
	res, err := e.queries.ExecuteQuery(ctx, lastWatchedQuery(tf))
	if err != nil {
		return nil, err
	}

	t, err := newTable(res, "ItemId", "LastWatched")
	if err != nil {
		return nil, err
	}

	h := e.buildHierarchy(ctx, creds, distinctIDs(t))

	type candidate struct {
		show        models.ContentItem
		lastWatched time.Time
	}
	candidates := make(map[string]*candidate)

	for _, row := range t.rows {
		id := t.cell(row, "ItemId")
		if id == "" {
			continue
		}
		show, ok := h.showForByName(id)
		if !ok {
			continue
		}

		watched := parseWatchedDate(t.cell(row, "LastWatched"))
		c := candidates[show.ID]
		if c == nil {
			candidates[show.ID] = &candidate{show: show, lastWatched: watched}
		} else if watched.After(c.lastWatched) {
			c.lastWatched = watched
		}
	}

	shows := make([]models.UnfinishedShow, 0, len(candidates))
	for _, c := range candidates {
		total, watched, err := e.catalog.EpisodeCounts(ctx, creds, c.show.ID)
		if err != nil {
			log.Printf("stats: episode counts for %q: %v", c.show.Name, err)
			continue
		}
		if watched <= 0 || watched >= total {
			continue
		}
		shows = append(shows, models.UnfinishedShow{
			Item:            c.show,
			WatchedEpisodes: watched,
			TotalEpisodes:   total,
			LastWatched:     c.lastWatched,
		})
	}
	sort.Slice(shows, func(i, j int) bool {
		return shows[i].LastWatched.After(shows[j].LastWatched)
	})
	return shows, nil
}

// showForByName resolves an episode's show treating its parent as a season
// container only when the parent's name carries the literal "Season";
// otherwise the parent itself is the show. Catalog entries for virtual
// seasons don't always carry a type, so the name is the signal here.
func (h *hierarchy) showForByName(episodeID string) (models.ContentItem, bool) {
	ep, ok := h.items[episodeID]
	if !ok {
		return models.ContentItem{}, false
	}
	parent, ok := h.items[ep.ParentID]
	if !ok {
		return models.ContentItem{}, false
	}
	if !strings.Contains(parent.Name, "Season") {
		return parent, true
	}
	show, ok := h.items[parent.ParentID]
	if !ok {
		return models.ContentItem{}, false
	}
	return show, true
}

func parseWatchedDate(s string) time.Time {
	if t, err := time.Parse(lastWatchedLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(dateLayout, s)
	return t
}
