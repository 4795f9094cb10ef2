package stats

import (
	"context"
	"sort"

	"jellywrapped/internal/models"
)

// TopShows rolls episode play sessions up to their shows. EpisodeCount is
// the number of distinct episodes of that show seen in the timeframe, not
// the number of play events; a replayed episode counts once. Each play's
// duration is clamped to [0, episode runtime] before summing so a single
// anomalous over-long session cannot inflate a show's total beyond what
// the content physically holds. The second return value counts play rows
// dropped because their parent chain could not be resolved.
func (e *Engine) TopShows(ctx context.Context, creds models.Credentials, tf models.Timeframe) ([]models.AggregatedShow, int, error) {
	res, err := e.queries.ExecuteQuery(ctx, episodeRowsQuery(tf))
	if err != nil {
		return nil, 0, err
	}

	t, err := newTable(res, "ItemId", "PlayDuration")
	if err != nil {
		return nil, 0, err
	}

	h := e.buildHierarchy(ctx, creds, distinctIDs(t))

	type rollup struct {
		show     models.ContentItem
		episodes map[string]bool
		seconds  int64
	}
	byShow := make(map[string]*rollup)

	for _, row := range t.rows {
		id := t.cell(row, "ItemId")
		if id == "" {
			continue
		}
		show, ok := h.showFor(id)
		if !ok {
			continue
		}

		r := byShow[show.ID]
		if r == nil {
			r = &rollup{show: show, episodes: make(map[string]bool)}
			byShow[show.ID] = r
		}
		r.episodes[id] = true

		ep, _ := h.item(id)
		r.seconds += clampDuration(t.cellInt(row, "PlayDuration"), ep.RuntimeSeconds)
	}

	shows := make([]models.AggregatedShow, 0, len(byShow))
	for _, r := range byShow {
		shows = append(shows, models.AggregatedShow{
			Item:            r.show,
			ShowName:        r.show.Name,
			EpisodeCount:    len(r.episodes),
			PlaybackSeconds: r.seconds,
		})
	}
	sort.Slice(shows, func(i, j int) bool {
		return shows[i].EpisodeCount > shows[j].EpisodeCount
	})
	return shows, h.orphans, nil
}

// clampDuration floors a play duration at zero and ceilings it at the
// episode's runtime; an unknown runtime leaves the duration unclamped.
func clampDuration(seconds, runtime int64) int64 {
	if seconds < 0 {
		return 0
	}
	if runtime > 0 && seconds > runtime {
		return runtime
	}
	return seconds
}

// distinctIDs collects the distinct nonempty ItemId values of a result.
func distinctIDs(t *table) []string {
	seen := make(map[string]bool, len(t.rows))
	ids := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.cell(row, "ItemId")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
