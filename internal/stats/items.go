package stats

import (
	"context"
	"math"
	"sort"

	"jellywrapped/internal/models"
)

// TopItems aggregates plays of one item type over the timeframe. For each
// item with a known positive runtime, completed watches are the total
// watched time divided by the runtime, rounded, and never below 1: a
// single marathon session that spans two runtimes counts as two
// completions, and a short partial watch still counts as one. Items
// without a runtime fall back to the raw play count.
func (e *Engine) TopItems(ctx context.Context, creds models.Credentials, tf models.Timeframe, itemType models.MediaType) ([]models.AggregatedItem, error) {
	res, err := e.queries.ExecuteQuery(ctx, itemTotalsQuery(itemType, tf))
	if err != nil {
		return nil, err
	}

	t, err := newTable(res, "ItemId", "PlayCount", "TotalDuration")
	if err != nil {
		return nil, err
	}

	type totals struct {
		playCount int64
		duration  int64
	}
	byID := make(map[string]totals, len(t.rows))
	ids := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		id := t.cell(row, "ItemId")
		if id == "" {
			continue
		}
		if _, ok := byID[id]; !ok {
			ids = append(ids, id)
		}
		tot := byID[id]
		tot.playCount += t.cellInt(row, "PlayCount")
		tot.duration += t.cellInt(row, "TotalDuration")
		byID[id] = tot
	}

	resolved, _ := e.catalog.ItemsByID(ctx, creds, ids)

	items := make([]models.AggregatedItem, 0, len(resolved))
	for _, id := range ids {
		item, ok := resolved[id]
		if !ok {
			continue
		}
		tot := byID[id]
		completed := tot.playCount
		if item.RuntimeSeconds > 0 {
			completed = int64(math.Round(float64(tot.duration) / float64(item.RuntimeSeconds)))
			if completed < 1 {
				completed = 1
			}
		}
		items = append(items, models.AggregatedItem{
			Item:              item,
			PlayCount:         tot.playCount,
			CompletedWatches:  completed,
			TotalWatchSeconds: tot.duration,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CompletedWatches != items[j].CompletedWatches {
			return items[i].CompletedWatches > items[j].CompletedWatches
		}
		return items[i].TotalWatchSeconds > items[j].TotalWatchSeconds
	})
	return items, nil
}

func (e *Engine) TopMovies(ctx context.Context, creds models.Credentials, tf models.Timeframe) ([]models.AggregatedItem, error) {
	return e.TopItems(ctx, creds, tf, models.MediaTypeMovie)
}

func (e *Engine) TopAudio(ctx context.Context, creds models.Credentials, tf models.Timeframe) ([]models.AggregatedItem, error) {
	return e.TopItems(ctx, creds, tf, models.MediaTypeAudio)
}

func (e *Engine) TopMusicVideos(ctx context.Context, creds models.Credentials, tf models.Timeframe) ([]models.AggregatedItem, error) {
	return e.TopItems(ctx, creds, tf, models.MediaTypeMusicVideo)
}

func (e *Engine) TopLiveTVChannels(ctx context.Context, creds models.Credentials, tf models.Timeframe) ([]models.AggregatedItem, error) {
	return e.TopItems(ctx, creds, tf, models.MediaTypeLiveTV)
}
