package stats

import (
	"context"
	"sort"

	"jellywrapped/internal/models"
)

// MonthlyShows picks the most-watched show of each calendar month in the
// timeframe, alongside that month's total across all shows. Episodes whose
// show cannot be resolved are excluded from the month's total as well, so
// the top show's share is measured against a consistent denominator. The
// second return value counts such excluded episodes.
func (e *Engine) MonthlyShows(ctx context.Context, creds models.Credentials, tf models.Timeframe) ([]models.MonthlyShow, int, error) {
	res, err := e.queries.ExecuteQuery(ctx, monthlyEpisodeQuery(tf))
	if err != nil {
		return nil, 0, err
	}

	t, err := newTable(res, "Month", "ItemId", "TotalDuration")
	if err != nil {
		return nil, 0, err
	}

	h := e.buildHierarchy(ctx, creds, distinctIDs(t))

	type monthRollup struct {
		byShow map[string]int64
		shows  map[string]models.ContentItem
		total  int64
	}
	months := make(map[string]*monthRollup)

	for _, row := range t.rows {
		id := t.cell(row, "ItemId")
		month := t.cell(row, "Month")
		if id == "" || month == "" {
			continue
		}
		show, ok := h.showFor(id)
		if !ok {
			continue
		}

		m := months[month]
		if m == nil {
			m = &monthRollup{byShow: make(map[string]int64), shows: make(map[string]models.ContentItem)}
			months[month] = m
		}
		seconds := t.cellInt(row, "TotalDuration")
		m.byShow[show.ID] += seconds
		m.shows[show.ID] = show
		m.total += seconds
	}

	result := make([]models.MonthlyShow, 0, len(months))
	for month, m := range months {
		var topID string
		var topSeconds int64 = -1
		for id, seconds := range m.byShow {
			if seconds > topSeconds || (seconds == topSeconds && id < topID) {
				topID, topSeconds = id, seconds
			}
		}
		result = append(result, models.MonthlyShow{
			Month:        month,
			Show:         m.shows[topID],
			ShowSeconds:  topSeconds,
			MonthSeconds: m.total,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Month < result[j].Month
	})
	return result, h.orphans, nil
}
