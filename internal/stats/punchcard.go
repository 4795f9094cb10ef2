package stats

import (
	"context"

	"jellywrapped/internal/models"
)

// PunchCard returns the day-of-week (0-6) by hour-of-day (0-23) play
// histogram for the timeframe. The result is sparse: cells with no plays
// are not materialized.
func (e *Engine) PunchCard(ctx context.Context, creds models.Credentials, tf models.Timeframe) ([]models.PunchCell, error) {
	res, err := e.queries.ExecuteQuery(ctx, punchCardQuery(tf))
	if err != nil {
		return nil, err
	}

	t, err := newTable(res, "DayOfWeek", "Hour", "PlayCount")
	if err != nil {
		return nil, err
	}

	cells := make([]models.PunchCell, 0, len(t.rows))
	for _, row := range t.rows {
		cells = append(cells, models.PunchCell{
			DayOfWeek: int(t.cellInt(row, "DayOfWeek")),
			Hour:      int(t.cellInt(row, "Hour")),
			Count:     t.cellInt(row, "PlayCount"),
		})
	}
	return cells, nil
}
