package stats

import (
	"fmt"
	"time"

	"jellywrapped/internal/models"
)

// Query text reaches the reporting plugin as a literal string, so every
// builder below accepts only typed values: dates go through time.Time and
// item types through the models.MediaType constants. No caller-supplied
// string is ever interpolated. The @UserId marker is substituted
// server-side by the plugin.

const dateLayout = "2006-01-02"

// timeframeClause renders the half-open-at-start, closed-at-end window
// used by every aggregation: DateCreated > start AND DateCreated <= end.
func timeframeClause(tf models.Timeframe) string {
	return fmt.Sprintf("DateCreated > '%s' AND DateCreated <= '%s'",
		tf.Start.Format(dateLayout), tf.End.Format(dateLayout))
}

// itemTotalsQuery groups plays of one item type by item, yielding play
// count and total watched seconds per item.
func itemTotalsQuery(itemType models.MediaType, tf models.Timeframe) string {
	return fmt.Sprintf(
		`SELECT ItemId, COUNT(1) AS PlayCount, SUM(PlayDuration) AS TotalDuration `+
			`FROM PlaybackActivity `+
			`WHERE ItemType = '%s' AND UserId = '@UserId' AND %s `+
			`GROUP BY ItemId`,
		itemType, timeframeClause(tf))
}

// episodeRowsQuery returns one row per episode play session, ungrouped.
func episodeRowsQuery(tf models.Timeframe) string {
	return fmt.Sprintf(
		`SELECT ItemId, PlayDuration `+
			`FROM PlaybackActivity `+
			`WHERE ItemType = '%s' AND UserId = '@UserId' AND %s`,
		models.MediaTypeEpisode, timeframeClause(tf))
}

type groupColumn string

const (
	groupByDevice groupColumn = "DeviceName"
	groupByClient groupColumn = "ClientName"
)

func groupedNameQuery(col groupColumn, tf models.Timeframe) string {
	return fmt.Sprintf(
		`SELECT %s, COUNT(1) AS PlayCount `+
			`FROM PlaybackActivity `+
			`WHERE UserId = '@UserId' AND %s `+
			`GROUP BY %s ORDER BY PlayCount DESC`,
		col, timeframeClause(tf), col)
}

func punchCardQuery(tf models.Timeframe) string {
	return fmt.Sprintf(
		`SELECT CAST(strftime('%%w', DateCreated) AS INTEGER) AS DayOfWeek, `+
			`CAST(strftime('%%H', DateCreated) AS INTEGER) AS Hour, `+
			`COUNT(1) AS PlayCount `+
			`FROM PlaybackActivity `+
			`WHERE UserId = '@UserId' AND %s `+
			`GROUP BY DayOfWeek, Hour`,
		timeframeClause(tf))
}

func monthlyEpisodeQuery(tf models.Timeframe) string {
	return fmt.Sprintf(
		`SELECT strftime('%%Y-%%m', DateCreated) AS Month, ItemId, SUM(PlayDuration) AS TotalDuration `+
			`FROM PlaybackActivity `+
			`WHERE ItemType = '%s' AND UserId = '@UserId' AND %s `+
			`GROUP BY Month, ItemId`,
		models.MediaTypeEpisode, timeframeClause(tf))
}

func lastWatchedQuery(tf models.Timeframe) string {
	return fmt.Sprintf(
		`SELECT ItemId, MAX(DateCreated) AS LastWatched `+
			`FROM PlaybackActivity `+
			`WHERE ItemType = '%s' AND UserId = '@UserId' AND %s `+
			`GROUP BY ItemId`,
		models.MediaTypeEpisode, timeframeClause(tf))
}

// dayTimeframe is the exact 24-hour window for watched-on-date lookups.
func dayTimeframe(date time.Time) models.Timeframe {
	return models.Timeframe{Start: date, End: date.AddDate(0, 0, 1)}
}
