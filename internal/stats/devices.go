package stats

import (
	"context"
	"regexp"
	"sort"

	"jellywrapped/internal/models"
)

// Ordered OS classification: the first matching pattern wins, and names
// matching nothing land in Other. Device-name conventions overlap (an
// "Apple TV 4K" is a TV first), so order is part of the contract.
var osPatterns = []struct {
	name string
	re   *regexp.Regexp
}{
	{"SmartTV", regexp.MustCompile(`(?i)apple ?tv|fire ?tv|roku|tizen|web ?os|bravia|shield|chromecast|smart ?tv`)},
	{"Windows", regexp.MustCompile(`(?i)windows|xbox`)},
	{"macOS", regexp.MustCompile(`(?i)mac ?os|macbook|imac|mac mini|darwin`)},
	{"iOS", regexp.MustCompile(`(?i)iphone|ipad|ipod|ios`)},
	{"Android", regexp.MustCompile(`(?i)android|pixel|galaxy|oneplus`)},
	{"ChromeOS", regexp.MustCompile(`(?i)chrome ?os|chromebook|cros`)},
	{"Linux", regexp.MustCompile(`(?i)linux|ubuntu|debian|fedora|arch|steam ?deck`)},
}

const osOther = "Other"

// classifyOS maps a device name to exactly one OS bucket.
func classifyOS(deviceName string) string {
	for _, p := range osPatterns {
		if p.re.MatchString(deviceName) {
			return p.name
		}
	}
	return osOther
}

// DeviceStats returns play counts grouped by device and by client, plus
// the per-OS totals derived from the device names.
func (e *Engine) DeviceStats(ctx context.Context, creds models.Credentials, tf models.Timeframe) (models.DeviceStats, error) {
	devices, err := e.groupedCounts(ctx, groupByDevice, tf)
	if err != nil {
		return models.DeviceStats{}, err
	}
	clients, err := e.groupedCounts(ctx, groupByClient, tf)
	if err != nil {
		return models.DeviceStats{}, err
	}

	osTotals := make(map[string]int64)
	for _, d := range devices {
		osTotals[classifyOS(d.Name)] += d.Count
	}
	oses := make([]models.NameCount, 0, len(osTotals))
	for name, count := range osTotals {
		oses = append(oses, models.NameCount{Name: name, Count: count})
	}
	sort.Slice(oses, func(i, j int) bool {
		if oses[i].Count != oses[j].Count {
			return oses[i].Count > oses[j].Count
		}
		return oses[i].Name < oses[j].Name
	})

	return models.DeviceStats{
		Devices:          devices,
		Clients:          clients,
		OperatingSystems: oses,
	}, nil
}

func (e *Engine) groupedCounts(ctx context.Context, col groupColumn, tf models.Timeframe) ([]models.NameCount, error) {
	res, err := e.queries.ExecuteQuery(ctx, groupedNameQuery(col, tf))
	if err != nil {
		return nil, err
	}

	t, err := newTable(res, string(col), "PlayCount")
	if err != nil {
		return nil, err
	}

	counts := make([]models.NameCount, 0, len(t.rows))
	for _, row := range t.rows {
		counts = append(counts, models.NameCount{
			Name:  t.cell(row, string(col)),
			Count: t.cellInt(row, "PlayCount"),
		})
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts, nil
}
