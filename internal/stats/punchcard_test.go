package stats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jellywrapped/internal/jellyfin"
)

func TestPunchCardIsSparse(t *testing.T) {
	queries := &fakeQueries{results: map[string]jellyfin.QueryResult{
		"strftime('%w'": result(
			[]string{"DayOfWeek", "Hour", "PlayCount"},
			[]string{"0", "21", "12"},
			[]string{"5", "19", "7"},
		),
	}}

	cells, err := New(queries, &fakeCatalog{}).PunchCard(context.Background(), testCreds, year2024())
	require.NoError(t, err)

	// Only the two populated cells come back; empty ones are absent.
	require.Len(t, cells, 2)
	assert.Equal(t, 0, cells[0].DayOfWeek)
	assert.Equal(t, 21, cells[0].Hour)
	assert.Equal(t, int64(12), cells[0].Count)
	assert.Equal(t, 5, cells[1].DayOfWeek)
}
