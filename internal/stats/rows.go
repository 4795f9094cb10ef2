package stats

import (
	"fmt"
	"strconv"

	"jellywrapped/internal/jellyfin"
)

// table wraps a query result with the by-name column lookup every consumer
// needs: the upstream does not guarantee stable column ordering, so indexes
// are resolved once and reused for all rows.
type table struct {
	rows [][]string
	idx  map[string]int
}

func newTable(res jellyfin.QueryResult, cols ...string) (*table, error) {
	t := &table{rows: res.Rows, idx: make(map[string]int, len(cols))}
	if len(res.Columns) == 0 && len(res.Rows) == 0 {
		// An empty upstream body decodes to a zero result: no plays in
		// the timeframe, not a malformed response.
		return t, nil
	}
	for _, name := range cols {
		i, ok := res.ColumnIndex(name)
		if !ok {
			return nil, fmt.Errorf("query result missing column %q", name)
		}
		t.idx[name] = i
	}
	return t, nil
}

// cell returns the named column of a row, or "" when the row is short.
func (t *table) cell(row []string, col string) string {
	i := t.idx[col]
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// cellInt returns the named column parsed as an integer; missing or
// unparsable cells default to 0.
func (t *table) cellInt(row []string, col string) int64 {
	n, err := strconv.ParseInt(t.cell(row, col), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
