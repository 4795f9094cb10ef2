package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"jellywrapped/internal/httputil"
)

// QueryResult is the columnar result of one playback reporting query.
// Column order is not stable across query shapes; consumers must locate
// columns by name via ColumnIndex before indexing into Rows.
type QueryResult struct {
	// "colums" is the wire contract as the plugin actually spells it.
	Columns []string   `json:"colums"`
	Rows    [][]string `json:"results"`
}

func (r QueryResult) ColumnIndex(name string) (int, bool) {
	for i, c := range r.Columns {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

type customQueryRequest struct {
	CustomQueryString string `json:"CustomQueryString"`
	ReplaceUserID     bool   `json:"ReplaceUserId"`
}

// ExecuteQuery submits one custom query to the playback reporting plugin.
// The upstream substitutes the calling user's id server-side. An empty
// response body maps to an empty result; a non-2xx status is an error.
func (c *Client) ExecuteQuery(ctx context.Context, query string) (QueryResult, error) {
	body, err := json.Marshal(customQueryRequest{
		CustomQueryString: query,
		ReplaceUserID:     true,
	})
	if err != nil {
		return QueryResult{}, err
	}

	url := fmt.Sprintf("%s/user_usage_stats/submit_custom_query?stamp=%d", c.url, time.Now().UnixMilli())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return QueryResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.query.Do(c.addToken(req, c.apiKey))
	if err != nil {
		return QueryResult{}, fmt.Errorf("playback query failed: %w", err)
	}
	defer httputil.DrainBody(resp)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, httputil.MaxResponseBody))
	if err != nil {
		return QueryResult{}, fmt.Errorf("reading playback query response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return QueryResult{}, fmt.Errorf("playback query returned status %d: %s", resp.StatusCode, httputil.Truncate(raw, 200))
	}

	if len(raw) == 0 {
		return QueryResult{}, nil
	}

	var result QueryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return QueryResult{}, fmt.Errorf("parsing playback query response: %w", err)
	}
	return result, nil
}
