package jellyfin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"jellywrapped/internal/httputil"
	"jellywrapped/internal/models"
)

// itemBatchSize keeps the Ids parameter under the upstream URL length limit.
const itemBatchSize = 100

const ticksPerSecond = 10_000_000

type itemsResponse struct {
	Items []itemJSON `json:"Items"`
}

type itemJSON struct {
	ID              string       `json:"Id"`
	ParentID        string       `json:"ParentId"`
	Name            string       `json:"Name"`
	Type            string       `json:"Type"`
	PremiereDate    string       `json:"PremiereDate"`
	CommunityRating float64      `json:"CommunityRating"`
	ProductionYear  int          `json:"ProductionYear"`
	People          []personJSON `json:"People"`
	Genres          []string     `json:"Genres"`
	RunTimeTicks    int64        `json:"RunTimeTicks"`
}

type personJSON struct {
	Name string `json:"Name"`
	Role string `json:"Role"`
	Type string `json:"Type"`
}

func (it itemJSON) toContentItem() models.ContentItem {
	people := make([]models.Person, 0, len(it.People))
	for _, p := range it.People {
		people = append(people, models.Person{Name: p.Name, Role: p.Role, Type: p.Type})
	}
	return models.ContentItem{
		ID:              it.ID,
		ParentID:        it.ParentID,
		Name:            it.Name,
		Type:            it.Type,
		ReleaseDate:     it.PremiereDate,
		CommunityRating: it.CommunityRating,
		ProductionYear:  it.ProductionYear,
		People:          people,
		Genres:          it.Genres,
		RuntimeSeconds:  it.RunTimeTicks / ticksPerSecond,
	}
}

// ItemsByID resolves content ids to catalog metadata in batches of 100.
// A failed batch is logged and dropped rather than failing the whole call;
// the second return value counts dropped batches so callers can surface
// partial results. Callers are expected to deduplicate ids beforehand.
func (c *Client) ItemsByID(ctx context.Context, creds models.Credentials, ids []string) (map[string]models.ContentItem, int) {
	items := make(map[string]models.ContentItem, len(ids))
	if len(ids) == 0 {
		return items, 0
	}

	var failed int
	for start := 0; start < len(ids); start += itemBatchSize {
		end := start + itemBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		resolved, err := c.fetchItems(ctx, creds, batch)
		if err != nil {
			log.Printf("jellyfin: resolving batch of %d items: %v", len(batch), err)
			failed++
			continue
		}
		for id, item := range resolved {
			items[id] = item
		}
	}
	return items, failed
}

func (c *Client) fetchItems(ctx context.Context, creds models.Credentials, ids []string) (map[string]models.ContentItem, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{
		"Ids":    {strings.Join(ids, ",")},
		"Fields": {"ParentId,People,Genres"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url+"/Items?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(c.addToken(req, creds.Token))
	if err != nil {
		return nil, err
	}
	defer httputil.DrainBody(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("items returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, httputil.MaxResponseBody))
	if err != nil {
		return nil, err
	}

	var data itemsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("parsing items response: %w", err)
	}

	items := make(map[string]models.ContentItem, len(data.Items))
	for _, it := range data.Items {
		if it.ID == "" {
			continue
		}
		items[it.ID] = it.toContentItem()
	}
	return items, nil
}

type episodesResponse struct {
	Items []struct {
		ID       string `json:"Id"`
		UserData struct {
			Played bool `json:"Played"`
		} `json:"UserData"`
	} `json:"Items"`
}

// EpisodeCounts returns the series' total episode count and how many of
// them this user has ever played. Both counts are all-time; "finished" is
// a whole-series property, not a timeframe-scoped one.
func (c *Client) EpisodeCounts(ctx context.Context, creds models.Credentials, showID string) (total, watched int, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, 0, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{
		"userId": {creds.UserID},
		"Fields": {"UserData"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.url+"/Shows/"+url.PathEscape(showID)+"/Episodes?"+params.Encode(), nil)
	if err != nil {
		return 0, 0, err
	}

	resp, err := c.client.Do(c.addToken(req, creds.Token))
	if err != nil {
		return 0, 0, err
	}
	defer httputil.DrainBody(resp)

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("episodes returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, httputil.MaxResponseBody))
	if err != nil {
		return 0, 0, err
	}

	var data episodesResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return 0, 0, fmt.Errorf("parsing episodes response: %w", err)
	}

	for _, ep := range data.Items {
		total++
		if ep.UserData.Played {
			watched++
		}
	}
	return total, watched, nil
}
