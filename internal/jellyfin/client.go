// Package jellyfin talks to a Jellyfin server: user authentication, catalog
// item lookups, and custom queries against the playback reporting plugin.
package jellyfin

import (
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"jellywrapped/internal/httputil"
)

type Client struct {
	url     string
	apiKey  string
	client  *http.Client
	query   *http.Client
	limiter *rate.Limiter
}

// New creates a client for the server at url. apiKey is the service-level
// key used for playback reporting queries; catalog and login calls carry
// per-user tokens instead.
func New(url, apiKey string) *Client {
	return &Client{
		url:    strings.TrimRight(url, "/"),
		apiKey: apiKey,
		client: httputil.NewClient(),
		// The reporting plugin executes grouped SQL; give it longer.
		query:   httputil.NewClientWithTimeout(httputil.ExtendedTimeout),
		limiter: rate.NewLimiter(10, 10),
	}
}

func (c *Client) addToken(req *http.Request, token string) *http.Request {
	req.Header.Set("X-Emby-Token", token)
	return req
}
