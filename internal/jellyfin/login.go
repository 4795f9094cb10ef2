package jellyfin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"jellywrapped/internal/models"
)

type authResponse struct {
	User        authUser `json:"User"`
	AccessToken string   `json:"AccessToken"`
}

type authUser struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// Login authenticates username/password against the server and returns the
// resolved user id and access token.
func (c *Client) Login(ctx context.Context, username, password string) (userID, token string, err error) {
	if !strings.HasPrefix(c.url, "https://") {
		log.Printf("WARNING: authenticating against %s over insecure HTTP", c.url)
	}

	body, err := json.Marshal(map[string]string{
		"Username": username,
		"Pw":       password,
	})
	if err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/Users/AuthenticateByName", bytes.NewReader(body))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Emby-Authorization",
		`MediaBrowser Client="JellyWrapped", Device="JellyWrapped", DeviceId="jellywrapped", Version="1.0"`)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", "", models.ErrInvalidCredentials
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("auth returned status %d", resp.StatusCode)
	}

	var authResp authResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", "", fmt.Errorf("parsing auth response: %w", err)
	}
	if authResp.User.ID == "" || authResp.AccessToken == "" {
		return "", "", fmt.Errorf("auth returned empty user id or token")
	}

	return authResp.User.ID, authResp.AccessToken, nil
}
