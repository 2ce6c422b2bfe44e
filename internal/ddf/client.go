package ddf

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var defaultHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
}

// Client talks to the DDF identity and Property endpoints.
type Client struct {
	TokenURL     string
	APIURL       string
	ClientID     string
	ClientSecret string
	Scope        string

	// PageSize is the $top value used while paginating; defaults to 100.
	PageSize int

	HTTPClient *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return defaultHTTPClient
}

func (c *Client) pageSize() int {
	if c.PageSize > 0 {
		return c.PageSize
	}
	return 100
}

// GetAccessToken exchanges the client credentials for a short-lived bearer
// token. There is no caching and no retry here; each run re-authenticates and
// the caller decides whether to retry.
func (c *Client) GetAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("scope", c.Scope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("ddf: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("ddf: token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ddf: token endpoint status %d", resp.StatusCode)
	}

	var tok TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("ddf: decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("ddf: token response contains no access_token")
	}

	return tok.AccessToken, nil
}
