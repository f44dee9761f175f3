// Package identity talks to the identity provider's backend API (Clerk).
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/satvik-sharma-05/movieBooking/internal/model"
)

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("identity api returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether repeating the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client fetches user profiles by subject id.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client that authenticates with the secret key as a
// bearer token.  timeout bounds each request end to end.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	hc := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: secretKey,
		TokenType:   "Bearer",
	}))
	hc.Timeout = timeout
	return &Client{baseURL: baseURL, httpClient: hc}
}

// GetUser returns the provider's full user object for id.
func (c *Client) GetUser(ctx context.Context, id string) (model.ProviderUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users/"+url.PathEscape(id), nil)
	if err != nil {
		return model.ProviderUser{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ProviderUser{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.ProviderUser{}, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var u model.ProviderUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return model.ProviderUser{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if u.ID == "" {
		return model.ProviderUser{}, fmt.Errorf("response for %s carried no user id", id)
	}
	return u, nil
}
