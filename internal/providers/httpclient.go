package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pierre-mcp/pierre/internal/telemetry"
)

// httpClient is the shared transport every adapter composes, grounded on
// bookowl.Client's plain net/http wrapper shape: a bounded-timeout client,
// bearer auth via TokenSource, and JSON decode-or-map-status-code handling.
type httpClient struct {
	name   string
	base   string
	tokens TokenSource
	client *http.Client
}

func newHTTPClient(name, base string, tokens TokenSource) *httpClient {
	return &httpClient{
		name:   name,
		base:   base,
		tokens: tokens,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// getJSON issues an authenticated GET against base+path and decodes the JSON
// body into out, mapping upstream status codes to the uniform error kinds.
// operation labels the call for telemetry (e.g. "get_athlete") rather than
// the raw path, which can embed an unbounded activity id.
func (c *httpClient) getJSON(ctx context.Context, operation, path string, out any) error {
	outcome := "error"
	defer func() {
		telemetry.ProviderCallsTotal.WithLabelValues(c.name, operation, outcome).Inc()
	}()

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return errUnauthorized(c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return errUpstream(c.name, fmt.Errorf("building request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errUpstream(c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound(c.name, "resource not found")
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errUnauthorized(c.name, fmt.Errorf("http %d", resp.StatusCode))
	case resp.StatusCode == http.StatusTooManyRequests:
		return errRateLimited(c.name)
	case resp.StatusCode != http.StatusOK:
		return errUpstream(c.name, fmt.Errorf("http %d", resp.StatusCode))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errUpstream(c.name, fmt.Errorf("decoding response: %w", err))
		}
	}
	outcome = "success"
	return nil
}
