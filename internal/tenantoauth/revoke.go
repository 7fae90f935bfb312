package tenantoauth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// postRevoke calls a provider's revocation endpoint with the access token
// as a form-encoded POST body, the shape most OAuth2 providers expect.
// Best-effort: callers ignore the error and proceed with local cleanup.
func postRevoke(ctx context.Context, revokeURL, accessToken string) error {
	body := strings.NewReader(url.Values{"token": {accessToken}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, revokeURL, body)
	if err != nil {
		return fmt.Errorf("building revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling revoke endpoint: %w", err)
	}
	defer resp.Body.Close()
	return nil
}
