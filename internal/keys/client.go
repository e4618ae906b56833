package keys

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client fetches creator public keys from the key-lookup service. It
// implements playback.KeyFetcher.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchPublicKey retrieves the PEM-encoded RSA public key for a numeric
// creator ID. Called once per playback session; failures are terminal for
// the session and are never retried here.
func (c *Client) FetchPublicKey(ctx context.Context, userID int) (string, error) {
	url := fmt.Sprintf("%s/api/keys/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("key lookup returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	pemData := string(body)
	if !strings.Contains(pemData, "PUBLIC KEY") {
		return "", fmt.Errorf("response is not a PEM public key")
	}
	return pemData, nil
}
