package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/claude/flexifit/internal/ingest"
)

// Journal formats accepted by the server.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

const maxAttempts = 3

// Client sends feedback journals to the FlexiFit server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a new HTTP client for the FlexiFit server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		backoff: time.Second,
	}
}

// SendJournal POSTs a decompressed journal to the matching ingest endpoint.
// Retries up to 3 times with exponential backoff on network errors, 429
// and 5xx responses; other 4xx responses fail immediately.
func (c *Client) SendJournal(ctx context.Context, format string, data []byte) (*ingest.Result, error) {
	path, contentType := "/api/v1/ingest/feedback", "application/json"
	if format == FormatCSV {
		path, contentType = "/api/v1/ingest/feedback/csv", "text/csv"
	}

	var lastErr error
	for attempt := range maxAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff << (attempt - 1)):
			}
		}

		res, retry, err := c.post(ctx, path, contentType, data)
		if err == nil {
			return res, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) post(ctx context.Context, path, contentType string, data []byte) (*ingest.Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("ingest failed (status %d): %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var res ingest.Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, false, fmt.Errorf("decoding ingest result: %w", err)
	}
	return &res, false, nil
}
