package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/flexifit/internal/engine"
	"github.com/claude/flexifit/internal/models"
	"github.com/claude/flexifit/internal/planner"
	"github.com/claude/flexifit/internal/storage"
)

// HTTPClient implements DataSource by calling the FlexiFit REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is only sent on writes (adapt_plan).
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if method != http.MethodGet && c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("httpclient: %s: %w", path, storage.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func limitParams(limit int) url.Values {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

func (c *HTTPClient) GetActivePlan(ctx context.Context, _ int) (*storage.StoredPlan, error) {
	var plan storage.StoredPlan
	if err := c.do(ctx, http.MethodGet, "/api/v1/plans/active", nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *HTTPClient) ListPlans(ctx context.Context, _ int, limit int) ([]storage.StoredPlan, error) {
	var plans []storage.StoredPlan
	if err := c.do(ctx, http.MethodGet, "/api/v1/plans", limitParams(limit), &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *HTTPClient) QueryFeedback(ctx context.Context, _ int, start, end time.Time) ([]models.UserFeedback, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	var fb []models.UserFeedback
	if err := c.do(ctx, http.MethodGet, "/api/v1/feedback", params, &fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (c *HTTPClient) ListAdaptations(ctx context.Context, _ int, limit int) ([]storage.Adaptation, error) {
	var list []storage.Adaptation
	if err := c.do(ctx, http.MethodGet, "/api/v1/adaptations", limitParams(limit), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *HTTPClient) Analyze(ctx context.Context, _ int) (*engine.Analysis, error) {
	var a engine.Analysis
	if err := c.do(ctx, http.MethodGet, "/api/v1/analysis", nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *HTTPClient) Adapt(ctx context.Context, _ int, trigger string) (*planner.Result, error) {
	params := url.Values{}
	params.Set("trigger", trigger)

	var res planner.Result
	if err := c.do(ctx, http.MethodPost, "/api/v1/adapt", params, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
