// Package espn fetches and normalizes NBA standings from ESPN's public
// standings API.
//
// The payload nests conference and division groupings to a depth ESPN does
// not document, so decoding goes into a generic JSON value and Normalize
// walks it structurally. Requests are throttled with a token bucket.
package espn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/overs-pool/internal/provider"
)

// DefaultStandingsURL is ESPN's NBA standings endpoint.
const DefaultStandingsURL = "https://site.web.api.espn.com/apis/v2/sports/basketball/nba/standings?contentorigin=espn&lang=en&region=us"

// ErrUpstream marks failures talking to the standings provider: transport
// errors, non-200 responses and undecodable bodies.
var ErrUpstream = errors.New("standings upstream unavailable")

// Client is the HTTP client for the ESPN standings endpoint.
type Client struct {
	httpClient *http.Client
	url        string
	userAgent  string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a standings client. requestsPerMinute <= 0 disables
// throttling.
func NewClient(url, userAgent string, requestsPerMinute int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if url == "" {
		url = DefaultStandingsURL
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		url:        url,
		userAgent:  userAgent,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

// FetchStandings downloads and normalizes the current standings.
func (c *Client) FetchStandings(ctx context.Context) ([]provider.Standing, error) {
	start := time.Now()
	root, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	standings := Normalize(root)
	c.logger.Debug("Standings fetched",
		"teams", len(standings),
		"duration", time.Since(start).Round(time.Millisecond))
	return standings, nil
}

func (c *Client) fetch(ctx context.Context) (interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: ESPN returned %d: %s", ErrUpstream, resp.StatusCode, truncate(body, 200))
	}

	root, err := decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return root, nil
}

// DecodeStandings reads a standings document (for example a saved ESPN
// response) and normalizes it.
func DecodeStandings(r io.Reader) ([]provider.Standing, error) {
	root, err := decode(r)
	if err != nil {
		return nil, err
	}
	return Normalize(root), nil
}

func decode(r io.Reader) (interface{}, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode standings: %w", err)
	}
	return root, nil
}

// truncate returns a truncated string representation for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
