// Package ine talks to the INE (Statistics Portugal) JSON indicator API.
package ine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/ine-crime-etl/internal/domain"
)

// Client fetches yearly indicator data. It implements both range discovery
// (reading the last available year) and the per-year fetch.
type Client struct {
	baseURL    string
	indicator  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an INE API client with an explicit request timeout.
func NewClient(baseURL, indicator string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   baseURL,
		indicator: indicator,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// LatestYear queries with the first-year token and returns the last year the
// API holds data for, read from the UltimoPref field. Any failure is an
// error: the run must not proceed against an undefined year range.
func (c *Client) LatestYear(ctx context.Context) (int, error) {
	first := fmt.Sprintf("S7A%d", domain.FirstYear)
	resp, err := c.doRequest(ctx, first)
	if err != nil {
		return 0, fmt.Errorf("discover data range: %w", err)
	}
	if resp.LastPeriod == "" {
		return 0, fmt.Errorf("discover data range: response missing UltimoPref")
	}
	last, err := strconv.Atoi(strings.TrimSpace(resp.LastPeriod))
	if err != nil {
		return 0, fmt.Errorf("discover data range: UltimoPref %q is not a year", resp.LastPeriod)
	}
	c.logger.Info("last year of data reported by the API", "last_year", last)
	return last, nil
}

// FetchYear queries one Dim1 token and returns the year's Dados object,
// keyed by year. The caller decides how to handle a failed year.
func (c *Client) FetchYear(ctx context.Context, token string) (map[string]json.RawMessage, error) {
	resp, err := c.doRequest(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch year %s: %w", domain.YearOf(token), err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("fetch year %s: response missing Dados", domain.YearOf(token))
	}
	return resp.Data, nil
}

func (c *Client) queryURL(token string) string {
	params := url.Values{
		"varcd": {c.indicator},
		"lang":  {"EN"},
		"op":    {"2"},
		"Dim1":  {token},
	}
	return c.baseURL + "?" + params.Encode()
}

func (c *Client) doRequest(ctx context.Context, token string) (*indicatorResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.queryURL(token), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request Dim1=%s: %w", token, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("INE API error: status %d: %s", resp.StatusCode, body)
	}

	// The API wraps every response in a single-element array.
	var elems []indicatorResponse
	if err := json.NewDecoder(resp.Body).Decode(&elems); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("empty response array")
	}
	return &elems[0], nil
}

// indicatorResponse is the first element of the API's response array.
type indicatorResponse struct {
	IndicatorCode string                     `json:"IndicadorCod"`
	LastPeriod    string                     `json:"UltimoPref"`
	Data          map[string]json.RawMessage `json:"Dados"`
}
