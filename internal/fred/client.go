package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/ternarybob/forexai/internal/models"
)

const (
	// DefaultBaseURL is the base URL for the FRED API.
	DefaultBaseURL = "https://api.stlouisfed.org/fred"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 2

	// observationLimit is how many recent observations to request when
	// looking for the latest usable value. Several trailing entries can
	// carry the missing-value sentinel.
	observationLimit = 12
)

// Client is a FRED API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     arbor.ILogger
	limiter    *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit. Non-positive values keep the
// default: a zero limiter would block every request forever.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// NewClient creates a new FRED API client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request to the API.
func (c *Client) get(ctx context.Context, path string, params url.Values, seriesID string, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("url", c.baseURL+path).
			Str("series_id", seriesID).
			Msg("FRED API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			SeriesID:   seriesID,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetObservations retrieves the most recent observations for a series,
// newest first.
func (c *Client) GetObservations(ctx context.Context, seriesID string, limit int) ([]Observation, error) {
	if limit <= 0 {
		limit = observationLimit
	}

	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("sort_order", "desc")
	params.Set("limit", strconv.Itoa(limit))

	var result observationsResponse
	if err := c.get(ctx, "/series/observations", params, seriesID, &result); err != nil {
		return nil, err
	}

	return result.Observations, nil
}

// LatestObservation returns the most recent observation whose value is
// not the missing-value sentinel. Returns nil without error when the
// series has no usable observation in the recent window.
func (c *Client) LatestObservation(ctx context.Context, seriesID string) (*models.IndicatorObservation, error) {
	observations, err := c.GetObservations(ctx, seriesID, observationLimit)
	if err != nil {
		return nil, err
	}

	for _, obs := range observations {
		if obs.Value == MissingValue {
			continue
		}
		value, err := strconv.ParseFloat(obs.Value, 64)
		if err != nil {
			continue
		}
		return &models.IndicatorObservation{
			Value: value,
			Date:  obs.Date,
		}, nil
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("series_id", seriesID).
			Int("observations", len(observations)).
			Msg("No usable observation in recent window")
	}

	return nil, nil
}
