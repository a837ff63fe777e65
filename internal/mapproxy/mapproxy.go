package mapproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
)

// Client fetches Mapbox style documents on behalf of the dashboard page, so
// the access token stays server-side. Outbound calls get retries with
// exponential backoff behind a circuit breaker.
type Client struct {
	token   string
	style   string
	baseURL string
	httpCfg httpClientConfig
	circuit *gobreaker.CircuitBreaker
}

// backoffConfig controls exponential backoff behaviour.
type backoffConfig struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
}

// httpClientConfig bundles HTTP client and resilience settings.
type httpClientConfig struct {
	client  *http.Client
	backoff backoffConfig
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")

	// ErrNoToken means the Mapbox access token was not configured.
	ErrNoToken = errors.New("mapbox access token is not configured")
)

// New creates a Client for the given style (e.g. "mapbox/streets-v12").
func New(client *http.Client, token, style string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mapbox",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		token:   token,
		style:   style,
		baseURL: "https://api.mapbox.com/styles/v1",
		httpCfg: httpClientConfig{
			client: client,
			backoff: backoffConfig{
				maxRetries:      3,
				initialInterval: 500 * time.Millisecond,
				maxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

// FetchStyle returns the raw style JSON for the configured style.
func (c *Client) FetchStyle(ctx context.Context) ([]byte, error) {
	if c.token == "" {
		return nil, ErrNoToken
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("access_token", c.token)

		u := fmt.Sprintf("%s/%s?%s", c.baseURL, c.style, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := c.doRequestWithResilience(ctx, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// doRequestWithResilience executes the HTTP request with retries, exponential
// backoff, and the circuit breaker.
func (c *Client) doRequestWithResilience(
	ctx context.Context,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if c.httpCfg.client == nil {
		return nil, errNoHTTPClient
	}

	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}

		// Ensure the request obeys context cancellation.
		req = req.WithContext(ctx)

		result, err := c.circuit.Execute(func() (interface{}, error) {
			resp, execErr := c.httpCfg.client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			// Handle rate limiting and server errors explicitly.
			if resp.StatusCode == http.StatusTooManyRequests {
				return nil, errRateLimited
			}
			if resp.StatusCode >= 500 {
				return nil, errServerError
			}
			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}

			return resp, nil
		})

		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		// If circuit is open, propagate immediately.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		lastErr = err
		if attempt >= c.httpCfg.backoff.maxRetries {
			return nil, lastErr
		}

		delay := c.httpCfg.backoff.initialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if delay > c.httpCfg.backoff.maxInterval && c.httpCfg.backoff.maxInterval > 0 {
			delay = c.httpCfg.backoff.maxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
			// next attempt
		}

		attempt++
	}
}
