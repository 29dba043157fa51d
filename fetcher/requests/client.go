package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

const (
	// Each outbound call gets a fixed timeout.
	requestTimeout = 10 * time.Second

	// Fallback when the 429 comes without a Retry-After header.
	defaultRetryAfter = 5 * time.Second
)

// Client does authenticated requests against the Riot API and
// classifies the failures.
type Client struct {
	apiKey     string
	httpClient *http.Client
	maxRetries int

	// Injectable sleep so the tests don't need to wait for real backoffs.
	sleep func(time.Duration)
}

// NewClient creates a API client with the given key and attempt budget.
func NewClient(apiKey string, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		maxRetries: maxRetries,
		sleep:      time.Sleep,
	}
}

// Get runs a authenticated GET and decodes the JSON body into out.
//
// 429 sleeps for the Retry-After and tries again, only bounded by the attempt
// loop. 404 and 401/403 fail immediately. Anything else is retried with
// exponential backoff until the budget runs out.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	if c.apiKey == "" {
		return &AuthError{StatusCode: http.StatusUnauthorized, Hint: "no API key configured"}
	}

	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return fmt.Errorf("couldn't create the request: %w", err)
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network level failure, retry with backoff.
			lastErr = err
			if attempt == c.maxRetries-1 {
				return &MaxRetriesError{Attempts: c.maxRetries, Last: lastErr}
			}
			c.sleep(backoff(attempt))
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			resp.Body.Close()
			c.sleep(retryAfter)
			continue

		case resp.StatusCode == http.StatusNotFound:
			resp.Body.Close()
			return &NotFoundError{URL: url}

		case resp.StatusCode == http.StatusUnauthorized:
			resp.Body.Close()
			return &AuthError{StatusCode: resp.StatusCode, Hint: "API key invalid or expired"}

		case resp.StatusCode == http.StatusForbidden:
			resp.Body.Close()
			return &AuthError{StatusCode: resp.StatusCode, Hint: "API key lacks permission for this endpoint"}

		case resp.StatusCode != http.StatusOK:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()

			lastErr = &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
			if attempt == c.maxRetries-1 {
				return &MaxRetriesError{Attempts: c.maxRetries, Last: lastErr}
			}
			c.sleep(backoff(attempt))
			continue
		}

		// Got a 200, parse the payload.
		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to parse API response: %w", err)
		}
		return nil
	}

	return &MaxRetriesError{Attempts: c.maxRetries, Last: lastErr}
}

// GetRaw runs a authenticated GET and returns the raw body.
// Used when the payload shape isn't known upfront.
func (c *Client) GetRaw(ctx context.Context, url string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, url, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// backoff is a simple exponential backoff: 1s, 2s, 4s...
func backoff(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// parseRetryAfter reads the header value in seconds.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return defaultRetryAfter
	}

	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}
