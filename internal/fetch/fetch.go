// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch retrieves remote text for the source adapters. The base
// HTTPFetcher retries rate-limited requests; Cache wraps any Fetcher and
// memoizes bodies in SQLite for a bounded time.
package fetch

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Fetcher returns the body of a URL as text. A non-200 response is an
// error, not an empty body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// StatusError reports a non-200 HTTP response. Adapters treat it as fatal
// for their source; the pipeline decides whether to skip or abort.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: HTTP %d", e.URL, e.StatusCode)
}

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// HTTPFetcher fetches over HTTP with a User-Agent header and retry on 429.
type HTTPFetcher struct {
	Client     *http.Client
	UserAgent  string
	MaxRetries int
}

// Fetch performs a GET and returns the response body. It retries on
// HTTP 429 (Too Many Requests) with exponential backoff: the delay starts
// at RetryBaseDelay and doubles each attempt. On each 429 the response
// body is drained and closed before sleeping. If the context is cancelled
// during a backoff wait the context error is returned. Any other non-200
// status, including a 429 that survives all retries, is a *StatusError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request for %s: %w", url, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	maxRetries := f.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return "", fmt.Errorf("fetching %s: %w", url, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < maxRetries {
			// Drain and close the body before retrying.
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
		}
		if readErr != nil {
			return "", fmt.Errorf("reading %s: %w", url, readErr)
		}
		return string(body), nil
	}
}
