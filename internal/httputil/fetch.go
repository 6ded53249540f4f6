// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// StatusError reports a non-200 response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.Code)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Fetcher issues GET requests to one upstream service. It is safe for
// concurrent use.
type Fetcher struct {
	Client     *http.Client
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int

	// Limiter throttles outbound requests; nil means unlimited.
	Limiter *rate.Limiter
}

// NewFetcher returns a Fetcher allowing perSecond requests per second with
// a burst of one. A perSecond of 0 disables limiting.
func NewFetcher(client *http.Client, userAgent string, timeout time.Duration, perSecond float64, maxRetries int) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		Client:     client,
		UserAgent:  userAgent,
		Timeout:    timeout,
		MaxRetries: maxRetries,
	}
	if perSecond > 0 {
		f.Limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return f
}

// Get fetches url and returns the body of a 200 response. Any other status
// is a *StatusError. The Fetcher's timeout covers the rate-limit wait, the
// request, and reading the body.
func (f *Fetcher) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := DoWithRetry(ctx, f.Client, req, f.MaxRetries)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// GetJSON fetches url and decodes the JSON body into v.
func (f *Fetcher) GetJSON(ctx context.Context, url string, header http.Header, v any) error {
	body, err := f.Get(ctx, url, header)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("parsing response from %s: %w", url, err)
	}
	return nil
}
