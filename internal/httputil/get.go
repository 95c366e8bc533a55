// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response carried HTTP 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// Get issues a single GET request for rawURL and reads the whole body.
// It sets the User-Agent header when userAgent is non-empty. Any HTTP
// status is returned as a Response; only transport and read failures are
// errors. There is no retry.
func Get(ctx context.Context, client *http.Client, rawURL, userAgent string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", rawURL, err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// Snippet returns at most n bytes of the body with surrounding whitespace
// trimmed, for inclusion in log lines.
func (r *Response) Snippet(n int) string {
	s := strings.TrimSpace(string(r.Body))
	if n > 0 && len(s) > n {
		return s[:n] + "..."
	}
	return s
}
