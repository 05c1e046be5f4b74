package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"CopperAnalytics/internal/model"
)

// maxBodyBytes caps the payload read from the source.
const maxBodyBytes = 64 << 20

// HTTPFetcher downloads the price table with a plain GET.
type HTTPFetcher struct {
	URL       string
	UserAgent string
	Client    *http.Client

	// MaxBodyBytes caps the payload; zero means maxBodyBytes.
	MaxBodyBytes int64
}

// NewHTTPFetcher creates a fetcher whose client enforces the per-attempt timeout,
// with optional proxy support.
func NewHTTPFetcher(sourceURL, userAgent string, timeout time.Duration, proxyURL string) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPFetcher{
		URL:       sourceURL,
		UserAgent: userAgent,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

func (f *HTTPFetcher) Fetch(ctx context.Context) (*model.RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		// A malformed URL will not fix itself, so this is not a network error.
		return nil, fmt.Errorf("build request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	req.Header.Set("Accept", "text/csv, application/csv;q=0.9, */*;q=0.1")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, model.NewNetworkError(fmt.Errorf("get %s: %w", f.URL, err))
	}
	defer resp.Body.Close()

	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = maxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, model.NewNetworkError(fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, model.NewNetworkError(fmt.Errorf("status %d, body: %s", resp.StatusCode, truncate(body, 200)))
	}
	if int64(len(body)) > limit {
		// A cut-off last row would still parse.
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}

	return &model.RawDocument{
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
		Source:      f.URL,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
