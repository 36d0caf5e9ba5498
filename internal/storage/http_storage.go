package storage

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

const maxFetchAttempts = 3

// HTTPImageFetcher downloads images over HTTP(S) with retries on transient failures
type HTTPImageFetcher struct {
	client     *http.Client
	maxBytes   int64
	retryDelay time.Duration
}

// HTTPFetcherOption customises an HTTPImageFetcher
type HTTPFetcherOption func(*HTTPImageFetcher)

// WithRetryDelay sets the base backoff; attempt n waits n*delay.
func WithRetryDelay(delay time.Duration) HTTPFetcherOption {
	return func(h *HTTPImageFetcher) {
		h.retryDelay = delay
	}
}

// WithHTTPClient replaces the underlying client
func WithHTTPClient(client *http.Client) HTTPFetcherOption {
	return func(h *HTTPImageFetcher) {
		h.client = client
	}
}

// NewHTTPImageFetcher creates an HTTP image fetcher. Bodies above maxBytes are rejected.
func NewHTTPImageFetcher(timeout time.Duration, maxBytes int64, opts ...HTTPFetcherOption) *HTTPImageFetcher {
	// Connection pooling sized for single image downloads
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	h := &HTTPImageFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes:   maxBytes,
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (*Download, error) {
	var lastErr error

	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("failed to fetch image: %w", ctx.Err())
			case <-time.After(time.Duration(attempt) * h.retryDelay):
			}
		}

		download, retryable, err := h.fetchOnce(ctx, imageURL)
		if err == nil {
			return download, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", maxFetchAttempts, lastErr)
}

// fetchOnce performs a single GET. 5xx responses and transport errors are retryable;
// 4xx responses, oversized bodies and a cancelled context are not.
func (h *HTTPImageFetcher) fetchOnce(ctx context.Context, imageURL string) (*Download, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("Accept", "image/jpeg, image/png, image/webp, image/gif, image/bmp, */*")
	req.Header.Set("User-Agent", "AI-Image-Detector/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	if h.maxBytes > 0 && resp.ContentLength > h.maxBytes {
		return nil, false, fmt.Errorf("%w (limit: %d bytes)", ErrTooLarge, h.maxBytes)
	}
	data, err := readLimited(resp.Body, h.maxBytes)
	if err != nil {
		return nil, false, err
	}

	return &Download{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
		Source:      imageURL,
	}, false, nil
}
