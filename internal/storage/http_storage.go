package storage

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"time"
)

const maxFetchAttempts = 3

type ImageFetcher interface {
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)
}

// HTTPImageFetcher downloads and decodes images, retrying transient failures
type HTTPImageFetcher struct {
	client  *http.Client
	backoff time.Duration
}

// NewHTTPImageFetcher creates a fetcher with a 30s timeout and 1s linear backoff
func NewHTTPImageFetcher() ImageFetcher {
	return NewHTTPImageFetcherWithOptions(30*time.Second, time.Second)
}

// NewHTTPImageFetcherWithOptions creates a fetcher with a custom client
// timeout and retry backoff step
func NewHTTPImageFetcherWithOptions(timeout, backoff time.Duration) *HTTPImageFetcher {
	transport := &http.Transport{
		// Connection pooling sized for single image downloads
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,
	}

	return &HTTPImageFetcher{
		backoff: backoff,
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
	}
}

func (h *HTTPImageFetcher) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	var lastErr error

	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * h.backoff):
			}
		}

		img, retry, err := h.fetchOnce(ctx, imageURL)
		if err == nil {
			return img, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}

	return nil, fmt.Errorf("failed to fetch image after %d attempts: %w", maxFetchAttempts, lastErr)
}

// fetchOnce performs a single request. retry reports whether the failure is
// transient (network errors and 5xx responses).
func (h *HTTPImageFetcher) fetchOnce(ctx context.Context, imageURL string) (img image.Image, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, image/bmp, image/tiff, image/gif, */*")
	req.Header.Set("User-Agent", "Sobel-Inspector/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: status code %d", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return nil, false, fmt.Errorf("client error: status code %d: %w", resp.StatusCode, ErrFileNotFound)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("client error: status code %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	img, _, err = Decode(resp.Body)
	if err != nil {
		return nil, false, err
	}
	return img, false, nil
}
