package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxMarkup limits the size of markup fetched over HTTP.
const maxMarkup = 8 << 20

// HTTPStore fetches the markup from a URL. It cannot save.
type HTTPStore struct {
	url    string
	client *http.Client
}

// NewHTTPStore creates a store for a URL. If client is nil, a client with
// a timeout is used.
func NewHTTPStore(url string, client *http.Client) *HTTPStore {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPStore{url: url, client: client}
}

// Load fetches the markup.
func (s *HTTPStore) Load(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", s.url, err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, s.url)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("fetching %s: %s", s.url, resp.Status)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxMarkup))
	if err != nil {
		return "", err
	}
	tracer().Debugf("fetched %d bytes from %s", len(b), s.url)
	return string(b), nil
}

// Save is not supported.
func (s *HTTPStore) Save(context.Context, string) error {
	return ErrReadOnly
}
