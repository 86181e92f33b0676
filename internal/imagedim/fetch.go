package imagedim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// imageInfo is the subset of a IIIF Image API info.json response we need.
type imageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Fetcher reads pixel dimensions from an image service's info.json.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{httpClient: &http.Client{Timeout: timeout}}
}

// Fetch retrieves the dimensions behind an image service URL. The URL may
// or may not already point at info.json.
func (f *Fetcher) Fetch(ctx context.Context, serviceURL string) (Dimensions, error) {
	url := serviceURL
	if !strings.HasSuffix(url, "/info.json") {
		url = strings.TrimRight(url, "/") + "/info.json"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Dimensions{}, fmt.Errorf("build info request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return Dimensions{}, fmt.Errorf("fetch image info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Dimensions{}, fmt.Errorf("fetch image info: unexpected status %s", resp.Status)
	}

	var info imageInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return Dimensions{}, fmt.Errorf("parse image info: %w", err)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return Dimensions{}, fmt.Errorf("image info reports invalid size %dx%d", info.Width, info.Height)
	}
	return Dimensions{Width: info.Width, Height: info.Height}, nil
}
