// Package textrepo talks to a Text Repository instance to resolve
// document scan identifiers to image service urls. Only the lookup used
// by the documents pipeline is implemented.
package textrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"iiifgen/internal/mets"
)

// Client queries a Text Repository's task endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithAPIKey authenticates requests with the repository's api key.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = strings.TrimSpace(key)
	}
}

// WithRateLimit bounds the lookup rate against the repository.
func WithRateLimit(requestsPerSecond float64) Option {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
		}
	}
}

// NewClient creates a Text Repository client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("textrepo base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// FindDocumentMetadata fetches the metadata map of the document registered
// under externalID.
func (c *Client) FindDocumentMetadata(ctx context.Context, externalID string) (map[string]string, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, errors.New("external id must not be empty")
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	endpoint := c.baseURL + "/task/find/" + url.PathEscape(externalID) + "/document/metadata"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build textrepo request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Basic "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("find document %s: %w", externalID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("find document %s: unexpected status %s", externalID, resp.Status)
	}

	var metadata map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("decode document %s metadata: %w", externalID, err)
	}
	return metadata, nil
}

// ResolveScans looks up each external id and returns page scans with
// image service urls, in input order. A document without a scan_url
// metadata entry is an error.
func (c *Client) ResolveScans(ctx context.Context, externalIDs []string) ([]mets.Scan, error) {
	scans := make([]mets.Scan, 0, len(externalIDs))
	for _, externalID := range externalIDs {
		metadata, err := c.FindDocumentMetadata(ctx, externalID)
		if err != nil {
			return nil, err
		}
		scanURL, ok := metadata["scan_url"]
		if !ok || scanURL == "" {
			return nil, fmt.Errorf("document %s has no scan_url metadata", externalID)
		}
		scans = append(scans, mets.Scan{
			FileName:        externalID,
			ImageServiceURL: strings.ReplaceAll(scanURL, "/iip/", "/iipsrv?IIIF=/") + "/info.json",
		})
	}
	return scans, nil
}
