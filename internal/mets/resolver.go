package mets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"iiifgen/internal/logging"
)

// Scan is one digitized page: the original page filename and the IIIF
// image service URL serving it. Scan order is page order.
type Scan struct {
	FileName        string
	ImageServiceURL string
}

// Resolver turns METS identifiers into ordered scan lists, consulting the
// local cache before the remote service.
type Resolver struct {
	client *Client
	cache  *Cache
	logger *slog.Logger
}

// NewResolver creates a resolver. cache may be a disabled cache but must
// not be nil.
func NewResolver(client *Client, cache *Cache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		client: client,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "mets"),
	}
}

// Scans returns the ordered scan list for the identifier. An empty
// identifier means the archival file has no scans and yields an empty
// list. A network or parse failure on a cache miss is a hard error for
// the caller's manifest; cached responses are trusted as written.
func (r *Resolver) Scans(ctx context.Context, metsID string) ([]Scan, error) {
	metsID = strings.TrimSpace(metsID)
	if metsID == "" {
		return nil, nil
	}

	data, cached := r.cache.Lookup(metsID)
	if !cached {
		var err error
		data, err = r.client.Fetch(ctx, metsID)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Store(metsID, data); err != nil {
			return nil, fmt.Errorf("cache mets %s: %w", metsID, err)
		}
		r.logger.Debug("fetched mets document",
			logging.String(logging.FieldMETSID, metsID),
			logging.Int("bytes", len(data)))
	}

	scans, err := parseScans(data)
	if err != nil {
		return nil, fmt.Errorf("mets %s: %w", metsID, err)
	}

	r.logger.Debug("resolved scans",
		logging.String(logging.FieldMETSID, metsID),
		logging.Bool("cached", cached),
		logging.Int("count", len(scans)))
	return scans, nil
}
