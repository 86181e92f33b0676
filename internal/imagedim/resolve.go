// Package imagedim resolves pixel dimensions for page scans. Resolution
// is a three-tier fallback that always terminates with some size: a
// supplied lookup table, then the image service's info.json, then a fixed
// placeholder.
package imagedim

import (
	"context"
	"log/slog"

	"iiifgen/internal/logging"
)

// Dimensions are pixel sizes for one scan.
type Dimensions struct {
	Width  int
	Height int
}

// Placeholder is used when no dimension source can answer.
var Placeholder = Dimensions{Width: 100, Height: 100}

// InfoFetcher fetches dimensions from an image service.
type InfoFetcher interface {
	Fetch(ctx context.Context, serviceURL string) (Dimensions, error)
}

// Resolver applies the fallback chain. It never fails: a fetch error is
// logged and answered with the placeholder.
type Resolver struct {
	table   Table
	fetcher InfoFetcher
	logger  *slog.Logger
}

// NewResolver builds a resolver. table may be nil (no dataset supplied),
// in which case the placeholder is used directly without fetching.
func NewResolver(table Table, fetcher InfoFetcher, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		table:   table,
		fetcher: fetcher,
		logger:  logging.NewComponentLogger(logger, "imagedim"),
	}
}

// Resolve returns dimensions for the stripped scan filename served at
// serviceURL.
func (r *Resolver) Resolve(ctx context.Context, baseName, serviceURL string) Dimensions {
	if r.table == nil {
		return Placeholder
	}

	if dims, ok := r.table[baseName]; ok {
		return dims
	}

	r.logger.Warn("dimensions missing from dataset",
		logging.String("file", baseName))

	if r.fetcher != nil {
		dims, err := r.fetcher.Fetch(ctx, serviceURL)
		if err == nil {
			return dims
		}
		r.logger.Warn("image info fetch failed, using placeholder",
			logging.String("file", baseName),
			logging.Error(err))
	}

	return Placeholder
}
