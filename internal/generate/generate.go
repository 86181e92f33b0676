// Package generate wires the parsers, resolvers, and the IIIF builder
// into complete generation runs. A run locks the output directory,
// records itself in the ledger, and emits the static JSON tree.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"iiifgen/internal/config"
	"iiifgen/internal/ead"
	"iiifgen/internal/iiif"
	"iiifgen/internal/imagedim"
	"iiifgen/internal/inventory"
	"iiifgen/internal/ledger"
	"iiifgen/internal/logging"
	"iiifgen/internal/mets"
	"iiifgen/internal/outputstore"
	"iiifgen/internal/runlock"
	"iiifgen/internal/selection"
	"iiifgen/internal/textrepo"
)

// Options selects the input for one run. Exactly one of EADPath and
// CSVPath must be set.
type Options struct {
	// EADPath points at an EAD finding aid; the run emits the collection
	// hierarchy plus aggregated inventory manifests.
	EADPath string

	// CSVPath points at a document metadata export; the run emits one
	// manifest per document under documents/.
	CSVPath string

	// FilterPath optionally restricts which inventory numbers are
	// processed (a JSON array of codes). EAD mode only.
	FilterPath string

	// DimensionsPath optionally supplies a scan dimension dataset
	// (JSON, optionally gzipped).
	DimensionsPath string
}

// Result summarizes a completed run.
type Result struct {
	RunID  string
	Counts ledger.Counts
}

// Generator runs generation passes against one configuration. The ledger
// is optional; without it runs are not recorded.
type Generator struct {
	cfg    *config.Config
	ledger *ledger.Store
	logger *slog.Logger
}

// New creates a Generator.
func New(cfg *config.Config, led *ledger.Store, logger *slog.Logger) (*Generator, error) {
	if cfg == nil {
		return nil, errors.New("generator requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{
		cfg:    cfg,
		ledger: led,
		logger: logging.NewComponentLogger(logger, "generate"),
	}, nil
}

// Run executes one generation pass.
func (g *Generator) Run(ctx context.Context, opts Options) (Result, error) {
	switch {
	case opts.EADPath != "" && opts.CSVPath != "":
		return Result{}, errors.New("either an EAD file or a CSV file should be given, not both")
	case opts.EADPath != "":
		return g.run(ctx, ledger.ModeHierarchy, opts.EADPath, opts.DimensionsPath, func(ctx context.Context, builder *iiif.Builder) error {
			return g.runEAD(ctx, builder, opts)
		})
	case opts.CSVPath != "":
		return g.run(ctx, ledger.ModeDocuments, opts.CSVPath, opts.DimensionsPath, func(ctx context.Context, builder *iiif.Builder) error {
			return g.runCSV(ctx, builder, opts)
		})
	default:
		return Result{}, errors.New("either an EAD file or a CSV file should be given")
	}
}

// run handles the parts every mode shares: the output lock, the ledger
// bookkeeping, and builder construction.
func (g *Generator) run(ctx context.Context, mode, source, dimensionsPath string, pass func(context.Context, *iiif.Builder) error) (Result, error) {
	lock, err := runlock.New(g.cfg.Paths.OutputDir)
	if err != nil {
		return Result{}, err
	}
	if err := lock.Acquire(); err != nil {
		return Result{}, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			g.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	var runID string
	if g.ledger != nil {
		runID, err = g.ledger.BeginRun(ctx, mode, source)
		if err != nil {
			return Result{}, err
		}
	}

	recorder := newRecorder(ctx, runID, g.ledger, g.logger)
	builder, err := g.newBuilder(dimensionsPath, recorder.observe)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	passErr := pass(ctx, builder)
	counts := recorder.counts()

	if g.ledger != nil {
		status := ledger.StatusCompleted
		if passErr != nil {
			status = ledger.StatusFailed
		}
		if err := g.ledger.FinishRun(ctx, runID, status, counts, passErr); err != nil {
			g.logger.Warn("failed to finish ledger run", logging.Error(err))
		}
	}

	if passErr != nil {
		return Result{RunID: runID, Counts: counts}, passErr
	}
	g.logger.Info("generation run finished",
		logging.String(logging.FieldRunID, runID),
		logging.Int("collections", counts.Collections),
		logging.Int("manifests", counts.Manifests),
		logging.Int("reused", counts.Reused),
		logging.Duration("elapsed", time.Since(start)))
	return Result{RunID: runID, Counts: counts}, nil
}

// runEAD parses the finding aid, builds aggregated inventory manifests in
// parallel, then walks the hierarchy. The hierarchy pass reuses the
// manifests the first pass wrote.
func (g *Generator) runEAD(ctx context.Context, builder *iiif.Builder, opts Options) error {
	filter, err := selection.Load(opts.FilterPath)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.EADPath)
	if err != nil {
		return fmt.Errorf("open ead file: %w", err)
	}
	defer f.Close()

	fonds, err := ead.Parse(f, filter)
	if err != nil {
		return fmt.Errorf("parse ead %s: %w", opts.EADPath, err)
	}
	g.logger.Info("parsed finding aid",
		logging.String(logging.FieldCode, fonds.Code),
		logging.Int("files", len(fonds.Files())))

	manBase := g.cfg.IIIF.ManifestsBaseURL
	if manBase != "" {
		records := inventory.Aggregate(fonds)
		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(g.workers())
		for _, rec := range records {
			rec := rec
			group.Go(func() error {
				_, err := builder.BuildAggregateManifest(groupCtx, rec, manBase, iiif.InventoriesPrefix)
				return err
			})
		}
		if err := group.Wait(); err != nil {
			return err
		}
	}

	collection, err := builder.BuildCollection(ctx, fonds, "")
	if err != nil {
		return err
	}
	if collection == nil {
		g.logger.Warn("finding aid produced no output, every branch was empty",
			logging.String(logging.FieldCode, fonds.Code))
	}
	return nil
}

// runCSV builds one manifest per CSV document, resolving scan urls
// through the text repository.
func (g *Generator) runCSV(ctx context.Context, builder *iiif.Builder, opts Options) error {
	manBase := g.cfg.IIIF.ManifestsBaseURL
	if manBase == "" {
		return errors.New("document mode requires iiif.manifests_base_url")
	}
	client, err := textrepo.NewClient(g.cfg.TextRepo.BaseURL,
		textrepo.WithAPIKey(g.cfg.TextRepo.APIKey),
		textrepo.WithTimeout(time.Duration(g.cfg.TextRepo.TimeoutSeconds)*time.Second),
		textrepo.WithRateLimit(g.cfg.TextRepo.RequestsPerSecond),
	)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.CSVPath)
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()

	docs, err := inventory.ParseDocumentsCSV(f)
	if err != nil {
		return fmt.Errorf("parse csv %s: %w", opts.CSVPath, err)
	}
	g.logger.Info("parsed document metadata", logging.Int("documents", len(docs)))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.workers())
	for _, doc := range docs {
		doc := doc
		group.Go(func() error {
			scans, err := client.ResolveScans(groupCtx, doc.ScanFiles)
			if err != nil {
				return fmt.Errorf("document %s: %w", doc.ID, err)
			}
			rec := &inventory.Record{
				Code:   doc.ID,
				Titles: doc.Titles,
				Dates:  doc.Dates,
				Scans:  scans,
			}
			_, err = builder.BuildAggregateManifest(groupCtx, rec, manBase, iiif.DocumentsPrefix)
			return err
		})
	}
	return group.Wait()
}

func (g *Generator) workers() int {
	if g.cfg.Generate.Workers > 0 {
		return g.cfg.Generate.Workers
	}
	return 1
}

// newBuilder assembles the output store and resolvers behind a Builder.
func (g *Generator) newBuilder(dimensionsPath string, onWrite func(iiif.WriteEvent)) (*iiif.Builder, error) {
	if err := g.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	store, err := outputstore.New(g.cfg.Paths.OutputDir)
	if err != nil {
		return nil, err
	}

	client, err := mets.NewClient(g.cfg.METS.BaseURL,
		mets.WithTimeout(time.Duration(g.cfg.METS.TimeoutSeconds)*time.Second),
		mets.WithRateLimit(g.cfg.METS.RequestsPerSecond),
	)
	if err != nil {
		return nil, err
	}
	scans := mets.NewResolver(client, mets.NewCache(g.cfg.Paths.METSCacheDir), g.logger)

	table, err := imagedim.LoadTable(dimensionsPath)
	if err != nil {
		return nil, err
	}
	fetcher := imagedim.NewFetcher(time.Duration(g.cfg.ImageInfo.TimeoutSeconds) * time.Second)
	dims := imagedim.NewResolver(table, fetcher, g.logger)

	return iiif.New(iiif.Config{
		Store:              store,
		Scans:              scans,
		Dimensions:         dims,
		CollectionsBaseURL: g.cfg.IIIF.CollectionsBaseURL,
		ManifestsBaseURL:   g.cfg.IIIF.ManifestsBaseURL,
		Rights:             g.cfg.IIIF.Rights,
		Language:           g.cfg.IIIF.Language,
		OnWrite:            onWrite,
		Logger:             g.logger,
	})
}

// recorder tallies write events and mirrors them into the ledger. Events
// arrive from worker goroutines, so the counters are mutex guarded.
type recorder struct {
	ctx    context.Context
	runID  string
	ledger *ledger.Store
	logger *slog.Logger

	mu sync.Mutex
	c  ledger.Counts
}

func newRecorder(ctx context.Context, runID string, led *ledger.Store, logger *slog.Logger) *recorder {
	return &recorder{ctx: ctx, runID: runID, ledger: led, logger: logger}
}

func (r *recorder) observe(event iiif.WriteEvent) {
	r.mu.Lock()
	switch {
	case event.Kind == "collection":
		r.c.Collections++
	case event.Reused:
		r.c.Reused++
	default:
		r.c.Manifests++
		r.c.Canvases += event.Canvases
	}
	r.mu.Unlock()

	if r.ledger == nil {
		return
	}
	err := r.ledger.RecordResource(r.ctx, ledger.Resource{
		RunID:    r.runID,
		Path:     event.Path,
		Kind:     event.Kind,
		Code:     event.Code,
		Canvases: event.Canvases,
		Reused:   event.Reused,
	})
	if err != nil {
		r.logger.Warn("failed to record resource",
			logging.String(logging.FieldPath, event.Path),
			logging.Error(err))
	}
}

func (r *recorder) counts() ledger.Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.c
}
