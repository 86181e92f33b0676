package iiif

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"iiifgen/internal/ead"
	"iiifgen/internal/iiif/prezi"
	"iiifgen/internal/imagedim"
	"iiifgen/internal/inventory"
	"iiifgen/internal/logging"
	"iiifgen/internal/mets"
	"iiifgen/internal/outputstore"
	"iiifgen/internal/textutil"
)

// Well-known output prefixes for the flat manifest passes.
const (
	InventoriesPrefix = "inventories/"
	DocumentsPrefix   = "documents/"
)

// ScanResolver resolves a METS identifier into ordered page scans.
type ScanResolver interface {
	Scans(ctx context.Context, metsID string) ([]mets.Scan, error)
}

// DimensionResolver answers pixel dimensions for a scan; it never fails.
type DimensionResolver interface {
	Resolve(ctx context.Context, baseName, serviceURL string) imagedim.Dimensions
}

// Config assembles a Builder.
type Config struct {
	Store      *outputstore.Store
	Scans      ScanResolver
	Dimensions DimensionResolver

	// CollectionsBaseURL prefixes collection identifiers. ManifestsBaseURL,
	// when set, routes the hierarchy's file children to the aggregated
	// inventory manifests instead of per-position manifests.
	CollectionsBaseURL string
	ManifestsBaseURL   string

	// Rights is attached to every manifest. Language keys the IIIF
	// language maps.
	Rights   string
	Language string

	// OnWrite, when set, observes every emitted or reused resource. It is
	// called from whichever goroutine performed the build.
	OnWrite func(event WriteEvent)

	Logger *slog.Logger
}

// WriteEvent describes one emitted or reused output.
type WriteEvent struct {
	Kind     string // "collection" or "manifest"
	Path     string
	Code     string
	Canvases int
	Reused   bool
}

// Builder turns archival nodes into IIIF resources. It owns identifier
// and path derivation, subtree pruning, and the skip-if-exists reuse of
// previously generated manifests. Builders are safe for concurrent use as
// long as no two goroutines build the same output path.
type Builder struct {
	store    *outputstore.Store
	scans    ScanResolver
	dims     DimensionResolver
	collBase string
	manBase  string
	rights   string
	language string
	onWrite  func(event WriteEvent)
	logger   *slog.Logger
}

// New validates the config and returns a Builder.
func New(cfg Config) (*Builder, error) {
	if cfg.Store == nil {
		return nil, errors.New("iiif builder requires an output store")
	}
	if cfg.Scans == nil {
		return nil, errors.New("iiif builder requires a scan resolver")
	}
	if cfg.Dimensions == nil {
		return nil, errors.New("iiif builder requires a dimension resolver")
	}
	if strings.TrimSpace(cfg.CollectionsBaseURL) == "" {
		return nil, errors.New("iiif builder requires a collections base url")
	}
	language := strings.TrimSpace(cfg.Language)
	if language == "" {
		language = "en"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{
		store:    cfg.Store,
		scans:    cfg.Scans,
		dims:     cfg.Dimensions,
		collBase: cfg.CollectionsBaseURL,
		manBase:  strings.TrimSpace(cfg.ManifestsBaseURL),
		rights:   strings.TrimSpace(cfg.Rights),
		language: language,
		onWrite:  cfg.OnWrite,
		logger:   logging.NewComponentLogger(logger, "builder"),
	}, nil
}

// DerivePath computes the output path for a code under a prefix. Spaces
// in codes become '+' so the path stays URL-safe.
func DerivePath(prefix, code string) string {
	return strings.ReplaceAll(prefix+code+".json", " ", "+")
}

func (b *Builder) notify(event WriteEvent) {
	if b.onWrite != nil {
		b.onWrite(event)
	}
}

// childPrefix turns a parent's own filename into the prefix for its
// children, producing the directory-mirroring id hierarchy.
func childPrefix(filename string) string {
	return strings.TrimSuffix(filename, ".json") + "/"
}

// BuildCollection recursively transforms a container node. It returns nil
// (and writes nothing) when every descendant was pruned: the emitted graph
// contains no empty branches. Collections are always recomputed, never
// reused from disk, because the pruning decision depends on this run's
// children.
func (b *Builder) BuildCollection(ctx context.Context, node *ead.Node, prefix string) (*prezi.Collection, error) {
	switch node.Kind {
	case ead.KindFonds, ead.KindSeries, ead.KindFileGroup:
	case ead.KindFile:
		return nil, fmt.Errorf("collection %s: file nodes build manifests, not collections", node.Code)
	default:
		return nil, fmt.Errorf("collection %s: unknown node kind %v", node.Code, node.Kind)
	}

	filename := DerivePath(prefix, node.Code)
	collection := prezi.NewCollection(b.collBase+filename, b.label(node.Code, node.Title))
	collection.Metadata = b.descriptiveMetadata(node.Code, node.Title, node.URI)

	sub := childPrefix(filename)
	for _, part := range node.Parts {
		switch part.Kind {
		case ead.KindSeries, ead.KindFileGroup:
			child, err := b.BuildCollection(ctx, part, sub)
			if err != nil {
				return nil, err
			}
			if child != nil {
				collection.Items = append(collection.Items, child.Ref())
			}
		case ead.KindFile:
			var (
				result ManifestResult
				err    error
			)
			if b.manBase != "" {
				result, err = b.BuildManifest(ctx, part, b.manBase, InventoriesPrefix)
			} else {
				result, err = b.BuildManifest(ctx, part, b.collBase, sub)
			}
			if err != nil {
				return nil, err
			}
			collection.Items = append(collection.Items, result.Ref)
		default:
			return nil, fmt.Errorf("collection %s: unknown child kind %v", node.Code, part.Kind)
		}
	}

	if len(collection.Items) == 0 {
		b.logger.Debug("pruned empty collection",
			logging.String(logging.FieldCode, node.Code),
			logging.String(logging.FieldPath, filename))
		return nil, nil
	}

	if err := b.store.WriteJSON(filename, collection); err != nil {
		return nil, fmt.Errorf("collection %s: %w", node.Code, err)
	}
	b.logger.Info("wrote collection",
		logging.String(logging.FieldCode, node.Code),
		logging.String(logging.FieldPath, filename),
		logging.Int("items", len(collection.Items)))
	b.notify(WriteEvent{Kind: "collection", Path: filename, Code: node.Code})
	return collection, nil
}

// ManifestResult reports a manifest build. Manifest is nil when an
// existing output was reused; Ref is always usable for embedding in a
// parent collection.
type ManifestResult struct {
	Ref      prezi.Reference
	Manifest *prezi.Manifest
	Reused   bool
	Canvases int
}

// BuildManifest transforms one archival file. When the derived path
// already exists in the store the manifest is not rebuilt and no scan
// resolution happens; a bare reference is returned instead.
func (b *Builder) BuildManifest(ctx context.Context, file *ead.Node, baseURL, prefix string) (ManifestResult, error) {
	if file.Kind != ead.KindFile {
		return ManifestResult{}, fmt.Errorf("manifest %s: node is %v, not a file", file.Code, file.Kind)
	}

	filename := DerivePath(prefix, file.Code)
	id := baseURL + filename
	label := b.label(file.Code, file.Title)

	if b.store.Exists(filename) {
		b.notify(WriteEvent{Kind: "manifest", Path: filename, Code: file.Code, Reused: true})
		return ManifestResult{
			Ref:    prezi.Reference{ID: id, Type: prezi.TypeManifest, Label: label},
			Reused: true,
		}, nil
	}

	manifest := prezi.NewManifest(id, label)
	manifest.Rights = b.rights
	permalink := "?"
	if file.URI != "" {
		permalink = prezi.Anchor(file.URI)
	}
	manifest.Metadata = []prezi.KeyValue{
		b.keyValue("Identifier", file.Code),
		b.keyValue("Title", file.Title),
		b.keyValue("Date", orUnknown(file.Date)),
		b.keyValue("Permalink", permalink),
	}

	scans, err := b.scans.Scans(ctx, file.METSID)
	if err != nil {
		return ManifestResult{}, fmt.Errorf("manifest %s (%s): %w", file.Code, filename, err)
	}
	b.appendCanvases(ctx, manifest, scans)

	if err := b.store.WriteJSON(filename, manifest); err != nil {
		return ManifestResult{}, fmt.Errorf("manifest %s: %w", file.Code, err)
	}
	b.logger.Info("wrote manifest",
		logging.String(logging.FieldCode, file.Code),
		logging.String(logging.FieldPath, filename),
		logging.Int("canvases", len(manifest.Items)))
	b.notify(WriteEvent{Kind: "manifest", Path: filename, Code: file.Code, Canvases: len(manifest.Items)})

	return ManifestResult{Ref: manifest.Ref(), Manifest: manifest, Canvases: len(manifest.Items)}, nil
}

// BuildAggregateManifest builds one manifest for an aggregated inventory
// record. Returns a reused result when the output already exists.
func (b *Builder) BuildAggregateManifest(ctx context.Context, rec *inventory.Record, baseURL, prefix string) (ManifestResult, error) {
	filename := DerivePath(prefix, rec.Code)
	id := baseURL + filename
	label := b.aggregateLabel(rec, prefix)

	if b.store.Exists(filename) {
		b.notify(WriteEvent{Kind: "manifest", Path: filename, Code: rec.Code, Reused: true})
		return ManifestResult{
			Ref:    prezi.Reference{ID: id, Type: prezi.TypeManifest, Label: label},
			Reused: true,
		}, nil
	}

	manifest := prezi.NewManifest(id, label)
	manifest.Rights = b.rights
	manifest.Metadata = []prezi.KeyValue{
		b.keyValue("Identifier", rec.Code),
		b.keyValue("Titles", eachOrUnknown(rec.Titles)...),
		b.keyValue("Dates", eachOrUnknown(rec.Dates)...),
		b.keyValue("Permalink", anchorsOrUnknown(rec.URIs)...),
	}

	scans := rec.Scans
	if len(scans) == 0 {
		var err error
		scans, err = b.scans.Scans(ctx, rec.METSID)
		if err != nil {
			return ManifestResult{}, fmt.Errorf("manifest %s (%s): %w", rec.Code, filename, err)
		}
	}
	b.appendCanvases(ctx, manifest, scans)

	if err := b.store.WriteJSON(filename, manifest); err != nil {
		return ManifestResult{}, fmt.Errorf("manifest %s: %w", rec.Code, err)
	}
	b.logger.Info("wrote manifest",
		logging.String(logging.FieldCode, rec.Code),
		logging.String(logging.FieldPath, filename),
		logging.Int("canvases", len(manifest.Items)))
	b.notify(WriteEvent{Kind: "manifest", Path: filename, Code: rec.Code, Canvases: len(manifest.Items)})

	return ManifestResult{Ref: manifest.Ref(), Manifest: manifest, Canvases: len(manifest.Items)}, nil
}

// appendCanvases adds one canvas per scan, in scan order, with 1-based
// p{n} identifiers.
func (b *Builder) appendCanvases(ctx context.Context, manifest *prezi.Manifest, scans []mets.Scan) {
	for n, scan := range scans {
		base := textutil.StripImageExtension(scan.FileName)
		dims := b.dims.Resolve(ctx, base, scan.ImageServiceURL)

		canvasID := fmt.Sprintf("%s/canvas/p%d", manifest.ID, n+1)
		serviceID := strings.TrimSuffix(scan.ImageServiceURL, "/info.json")

		body := prezi.ImageBody{
			ID:     serviceID + "/full/full/0/default.jpg",
			Type:   prezi.TypeImage,
			Format: "image/jpeg",
			Service: []prezi.ImageService{{
				ID:      serviceID,
				Type:    prezi.TypeImageService2,
				Profile: prezi.ImageService2Profile,
			}},
			Height: dims.Height,
			Width:  dims.Width,
		}

		manifest.Items = append(manifest.Items, prezi.Canvas{
			ID:     canvasID,
			Type:   prezi.TypeCanvas,
			Label:  prezi.NewLangMap(b.language, base),
			Height: dims.Height,
			Width:  dims.Width,
			Items: []prezi.AnnotationPage{{
				ID:   canvasID + "/annotationpage",
				Type: prezi.TypeAnnotationPage,
				Items: []prezi.Annotation{{
					ID:         canvasID + "/anno",
					Type:       prezi.TypeAnnotation,
					Motivation: "painting",
					Body:       body,
					Target:     canvasID,
				}},
			}},
		})
	}
}

func (b *Builder) label(code, title string) prezi.LangMap {
	return prezi.NewLangMap(b.language, code+" - "+title)
}

func (b *Builder) aggregateLabel(rec *inventory.Record, prefix string) prezi.LangMap {
	if strings.Contains(prefix, "inventories") {
		return prezi.NewLangMap(b.language, "Inventory "+rec.Code)
	}
	if len(rec.Titles) > 0 && rec.Titles[0] != "" {
		return prezi.NewLangMap(b.language, rec.Titles[0])
	}
	return prezi.NewLangMap(b.language, rec.Code)
}
