// Package prezi holds the IIIF Presentation API 3.0 JSON shapes emitted
// by the graph builder: Collections referencing nested Collections and
// Manifests, Manifests holding fully embedded Canvases, and lightweight
// References standing in for resources that already exist on disk.
package prezi

import "fmt"

// Context is the IIIF Presentation 3 JSON-LD context.
const Context = "http://iiif.io/api/presentation/3/context.json"

// Resource type constants.
const (
	TypeCollection     = "Collection"
	TypeManifest       = "Manifest"
	TypeCanvas         = "Canvas"
	TypeAnnotationPage = "AnnotationPage"
	TypeAnnotation     = "Annotation"
	TypeImage          = "Image"
	TypeImageService2  = "ImageService2"
)

// ImageService2Profile is the compliance profile advertised for the image
// services backing each canvas.
const ImageService2Profile = "http://iiif.io/api/image/2/level1.json"

// LangMap is a IIIF language map: language code to value list.
type LangMap map[string][]string

// NewLangMap builds a single-language map.
func NewLangMap(lang string, values ...string) LangMap {
	return LangMap{lang: values}
}

// KeyValue is one metadata entry.
type KeyValue struct {
	Label LangMap `json:"label"`
	Value LangMap `json:"value"`
}

// Reference points at a resource by id without embedding its body.
type Reference struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Label LangMap `json:"label,omitempty"`
}

// Ref returns the reference form of the collection for embedding in a
// parent's items.
func (c *Collection) Ref() Reference {
	return Reference{ID: c.ID, Type: TypeCollection, Label: c.Label}
}

// Collection is a IIIF Collection. Items are references; full bodies live
// in their own output files.
type Collection struct {
	JSONLDContext string      `json:"@context,omitempty"`
	ID            string      `json:"id"`
	Type          string      `json:"type"`
	Label         LangMap     `json:"label"`
	Metadata      []KeyValue  `json:"metadata,omitempty"`
	Items         []Reference `json:"items"`
}

// NewCollection creates an empty collection with the JSON-LD context set.
// Items is non-nil so an empty collection still serializes an items array.
func NewCollection(id string, label LangMap) *Collection {
	return &Collection{JSONLDContext: Context, ID: id, Type: TypeCollection, Label: label, Items: []Reference{}}
}

// Manifest is a IIIF Manifest with embedded canvases.
type Manifest struct {
	JSONLDContext string     `json:"@context,omitempty"`
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	Label         LangMap    `json:"label"`
	Metadata      []KeyValue `json:"metadata,omitempty"`
	Rights        string     `json:"rights,omitempty"`
	Items         []Canvas   `json:"items"`
}

// NewManifest creates an empty manifest with the JSON-LD context set.
// Items is non-nil so a manifest without scans still serializes an items
// array.
func NewManifest(id string, label LangMap) *Manifest {
	return &Manifest{JSONLDContext: Context, ID: id, Type: TypeManifest, Label: label, Items: []Canvas{}}
}

// Ref returns the reference form of the manifest.
func (m *Manifest) Ref() Reference {
	return Reference{ID: m.ID, Type: TypeManifest, Label: m.Label}
}

// Canvas is one page with a single painting annotation.
type Canvas struct {
	ID     string           `json:"id"`
	Type   string           `json:"type"`
	Label  LangMap          `json:"label"`
	Height int              `json:"height"`
	Width  int              `json:"width"`
	Items  []AnnotationPage `json:"items"`
}

// AnnotationPage groups the canvas's annotations.
type AnnotationPage struct {
	ID    string       `json:"id"`
	Type  string       `json:"type"`
	Items []Annotation `json:"items"`
}

// Annotation paints an image body onto its target canvas.
type Annotation struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Motivation string    `json:"motivation"`
	Body       ImageBody `json:"body"`
	Target     string    `json:"target"`
}

// ImageBody is the painted image resource.
type ImageBody struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Format  string         `json:"format"`
	Service []ImageService `json:"service,omitempty"`
	Height  int            `json:"height"`
	Width   int            `json:"width"`
}

// ImageService describes the Image API 2 endpoint behind a body. Version 2
// services keep the @id/@type keys inside Presentation 3 documents.
type ImageService struct {
	ID      string `json:"@id"`
	Type    string `json:"@type"`
	Profile string `json:"profile"`
}

// Anchor renders a permalink as the HTML anchor markup used in metadata
// values.
func Anchor(uri string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, uri, uri)
}
