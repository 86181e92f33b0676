package iiif

import "iiifgen/internal/iiif/prezi"

// descriptiveMetadata assembles the shared Identifier/Title entries, with
// a Permalink only when a URI is available.
func (b *Builder) descriptiveMetadata(code, title, uri string) []prezi.KeyValue {
	metadata := []prezi.KeyValue{
		b.keyValue("Identifier", code),
		b.keyValue("Title", title),
	}
	if uri != "" {
		metadata = append(metadata, b.keyValue("Permalink", prezi.Anchor(uri)))
	}
	return metadata
}

func (b *Builder) keyValue(label string, values ...string) prezi.KeyValue {
	return prezi.KeyValue{
		Label: prezi.NewLangMap(b.language, label),
		Value: prezi.NewLangMap(b.language, values...),
	}
}

func orUnknown(value string) string {
	if value == "" {
		return "?"
	}
	return value
}

func eachOrUnknown(values []string) []string {
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = orUnknown(value)
	}
	return out
}

func anchorsOrUnknown(uris []string) []string {
	out := make([]string, len(uris))
	for i, uri := range uris {
		if uri == "" {
			out[i] = "?"
			continue
		}
		out[i] = prezi.Anchor(uri)
	}
	return out
}
