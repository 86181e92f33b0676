// Package inventory aggregates archival file leaves into per-inventory
// records. Several source documents can share one inventory number; the
// aggregated record carries one metadata entry per document and becomes a
// single output manifest.
package inventory

import (
	"iiifgen/internal/ead"
	"iiifgen/internal/mets"
)

// Record is the aggregated metadata for one output code. Titles, Dates,
// and URIs run parallel: one entry per aggregated source document, in
// tree order. Scans, when non-nil, are pre-resolved pages (CSV document
// mode); otherwise METSID is resolved at build time.
type Record struct {
	Code   string
	Titles []string
	Dates  []string
	URIs   []string
	METSID string
	Scans  []mets.Scan
}

// Aggregate groups the fonds's file leaves by inventory number, preserving
// first-seen order. Later leaves with the same code contribute additional
// metadata entries; the METS id of the last leaf wins, matching how the
// finding aid repeats the same digitized unit.
func Aggregate(fonds *ead.Node) []*Record {
	byCode := make(map[string]*Record)
	var order []*Record

	for _, file := range fonds.Files() {
		rec, ok := byCode[file.Code]
		if !ok {
			rec = &Record{Code: file.Code}
			byCode[file.Code] = rec
			order = append(order, rec)
		}
		rec.Titles = append(rec.Titles, file.Title)
		rec.Dates = append(rec.Dates, file.Date)
		rec.URIs = append(rec.URIs, file.URI)
		rec.METSID = file.METSID
	}

	return order
}
