package inventory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Document is one row group from a document metadata CSV. ScanFiles are
// the expanded external identifiers of the document's pages, still to be
// resolved to image service urls.
type Document struct {
	ID        string
	Titles    []string
	Dates     []string
	ScanFiles []string
}

// CSV columns we consume. The export carries more, which are ignored.
const (
	colDocumentID = "document_id"
	colTitle      = "title"
	colDate       = "year_creation_or_dispatch"
	colScanStart  = "scan_start"
	colScanCount  = "no_of_scans"
)

// ParseDocumentsCSV reads a document metadata export. Rows sharing a
// document_id are grouped in first-seen order; each row contributes a
// title and date entry, and the last row's scan range wins for the group.
func ParseDocumentsCSV(r io.Reader) ([]*Document, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDocumentID, colTitle, colDate, colScanStart, colScanCount} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv is missing column %q", required)
		}
	}

	byID := make(map[string]*Document)
	var order []*Document

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		line++

		field := func(name string) string {
			idx := columns[name]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		id := field(colDocumentID)
		if id == "" {
			return nil, fmt.Errorf("csv line %d: empty document_id", line)
		}

		doc, ok := byID[id]
		if !ok {
			doc = &Document{ID: id}
			byID[id] = doc
			order = append(order, doc)
		}
		doc.Titles = append(doc.Titles, field(colTitle))
		doc.Dates = append(doc.Dates, field(colDate))

		files, err := expandScanRange(field(colScanStart), field(colScanCount))
		if err != nil {
			return nil, fmt.Errorf("csv line %d (document %s): %w", line, id, err)
		}
		doc.ScanFiles = files
	}

	return order, nil
}

// expandScanRange turns a scan_start url and a count into the external
// identifiers of consecutive scans. The start url ends in the first
// scan's name, "{base}_{index}", with the base addressed under a /file/
// path segment; indices are zero-padded to four digits.
func expandScanRange(scanStart, count string) ([]string, error) {
	n, err := strconv.Atoi(count)
	if err != nil {
		return nil, fmt.Errorf("invalid no_of_scans %q: %w", count, err)
	}
	if n < 1 {
		return nil, fmt.Errorf("no_of_scans must be positive, got %d", n)
	}

	cut := strings.LastIndex(scanStart, "_")
	if cut < 0 {
		return nil, fmt.Errorf("scan_start %q has no index suffix", scanStart)
	}
	name, startDigits := scanStart[:cut], scanStart[cut+1:]

	_, name, ok := strings.Cut(name, "/file/")
	if !ok {
		return nil, fmt.Errorf("scan_start %q has no /file/ segment", scanStart)
	}

	start, err := strconv.Atoi(startDigits)
	if err != nil {
		return nil, fmt.Errorf("invalid scan index in %q: %w", scanStart, err)
	}

	files := make([]string, 0, n)
	for i := start; i < start+n; i++ {
		files = append(files, fmt.Sprintf("%s_%04d", name, i))
	}
	return files, nil
}
