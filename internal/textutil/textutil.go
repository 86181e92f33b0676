// Package textutil provides small string helpers for archival metadata:
// whitespace collapsing for titles, filesystem-safe codes, and scan
// filename handling.
package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// imageExtensions are the scan file extensions stripped when deriving
// canvas labels.
var imageExtensions = []string{".tif", ".tiff", ".jpg", ".jpeg"}

// CollapseWhitespace trims the string, NFC-normalizes it, and reduces any
// run of whitespace to a single space. Finding aids frequently contain
// newlines and double spaces inside titles.
func CollapseWhitespace(value string) string {
	value = norm.NFC.String(value)
	return strings.Join(strings.Fields(value), " ")
}

// SanitizeCode makes an archival unit code safe for use as a path
// component. Path separators would otherwise split the derived output
// path at the wrong place.
func SanitizeCode(code string) string {
	code = CollapseWhitespace(code)
	code = strings.ReplaceAll(code, "/", "-")
	return strings.ReplaceAll(code, "\\", "-")
}

// StripImageExtension removes a known image file extension from a scan
// filename. Unknown extensions are kept as-is.
func StripImageExtension(fileName string) string {
	lower := strings.ToLower(fileName)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return fileName[:len(fileName)-len(ext)]
		}
	}
	return fileName
}
