// Package mets resolves digitization service identifiers into ordered
// lists of page scans.
//
// The remote service returns a METS document per identifier. Displayable
// page entries live in the fileSec DISPLAY group; their image service
// URLs are rewritten to the public IIIF Image API convention and joined to
// page filenames from the structMap. Raw responses are cached on disk so
// repeated runs never refetch; cache entries are trusted once written.
package mets
