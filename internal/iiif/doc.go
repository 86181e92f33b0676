// Package iiif contains the recursive graph builder that transforms an
// archival tree into IIIF Presentation resources.
//
// The builder derives output paths and identifiers from node codes, prunes
// subtrees that yield no manifests, reuses manifests that already exist on
// disk (returning bare references instead of rebuilding), and writes each
// surviving resource post-order through the output store. Scan lists come
// from the scan resolver; canvas dimensions from the dimension resolver's
// always-terminating fallback chain.
package iiif
