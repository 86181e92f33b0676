// Command iiifgen generates static IIIF Presentation 3 JSON from EAD
// finding aids and document metadata exports, and offers maintenance
// commands for the METS cache, the run ledger, and local previewing.
package main
