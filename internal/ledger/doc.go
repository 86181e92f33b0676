// Package ledger records generation runs and their emitted resources in a
// SQLite database. The ledger is bookkeeping only: output JSON on disk is
// the source of truth, the ledger answers "what did recent runs do".
package ledger
