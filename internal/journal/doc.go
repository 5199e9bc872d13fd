// Package journal persists per-document processing records in SQLite.
//
// Every document a run touches finishes with exactly one record carrying the
// extracted code, the extraction method, the confidence, the rename outcome,
// and a human-readable note. Records are grouped by run identifier so batch
// summaries and CSV exports can be reconstructed after the fact.
//
// The store is the only writer of the database; callers serialize concurrent
// runs with the run lock in this package.
package journal
