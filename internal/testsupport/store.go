package testsupport

import (
	"context"
	"testing"

	"boxcar/internal/config"
	"boxcar/internal/journal"
)

// MustOpenStore opens a journal.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewDocument creates a pending journal record for tests using the provided store.
func NewDocument(t testing.TB, store *journal.Store, runID, sourcePath string) *journal.Record {
	t.Helper()

	record, err := store.NewDocument(context.Background(), runID, sourcePath, false)
	if err != nil {
		t.Fatalf("store.NewDocument: %v", err)
	}
	return record
}
