package journal

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a document within a run.
type Status string

const (
	StatusPending    Status = "pending"
	StatusReading    Status = "reading"
	StatusExtracting Status = "extracting"
	StatusRenaming   Status = "renaming"
	StatusCompleted  Status = "completed"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusReading,
	StatusExtracting,
	StatusRenaming,
	StatusCompleted,
	StatusSkipped,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusReading:    {},
	StatusExtracting: {},
	StatusRenaming:   {},
}

// Record represents one processed document persisted in SQLite.
type Record struct {
	ID            int64
	RunID         string
	SourcePath    string
	Status        Status
	ExtractedCode string
	Method        string
	Confidence    float64
	NewPath       string
	Note          string
	PageCount     int
	DryRun        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Carried between pipeline stages during one run, never persisted.
	Text       string   `json:"-"`
	Candidates []string `json:"-"`
	OCRUsed    bool     `json:"-"`
}

// Summary aggregates the outcome of one run.
type Summary struct {
	Total     int
	Processed int
	Renamed   int
	Skipped   int
	Errors    int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing reports whether the record reflects an in-flight operation.
func (r Record) IsProcessing() bool {
	_, ok := processingStatuses[r.Status]
	return ok
}

// IsTerminal reports whether the status is one a record may finish a run with.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusSkipped, StatusFailed:
		return true
	default:
		return false
	}
}

// SetFailed marks the record as failed with the given note.
func (r *Record) SetFailed(note string) {
	r.Status = StatusFailed
	r.Note = note
}

// SetSkipped marks the record as skipped with the given note.
func (r *Record) SetSkipped(note string) {
	r.Status = StatusSkipped
	r.Note = note
}
