package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"boxcar/internal/config"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the journal database and ensures the schema.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.JournalPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the journal database file.
func (s *Store) Path() string {
	return s.path
}

// NewDocument inserts a pending record for a document a run is about to process.
func (s *Store) NewDocument(ctx context.Context, runID, sourcePath string, dryRun bool) (*Record, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO journal_records (
            run_id, source_path, status, confidence, dry_run, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID,
		sourcePath,
		StatusPending,
		0.0,
		boolToInt(dryRun),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches a journal record by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM journal_records WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return record, nil
}

// Update persists changes to an existing journal record.
func (s *Store) Update(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	record.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE journal_records
         SET run_id = ?, source_path = ?, status = ?, extracted_code = ?,
             method = ?, confidence = ?, new_path = ?, note = ?,
             page_count = ?, dry_run = ?, updated_at = ?
         WHERE id = ?`,
		record.RunID,
		record.SourcePath,
		record.Status,
		nullableString(record.ExtractedCode),
		nullableString(record.Method),
		record.Confidence,
		nullableString(record.NewPath),
		nullableString(record.Note),
		record.PageCount,
		boolToInt(record.DryRun),
		record.UpdatedAt.Format(time.RFC3339Nano),
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// ListRun returns all records for a run ordered by creation time.
func (s *Store) ListRun(ctx context.Context, runID string) ([]*Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM journal_records WHERE run_id = ? ORDER BY created_at, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list run records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListRecent returns up to limit records ordered newest first. A non-positive
// limit returns all records.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]*Record, error) {
	query := `SELECT ` + recordColumns + ` FROM journal_records ORDER BY created_at DESC, id DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list recent records: %w", err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// RunSummary aggregates the terminal statuses of one run.
func (s *Store) RunSummary(ctx context.Context, runID string) (Summary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT status, COUNT(1) FROM journal_records WHERE run_id = ? GROUP BY status`,
		runID,
	)
	if err != nil {
		return Summary{}, fmt.Errorf("run summary: %w", err)
	}
	defer rows.Close()

	summary := Summary{}
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Summary{}, err
		}
		summary.Total += count
		switch status {
		case StatusCompleted:
			summary.Renamed += count
			summary.Processed += count
		case StatusSkipped:
			summary.Skipped += count
			summary.Processed += count
		case StatusFailed:
			summary.Errors += count
		default:
			summary.Processed += count
		}
	}
	return summary, rows.Err()
}

// FailInFlight marks any non-terminal records of a run as failed. Used when a
// run is cancelled partway through a document.
func (s *Store) FailInFlight(ctx context.Context, runID, note string) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE journal_records SET status = ?, note = ?, updated_at = ?
         WHERE run_id = ? AND status IN (?, ?, ?, ?)`,
		StatusFailed,
		note,
		time.Now().UTC().Format(time.RFC3339Nano),
		runID,
		StatusPending,
		StatusReading,
		StatusExtracting,
		StatusRenaming,
	)
	if err != nil {
		return 0, fmt.Errorf("fail in-flight records: %w", err)
	}
	return res.RowsAffected()
}

const recordColumns = "id, run_id, source_path, status, extracted_code, method, confidence, new_path, note, page_count, dry_run, created_at, updated_at"

func collectRecords(rows *sql.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id            int64
		runID         string
		sourcePath    string
		statusStr     string
		extractedCode sql.NullString
		method        sql.NullString
		confidence    sql.NullFloat64
		newPath       sql.NullString
		note          sql.NullString
		pageCount     sql.NullInt64
		dryRun        sql.NullInt64
		createdRaw    sql.NullString
		updatedRaw    sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runID,
		&sourcePath,
		&statusStr,
		&extractedCode,
		&method,
		&confidence,
		&newPath,
		&note,
		&pageCount,
		&dryRun,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	record := &Record{
		ID:            id,
		RunID:         runID,
		SourcePath:    sourcePath,
		Status:        Status(statusStr),
		ExtractedCode: extractedCode.String,
		Method:        method.String,
		Confidence:    confidence.Float64,
		NewPath:       newPath.String,
		Note:          note.String,
		PageCount:     int(pageCount.Int64),
		DryRun:        dryRun.Int64 != 0,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
