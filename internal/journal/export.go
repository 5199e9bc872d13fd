package journal

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// ExportFields is the CSV column order used by WriteCSV.
var ExportFields = []string{
	"timestamp",
	"original_path",
	"new_path",
	"extracted_code",
	"method",
	"confidence",
	"note",
	"dry_run",
}

// WriteCSV renders records in the append-only rename-log format: one header
// line followed by one row per record.
func WriteCSV(w io.Writer, records []*Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportFields); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		if record == nil {
			continue
		}
		row := []string{
			record.UpdatedAt.UTC().Format(time.DateTime),
			record.SourcePath,
			record.NewPath,
			record.ExtractedCode,
			record.Method,
			strconv.FormatFloat(record.Confidence, 'f', 2, 64),
			record.Note,
			boolFlag(record.DryRun),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func boolFlag(value bool) string {
	if value {
		return "1"
	}
	return "0"
}
