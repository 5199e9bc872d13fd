package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"boxcar/internal/config"
	"boxcar/internal/journal"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Rename journal utilities",
	}

	logCmd.AddCommand(newLogListCommand(ctx))
	logCmd.AddCommand(newLogExportCommand(ctx))

	return logCmd
}

func newLogListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent journal records",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list journal: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "Journal is empty.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					rec.UpdatedAt.Local().Format(time.DateTime),
					string(rec.Status),
					rec.ExtractedCode,
					formatConfidence(rec.Confidence),
					rec.Method,
					filepath.Base(rec.SourcePath),
					rec.Note,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Updated", "Status", "Code", "Conf", "Method", "File", "Note"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum records to show (0 for all)")
	return cmd
}

func newLogExportCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the journal as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.ListRecent(cmd.Context(), 0)
			if err != nil {
				return fmt.Errorf("list journal: %w", err)
			}

			var writer io.Writer = cmd.OutOrStdout()
			if target := strings.TrimSpace(output); target != "" {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve output path: %w", err)
				}
				file, err := os.Create(expanded)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer file.Close()
				writer = file
			}

			if err := journal.WriteCSV(writer, records); err != nil {
				return err
			}
			if strings.TrimSpace(output) != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records\n", len(records))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write CSV to a file instead of stdout")
	return cmd
}

func formatConfidence(value float64) string {
	if value == 0 {
		return ""
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}
