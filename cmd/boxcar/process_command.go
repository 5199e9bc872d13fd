package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"boxcar/internal/config"
	"boxcar/internal/deps"
	"boxcar/internal/workflow"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var useOCR bool

	cmd := &cobra.Command{
		Use:   "process <folder>",
		Short: "Extract container codes and rename every PDF in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ocr") {
				cfg.OCR.Enabled = useOCR
			}

			folder, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve folder: %w", err)
			}

			if missing := deps.MissingRequired(deps.CheckBinaries(deps.ForConfig(cfg))); len(missing) > 0 {
				names := make([]string, 0, len(missing))
				for _, status := range missing {
					names = append(names, status.Command)
				}
				return fmt.Errorf("missing required binaries: %s", strings.Join(names, ", "))
			}

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			manager := workflow.NewManager(cfg, store, logger, workflow.WithDryRun(dryRun))

			runCtx, cancel := signalContext()
			defer cancel()

			summary, runID, runErr := manager.ProcessFolder(runCtx, folder)

			out := cmd.OutOrStdout()
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			if errors.Is(runErr, context.Canceled) {
				fmt.Fprintln(out, "Run interrupted; in-flight documents were marked failed.")
			}

			fmt.Fprintf(out, "Run %s", runID)
			if dryRun {
				fmt.Fprint(out, " (dry run)")
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderSummaryTable(summary.Total, summary.Renamed, summary.Skipped, summary.Errors))
			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute every decision without touching the filesystem")
	cmd.Flags().BoolVar(&useOCR, "ocr", false, "Override the configured OCR setting for this run")
	return cmd
}

func renderSummaryTable(total, renamed, skipped, failed int) string {
	return renderTable(
		[]string{"Total", "Renamed", "Skipped", "Errors"},
		[][]string{{
			strconv.Itoa(total),
			strconv.Itoa(renamed),
			strconv.Itoa(skipped),
			strconv.Itoa(failed),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	)
}
