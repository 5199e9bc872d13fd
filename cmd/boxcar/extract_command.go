package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"boxcar/internal/config"
	"boxcar/internal/logging"
	"boxcar/internal/workflow"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var useOCR bool

	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Preview the code a document would be renamed after",
		Long:  "Runs the text and extraction passes against one PDF and reports the decision without renaming the file or writing the journal.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("ocr") {
				cfg.OCR.Enabled = useOCR
			}

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve file: %w", err)
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			manager := workflow.NewManager(cfg, store, logging.NewNop())

			runCtx, cancel := signalContext()
			defer cancel()

			inspection, inspectErr := manager.Inspect(runCtx, path)
			printInspection(cmd, inspection)
			if inspectErr != nil && inspection.Note == "" {
				return inspectErr
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useOCR, "ocr", false, "Override the configured OCR setting for this preview")
	return cmd
}

func printInspection(cmd *cobra.Command, inspection workflow.Inspection) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(cmd.OutOrStdout())

	fmt.Fprintf(out, "File: %s\n", inspection.Path)
	fmt.Fprintf(out, "Pages: %d\n", inspection.PageCount)
	fmt.Fprintf(out, "Text: %d bytes (ocr: %s)\n", inspection.TextChars, yesNo(inspection.OCRUsed))
	if len(inspection.Candidates) > 0 {
		fmt.Fprintf(out, "Candidates: %s\n", strings.Join(inspection.Candidates, ", "))
	}

	if inspection.Code == "" {
		detail := inspection.Note
		if detail == "" {
			detail = "no code found"
		}
		fmt.Fprintln(out, renderStatusLine("result", statusWarn, detail, colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("code", statusOK, inspection.Code, colorize))
	fmt.Fprintf(out, "Confidence: %.2f\n", inspection.Confidence)
	fmt.Fprintf(out, "Method: %s\n", inspection.Method)
	if inspection.Note != "" {
		fmt.Fprintf(out, "Note: %s\n", inspection.Note)
	}
}
