package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"boxcar/internal/deps"
	"boxcar/internal/logging"
	"boxcar/internal/workflow"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external binaries and pipeline readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(cmd.OutOrStdout())

			fmt.Fprintln(out, "Binaries")
			for _, status := range deps.CheckBinaries(deps.ForConfig(cfg)) {
				kind := statusOK
				message := status.Description
				if !status.Available {
					message = status.Detail
					if status.Optional {
						kind = statusWarn
					} else {
						kind = statusError
					}
				}
				fmt.Fprintln(out, renderStatusLine(status.Name, kind, message, colorize))
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			manager := workflow.NewManager(cfg, store, logging.NewNop())

			fmt.Fprintln(out, "Pipeline")
			ready := true
			for _, health := range manager.HealthCheck(cmd.Context()) {
				kind := statusOK
				if !health.Ready {
					kind = statusError
					ready = false
				}
				fmt.Fprintln(out, renderStatusLine(health.Name, kind, health.Detail, colorize))
			}
			fmt.Fprintf(out, "Journal: %s\n", store.Path())
			fmt.Fprintf(out, "OCR enabled: %s\n", yesNo(cfg.OCR.Enabled))
			fmt.Fprintf(out, "LLM enabled: %s\n", yesNo(cfg.LLM.Enabled))
			if !ready {
				return fmt.Errorf("one or more pipeline stages are not ready")
			}
			return nil
		},
	}
}
