package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vivekJax/JABS-Window-Analysis/internal/infrastructure"
	"github.com/vivekJax/JABS-Window-Analysis/internal/pipeline"
	"github.com/vivekJax/JABS-Window-Analysis/internal/validation"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var formats []string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render reports from scan results",
		Long: "report parses the scan results, aggregates statistics and renders\n" +
			"the configured report formats. --format narrows the rendered set\n" +
			"and may be repeated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if len(formats) > 0 {
				cfg.Report.Formats = formats
				if err := cfg.Validate(); err != nil {
					return err
				}
			}
			logger := fileLogger(cfg)
			runCtx := infrastructure.EnsureTraceID(cmd.Context())

			state := pipeline.NewState(cfg)
			if err := pipeline.NewParseStage(logger).Run(runCtx, state); err != nil {
				return err
			}

			// The workbook carries a validation sheet, so validate in memory
			// without writing the text report.
			validator := validation.NewConsistencyValidator(logger, cfg.Validation.Tolerance)
			state.Validation = validator.ValidateScan(runCtx, state.Scan)

			if err := pipeline.NewAggregateStage(logger).Run(runCtx, state); err != nil {
				return err
			}
			if err := pipeline.NewReportStage(logger).Run(runCtx, state); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rendered %s:\n", countNoun(len(state.Artifacts), "artifact"))
			for _, artifact := range state.Artifacts {
				fmt.Fprintf(out, "  %s\n", artifact)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&formats, "format", "f", nil,
		"Report format to render: html, latex, excel or svg (repeatable)")
	return cmd
}
