package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vivekJax/JABS-Window-Analysis/internal/infrastructure"
	"github.com/vivekJax/JABS-Window-Analysis/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full analysis pipeline",
		Long: "run executes parse, validate, aggregate, export and report in\n" +
			"order under the output directory lock and records a run manifest\n" +
			"in the logs directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Logging)

			providers, err := infrastructure.InitializeTracing(cfg.Tracing, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := providers.Shutdown(context.Background()); err != nil {
					logger.Warn("Failed to shut down tracing", slog.String("error", err.Error()))
				}
			}()

			runCtx := infrastructure.EnsureTraceID(cmd.Context())
			runner := pipeline.NewRunner(logger, providers.Tracer)
			manifest, runErr := runner.Run(runCtx, cfg, pipeline.DefaultStages(logger))

			if manifest != nil {
				printRunSummary(cmd.OutOrStdout(), manifest, cfg.ManifestPath())
			}
			return runErr
		},
	}
	return cmd
}

func printRunSummary(out io.Writer, manifest *pipeline.RunManifest, manifestPath string) {
	rows := make([][]string, 0, len(manifest.Stages))
	for _, rec := range manifest.Stages {
		items := ""
		if rec.Items > 0 {
			items = strconv.Itoa(rec.Items)
		}
		rows = append(rows, []string{rec.Name, string(rec.Status), rec.Duration, items})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Stage", "Status", "Duration", "Items"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
	))
	fmt.Fprintf(out, "Run %s %s: %s, manifest at %s\n",
		manifest.RunID, manifest.Status,
		countNoun(len(manifest.Artifacts), "artifact"), manifestPath)
}
