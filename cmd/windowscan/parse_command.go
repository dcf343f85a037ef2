package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vivekJax/JABS-Window-Analysis/internal/infrastructure"
	"github.com/vivekJax/JABS-Window-Analysis/internal/pipeline"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse scan results and export the CSV tables",
		Long: "parse reads the window scan results text, prints what was found\n" +
			"per window section and exports the normalized CSV tables plus the\n" +
			"metadata file to the output directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := fileLogger(cfg)
			runCtx := infrastructure.EnsureTraceID(cmd.Context())

			state := pipeline.NewState(cfg)
			if err := pipeline.NewParseStage(logger).Run(runCtx, state); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			scan := state.Scan
			fmt.Fprintf(out, "Parsed %s: %s, %s\n",
				filepath.Base(scan.SourceName),
				countNoun(len(scan.Windows), "window section"),
				countNoun(len(scan.VideoRows()), "video row"))

			rows := make([][]string, 0, len(scan.Windows))
			for _, section := range scan.Windows {
				summary := "-"
				if section.HasSummary() {
					summary = "yes"
				}
				rows = append(rows, []string{
					strconv.Itoa(section.WindowSize),
					strconv.Itoa(len(section.Videos)),
					summary,
					strconv.Itoa(len(section.Features)),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Window", "Videos", "Summary", "Features"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignRight},
			))

			if len(scan.Diagnostics) > 0 {
				fmt.Fprintf(out, "%s:\n", countNoun(len(scan.Diagnostics), "parse diagnostic"))
				for _, diag := range scan.Diagnostics {
					fmt.Fprintf(out, "  %s\n", diag)
				}
			}

			if err := pipeline.NewExportStage(logger).Run(runCtx, state); err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %s to %s\n",
				countNoun(state.Items(pipeline.StageExport), "file"), cfg.Paths.OutputDir)
			return nil
		},
	}
	return cmd
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
