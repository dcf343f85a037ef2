package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vivekJax/JABS-Window-Analysis/internal/infrastructure"
	"github.com/vivekJax/JABS-Window-Analysis/internal/pipeline"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute and display per-window statistics",
		Long: "stats parses the scan results, recomputes the per-window summary\n" +
			"statistics and prints them together with the worst-video and\n" +
			"window-sensitivity rankings.",
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
			if err := pipeline.NewAggregateStage(logger).Run(runCtx, state); err != nil {
				return err
			}
			tables := state.Tables

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Per-window statistics:")
			fmt.Fprintln(out, renderWindowStatsTable(tables))
			fmt.Fprintln(out, "* best value in column (max for means, min for SDs)")

			if best := tables.BestWindowStats(); best != nil {
				fmt.Fprintf(out, "\nBest window: %d frames (mean f1_behavior %.4f, mean accuracy %.4f)\n",
					best.WindowSize, best.MeanF1Behavior, best.MeanAccuracy)
			}
			if tables.ExcludedRows > 0 {
				fmt.Fprintf(out, "%s excluded for out-of-range metrics\n",
					countNoun(tables.ExcludedRows, "row"))
			}

			if len(tables.WorstVideos) > 0 {
				fmt.Fprintln(out, "\nLowest-accuracy videos:")
				fmt.Fprintln(out, renderWorstVideosTable(tables.WorstVideos))
			}
			if len(tables.Sensitivity) > 0 {
				fmt.Fprintln(out, "\nMost window-sensitive videos (f1_behavior):")
				fmt.Fprintln(out, renderSensitivityTable(tables.Sensitivity))
			}
			return nil
		},
	}
	return cmd
}

func renderWindowStatsTable(tables *domain.AggregateTables) string {
	headers := []string{"Window", "Videos", "Mean Acc", "SD Acc", "Mean F1 Beh", "SD F1 Beh", "Mean F1 Not", "SD F1 Not"}
	rows := make([][]string, 0, len(tables.WindowStats))
	for i := range tables.WindowStats {
		stats := &tables.WindowStats[i]
		row := []string{strconv.Itoa(stats.WindowSize), strconv.Itoa(stats.VideoCount)}
		for _, column := range domain.SummaryColumns {
			value, _ := stats.Value(column)
			cell := fmt.Sprintf("%.4f", value)
			if tables.IsBestValue(column, stats.WindowSize) {
				cell += "*"
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	aligns := make([]columnAlignment, len(headers))
	for i := range aligns {
		aligns[i] = alignRight
	}
	return renderTable(headers, rows, aligns)
}

func renderWorstVideosTable(videos []domain.VideoAggregate) string {
	rows := make([][]string, 0, len(videos))
	for i, video := range videos {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			video.VideoName,
			strconv.Itoa(video.WindowCount),
			fmt.Sprintf("%.4f", video.MeanAccuracy),
			fmt.Sprintf("%.4f", video.SDAccuracy),
			strconv.Itoa(video.WorstWindow),
		})
	}
	return renderTable(
		[]string{"Rank", "Video", "Windows", "Mean Acc", "SD Acc", "Worst Window"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}

func renderSensitivityTable(entries []domain.SensitivityEntry) string {
	rows := make([][]string, 0, len(entries))
	for i, entry := range entries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			entry.VideoName,
			fmt.Sprintf("%.4f", entry.MeanF1Behavior),
			fmt.Sprintf("%.4f", entry.SDF1Behavior),
			fmt.Sprintf("%.4f", entry.CV),
			strconv.Itoa(entry.BestWindow),
		})
	}
	return renderTable(
		[]string{"Rank", "Video", "Mean F1 Beh", "SD F1 Beh", "CV", "Best Window"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight},
	)
}
