package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/internal/exporter"
	"github.com/vivekJax/JABS-Window-Analysis/internal/infrastructure"
	"github.com/vivekJax/JABS-Window-Analysis/internal/pipeline"
	"github.com/vivekJax/JABS-Window-Analysis/internal/validation"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// maxConsoleFindings caps how many findings a check category prints to the
// console. The full list is always in the written report.
const maxConsoleFindings = 8

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var fromCSV bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check scan data consistency",
		Long: "validate runs the consistency checks (row counts, uniqueness,\n" +
			"metric ranges, reported summary statistics) and writes the text\n" +
			"report to the output directory. The command exits non-zero when\n" +
			"any check fails.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := fileLogger(cfg)
			runCtx := infrastructure.EnsureTraceID(cmd.Context())
			validator := validation.NewConsistencyValidator(logger, cfg.Validation.Tolerance)

			var report *domain.ValidationReport
			if fromCSV {
				files := validation.NewFileValidator(logger)
				for _, name := range []string{config.VideoResultsFile, config.SummaryStatsFile} {
					if err := files.ValidateCSVFile(filepath.Join(cfg.Paths.OutputDir, name)); err != nil {
						return apperrors.NewInputError("exported table preflight failed", err)
					}
				}

				reader := exporter.NewTableReader(cfg.Paths.OutputDir)
				videos, err := reader.ReadVideoResults()
				if err != nil {
					return err
				}
				summaries, err := reader.ReadSummaryStats()
				if err != nil {
					return err
				}
				report = validator.Validate(runCtx, videos, summaries)
				report.Source = cfg.Paths.OutputDir
			} else {
				state := pipeline.NewState(cfg)
				if err := pipeline.NewParseStage(logger).Run(runCtx, state); err != nil {
					return err
				}
				report = validator.ValidateScan(runCtx, state.Scan)
			}

			path := filepath.Join(cfg.Paths.OutputDir, config.ValidationReportFile)
			if err := validation.WriteTextReport(path, report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printCheckLines(out, report)
			fmt.Fprintf(out, "\nReport written to %s\n", path)

			if !report.Passed() {
				return apperrors.NewValidationError(
					fmt.Sprintf("validation failed: %s", countNoun(report.FailureCount(), "finding")))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromCSV, "from-csv", false,
		"Validate previously exported CSV tables instead of parsing scan text")
	return cmd
}

// printCheckLines prints one pass/fail line per check category, findings
// indented underneath. Colors are skipped when out is not a terminal.
func printCheckLines(out io.Writer, report *domain.ValidationReport) {
	colorize := shouldColorize(out)
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	for _, category := range domain.CheckCategories {
		result := report.Result(category)
		if result == nil {
			continue
		}

		line := fmt.Sprintf("✓ %s", category.Title())
		printer := pass
		if !result.Passed {
			line = fmt.Sprintf("✗ %s (%s)", category.Title(), countNoun(len(result.Failures), "finding"))
			printer = fail
		}
		if colorize {
			printer.Fprintln(out, line)
		} else {
			fmt.Fprintln(out, line)
		}

		for i, failure := range result.Failures {
			if i == maxConsoleFindings {
				fmt.Fprintf(out, "    ... and %d more\n", len(result.Failures)-maxConsoleFindings)
				break
			}
			fmt.Fprintf(out, "    %s\n", failure)
		}
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
