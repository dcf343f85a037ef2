package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/vivekJax/JABS-Window-Analysis/internal/analysis"
	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	"github.com/vivekJax/JABS-Window-Analysis/internal/dataprocessing"
	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/internal/exporter"
	"github.com/vivekJax/JABS-Window-Analysis/internal/report"
	"github.com/vivekJax/JABS-Window-Analysis/internal/validation"
)

// DefaultStages returns the full analysis sequence: parse, validate,
// aggregate, export, report.
func DefaultStages(logger *slog.Logger) []Stage {
	return []Stage{
		NewParseStage(logger),
		NewValidateStage(logger),
		NewAggregateStage(logger),
		NewExportStage(logger),
		NewReportStage(logger),
	}
}

// ParseStage reads the scan results file into the shared state.
type ParseStage struct {
	logger *slog.Logger
}

// NewParseStage creates the parse stage.
func NewParseStage(logger *slog.Logger) *ParseStage {
	return &ParseStage{logger: logger}
}

func (s *ParseStage) ID() string   { return StageParse }
func (s *ParseStage) Name() string { return "Parse scan results" }

func (s *ParseStage) Run(ctx context.Context, state *State) error {
	path := state.Config.Input.ScanFile
	if path == "" {
		return apperrors.NewInputError("no scan file configured", nil)
	}
	if err := validation.NewFileValidator(s.logger).ValidateScanFile(path); err != nil {
		return apperrors.NewInputError("scan file preflight failed", err)
	}

	scan, err := dataprocessing.NewParser(s.logger).ParseFile(ctx, path)
	if err != nil {
		return err
	}
	state.Scan = scan
	state.SetItems(StageParse, len(scan.VideoRows()))
	return nil
}

// ValidateStage checks reported statistics against recomputed values and
// writes the validation report. Failed checks are findings, not stage
// failures: the report records them and the run continues.
type ValidateStage struct {
	logger *slog.Logger
}

// NewValidateStage creates the validate stage.
func NewValidateStage(logger *slog.Logger) *ValidateStage {
	return &ValidateStage{logger: logger}
}

func (s *ValidateStage) ID() string   { return StageValidate }
func (s *ValidateStage) Name() string { return "Validate consistency" }

func (s *ValidateStage) Run(ctx context.Context, state *State) error {
	if state.Scan == nil {
		return apperrors.NewValidationError("no scan data to validate")
	}

	validator := validation.NewConsistencyValidator(s.logger, state.Config.Validation.Tolerance)
	vr := validator.ValidateScan(ctx, state.Scan)
	state.Validation = vr

	path := filepath.Join(state.Config.Paths.OutputDir, config.ValidationReportFile)
	if err := validation.WriteTextReport(path, vr); err != nil {
		return err
	}
	state.AddArtifact(path)
	state.SetItems(StageValidate, vr.FailureCount())
	return nil
}

// AggregateStage computes the derived tables from the parsed rows.
type AggregateStage struct {
	logger *slog.Logger
}

// NewAggregateStage creates the aggregate stage.
func NewAggregateStage(logger *slog.Logger) *AggregateStage {
	return &AggregateStage{logger: logger}
}

func (s *AggregateStage) ID() string   { return StageAggregate }
func (s *AggregateStage) Name() string { return "Aggregate statistics" }

func (s *AggregateStage) Run(ctx context.Context, state *State) error {
	if state.Scan == nil {
		return apperrors.NewValidationError("no scan data to aggregate")
	}

	aggregator := analysis.NewAggregator(s.logger, state.Config.Analysis.TopK)
	tables, err := aggregator.Aggregate(ctx, state.Scan.VideoRows(), state.Scan.SummaryRows())
	if err != nil {
		return err
	}
	state.Tables = tables
	state.SetItems(StageAggregate, len(tables.WindowStats))
	return nil
}

// ExportStage writes the CSV tables and the metadata file.
type ExportStage struct {
	logger *slog.Logger
}

// NewExportStage creates the export stage.
func NewExportStage(logger *slog.Logger) *ExportStage {
	return &ExportStage{logger: logger}
}

func (s *ExportStage) ID() string   { return StageExport }
func (s *ExportStage) Name() string { return "Export tables" }

func (s *ExportStage) Run(ctx context.Context, state *State) error {
	if state.Scan == nil {
		return apperrors.NewValidationError("no scan data to export")
	}

	outputDir := state.Config.Paths.OutputDir
	if err := validation.NewFileValidator(s.logger).ValidateOutputDirectory(outputDir); err != nil {
		return apperrors.NewStorageError("output directory preflight failed", err)
	}

	tableExporter := exporter.NewTableExporter(outputDir, state.Config.Export.BOM)
	if err := tableExporter.ExportAll(state.Scan, state.Tables); err != nil {
		return err
	}

	names := []string{
		config.VideoResultsFile,
		config.SummaryStatsFile,
		config.FeatureImportanceFile,
		config.MetadataFile,
	}
	if state.Tables != nil {
		names = append(names, config.WindowStatsFile)
	}
	for _, name := range names {
		state.AddArtifact(filepath.Join(outputDir, name))
	}
	state.SetItems(StageExport, len(names))
	return nil
}

// ReportStage renders the configured report formats: html, latex, excel and
// svg. Formats render in configuration order so artifact lists are stable.
type ReportStage struct {
	logger *slog.Logger
}

// NewReportStage creates the report stage.
func NewReportStage(logger *slog.Logger) *ReportStage {
	return &ReportStage{logger: logger}
}

func (s *ReportStage) ID() string   { return StageReport }
func (s *ReportStage) Name() string { return "Render reports" }

func (s *ReportStage) Run(ctx context.Context, state *State) error {
	if state.Scan == nil || state.Tables == nil {
		return apperrors.NewReportError("no data to report on", nil)
	}

	cfg := state.Config
	data, err := report.BuildData(state.Scan, state.Tables, cfg.Report.Title, cfg.Report.Behavior)
	if err != nil {
		return err
	}
	renderer := report.NewRenderer(s.logger)

	written := 0
	for _, format := range cfg.Report.Formats {
		switch format {
		case "html":
			path := filepath.Join(cfg.Paths.OutputDir, config.HTMLReportFile)
			if err := renderer.WriteHTML(data, path); err != nil {
				return err
			}
			state.AddArtifact(path)
			written++
		case "latex":
			path := filepath.Join(cfg.Paths.OutputDir, config.LaTeXReportFile)
			if err := renderer.WriteLaTeX(data, path); err != nil {
				return err
			}
			state.AddArtifact(path)
			written++
		case "excel":
			excelExporter := exporter.NewExcelExporter(cfg.Paths.OutputDir)
			if err := excelExporter.WriteWorkbook(state.Scan, state.Tables, state.Validation); err != nil {
				return err
			}
			state.AddArtifact(filepath.Join(cfg.Paths.OutputDir, config.ExcelWorkbookFile))
			written++
		case "svg":
			names, err := renderer.WriteCharts(data, cfg.Paths.ChartsDir)
			if err != nil {
				return err
			}
			for _, name := range names {
				state.AddArtifact(filepath.Join(cfg.Paths.ChartsDir, name))
			}
			written += len(names)
		default:
			return apperrors.NewConfigError("unknown report format "+format, nil)
		}
	}
	state.SetItems(StageReport, written)
	return nil
}
