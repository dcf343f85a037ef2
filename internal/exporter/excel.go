package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// Workbook sheet names.
const (
	SheetVideoResults      = "Video Results"
	SheetSummaryStats      = "Summary Stats"
	SheetFeatureImportance = "Feature Importance"
	SheetWindowStats       = "Window Stats"
	SheetValidation        = "Validation"
)

// ExcelExporter builds the window_scan.xlsx workbook: one sheet per exported
// table plus a validation sheet. Best-value cells on the window statistics
// sheet are highlighted the same way the HTML report highlights them.
type ExcelExporter struct {
	outputDir string
}

// NewExcelExporter creates an Excel exporter writing into outputDir.
func NewExcelExporter(outputDir string) *ExcelExporter {
	return &ExcelExporter{outputDir: outputDir}
}

// WriteWorkbook writes the complete workbook. The validation report sheet is
// omitted when report is nil; aggregate sheets are omitted when tables is nil.
func (e *ExcelExporter) WriteWorkbook(scan *domain.ScanResult, tables *domain.AggregateTables, report *domain.ValidationReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetVideoResults); err != nil {
		return fmt.Errorf("failed to name first sheet: %w", err)
	}
	if err := e.writeVideoSheet(f, scan.VideoRows()); err != nil {
		return err
	}
	if err := e.writeSummarySheet(f, scan.SummaryRows()); err != nil {
		return err
	}
	if err := e.writeFeatureSheet(f, scan.FeatureRows()); err != nil {
		return err
	}
	if tables != nil {
		if err := e.writeWindowStatsSheet(f, tables); err != nil {
			return err
		}
	}
	if report != nil {
		if err := e.writeValidationSheet(f, report); err != nil {
			return err
		}
	}

	if idx, err := f.GetSheetIndex(SheetVideoResults); err == nil {
		f.SetActiveSheet(idx)
	}

	path := e.workbookPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	slog.Debug("Workbook written", slog.String("path", path))
	return nil
}

func (e *ExcelExporter) writeVideoSheet(f *excelize.File, rows []domain.VideoRow) error {
	records := make([][]interface{}, 0, len(rows))
	for _, r := range rows {
		record := []interface{}{r.WindowSize, r.VideoID, r.VideoName, r.Identity}
		metrics := r.Metrics()
		for _, v := range metrics {
			record = append(record, v)
		}
		records = append(records, record)
	}
	return writeSheet(f, SheetVideoResults, videoResultHeaders(), records)
}

func (e *ExcelExporter) writeSummarySheet(f *excelize.File, summaries []domain.SummaryRow) error {
	if _, err := f.NewSheet(SheetSummaryStats); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSummaryStats, err)
	}
	records := make([][]interface{}, 0, len(summaries))
	for i := range summaries {
		s := &summaries[i]
		record := []interface{}{s.WindowSize}
		for _, col := range domain.SummaryColumns {
			if v := s.Value(col); v != nil {
				record = append(record, *v)
			} else {
				record = append(record, "")
			}
		}
		records = append(records, record)
	}
	headers := append([]string{"window_size"}, domain.SummaryColumns...)
	return writeSheet(f, SheetSummaryStats, headers, records)
}

func (e *ExcelExporter) writeFeatureSheet(f *excelize.File, features []domain.FeatureRow) error {
	if _, err := f.NewSheet(SheetFeatureImportance); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetFeatureImportance, err)
	}
	records := make([][]interface{}, 0, len(features))
	for _, fr := range features {
		records = append(records, []interface{}{fr.WindowSize, fr.Rank, fr.FeatureName, fr.Importance})
	}
	headers := []string{"window_size", "rank", "feature_name", "importance"}
	return writeSheet(f, SheetFeatureImportance, headers, records)
}

func (e *ExcelExporter) writeWindowStatsSheet(f *excelize.File, tables *domain.AggregateTables) error {
	if _, err := f.NewSheet(SheetWindowStats); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetWindowStats, err)
	}
	records := make([][]interface{}, 0, len(tables.WindowStats))
	for i := range tables.WindowStats {
		s := &tables.WindowStats[i]
		record := []interface{}{s.WindowSize, s.VideoCount, string(s.Source)}
		for _, col := range domain.SummaryColumns {
			v, _ := s.Value(col)
			record = append(record, v)
		}
		records = append(records, record)
	}
	if err := writeSheet(f, SheetWindowStats, windowStatsHeaders(), records); err != nil {
		return err
	}

	// Highlight the best value of each statistic column.
	bestStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "006100"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C6EFCE"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create highlight style: %w", err)
	}
	for i := range tables.WindowStats {
		s := &tables.WindowStats[i]
		for j, col := range domain.SummaryColumns {
			if !tables.IsBestValue(col, s.WindowSize) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(4+j, 2+i)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellStyle(SheetWindowStats, cell, cell, bestStyle); err != nil {
				return fmt.Errorf("failed to style cell %s: %w", cell, err)
			}
		}
	}
	return nil
}

func (e *ExcelExporter) writeValidationSheet(f *excelize.File, report *domain.ValidationReport) error {
	if _, err := f.NewSheet(SheetValidation); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetValidation, err)
	}

	records := make([][]interface{}, 0, len(report.Results)+1)
	for _, res := range report.Results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		details := make([]string, 0, len(res.Failures))
		for _, failure := range res.Failures {
			details = append(details, failure.String())
		}
		records = append(records, []interface{}{
			res.Category.Title(), status, strings.Join(details, "; "),
		})
	}
	overall := "PASS"
	if !report.Passed() {
		overall = "FAIL"
	}
	records = append(records, []interface{}{"Overall", overall, ""})

	headers := []string{"check", "status", "findings"}
	if err := writeSheet(f, SheetValidation, headers, records); err != nil {
		return err
	}

	failStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "9C0006"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create failure style: %w", err)
	}
	for i, record := range records {
		if record[1] != "FAIL" {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(2, 2+i)
		if err != nil {
			return fmt.Errorf("failed to address cell: %w", err)
		}
		if err := f.SetCellStyle(SheetValidation, cell, cell, failStyle); err != nil {
			return fmt.Errorf("failed to style cell %s: %w", cell, err)
		}
	}
	return nil
}

// writeSheet fills a sheet with a bold header row plus records and widens the
// columns to something readable.
func writeSheet(f *excelize.File, sheet string, headers []string, records [][]interface{}) error {
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for j, h := range headers {
		cell, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header %s: %w", h, err)
		}
	}

	for i, record := range records {
		for j, value := range record {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("failed to compute last column: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return fmt.Errorf("failed to set column widths: %w", err)
	}
	return nil
}

func (e *ExcelExporter) workbookPath() string {
	if e.outputDir == "" {
		return config.ExcelWorkbookFile
	}
	return filepath.Join(e.outputDir, config.ExcelWorkbookFile)
}
