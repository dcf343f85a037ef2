package exporter

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

func validationFixture() *domain.ValidationReport {
	return &domain.ValidationReport{
		Source: "kfold_results.txt",
		Results: []domain.CheckResult{
			{Category: domain.CheckRowCounts, Passed: true},
			{Category: domain.CheckUniqueness, Passed: true},
			{Category: domain.CheckRanges, Passed: false, Failures: []domain.CheckFailure{
				{WindowSize: 10, Column: domain.MetricAccuracy, Detail: "a.avi [0]: accuracy=1.500000 outside [0,1]"},
			}},
			{Category: domain.CheckSummaryStats, Passed: true},
		},
	}
}

func TestExcelExporter_WriteWorkbook(t *testing.T) {
	tempDir := t.TempDir()
	exp := NewExcelExporter(tempDir)

	require.NoError(t, exp.WriteWorkbook(scanFixture(), aggregateFixture(), validationFixture()))

	path := filepath.Join(tempDir, config.ExcelWorkbookFile)
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		SheetVideoResults,
		SheetSummaryStats,
		SheetFeatureImportance,
		SheetWindowStats,
		SheetValidation,
	}, f.GetSheetList())

	// Video sheet: header row plus one cell spot check.
	rows, err := f.GetRows(SheetVideoResults)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, videoResultHeaders(), rows[0])
	name, err := f.GetCellValue(SheetVideoResults, "C2")
	require.NoError(t, err)
	assert.Equal(t, "a.avi", name)

	// Window stats sheet carries the aggregate values.
	stats, err := f.GetRows(SheetWindowStats)
	require.NoError(t, err)
	require.Len(t, stats, 3)
	assert.Equal(t, windowStatsHeaders(), stats[0])
	assert.Equal(t, "10", stats[1][0])
	assert.Equal(t, "computed", stats[1][2])
	assert.Equal(t, "0.85", stats[1][3])

	// Validation sheet: one row per check plus the overall row.
	checks, err := f.GetRows(SheetValidation)
	require.NoError(t, err)
	require.Len(t, checks, 6)
	assert.Equal(t, []string{"check", "status", "findings"}, checks[0])
	assert.Equal(t, "FAIL", checks[3][1])
	assert.Contains(t, checks[3][2], "outside [0,1]")
	assert.Equal(t, "Overall", checks[5][0])
	assert.Equal(t, "FAIL", checks[5][1])
}

func TestExcelExporter_WorkbookWithoutOptionalSheets(t *testing.T) {
	tempDir := t.TempDir()
	exp := NewExcelExporter(tempDir)

	require.NoError(t, exp.WriteWorkbook(scanFixture(), nil, nil))

	f, err := excelize.OpenFile(filepath.Join(tempDir, config.ExcelWorkbookFile))
	require.NoError(t, err)
	defer f.Close()

	list := f.GetSheetList()
	assert.Contains(t, list, SheetVideoResults)
	assert.NotContains(t, list, SheetWindowStats)
	assert.NotContains(t, list, SheetValidation)
}

func TestExcelExporter_BestValueHighlight(t *testing.T) {
	tempDir := t.TempDir()
	exp := NewExcelExporter(tempDir)
	tables := aggregateFixture()

	require.NoError(t, exp.WriteWorkbook(scanFixture(), tables, nil))

	f, err := excelize.OpenFile(filepath.Join(tempDir, config.ExcelWorkbookFile))
	require.NoError(t, err)
	defer f.Close()

	// Window 10 holds every best value in the fixture; its mean_accuracy cell
	// (row 2, column D) must carry a style, the window 20 cell must not.
	bestStyle, err := f.GetCellStyle(SheetWindowStats, "D2")
	require.NoError(t, err)
	otherStyle, err := f.GetCellStyle(SheetWindowStats, "D3")
	require.NoError(t, err)
	assert.NotEqual(t, bestStyle, otherStyle)
}
