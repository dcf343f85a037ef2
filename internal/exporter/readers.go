package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// TableReader loads previously exported CSV tables back into domain rows.
// It exists for the CSV round-trip: validation can run against exported
// tables instead of the original scan text. Readers are strict — a header
// or cell that does not match what the writers produce is an error, never a
// silent skip.
type TableReader struct {
	csvWriter *CSVWriter
}

// NewTableReader creates a reader resolving relative paths against outputDir.
func NewTableReader(outputDir string) *TableReader {
	return &TableReader{csvWriter: NewCSVWriter(outputDir)}
}

// ReadVideoResults loads video_results.csv.
func (t *TableReader) ReadVideoResults() ([]domain.VideoRow, error) {
	headers, records, err := t.csvWriter.ReadCSV(config.VideoResultsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read video results: %w", err)
	}
	if err := checkHeaders(config.VideoResultsFile, headers, videoResultHeaders()); err != nil {
		return nil, err
	}

	rows := make([]domain.VideoRow, 0, len(records))
	for i, record := range records {
		row, err := parseVideoRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", config.VideoResultsFile, i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadSummaryStats loads summary_stats.csv. Empty cells become nil statistics.
func (t *TableReader) ReadSummaryStats() ([]domain.SummaryRow, error) {
	headers, records, err := t.csvWriter.ReadCSV(config.SummaryStatsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read summary stats: %w", err)
	}
	want := append([]string{"window_size"}, domain.SummaryColumns...)
	if err := checkHeaders(config.SummaryStatsFile, headers, want); err != nil {
		return nil, err
	}

	rows := make([]domain.SummaryRow, 0, len(records))
	for i, record := range records {
		row, err := parseSummaryRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", config.SummaryStatsFile, i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFeatureImportance loads feature_importance.csv.
func (t *TableReader) ReadFeatureImportance() ([]domain.FeatureRow, error) {
	headers, records, err := t.csvWriter.ReadCSV(config.FeatureImportanceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature importance: %w", err)
	}
	want := []string{"window_size", "rank", "feature_name", "importance"}
	if err := checkHeaders(config.FeatureImportanceFile, headers, want); err != nil {
		return nil, err
	}

	rows := make([]domain.FeatureRow, 0, len(records))
	for i, record := range records {
		if len(record) != len(want) {
			return nil, fmt.Errorf("%s row %d: expected %d fields, got %d",
				config.FeatureImportanceFile, i+1, len(want), len(record))
		}
		windowSize, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid window_size %q", config.FeatureImportanceFile, i+1, record[0])
		}
		rank, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid rank %q", config.FeatureImportanceFile, i+1, record[1])
		}
		importance, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: invalid importance %q", config.FeatureImportanceFile, i+1, record[3])
		}
		rows = append(rows, domain.FeatureRow{
			WindowSize:  windowSize,
			Rank:        rank,
			FeatureName: record[2],
			Importance:  importance,
		})
	}
	return rows, nil
}

func parseVideoRecord(record []string) (domain.VideoRow, error) {
	want := 4 + domain.MetricCount
	if len(record) != want {
		return domain.VideoRow{}, fmt.Errorf("expected %d fields, got %d", want, len(record))
	}

	windowSize, err := strconv.Atoi(record[0])
	if err != nil {
		return domain.VideoRow{}, fmt.Errorf("invalid window_size %q", record[0])
	}
	videoID, err := strconv.Atoi(record[1])
	if err != nil {
		return domain.VideoRow{}, fmt.Errorf("invalid video_id %q", record[1])
	}
	identity, err := strconv.Atoi(record[3])
	if err != nil {
		return domain.VideoRow{}, fmt.Errorf("invalid identity %q", record[3])
	}

	var metrics [domain.MetricCount]float64
	for i := 0; i < domain.MetricCount; i++ {
		v, err := strconv.ParseFloat(record[4+i], 64)
		if err != nil {
			return domain.VideoRow{}, fmt.Errorf("invalid %s %q", domain.MetricColumns[i], record[4+i])
		}
		metrics[i] = v
	}

	return domain.VideoRow{
		WindowSize:           windowSize,
		VideoID:              videoID,
		VideoName:            record[2],
		Identity:             identity,
		Accuracy:             metrics[0],
		PrecisionNotBehavior: metrics[1],
		PrecisionBehavior:    metrics[2],
		RecallNotBehavior:    metrics[3],
		RecallBehavior:       metrics[4],
		F1NotBehavior:        metrics[5],
		F1Behavior:           metrics[6],
	}, nil
}

func parseSummaryRecord(record []string) (domain.SummaryRow, error) {
	want := 1 + len(domain.SummaryColumns)
	if len(record) != want {
		return domain.SummaryRow{}, fmt.Errorf("expected %d fields, got %d", want, len(record))
	}

	windowSize, err := strconv.Atoi(record[0])
	if err != nil {
		return domain.SummaryRow{}, fmt.Errorf("invalid window_size %q", record[0])
	}
	row := domain.SummaryRow{WindowSize: windowSize}

	for i, col := range domain.SummaryColumns {
		cell := record[1+i]
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return domain.SummaryRow{}, fmt.Errorf("invalid %s %q", col, cell)
		}
		switch col {
		case "mean_accuracy":
			row.MeanAccuracy = &v
		case "sd_accuracy":
			row.SDAccuracy = &v
		case "mean_f1_behavior":
			row.MeanF1Behavior = &v
		case "sd_f1_behavior":
			row.SDF1Behavior = &v
		case "mean_f1_not_behavior":
			row.MeanF1NotBehavior = &v
		case "sd_f1_not_behavior":
			row.SDF1NotBehavior = &v
		}
	}
	return row, nil
}

func checkHeaders(name string, got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("%s: unexpected headers %q, want %q",
			name, strings.Join(got, ","), strings.Join(want, ","))
	}
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("%s: unexpected headers %q, want %q",
				name, strings.Join(got, ","), strings.Join(want, ","))
		}
	}
	return nil
}
