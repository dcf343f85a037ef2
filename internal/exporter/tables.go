package exporter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vivekJax/JABS-Window-Analysis/internal/config"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// TableExporter writes the canonical scan tables as CSV files plus the
// plain-text parsing metadata. Output is deterministic: video rows keep their
// source order, per-window tables are sorted ascending by window size.
type TableExporter struct {
	csvWriter *CSVWriter
	bom       bool
}

// NewTableExporter creates a table exporter writing into outputDir. When bom
// is true every CSV file starts with a UTF-8 byte order mark.
func NewTableExporter(outputDir string, bom bool) *TableExporter {
	return &TableExporter{
		csvWriter: NewCSVWriter(outputDir),
		bom:       bom,
	}
}

// ExportAll writes every table derived from a parse: the three parsed tables,
// the recomputed window statistics, and the metadata file.
func (t *TableExporter) ExportAll(scan *domain.ScanResult, tables *domain.AggregateTables) error {
	if err := t.ExportVideoResults(scan.VideoRows()); err != nil {
		return err
	}
	if err := t.ExportSummaryStats(scan.SummaryRows()); err != nil {
		return err
	}
	if err := t.ExportFeatureImportance(scan.FeatureRows()); err != nil {
		return err
	}
	if tables != nil {
		if err := t.ExportWindowStats(tables.WindowStats); err != nil {
			return err
		}
	}
	return t.ExportMetadata(scan.Metadata())
}

// ExportVideoResults writes video_results.csv in source order.
func (t *TableExporter) ExportVideoResults(rows []domain.VideoRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		record := []string{
			formatInt(r.WindowSize),
			formatInt(r.VideoID),
			r.VideoName,
			formatInt(r.Identity),
		}
		metrics := r.Metrics()
		for _, v := range metrics {
			record = append(record, formatFloat(v))
		}
		records = append(records, record)
	}

	if err := t.write(config.VideoResultsFile, videoResultHeaders(), records); err != nil {
		return fmt.Errorf("failed to write video results: %w", err)
	}
	return nil
}

// ExportSummaryStats writes summary_stats.csv ascending by window size.
// Statistics the scan did not report become empty cells.
func (t *TableExporter) ExportSummaryStats(summaries []domain.SummaryRow) error {
	sorted := make([]domain.SummaryRow, len(summaries))
	copy(sorted, summaries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WindowSize < sorted[j].WindowSize
	})

	records := make([][]string, 0, len(sorted))
	for i := range sorted {
		s := &sorted[i]
		record := []string{formatInt(s.WindowSize)}
		for _, col := range domain.SummaryColumns {
			record = append(record, formatFloatPtr(s.Value(col)))
		}
		records = append(records, record)
	}

	headers := append([]string{"window_size"}, domain.SummaryColumns...)
	if err := t.write(config.SummaryStatsFile, headers, records); err != nil {
		return fmt.Errorf("failed to write summary stats: %w", err)
	}
	return nil
}

// ExportFeatureImportance writes feature_importance.csv ordered by window
// size, then rank.
func (t *TableExporter) ExportFeatureImportance(features []domain.FeatureRow) error {
	sorted := make([]domain.FeatureRow, len(features))
	copy(sorted, features)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].WindowSize != sorted[j].WindowSize {
			return sorted[i].WindowSize < sorted[j].WindowSize
		}
		return sorted[i].Rank < sorted[j].Rank
	})

	records := make([][]string, 0, len(sorted))
	for _, f := range sorted {
		records = append(records, []string{
			formatInt(f.WindowSize),
			formatInt(f.Rank),
			f.FeatureName,
			formatFloat(f.Importance),
		})
	}

	headers := []string{"window_size", "rank", "feature_name", "importance"}
	if err := t.write(config.FeatureImportanceFile, headers, records); err != nil {
		return fmt.Errorf("failed to write feature importance: %w", err)
	}
	return nil
}

// ExportWindowStats writes window_stats.csv, the recomputed per-window
// aggregate statistics.
func (t *TableExporter) ExportWindowStats(stats []domain.WindowStats) error {
	records := make([][]string, 0, len(stats))
	for i := range stats {
		s := &stats[i]
		record := []string{
			formatInt(s.WindowSize),
			formatInt(s.VideoCount),
			string(s.Source),
		}
		for _, col := range domain.SummaryColumns {
			v, _ := s.Value(col)
			record = append(record, formatFloat(v))
		}
		records = append(records, record)
	}

	if err := t.write(config.WindowStatsFile, windowStatsHeaders(), records); err != nil {
		return fmt.Errorf("failed to write window stats: %w", err)
	}
	return nil
}

// ExportMetadata writes metadata.txt describing the parse. The layout is
// fixed and carries no timestamps so repeat runs produce identical bytes.
func (t *TableExporter) ExportMetadata(meta domain.ScanMetadata) error {
	var b strings.Builder
	b.WriteString("Parsing Metadata\n")
	b.WriteString(strings.Repeat("=", 80) + "\n\n")
	fmt.Fprintf(&b, "Number of windows: %d\n", meta.WindowCount)
	fmt.Fprintf(&b, "Number of videos: %d\n", meta.VideoCount)
	fmt.Fprintf(&b, "Window sizes: %s\n\n", formatIntList(meta.WindowSizes))
	b.WriteString("Video counts per window:\n")

	sizes := make([]int, 0, len(meta.VideosPerWindow))
	for size := range meta.VideosPerWindow {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	for _, size := range sizes {
		fmt.Fprintf(&b, "  Window %d: %d videos\n", size, meta.VideosPerWindow[size])
	}

	path := t.csvWriter.resolvePath(config.MetadataFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

func (t *TableExporter) write(name string, headers []string, records [][]string) error {
	return t.csvWriter.WriteCSV(name, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: t.bom,
	})
}

// videoResultHeaders returns the video_results.csv column order: the four
// identifying columns followed by the seven metrics in row order.
func videoResultHeaders() []string {
	headers := []string{"window_size", "video_id", "video_name", "identity"}
	return append(headers, domain.MetricColumns...)
}

func windowStatsHeaders() []string {
	headers := []string{"window_size", "video_count", "source"}
	return append(headers, domain.SummaryColumns...)
}

// formatIntList renders window sizes as "[10, 25, 40]".
func formatIntList(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatInt(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
