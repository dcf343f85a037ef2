package report

import (
	"sort"
	"strings"

	"github.com/vivekJax/JABS-Window-Analysis/internal/analysis"
	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// WindowSeries holds the usable values of one metric for one window size,
// in source row order.
type WindowSeries struct {
	WindowSize int
	Values     []float64
}

// WindowCell is one per-window value in a worst-video breakdown row. Cells
// are aligned with ReportData.Windows; HasValue is false when the video has
// no usable row at that window. Worst marks the video's weakest window.
type WindowCell struct {
	HasValue bool
	Value    float64
	Worst    bool
}

// WorstVideoRow is one row of the worst-video table: the ranking entry plus
// the per-window accuracy and f1_behavior breakdowns the tables render.
type WorstVideoRow struct {
	Rank           int
	VideoName      string
	MeanAccuracy   float64
	SDAccuracy     float64
	MeanF1Behavior float64
	Accuracy       []WindowCell
	F1Behavior     []WindowCell
}

// WindowWorstRow names the weakest usable video row of one window size.
type WindowWorstRow struct {
	WindowSize    int
	AccuracyVideo string
	Accuracy      float64
	F1Video       string
	F1Behavior    float64
}

// SensitivityRow is one ranked entry of the window-sensitivity table.
type SensitivityRow struct {
	Rank int
	domain.SensitivityEntry
}

// FeatureGroup holds one window's feature-importance rows in rank order.
type FeatureGroup struct {
	WindowSize int
	Features   []domain.FeatureRow
}

// ReportData is the assembled view every renderer consumes. It is a pure
// function of the scan and its aggregate tables.
type ReportData struct {
	Title    string
	Behavior string
	Source   string

	// Windows lists the window sizes ascending; per-window slices elsewhere
	// in the view are aligned with it.
	Windows []int

	VideoCount      int
	CaseCount       int
	ExcludedRows    int
	DiagnosticCount int

	// Stats holds one row per window ascending; Best is the row of the
	// winning window.
	Stats      []domain.WindowStats
	Best       domain.WindowStats
	BestWindow int

	// RunnerUp is the strongest window by mean f1_behavior after the
	// winner, 0 when no other window has statistics; RunnerUpGap is the
	// winner's lead over it. WeakestWindow is the row with the lowest
	// mean f1_behavior.
	RunnerUp      int
	RunnerUpGap   float64
	WeakestWindow domain.WindowStats

	// AccuracySeries and F1Series carry the usable per-row values behind
	// the box-whisker charts.
	AccuracySeries []WindowSeries
	F1Series       []WindowSeries

	WorstVideos []WorstVideoRow
	WindowWorst []WindowWorstRow

	// Sensitivity is the ranked CV table; LollipopMin/Max is the shared
	// y-range of its per-video charts.
	Sensitivity []SensitivityRow
	LollipopMin float64
	LollipopMax float64

	Features []FeatureGroup

	// Rows holds every parsed video row in section order, for the full
	// results appendix.
	Rows []domain.VideoRow

	Tables *domain.AggregateTables
}

// BuildData assembles the render view. Missing or inconsistent aggregates
// are an error: renderers never substitute placeholder data.
func BuildData(scan *domain.ScanResult, tables *domain.AggregateTables, title, behavior string) (*ReportData, error) {
	if scan == nil {
		return nil, apperrors.NewReportError("no scan data to report", nil)
	}
	if tables == nil {
		return nil, apperrors.NewReportError("no aggregate tables to report", nil)
	}
	if err := tables.Validate(); err != nil {
		return nil, apperrors.NewReportError("aggregate tables are inconsistent", err)
	}
	if len(tables.WindowStats) == 0 {
		return nil, apperrors.NewReportError("no window statistics to report", nil)
	}
	best := tables.BestWindowStats()
	if best == nil {
		return nil, apperrors.NewReportError("aggregate tables carry no best window", nil)
	}

	windows := make([]int, len(tables.WindowStats))
	for i, s := range tables.WindowStats {
		windows[i] = s.WindowSize
	}

	usable := usableRows(scan.VideoRows())

	data := &ReportData{
		Title:           title,
		Behavior:        behavior,
		Source:          scan.SourceName,
		Windows:         windows,
		VideoCount:      len(tables.VideoNames),
		CaseCount:       len(scan.VideoRows()),
		ExcludedRows:    tables.ExcludedRows,
		DiagnosticCount: len(scan.Diagnostics),
		Stats:           tables.WindowStats,
		Best:            *best,
		BestWindow:      tables.BestWindow,
		AccuracySeries:  metricSeries(usable, windows, domain.MetricAccuracy),
		F1Series:        metricSeries(usable, windows, domain.MetricF1Behavior),
		WorstVideos:     worstVideoRows(tables.WorstVideos, usable, windows),
		WindowWorst:     windowWorstRows(usable, windows),
		Features:        featureGroups(scan.FeatureRows()),
		Rows:            scan.VideoRows(),
		Tables:          tables,
	}

	for i, entry := range tables.Sensitivity {
		data.Sensitivity = append(data.Sensitivity, SensitivityRow{Rank: i + 1, SensitivityEntry: entry})
	}
	data.LollipopMin, data.LollipopMax = lollipopRange(tables.Sensitivity)

	data.WeakestWindow = weakestWindow(tables.WindowStats)
	data.RunnerUp, data.RunnerUpGap = runnerUp(tables.WindowStats, tables.BestWindow, best.MeanF1Behavior)

	return data, nil
}

// weakestWindow finds the stats row with the lowest mean f1_behavior; ties
// keep the smaller window size.
func weakestWindow(stats []domain.WindowStats) domain.WindowStats {
	weakest := stats[0]
	for _, s := range stats[1:] {
		if s.MeanF1Behavior < weakest.MeanF1Behavior {
			weakest = s
		}
	}
	return weakest
}

// runnerUp finds the strongest window by mean f1_behavior excluding the
// winner. Returns 0 when no other window exists.
func runnerUp(stats []domain.WindowStats, bestWindow int, bestF1 float64) (int, float64) {
	runner, runnerF1 := 0, 0.0
	for _, s := range stats {
		if s.WindowSize == bestWindow {
			continue
		}
		if runner == 0 || s.MeanF1Behavior > runnerF1 {
			runner = s.WindowSize
			runnerF1 = s.MeanF1Behavior
		}
	}
	if runner == 0 {
		return 0, 0
	}
	return runner, bestF1 - runnerF1
}

// usableRows filters out rows with a metric outside [0,1], matching the
// aggregator's exclusion so charts and tables agree.
func usableRows(rows []domain.VideoRow) []domain.VideoRow {
	out := make([]domain.VideoRow, 0, len(rows))
	for _, r := range rows {
		if r.InRange() {
			out = append(out, r)
		}
	}
	return out
}

// metricSeries collects the named metric per window, aligned with windows.
func metricSeries(rows []domain.VideoRow, windows []int, column string) []WindowSeries {
	byWindow := make(map[int][]float64, len(windows))
	for _, r := range rows {
		v, _ := r.MetricValue(column)
		byWindow[r.WindowSize] = append(byWindow[r.WindowSize], v)
	}
	out := make([]WindowSeries, len(windows))
	for i, w := range windows {
		out[i] = WindowSeries{WindowSize: w, Values: byWindow[w]}
	}
	return out
}

// worstVideoRows joins the worst-video ranking with per-window f1_behavior
// means recomputed from the usable rows.
func worstVideoRows(ranking []domain.VideoAggregate, rows []domain.VideoRow, windows []int) []WorstVideoRow {
	f1ByVideoWindow := make(map[string]map[int][]float64)
	for _, r := range rows {
		perWindow := f1ByVideoWindow[r.VideoName]
		if perWindow == nil {
			perWindow = make(map[int][]float64)
			f1ByVideoWindow[r.VideoName] = perWindow
		}
		perWindow[r.WindowSize] = append(perWindow[r.WindowSize], r.F1Behavior)
	}

	out := make([]WorstVideoRow, 0, len(ranking))
	for i, va := range ranking {
		accByWindow := make(map[int]float64, len(va.PerWindow))
		for _, wv := range va.PerWindow {
			accByWindow[wv.WindowSize] = wv.Value
		}

		row := WorstVideoRow{
			Rank:         i + 1,
			VideoName:    va.VideoName,
			MeanAccuracy: va.MeanAccuracy,
			SDAccuracy:   va.SDAccuracy,
			Accuracy:     make([]WindowCell, len(windows)),
			F1Behavior:   make([]WindowCell, len(windows)),
		}

		var f1Means []float64
		worstF1 := 0
		worstF1Value := 0.0
		for j, w := range windows {
			if acc, ok := accByWindow[w]; ok {
				row.Accuracy[j] = WindowCell{HasValue: true, Value: acc, Worst: w == va.WorstWindow}
			}
			if values := f1ByVideoWindow[va.VideoName][w]; len(values) > 0 {
				mean := analysis.Mean(values)
				row.F1Behavior[j] = WindowCell{HasValue: true, Value: mean}
				f1Means = append(f1Means, mean)
				if worstF1 == 0 || mean < worstF1Value {
					worstF1 = w
					worstF1Value = mean
				}
			}
		}
		for j, w := range windows {
			if row.F1Behavior[j].HasValue && w == worstF1 {
				row.F1Behavior[j].Worst = true
			}
		}
		row.MeanF1Behavior = analysis.Mean(f1Means)
		out = append(out, row)
	}
	return out
}

// windowWorstRows finds the weakest usable row of each window by accuracy
// and by f1_behavior. Ties keep the earliest row. Windows without usable
// rows are skipped.
func windowWorstRows(rows []domain.VideoRow, windows []int) []WindowWorstRow {
	var out []WindowWorstRow
	for _, w := range windows {
		found := false
		var row WindowWorstRow
		for _, r := range rows {
			if r.WindowSize != w {
				continue
			}
			if !found {
				row = WindowWorstRow{
					WindowSize:    w,
					AccuracyVideo: r.VideoName,
					Accuracy:      r.Accuracy,
					F1Video:       r.VideoName,
					F1Behavior:    r.F1Behavior,
				}
				found = true
				continue
			}
			if r.Accuracy < row.Accuracy {
				row.AccuracyVideo = r.VideoName
				row.Accuracy = r.Accuracy
			}
			if r.F1Behavior < row.F1Behavior {
				row.F1Video = r.VideoName
				row.F1Behavior = r.F1Behavior
			}
		}
		if found {
			out = append(out, row)
		}
	}
	return out
}

// featureGroups groups feature rows by window size ascending, ranks
// ascending within each group.
func featureGroups(rows []domain.FeatureRow) []FeatureGroup {
	byWindow := make(map[int][]domain.FeatureRow)
	for _, r := range rows {
		byWindow[r.WindowSize] = append(byWindow[r.WindowSize], r)
	}
	sizes := make([]int, 0, len(byWindow))
	for w := range byWindow {
		sizes = append(sizes, w)
	}
	sort.Ints(sizes)

	out := make([]FeatureGroup, 0, len(sizes))
	for _, w := range sizes {
		features := byWindow[w]
		sort.SliceStable(features, func(i, j int) bool { return features[i].Rank < features[j].Rank })
		out = append(out, FeatureGroup{WindowSize: w, Features: features})
	}
	return out
}

// lollipopRange computes the shared y-axis range of the sensitivity charts:
// the extent of all per-window values padded by 10% of the range.
func lollipopRange(entries []domain.SensitivityEntry) (float64, float64) {
	var values []float64
	for _, e := range entries {
		for _, wv := range e.PerWindow {
			values = append(values, wv.Value)
		}
	}
	if len(values) == 0 {
		return 0, 1
	}
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	padding := (max - min) * 0.1
	if padding == 0 {
		padding = 0.01
	}
	return min - padding, max + padding
}

// SummaryColumnTitle returns the display name of a summary statistic column.
func SummaryColumnTitle(column string) string {
	switch column {
	case "mean_accuracy":
		return "Mean Accuracy"
	case "sd_accuracy":
		return "SD Accuracy"
	case "mean_f1_behavior":
		return "Mean F1 (Behavior)"
	case "sd_f1_behavior":
		return "SD F1 (Behavior)"
	case "mean_f1_not_behavior":
		return "Mean F1 (Not Behavior)"
	case "sd_f1_not_behavior":
		return "SD F1 (Not Behavior)"
	}
	return column
}

// plotTitle is the chart heading for a summary column.
func plotTitle(column string) string {
	title := SummaryColumnTitle(column)
	if strings.HasPrefix(column, "sd_") {
		title += " (lower is better)"
	}
	return title
}

// truncateName shortens long video file names for table display.
func truncateName(name string, max int) string {
	if len(name) <= max {
		return name
	}
	return name[:max] + "..."
}
