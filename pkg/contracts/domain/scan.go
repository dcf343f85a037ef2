// Package domain defines the Single Source of Truth (SSOT) data structures
// for the JABS window-size scan toolkit. Parsed records, aggregate tables and
// validation results all flow through these types; parsers, validators,
// exporters and report renderers must not invent parallel representations.
package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Metric column names in the order the seven floats appear in a video row.
// These are also the CSV column names for video_results.csv.
const (
	MetricAccuracy             = "accuracy"
	MetricPrecisionNotBehavior = "precision_not_behavior"
	MetricPrecisionBehavior    = "precision_behavior"
	MetricRecallNotBehavior    = "recall_not_behavior"
	MetricRecallBehavior       = "recall_behavior"
	MetricF1NotBehavior        = "f1_not_behavior"
	MetricF1Behavior           = "f1_behavior"
)

// MetricCount is the number of per-video metric columns in a scan row.
const MetricCount = 7

// MetricColumns lists the metric columns in canonical row order.
var MetricColumns = []string{
	MetricAccuracy,
	MetricPrecisionNotBehavior,
	MetricPrecisionBehavior,
	MetricRecallNotBehavior,
	MetricRecallBehavior,
	MetricF1NotBehavior,
	MetricF1Behavior,
}

// VideoRow is one cross-validation result: the metrics obtained for a single
// (video, identity) pair at a single window size. Metric values are expected
// to lie in [0,1] but out-of-range values survive parsing so the consistency
// validator can report them; range enforcement is deliberately not part of
// construction.
type VideoRow struct {
	// WindowSize is the smoothing window width, in frames, of the section
	// this row was parsed from.
	WindowSize int `json:"window_size" csv:"window_size" validate:"required,min=1"`

	// VideoID is the integer index at the start of the source row. It is
	// positional within a window section and carries no cross-window meaning.
	VideoID int `json:"video_id" csv:"video_id" validate:"min=0"`

	// VideoName is the video file name, which may contain spaces.
	VideoName string `json:"video_name" csv:"video_name" validate:"required"`

	// Identity is the held-out animal identity within the video, taken from
	// the trailing [N] marker.
	Identity int `json:"identity" csv:"identity" validate:"min=0"`

	Accuracy             float64 `json:"accuracy" csv:"accuracy"`
	PrecisionNotBehavior float64 `json:"precision_not_behavior" csv:"precision_not_behavior"`
	PrecisionBehavior    float64 `json:"precision_behavior" csv:"precision_behavior"`
	RecallNotBehavior    float64 `json:"recall_not_behavior" csv:"recall_not_behavior"`
	RecallBehavior       float64 `json:"recall_behavior" csv:"recall_behavior"`
	F1NotBehavior        float64 `json:"f1_not_behavior" csv:"f1_not_behavior"`
	F1Behavior           float64 `json:"f1_behavior" csv:"f1_behavior"`

	// SourceLine is the 1-based line number the row was parsed from.
	// Zero for rows loaded from CSV rather than scan text.
	SourceLine int `json:"source_line,omitempty" csv:"-"`
}

// VideoKey identifies a cross-validation unit: one animal identity within one
// video. The same key is expected to appear once per window section.
type VideoKey struct {
	VideoName string
	Identity  int
}

func (k VideoKey) String() string {
	return fmt.Sprintf("%s [%d]", k.VideoName, k.Identity)
}

// Key returns the row's (video_name, identity) pair.
func (r *VideoRow) Key() VideoKey {
	return VideoKey{VideoName: r.VideoName, Identity: r.Identity}
}

// Metrics returns the seven metric values in canonical column order.
func (r *VideoRow) Metrics() [MetricCount]float64 {
	return [MetricCount]float64{
		r.Accuracy,
		r.PrecisionNotBehavior,
		r.PrecisionBehavior,
		r.RecallNotBehavior,
		r.RecallBehavior,
		r.F1NotBehavior,
		r.F1Behavior,
	}
}

// MetricValue returns the value of the named metric column and whether the
// name is a known column.
func (r *VideoRow) MetricValue(column string) (float64, bool) {
	switch column {
	case MetricAccuracy:
		return r.Accuracy, true
	case MetricPrecisionNotBehavior:
		return r.PrecisionNotBehavior, true
	case MetricPrecisionBehavior:
		return r.PrecisionBehavior, true
	case MetricRecallNotBehavior:
		return r.RecallNotBehavior, true
	case MetricRecallBehavior:
		return r.RecallBehavior, true
	case MetricF1NotBehavior:
		return r.F1NotBehavior, true
	case MetricF1Behavior:
		return r.F1Behavior, true
	}
	return 0, false
}

// RangeViolations returns the metric columns whose value falls outside [0,1],
// in canonical column order. NaN counts as a violation (a missing value in
// the source data). An empty slice means the row is in range.
func (r *VideoRow) RangeViolations() []string {
	var out []string
	metrics := r.Metrics()
	for i, col := range MetricColumns {
		if !(metrics[i] >= 0 && metrics[i] <= 1) {
			out = append(out, col)
		}
	}
	return out
}

// InRange reports whether all seven metrics lie in [0,1].
func (r *VideoRow) InRange() bool {
	return len(r.RangeViolations()) == 0
}

// Validate checks the structural fields of the row. Metric ranges are
// intentionally not checked here; see RangeViolations.
func (r *VideoRow) Validate() error {
	if r.WindowSize < 1 {
		return fmt.Errorf("window size must be positive, got %d", r.WindowSize)
	}
	if r.VideoID < 0 {
		return fmt.Errorf("video id cannot be negative: %d", r.VideoID)
	}
	if strings.TrimSpace(r.VideoName) == "" {
		return fmt.Errorf("video name is required")
	}
	if r.Identity < 0 {
		return fmt.Errorf("identity cannot be negative: %d", r.Identity)
	}
	return nil
}

// SummaryRow holds the summary statistics reported by the scan itself for one
// window section: mean and standard deviation for accuracy, f1_behavior and
// f1_not_behavior. Fields are pointers because a section may report any
// subset of the six statistics; nil means the statistic was not present in
// the input. Reported values are never recomputed in place — the aggregator
// derives its own statistics and the validator compares the two.
type SummaryRow struct {
	WindowSize int `json:"window_size" csv:"window_size" validate:"required,min=1"`

	MeanAccuracy      *float64 `json:"mean_accuracy,omitempty" csv:"mean_accuracy"`
	SDAccuracy        *float64 `json:"sd_accuracy,omitempty" csv:"sd_accuracy"`
	MeanF1Behavior    *float64 `json:"mean_f1_behavior,omitempty" csv:"mean_f1_behavior"`
	SDF1Behavior      *float64 `json:"sd_f1_behavior,omitempty" csv:"sd_f1_behavior"`
	MeanF1NotBehavior *float64 `json:"mean_f1_not_behavior,omitempty" csv:"mean_f1_not_behavior"`
	SDF1NotBehavior   *float64 `json:"sd_f1_not_behavior,omitempty" csv:"sd_f1_not_behavior"`
}

// SummaryColumns lists the summary statistic columns in summary_stats.csv
// order, window_size excluded.
var SummaryColumns = []string{
	"mean_accuracy",
	"sd_accuracy",
	"mean_f1_behavior",
	"sd_f1_behavior",
	"mean_f1_not_behavior",
	"sd_f1_not_behavior",
}

// Value returns the named summary statistic, or nil when it was not reported.
func (s *SummaryRow) Value(column string) *float64 {
	switch column {
	case "mean_accuracy":
		return s.MeanAccuracy
	case "sd_accuracy":
		return s.SDAccuracy
	case "mean_f1_behavior":
		return s.MeanF1Behavior
	case "sd_f1_behavior":
		return s.SDF1Behavior
	case "mean_f1_not_behavior":
		return s.MeanF1NotBehavior
	case "sd_f1_not_behavior":
		return s.SDF1NotBehavior
	}
	return nil
}

// Complete reports whether all six statistics were present in the input.
func (s *SummaryRow) Complete() bool {
	for _, col := range SummaryColumns {
		if s.Value(col) == nil {
			return false
		}
	}
	return true
}

// Empty reports whether no statistic was present at all.
func (s *SummaryRow) Empty() bool {
	for _, col := range SummaryColumns {
		if s.Value(col) != nil {
			return false
		}
	}
	return true
}

// FeatureRow is one entry of a window section's feature-importance block.
// Rank is assigned by encounter order starting at 1 and restarts for every
// window section.
type FeatureRow struct {
	WindowSize  int     `json:"window_size" csv:"window_size" validate:"required,min=1"`
	Rank        int     `json:"rank" csv:"rank" validate:"required,min=1"`
	FeatureName string  `json:"feature_name" csv:"feature_name" validate:"required"`
	Importance  float64 `json:"importance" csv:"importance"`
}

// Validate checks the structural fields of the feature row.
func (f *FeatureRow) Validate() error {
	if f.WindowSize < 1 {
		return fmt.Errorf("window size must be positive, got %d", f.WindowSize)
	}
	if f.Rank < 1 {
		return fmt.Errorf("rank must be positive, got %d", f.Rank)
	}
	if strings.TrimSpace(f.FeatureName) == "" {
		return fmt.Errorf("feature name is required")
	}
	return nil
}

// WindowSection groups everything parsed under one "Window N" header.
type WindowSection struct {
	// WindowSize is the window width in frames from the section header.
	WindowSize int `json:"window_size" validate:"required,min=1"`

	// HeaderLine is the 1-based line number of the section header.
	HeaderLine int `json:"header_line,omitempty"`

	// Videos holds the per-video result rows in source order.
	Videos []VideoRow `json:"videos"`

	// Summary holds the reported summary statistics, nil when the section
	// carried none.
	Summary *SummaryRow `json:"summary,omitempty"`

	// Features holds the feature-importance rows in rank order.
	Features []FeatureRow `json:"features"`
}

// HasSummary reports whether the section carried at least one reported
// summary statistic.
func (w *WindowSection) HasSummary() bool {
	return w.Summary != nil && !w.Summary.Empty()
}

// DiagnosticKind classifies a parse diagnostic.
type DiagnosticKind string

const (
	// DiagnosticMalformedRow marks a line that looked like a video row but
	// could not be parsed (bad float, missing identity marker, wrong count).
	DiagnosticMalformedRow DiagnosticKind = "malformed_row"

	// DiagnosticMalformedSummary marks a summary-block line with a
	// recognizable shape but unusable content.
	DiagnosticMalformedSummary DiagnosticKind = "malformed_summary"

	// DiagnosticDuplicateIdentity marks a repeated (video, identity) pair
	// within one window section; the first occurrence is kept.
	DiagnosticDuplicateIdentity DiagnosticKind = "duplicate_identity"

	// DiagnosticOrphanRow marks a data-shaped line found before any window
	// header.
	DiagnosticOrphanRow DiagnosticKind = "orphan_row"

	// DiagnosticInvalidHeader marks a window header whose size is not a
	// positive integer; the section is not opened.
	DiagnosticInvalidHeader DiagnosticKind = "invalid_header"
)

// ParseDiagnostic records a non-fatal problem encountered while parsing scan
// text. Diagnostics are data, not errors: the parser returns them alongside
// the result and keeps going.
type ParseDiagnostic struct {
	Line       int            `json:"line"`
	WindowSize int            `json:"window_size,omitempty"`
	Kind       DiagnosticKind `json:"kind"`
	Message    string         `json:"message"`
}

func (d ParseDiagnostic) String() string {
	if d.WindowSize > 0 {
		return fmt.Sprintf("line %d (window %d): %s: %s", d.Line, d.WindowSize, d.Kind, d.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Kind, d.Message)
}

// ScanResult is the complete parse product of one scan results file.
type ScanResult struct {
	// SourceName is the path or label of the parsed input, for logs and
	// report headers only.
	SourceName string `json:"source_name,omitempty"`

	// Windows holds the parsed sections in encounter order.
	Windows []WindowSection `json:"windows"`

	// Diagnostics holds all non-fatal parse problems in line order.
	Diagnostics []ParseDiagnostic `json:"diagnostics,omitempty"`
}

// VideoRows returns all video rows flattened in section order.
func (s *ScanResult) VideoRows() []VideoRow {
	var out []VideoRow
	for _, w := range s.Windows {
		out = append(out, w.Videos...)
	}
	return out
}

// SummaryRows returns the reported summary rows of all sections that carried
// one, in section order.
func (s *ScanResult) SummaryRows() []SummaryRow {
	var out []SummaryRow
	for _, w := range s.Windows {
		if w.HasSummary() {
			out = append(out, *w.Summary)
		}
	}
	return out
}

// FeatureRows returns all feature-importance rows flattened in section order.
func (s *ScanResult) FeatureRows() []FeatureRow {
	var out []FeatureRow
	for _, w := range s.Windows {
		out = append(out, w.Features...)
	}
	return out
}

// WindowSizes returns the distinct window sizes in ascending order.
func (s *ScanResult) WindowSizes() []int {
	seen := make(map[int]bool, len(s.Windows))
	var sizes []int
	for _, w := range s.Windows {
		if !seen[w.WindowSize] {
			seen[w.WindowSize] = true
			sizes = append(sizes, w.WindowSize)
		}
	}
	sort.Ints(sizes)
	return sizes
}

// Section returns the section for the given window size, or nil.
func (s *ScanResult) Section(windowSize int) *WindowSection {
	for i := range s.Windows {
		if s.Windows[i].WindowSize == windowSize {
			return &s.Windows[i]
		}
	}
	return nil
}

// ScanMetadata summarizes a parse for metadata.txt and run logs.
type ScanMetadata struct {
	// WindowCount is the number of window sections found.
	WindowCount int `json:"n_windows"`

	// VideoCount is the video-row count of the first section, the expected
	// per-window count when the scan is complete.
	VideoCount int `json:"n_videos"`

	// WindowSizes lists the distinct window sizes ascending.
	WindowSizes []int `json:"window_sizes"`

	// VideosPerWindow maps window size to its video-row count.
	VideosPerWindow map[int]int `json:"video_counts_per_window"`
}

// Metadata derives ScanMetadata from the result.
func (s *ScanResult) Metadata() ScanMetadata {
	meta := ScanMetadata{
		WindowSizes:     s.WindowSizes(),
		VideosPerWindow: make(map[int]int, len(s.Windows)),
	}
	meta.WindowCount = len(s.Windows)
	for _, w := range s.Windows {
		meta.VideosPerWindow[w.WindowSize] = len(w.Videos)
	}
	if len(s.Windows) > 0 {
		meta.VideoCount = len(s.Windows[0].Videos)
	}
	return meta
}
