package domain

import "fmt"

// StatsSource records where a window's aggregate statistics came from.
type StatsSource string

const (
	// StatsComputed means the statistics were recomputed from video rows.
	// This is the authoritative path.
	StatsComputed StatsSource = "computed"

	// StatsReported means no usable video rows existed and the values were
	// taken from the section's reported summary.
	StatsReported StatsSource = "reported"

	// StatsNone means the window had neither usable rows nor a reported
	// summary; all values are zero and VideoCount is 0.
	StatsNone StatsSource = "none"
)

// WindowStats holds the aggregate statistics for one window size. Standard
// deviations are sample (n-1) values and are 0 when VideoCount <= 1.
type WindowStats struct {
	WindowSize int         `json:"window_size" csv:"window_size"`
	VideoCount int         `json:"video_count" csv:"video_count"`
	Source     StatsSource `json:"source" csv:"source"`

	MeanAccuracy      float64 `json:"mean_accuracy" csv:"mean_accuracy"`
	SDAccuracy        float64 `json:"sd_accuracy" csv:"sd_accuracy"`
	MeanF1Behavior    float64 `json:"mean_f1_behavior" csv:"mean_f1_behavior"`
	SDF1Behavior      float64 `json:"sd_f1_behavior" csv:"sd_f1_behavior"`
	MeanF1NotBehavior float64 `json:"mean_f1_not_behavior" csv:"mean_f1_not_behavior"`
	SDF1NotBehavior   float64 `json:"sd_f1_not_behavior" csv:"sd_f1_not_behavior"`
}

// Value returns the named statistic column. Unknown columns return false.
func (w *WindowStats) Value(column string) (float64, bool) {
	switch column {
	case "mean_accuracy":
		return w.MeanAccuracy, true
	case "sd_accuracy":
		return w.SDAccuracy, true
	case "mean_f1_behavior":
		return w.MeanF1Behavior, true
	case "sd_f1_behavior":
		return w.SDF1Behavior, true
	case "mean_f1_not_behavior":
		return w.MeanF1NotBehavior, true
	case "sd_f1_not_behavior":
		return w.SDF1NotBehavior, true
	}
	return 0, false
}

// WindowValue is a (window size, value) observation used in per-video
// breakdowns.
type WindowValue struct {
	WindowSize int     `json:"window_size"`
	Value      float64 `json:"value"`
}

// VideoAggregate is one entry of the worst-video ranking: a video's accuracy
// aggregated over every window it appears in, identities merged.
type VideoAggregate struct {
	VideoName   string `json:"video_name"`
	WindowCount int    `json:"window_count"`

	// MeanAccuracy is the mean over all of the video's rows across windows.
	MeanAccuracy float64 `json:"mean_accuracy"`

	// SDAccuracy is the sample standard deviation of the same rows.
	SDAccuracy float64 `json:"sd_accuracy"`

	// WorstWindow is the window size where the video's per-window mean
	// accuracy is lowest.
	WorstWindow int `json:"worst_window"`

	// PerWindow holds the video's per-window mean accuracy ascending by
	// window size.
	PerWindow []WindowValue `json:"per_window"`
}

// SensitivityEntry is one entry of the window-sensitivity ranking: how much a
// video's f1_behavior moves as the window size changes. CV is the coefficient
// of variation of the per-window mean f1_behavior values (sample SD / mean).
type SensitivityEntry struct {
	VideoName   string `json:"video_name"`
	WindowCount int    `json:"window_count"`

	MeanF1Behavior float64 `json:"mean_f1_behavior"`
	SDF1Behavior   float64 `json:"sd_f1_behavior"`
	CV             float64 `json:"cv"`

	// BestWindow is the window size with the video's highest per-window
	// mean f1_behavior.
	BestWindow int `json:"best_window"`

	// PerWindow holds the per-window mean f1_behavior ascending by window
	// size.
	PerWindow []WindowValue `json:"per_window"`
}

// AggregateTables bundles every derived table the aggregator produces. All
// contents are pure functions of the parsed rows; rerunning aggregation on
// the same input yields identical tables.
type AggregateTables struct {
	// WindowStats holds one row per window size, ascending.
	WindowStats []WindowStats `json:"window_stats"`

	// BestWindow is the winning window size, 0 when no window produced
	// statistics.
	BestWindow int `json:"best_window"`

	// WorstVideos ranks videos ascending by mean accuracy, truncated to the
	// configured top-K.
	WorstVideos []VideoAggregate `json:"worst_videos"`

	// Sensitivity ranks videos descending by CV of f1_behavior, truncated
	// to the configured top-K.
	Sensitivity []SensitivityEntry `json:"sensitivity"`

	// BestByColumn maps each summary statistic column to the window size
	// with the best value: maximum for mean_* columns, minimum for sd_*
	// columns.
	BestByColumn map[string]int `json:"best_by_column"`

	// ExcludedRows counts video rows left out of every statistic because a
	// metric fell outside [0,1].
	ExcludedRows int `json:"excluded_rows"`

	// VideoNames lists the distinct video names observed, sorted.
	VideoNames []string `json:"video_names"`
}

// Stats returns the stats row for the given window size, or nil.
func (t *AggregateTables) Stats(windowSize int) *WindowStats {
	for i := range t.WindowStats {
		if t.WindowStats[i].WindowSize == windowSize {
			return &t.WindowStats[i]
		}
	}
	return nil
}

// BestWindowStats returns the stats row of the best window, or nil when no
// best window exists.
func (t *AggregateTables) BestWindowStats() *WindowStats {
	if t.BestWindow == 0 {
		return nil
	}
	return t.Stats(t.BestWindow)
}

// IsBestValue reports whether the given stats column of the given window
// holds the best value of its column.
func (t *AggregateTables) IsBestValue(column string, windowSize int) bool {
	best, ok := t.BestByColumn[column]
	return ok && best == windowSize
}

// Validate checks internal consistency of the tables before rendering.
func (t *AggregateTables) Validate() error {
	if t.BestWindow != 0 && t.Stats(t.BestWindow) == nil {
		return fmt.Errorf("best window %d has no stats row", t.BestWindow)
	}
	for col := range t.BestByColumn {
		known := false
		for _, c := range SummaryColumns {
			if c == col {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("best-by-column refers to unknown column %q", col)
		}
	}
	return nil
}
