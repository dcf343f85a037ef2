package domain

import "fmt"

// CheckCategory identifies one of the consistency checks run against parsed
// scan data. Every validation run executes all categories; no check aborts
// the others.
type CheckCategory string

const (
	// CheckRowCounts compares the (video, identity) pairs present in each
	// window against the union across all windows.
	CheckRowCounts CheckCategory = "row_counts"

	// CheckUniqueness verifies that no (video, identity) pair repeats
	// within a window.
	CheckUniqueness CheckCategory = "uniqueness"

	// CheckRanges verifies that every metric value lies in [0,1].
	CheckRanges CheckCategory = "ranges"

	// CheckSummaryStats compares reported summary statistics against values
	// recomputed from the video rows.
	CheckSummaryStats CheckCategory = "summary_stats"
)

// CheckCategories lists all categories in report order.
var CheckCategories = []CheckCategory{
	CheckRowCounts,
	CheckUniqueness,
	CheckRanges,
	CheckSummaryStats,
}

// Title returns the human-readable heading used in validation reports.
func (c CheckCategory) Title() string {
	switch c {
	case CheckRowCounts:
		return "Row counts and window membership"
	case CheckUniqueness:
		return "Video/identity uniqueness"
	case CheckRanges:
		return "Metric value ranges"
	case CheckSummaryStats:
		return "Reported summary statistics"
	}
	return string(c)
}

// CheckFailure is one concrete validation finding.
type CheckFailure struct {
	// WindowSize is the window the finding applies to, 0 when the finding
	// spans windows.
	WindowSize int `json:"window_size,omitempty"`

	// Column names the metric or statistic column involved, when relevant.
	Column string `json:"column,omitempty"`

	// Detail is the human-readable description rendered in the report.
	Detail string `json:"detail"`
}

func (f CheckFailure) String() string {
	if f.WindowSize > 0 {
		return fmt.Sprintf("window %d: %s", f.WindowSize, f.Detail)
	}
	return f.Detail
}

// CheckResult is the outcome of one check category.
type CheckResult struct {
	Category CheckCategory  `json:"category"`
	Passed   bool           `json:"passed"`
	Failures []CheckFailure `json:"failures,omitempty"`

	// Notes carries informational lines (counts, tolerances) that appear in
	// the report regardless of outcome.
	Notes []string `json:"notes,omitempty"`
}

// ValidationReport is the complete product of a consistency validation run.
// A failed report never aborts the pipeline; it is exported and rendered like
// any other table.
type ValidationReport struct {
	// Source labels the validated input for the report header.
	Source string `json:"source,omitempty"`

	// Results holds one entry per category in CheckCategories order.
	Results []CheckResult `json:"results"`
}

// Result returns the outcome for the given category, or nil.
func (r *ValidationReport) Result(category CheckCategory) *CheckResult {
	for i := range r.Results {
		if r.Results[i].Category == category {
			return &r.Results[i]
		}
	}
	return nil
}

// Passed reports whether every check category passed.
func (r *ValidationReport) Passed() bool {
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// FailureCount returns the total number of findings across all categories.
func (r *ValidationReport) FailureCount() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Failures)
	}
	return n
}

// Failures returns all findings flattened in category order.
func (r *ValidationReport) Failures() []CheckFailure {
	var out []CheckFailure
	for _, res := range r.Results {
		out = append(out, res.Failures...)
	}
	return out
}
