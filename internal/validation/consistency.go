package validation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/vivekJax/JABS-Window-Analysis/internal/analysis"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// DefaultTolerance is the relative tolerance used when comparing reported
// summary statistics against values recomputed from the video rows.
const DefaultTolerance = 1e-3

// maxListedPairs caps how many (video, identity) pairs a single finding
// spells out before switching to a remainder count.
const maxListedPairs = 10

// ConsistencyValidator runs the four data consistency checks against parsed
// scan rows. Check failures are findings, not errors: every check always
// runs and the validator never aborts on bad data.
type ConsistencyValidator struct {
	logger    *slog.Logger
	tolerance float64
}

// NewConsistencyValidator creates a validator. A tolerance of 0 or less
// falls back to DefaultTolerance; a nil logger falls back to slog.Default.
func NewConsistencyValidator(logger *slog.Logger, tolerance float64) *ConsistencyValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &ConsistencyValidator{logger: logger, tolerance: tolerance}
}

// ValidateScan runs every check against a parse result and labels the
// report with its source.
func (v *ConsistencyValidator) ValidateScan(ctx context.Context, scan *domain.ScanResult) *domain.ValidationReport {
	report := v.Validate(ctx, scan.VideoRows(), scan.SummaryRows())
	report.Source = scan.SourceName
	return report
}

// Validate runs all four checks over the given rows.
func (v *ConsistencyValidator) Validate(ctx context.Context, videos []domain.VideoRow, summaries []domain.SummaryRow) *domain.ValidationReport {
	report := &domain.ValidationReport{
		Results: []domain.CheckResult{
			v.checkRowCounts(videos, summaries),
			v.checkUniqueness(videos),
			v.checkRanges(videos),
			v.checkSummaryStats(videos, summaries),
		},
	}

	if report.Passed() {
		v.logger.InfoContext(ctx, "validation passed",
			"checks", len(report.Results),
			"video_rows", len(videos))
	} else {
		v.logger.WarnContext(ctx, "validation found inconsistencies",
			"checks", len(report.Results),
			"findings", report.FailureCount())
	}
	return report
}

// checkRowCounts compares each window's (video, identity) pairs against the
// union across all windows and verifies one reported summary per window.
func (v *ConsistencyValidator) checkRowCounts(videos []domain.VideoRow, summaries []domain.SummaryRow) domain.CheckResult {
	result := domain.CheckResult{Category: domain.CheckRowCounts, Passed: true}

	if len(videos) == 0 {
		result.Passed = false
		result.Failures = append(result.Failures, domain.CheckFailure{
			Detail: "no video rows to validate",
		})
		return result
	}

	pairsByWindow := make(map[int]map[domain.VideoKey]bool)
	union := make(map[domain.VideoKey]bool)
	for _, r := range videos {
		set := pairsByWindow[r.WindowSize]
		if set == nil {
			set = make(map[domain.VideoKey]bool)
			pairsByWindow[r.WindowSize] = set
		}
		set[r.Key()] = true
		union[r.Key()] = true
	}

	sizes := make([]int, 0, len(pairsByWindow))
	for size := range pairsByWindow {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	for _, size := range sizes {
		result.Notes = append(result.Notes,
			fmt.Sprintf("Window %d: %d (video, identity) pairs", size, len(pairsByWindow[size])))
	}
	result.Notes = append(result.Notes,
		fmt.Sprintf("video rows: %d (expected %d = %d pairs x %d windows)",
			len(videos), len(union)*len(sizes), len(union), len(sizes)))

	for _, size := range sizes {
		missing := missingPairs(union, pairsByWindow[size])
		if len(missing) == 0 {
			continue
		}
		result.Passed = false
		result.Failures = append(result.Failures, domain.CheckFailure{
			WindowSize: size,
			Detail: fmt.Sprintf("missing %d of %d pairs: %s",
				len(missing), len(union), formatPairs(missing)),
		})
	}

	if len(summaries) != len(sizes) {
		result.Passed = false
		result.Failures = append(result.Failures, domain.CheckFailure{
			Detail: fmt.Sprintf("summary rows: %d (expected %d, one per window)",
				len(summaries), len(sizes)),
		})
	}

	return result
}

// checkUniqueness verifies no (video, identity) pair repeats inside a
// window.
func (v *ConsistencyValidator) checkUniqueness(videos []domain.VideoRow) domain.CheckResult {
	result := domain.CheckResult{Category: domain.CheckUniqueness, Passed: true}

	counts := make(map[int]map[domain.VideoKey]int)
	for _, r := range videos {
		byKey := counts[r.WindowSize]
		if byKey == nil {
			byKey = make(map[domain.VideoKey]int)
			counts[r.WindowSize] = byKey
		}
		byKey[r.Key()]++
	}

	sizes := make([]int, 0, len(counts))
	for size := range counts {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	for _, size := range sizes {
		for _, key := range sortedCountKeys(counts[size]) {
			if n := counts[size][key]; n > 1 {
				result.Passed = false
				result.Failures = append(result.Failures, domain.CheckFailure{
					WindowSize: size,
					Detail:     fmt.Sprintf("%s appears %d times", key, n),
				})
			}
		}
	}

	result.Notes = append(result.Notes,
		fmt.Sprintf("checked %d rows across %d windows", len(videos), len(sizes)))
	return result
}

// checkRanges verifies every metric value lies in [0,1]. NaN counts as a
// violation.
func (v *ConsistencyValidator) checkRanges(videos []domain.VideoRow) domain.CheckResult {
	result := domain.CheckResult{Category: domain.CheckRanges, Passed: true}

	for _, r := range videos {
		for _, col := range r.RangeViolations() {
			value, _ := r.MetricValue(col)
			result.Passed = false
			result.Failures = append(result.Failures, domain.CheckFailure{
				WindowSize: r.WindowSize,
				Column:     col,
				Detail:     fmt.Sprintf("%s: %s=%.6f outside [0,1]", r.Key(), col, value),
			})
		}
	}

	result.Notes = append(result.Notes,
		fmt.Sprintf("checked %d metric values across %d rows",
			len(videos)*domain.MetricCount, len(videos)))
	return result
}

// checkSummaryStats compares each reported summary statistic against the
// value recomputed from that window's video rows. Comparison is relative:
// |reported - computed| must not exceed tolerance * max(1, |computed|).
func (v *ConsistencyValidator) checkSummaryStats(videos []domain.VideoRow, summaries []domain.SummaryRow) domain.CheckResult {
	result := domain.CheckResult{Category: domain.CheckSummaryStats, Passed: true}
	result.Notes = append(result.Notes,
		fmt.Sprintf("relative tolerance: %g", v.tolerance))

	if len(summaries) == 0 {
		result.Notes = append(result.Notes, "no reported summary statistics to check")
		return result
	}

	byWindow := make(map[int][]domain.VideoRow)
	for _, r := range videos {
		byWindow[r.WindowSize] = append(byWindow[r.WindowSize], r)
	}

	ordered := make([]domain.SummaryRow, len(summaries))
	copy(ordered, summaries)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].WindowSize < ordered[j].WindowSize })

	for _, s := range ordered {
		rows := byWindow[s.WindowSize]
		if len(rows) == 0 {
			result.Notes = append(result.Notes,
				fmt.Sprintf("Window %d: no video rows to recompute from", s.WindowSize))
			continue
		}

		acc := metricValues(rows, domain.MetricAccuracy)
		f1b := metricValues(rows, domain.MetricF1Behavior)
		f1nb := metricValues(rows, domain.MetricF1NotBehavior)
		computed := map[string]float64{
			"mean_accuracy":        analysis.Mean(acc),
			"sd_accuracy":          analysis.SampleSD(acc),
			"mean_f1_behavior":     analysis.Mean(f1b),
			"sd_f1_behavior":       analysis.SampleSD(f1b),
			"mean_f1_not_behavior": analysis.Mean(f1nb),
			"sd_f1_not_behavior":   analysis.SampleSD(f1nb),
		}

		for _, col := range domain.SummaryColumns {
			reported := s.Value(col)
			if reported == nil {
				continue
			}
			comp := computed[col]
			if withinTolerance(*reported, comp, v.tolerance) {
				continue
			}
			result.Passed = false
			result.Failures = append(result.Failures, domain.CheckFailure{
				WindowSize: s.WindowSize,
				Column:     col,
				Detail: fmt.Sprintf("%s mismatch (reported=%.6f, computed=%.6f)",
					col, *reported, comp),
			})
		}
	}

	return result
}

func withinTolerance(reported, computed, tolerance float64) bool {
	return math.Abs(reported-computed) <= tolerance*math.Max(1, math.Abs(computed))
}

func metricValues(rows []domain.VideoRow, column string) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i], _ = r.MetricValue(column)
	}
	return out
}

func missingPairs(union, present map[domain.VideoKey]bool) []domain.VideoKey {
	var missing []domain.VideoKey
	for key := range union {
		if !present[key] {
			missing = append(missing, key)
		}
	}
	sortPairKeys(missing)
	return missing
}

func formatPairs(keys []domain.VideoKey) string {
	listed := keys
	more := 0
	if len(listed) > maxListedPairs {
		more = len(listed) - maxListedPairs
		listed = listed[:maxListedPairs]
	}
	out := ""
	for i, key := range listed {
		if i > 0 {
			out += ", "
		}
		out += key.String()
	}
	if more > 0 {
		out += fmt.Sprintf(" and %d more", more)
	}
	return out
}

func sortPairKeys(keys []domain.VideoKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].VideoName != keys[j].VideoName {
			return keys[i].VideoName < keys[j].VideoName
		}
		return keys[i].Identity < keys[j].Identity
	})
}

func sortedCountKeys(m map[domain.VideoKey]int) []domain.VideoKey {
	keys := make([]domain.VideoKey, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sortPairKeys(keys)
	return keys
}
