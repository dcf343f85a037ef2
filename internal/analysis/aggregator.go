package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// DefaultTopK caps the worst-video and sensitivity rankings when no limit
// is configured.
const DefaultTopK = 10

// Aggregator computes the derived tables consumed by exporters and report
// renderers.
type Aggregator struct {
	logger *slog.Logger
	topK   int
}

// NewAggregator creates an aggregator. A topK of 0 or less falls back to
// DefaultTopK; a nil logger falls back to slog.Default.
func NewAggregator(logger *slog.Logger, topK int) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Aggregator{logger: logger, topK: topK}
}

// Aggregate derives every table from the parsed rows. Video rows with a
// metric outside [0,1] are excluded from all statistics and counted on the
// result. Windows without usable video rows fall back to their reported
// summary values; windows with neither get a zero row marked "none".
func (a *Aggregator) Aggregate(ctx context.Context, videos []domain.VideoRow, summaries []domain.SummaryRow) (*domain.AggregateTables, error) {
	if len(videos) == 0 && len(summaries) == 0 {
		return nil, fmt.Errorf("no rows to aggregate")
	}

	usable, excluded := splitUsable(videos)

	tables := &domain.AggregateTables{
		WindowStats:  computeWindowStats(usable, summaries),
		ExcludedRows: excluded,
		VideoNames:   distinctVideoNames(videos),
	}
	tables.BestWindow = bestWindow(tables.WindowStats)
	tables.WorstVideos = a.worstVideos(usable)
	tables.Sensitivity = a.sensitivity(usable)
	tables.BestByColumn = bestByColumn(tables.WindowStats)

	a.logger.InfoContext(ctx, "aggregation completed",
		"windows", len(tables.WindowStats),
		"best_window", tables.BestWindow,
		"excluded_rows", excluded,
		"videos", len(tables.VideoNames),
	)
	return tables, nil
}

// splitUsable separates in-range rows from range violators.
func splitUsable(rows []domain.VideoRow) ([]domain.VideoRow, int) {
	usable := make([]domain.VideoRow, 0, len(rows))
	excluded := 0
	for _, r := range rows {
		if r.InRange() {
			usable = append(usable, r)
		} else {
			excluded++
		}
	}
	return usable, excluded
}

// computeWindowStats builds one stats row per window size, ascending, over
// the union of windows seen in video rows and reported summaries.
func computeWindowStats(usable []domain.VideoRow, summaries []domain.SummaryRow) []domain.WindowStats {
	byWindow := make(map[int][]domain.VideoRow)
	for _, r := range usable {
		byWindow[r.WindowSize] = append(byWindow[r.WindowSize], r)
	}

	reported := make(map[int]*domain.SummaryRow)
	for i := range summaries {
		s := &summaries[i]
		if _, ok := reported[s.WindowSize]; !ok {
			reported[s.WindowSize] = s
		}
	}

	sizeSet := make(map[int]bool)
	for size := range byWindow {
		sizeSet[size] = true
	}
	for size := range reported {
		sizeSet[size] = true
	}
	sizes := make([]int, 0, len(sizeSet))
	for size := range sizeSet {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	stats := make([]domain.WindowStats, 0, len(sizes))
	for _, size := range sizes {
		rows := byWindow[size]
		switch {
		case len(rows) > 0:
			acc := collect(rows, func(r domain.VideoRow) float64 { return r.Accuracy })
			f1b := collect(rows, func(r domain.VideoRow) float64 { return r.F1Behavior })
			f1nb := collect(rows, func(r domain.VideoRow) float64 { return r.F1NotBehavior })
			stats = append(stats, domain.WindowStats{
				WindowSize:        size,
				VideoCount:        len(rows),
				Source:            domain.StatsComputed,
				MeanAccuracy:      Mean(acc),
				SDAccuracy:        SampleSD(acc),
				MeanF1Behavior:    Mean(f1b),
				SDF1Behavior:      SampleSD(f1b),
				MeanF1NotBehavior: Mean(f1nb),
				SDF1NotBehavior:   SampleSD(f1nb),
			})
		case reported[size] != nil && !reported[size].Empty():
			s := reported[size]
			stats = append(stats, domain.WindowStats{
				WindowSize:        size,
				Source:            domain.StatsReported,
				MeanAccuracy:      orZero(s.MeanAccuracy),
				SDAccuracy:        orZero(s.SDAccuracy),
				MeanF1Behavior:    orZero(s.MeanF1Behavior),
				SDF1Behavior:      orZero(s.SDF1Behavior),
				MeanF1NotBehavior: orZero(s.MeanF1NotBehavior),
				SDF1NotBehavior:   orZero(s.SDF1NotBehavior),
			})
		default:
			stats = append(stats, domain.WindowStats{
				WindowSize: size,
				Source:     domain.StatsNone,
			})
		}
	}
	return stats
}

// bestWindow picks the recommended window: highest mean f1_behavior, ties
// broken by higher mean accuracy, then lower sd f1_behavior, then smaller
// window size. Returns 0 when no window carries statistics.
func bestWindow(stats []domain.WindowStats) int {
	var best *domain.WindowStats
	for i := range stats {
		s := &stats[i]
		if s.Source == domain.StatsNone {
			continue
		}
		if best == nil || betterWindow(s, best) {
			best = s
		}
	}
	if best == nil {
		return 0
	}
	return best.WindowSize
}

func betterWindow(a, b *domain.WindowStats) bool {
	if a.MeanF1Behavior != b.MeanF1Behavior {
		return a.MeanF1Behavior > b.MeanF1Behavior
	}
	if a.MeanAccuracy != b.MeanAccuracy {
		return a.MeanAccuracy > b.MeanAccuracy
	}
	if a.SDF1Behavior != b.SDF1Behavior {
		return a.SDF1Behavior < b.SDF1Behavior
	}
	return a.WindowSize < b.WindowSize
}

// worstVideos ranks videos ascending by mean accuracy over all their rows,
// identities merged, truncated to the configured top-K.
func (a *Aggregator) worstVideos(rows []domain.VideoRow) []domain.VideoAggregate {
	type videoRows struct {
		all      []float64
		byWindow map[int][]float64
	}
	grouped := make(map[string]*videoRows)
	for _, r := range rows {
		g := grouped[r.VideoName]
		if g == nil {
			g = &videoRows{byWindow: make(map[int][]float64)}
			grouped[r.VideoName] = g
		}
		g.all = append(g.all, r.Accuracy)
		g.byWindow[r.WindowSize] = append(g.byWindow[r.WindowSize], r.Accuracy)
	}

	aggregates := make([]domain.VideoAggregate, 0, len(grouped))
	for name, g := range grouped {
		perWindow := perWindowMeans(g.byWindow)
		worst := perWindow[0]
		for _, wv := range perWindow[1:] {
			if wv.Value < worst.Value {
				worst = wv
			}
		}
		aggregates = append(aggregates, domain.VideoAggregate{
			VideoName:    name,
			WindowCount:  len(perWindow),
			MeanAccuracy: Mean(g.all),
			SDAccuracy:   SampleSD(g.all),
			WorstWindow:  worst.WindowSize,
			PerWindow:    perWindow,
		})
	}

	sort.Slice(aggregates, func(i, j int) bool {
		if aggregates[i].MeanAccuracy != aggregates[j].MeanAccuracy {
			return aggregates[i].MeanAccuracy < aggregates[j].MeanAccuracy
		}
		return aggregates[i].VideoName < aggregates[j].VideoName
	})
	if len(aggregates) > a.topK {
		aggregates = aggregates[:a.topK]
	}
	return aggregates
}

// sensitivity ranks videos descending by the coefficient of variation of
// their per-window mean f1_behavior. Videos seen in fewer than two windows,
// or whose mean is zero, have no defined CV and are excluded.
func (a *Aggregator) sensitivity(rows []domain.VideoRow) []domain.SensitivityEntry {
	grouped := make(map[string]map[int][]float64)
	for _, r := range rows {
		byWindow := grouped[r.VideoName]
		if byWindow == nil {
			byWindow = make(map[int][]float64)
			grouped[r.VideoName] = byWindow
		}
		byWindow[r.WindowSize] = append(byWindow[r.WindowSize], r.F1Behavior)
	}

	entries := make([]domain.SensitivityEntry, 0, len(grouped))
	for name, byWindow := range grouped {
		perWindow := perWindowMeans(byWindow)
		means := make([]float64, len(perWindow))
		for i, wv := range perWindow {
			means[i] = wv.Value
		}
		cv, ok := CoefficientOfVariation(means)
		if !ok {
			continue
		}
		best := perWindow[0]
		for _, wv := range perWindow[1:] {
			if wv.Value > best.Value {
				best = wv
			}
		}
		entries = append(entries, domain.SensitivityEntry{
			VideoName:      name,
			WindowCount:    len(perWindow),
			MeanF1Behavior: Mean(means),
			SDF1Behavior:   SampleSD(means),
			CV:             cv,
			BestWindow:     best.WindowSize,
			PerWindow:      perWindow,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].CV != entries[j].CV {
			return entries[i].CV > entries[j].CV
		}
		return entries[i].VideoName < entries[j].VideoName
	})
	if len(entries) > a.topK {
		entries = entries[:a.topK]
	}
	return entries
}

// bestByColumn flags the window holding the best value of each summary
// column: maximum for means, minimum for standard deviations. Ties go to
// the smaller window size.
func bestByColumn(stats []domain.WindowStats) map[string]int {
	out := make(map[string]int, len(domain.SummaryColumns))
	for _, col := range domain.SummaryColumns {
		var best *domain.WindowStats
		for i := range stats {
			s := &stats[i]
			if s.Source == domain.StatsNone {
				continue
			}
			if best == nil {
				best = s
				continue
			}
			v, _ := s.Value(col)
			bv, _ := best.Value(col)
			if minIsBest(col) {
				if v < bv {
					best = s
				}
			} else if v > bv {
				best = s
			}
		}
		if best != nil {
			out[col] = best.WindowSize
		}
	}
	return out
}

func minIsBest(column string) bool {
	return strings.HasPrefix(column, "sd_")
}

// perWindowMeans collapses grouped values to one mean per window size,
// ascending.
func perWindowMeans(byWindow map[int][]float64) []domain.WindowValue {
	sizes := make([]int, 0, len(byWindow))
	for size := range byWindow {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	out := make([]domain.WindowValue, 0, len(sizes))
	for _, size := range sizes {
		out = append(out, domain.WindowValue{WindowSize: size, Value: Mean(byWindow[size])})
	}
	return out
}

func collect(rows []domain.VideoRow, f func(domain.VideoRow) float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = f(r)
	}
	return out
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func distinctVideoNames(rows []domain.VideoRow) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range rows {
		if !seen[r.VideoName] {
			seen[r.VideoName] = true
			names = append(names, r.VideoName)
		}
	}
	sort.Strings(names)
	return names
}
