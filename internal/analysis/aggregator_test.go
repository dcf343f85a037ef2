package analysis

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// row builds an in-range video row; filler metrics stay clear of the range
// checks so tests only vary what they assert on.
func row(window int, name string, identity int, acc, f1b, f1nb float64) domain.VideoRow {
	return domain.VideoRow{
		WindowSize:           window,
		VideoName:            name,
		Identity:             identity,
		Accuracy:             acc,
		PrecisionNotBehavior: 0.9,
		PrecisionBehavior:    0.7,
		RecallNotBehavior:    0.9,
		RecallBehavior:       0.7,
		F1NotBehavior:        f1nb,
		F1Behavior:           f1b,
	}
}

func twoWindowFixture() []domain.VideoRow {
	return []domain.VideoRow{
		row(10, "a.avi", 0, 0.90, 0.70, 0.95),
		row(10, "b.avi", 0, 0.80, 0.60, 0.90),
		row(20, "a.avi", 0, 0.92, 0.80, 0.96),
		row(20, "b.avi", 0, 0.78, 0.66, 0.89),
	}
}

func TestAggregator_WindowStats(t *testing.T) {
	agg := NewAggregator(slog.Default(), 0)

	tables, err := agg.Aggregate(context.Background(), twoWindowFixture(), nil)
	require.NoError(t, err)
	require.Len(t, tables.WindowStats, 2)

	w10 := tables.Stats(10)
	require.NotNil(t, w10)
	assert.Equal(t, domain.StatsComputed, w10.Source)
	assert.Equal(t, 2, w10.VideoCount)
	assert.InDelta(t, 0.85, w10.MeanAccuracy, 1e-9)
	assert.InDelta(t, 0.0707107, w10.SDAccuracy, 1e-6)
	assert.InDelta(t, 0.65, w10.MeanF1Behavior, 1e-9)
	assert.InDelta(t, 0.925, w10.MeanF1NotBehavior, 1e-9)

	w20 := tables.Stats(20)
	require.NotNil(t, w20)
	assert.InDelta(t, 0.73, w20.MeanF1Behavior, 1e-9)
	assert.InDelta(t, 0.0989949, w20.SDF1Behavior, 1e-6)
}

func TestAggregator_SampleSDUsesBesselCorrection(t *testing.T) {
	rows := []domain.VideoRow{
		row(10, "a.avi", 0, 0.9, 0.70, 0.9),
		row(10, "b.avi", 0, 0.9, 0.80, 0.9),
		row(10, "c.avi", 0, 0.9, 0.90, 0.9),
	}

	tables, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), rows, nil)
	require.NoError(t, err)

	stats := tables.Stats(10)
	require.NotNil(t, stats)
	assert.InDelta(t, 0.80, stats.MeanF1Behavior, 1e-9)
	assert.InDelta(t, 0.1, stats.SDF1Behavior, 1e-6)
}

func TestAggregator_BestWindowTieBreaks(t *testing.T) {
	tests := []struct {
		name string
		rows []domain.VideoRow
		want int
	}{
		{
			name: "higher mean f1 behavior wins",
			rows: twoWindowFixture(),
			want: 20,
		},
		{
			name: "tied f1 falls back to accuracy",
			rows: []domain.VideoRow{
				row(10, "a.avi", 0, 0.90, 0.82, 0.9),
				row(20, "a.avi", 0, 0.91, 0.82, 0.9),
			},
			want: 20,
		},
		{
			name: "all tied picks the smallest window",
			rows: []domain.VideoRow{
				row(30, "a.avi", 0, 0.90, 0.82, 0.9),
				row(15, "a.avi", 0, 0.90, 0.82, 0.9),
			},
			want: 15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), tt.rows, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tables.BestWindow)
		})
	}
}

func TestAggregator_WorstVideos(t *testing.T) {
	tables, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), twoWindowFixture(), nil)
	require.NoError(t, err)

	require.Len(t, tables.WorstVideos, 2)

	worst := tables.WorstVideos[0]
	assert.Equal(t, "b.avi", worst.VideoName)
	assert.InDelta(t, 0.79, worst.MeanAccuracy, 1e-9)
	assert.Equal(t, 2, worst.WindowCount)
	assert.Equal(t, 20, worst.WorstWindow)
	require.Len(t, worst.PerWindow, 2)
	assert.Equal(t, 10, worst.PerWindow[0].WindowSize)
	assert.InDelta(t, 0.80, worst.PerWindow[0].Value, 1e-9)

	assert.Equal(t, "a.avi", tables.WorstVideos[1].VideoName)
}

func TestAggregator_WorstVideosTopK(t *testing.T) {
	tables, err := NewAggregator(slog.Default(), 1).Aggregate(context.Background(), twoWindowFixture(), nil)
	require.NoError(t, err)

	require.Len(t, tables.WorstVideos, 1)
	assert.Equal(t, "b.avi", tables.WorstVideos[0].VideoName)
	require.Len(t, tables.Sensitivity, 1)
}

func TestAggregator_Sensitivity(t *testing.T) {
	tables, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), twoWindowFixture(), nil)
	require.NoError(t, err)

	require.Len(t, tables.Sensitivity, 2)

	top := tables.Sensitivity[0]
	assert.Equal(t, "a.avi", top.VideoName)
	// per-window means 0.70 and 0.80: SD ≈ 0.0707107, mean 0.75
	assert.InDelta(t, 0.0942809, top.CV, 1e-6)
	assert.Equal(t, 20, top.BestWindow)
	assert.Equal(t, 2, top.WindowCount)

	assert.Equal(t, "b.avi", tables.Sensitivity[1].VideoName)
	assert.Greater(t, top.CV, tables.Sensitivity[1].CV)
}

func TestAggregator_SensitivityExcludesSingleWindowVideos(t *testing.T) {
	rows := append(twoWindowFixture(),
		row(10, "once.avi", 0, 0.85, 0.75, 0.9))

	tables, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), rows, nil)
	require.NoError(t, err)

	for _, entry := range tables.Sensitivity {
		assert.NotEqual(t, "once.avi", entry.VideoName)
	}
	// But the video still participates in the worst ranking and name list.
	assert.Contains(t, tables.VideoNames, "once.avi")
}

func TestAggregator_BestByColumn(t *testing.T) {
	tables, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), twoWindowFixture(), nil)
	require.NoError(t, err)

	best := tables.BestByColumn
	// Mean accuracy ties at 0.85; the smaller window wins.
	assert.Equal(t, 10, best["mean_accuracy"])
	assert.Equal(t, 20, best["mean_f1_behavior"])
	// SD columns flag the minimum.
	assert.Equal(t, 10, best["sd_accuracy"])
	assert.Equal(t, 10, best["sd_f1_behavior"])
	assert.Equal(t, 10, best["mean_f1_not_behavior"])
	assert.Equal(t, 10, best["sd_f1_not_behavior"])

	assert.True(t, tables.IsBestValue("mean_f1_behavior", 20))
	assert.False(t, tables.IsBestValue("mean_f1_behavior", 10))
}

func TestAggregator_OutOfRangeRowsExcluded(t *testing.T) {
	rows := append(twoWindowFixture(),
		row(10, "broken.avi", 0, 1.5, 0.70, 0.9))

	tables, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, tables.ExcludedRows)
	// The bad row does not move window 10's statistics.
	assert.InDelta(t, 0.85, tables.Stats(10).MeanAccuracy, 1e-9)
	assert.Equal(t, 2, tables.Stats(10).VideoCount)
	// The video name is still inventoried.
	assert.Contains(t, tables.VideoNames, "broken.avi")
}

func TestAggregator_ReportedFallback(t *testing.T) {
	mean := 0.88
	sd := 0.02
	f1 := 0.74
	summaries := []domain.SummaryRow{{
		WindowSize:     40,
		MeanAccuracy:   &mean,
		SDAccuracy:     &sd,
		MeanF1Behavior: &f1,
	}}

	tables, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), nil, summaries)
	require.NoError(t, err)

	require.Len(t, tables.WindowStats, 1)
	stats := tables.Stats(40)
	require.NotNil(t, stats)
	assert.Equal(t, domain.StatsReported, stats.Source)
	assert.Equal(t, 0, stats.VideoCount)
	assert.InDelta(t, 0.88, stats.MeanAccuracy, 1e-9)
	assert.InDelta(t, 0.74, stats.MeanF1Behavior, 1e-9)
	// Unreported statistics fall back to zero.
	assert.Zero(t, stats.SDF1Behavior)

	assert.Equal(t, 40, tables.BestWindow)
}

func TestAggregator_RecomputedMatchesReported(t *testing.T) {
	// The end-to-end shape: two rows whose recomputed mean lands on the
	// reported summary value.
	rows := []domain.VideoRow{
		row(10, "a.avi", 0, 0.90, 0.70, 0.9),
		row(10, "a.avi", 1, 0.90, 0.80, 0.9),
	}
	reported := 0.75
	summaries := []domain.SummaryRow{{WindowSize: 10, MeanF1Behavior: &reported}}

	tables, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), rows, summaries)
	require.NoError(t, err)

	stats := tables.Stats(10)
	require.NotNil(t, stats)
	assert.Equal(t, domain.StatsComputed, stats.Source)
	assert.InDelta(t, reported, stats.MeanF1Behavior, 1e-3)
}

func TestAggregator_Idempotent(t *testing.T) {
	agg := NewAggregator(slog.Default(), 0)
	rows := twoWindowFixture()

	first, err := agg.Aggregate(context.Background(), rows, nil)
	require.NoError(t, err)
	second, err := agg.Aggregate(context.Background(), rows, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAggregator_NoInput(t *testing.T) {
	_, err := NewAggregator(slog.Default(), 0).Aggregate(context.Background(), nil, nil)
	require.Error(t, err)
}
