package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

func TestBarbellChart(t *testing.T) {
	data := buildFixtureData(t)

	svg := BarbellChart("mean_f1_behavior", data.Stats, 20)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))

	// Exactly one best dot; the rest are regular dots.
	assert.Equal(t, 1, strings.Count(svg, `class="barbell-dot-best"`))
	assert.Equal(t, len(data.Stats)-1, strings.Count(svg, `class="barbell-dot"`))

	// Window labels are drawn, and the winning dot carries its value label.
	assert.Contains(t, svg, ">10</text>")
	assert.Contains(t, svg, ">20</text>")
	assert.Contains(t, svg, "0.733")
}

func TestBarbellChart_Empty(t *testing.T) {
	assert.Empty(t, BarbellChart("mean_accuracy", nil, 0))
	data := buildFixtureData(t)
	assert.Empty(t, BarbellChart("bogus_column", data.Stats, 20))
}

func TestBoxplotStats(t *testing.T) {
	values := []float64{10, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	s, ok := boxplotStats(values)
	require.True(t, ok)

	assert.Equal(t, 1.0, s.min)
	assert.Equal(t, 3.0, s.q1)
	assert.Equal(t, 6.0, s.median)
	assert.Equal(t, 8.0, s.q3)
	assert.Equal(t, 10.0, s.max)
	// Whiskers stay at the extremes when 1.5 IQR reaches past them.
	assert.Equal(t, 1.0, s.lowerWhisker)
	assert.Equal(t, 10.0, s.upperWhisker)
	// The input is not reordered.
	assert.Equal(t, 10.0, values[0])
}

func TestBoxplotStats_Outliers(t *testing.T) {
	s, ok := boxplotStats([]float64{1, 1, 1, 1, 100})
	require.True(t, ok)

	assert.Equal(t, 1.0, s.q1)
	assert.Equal(t, 1.0, s.q3)
	assert.Equal(t, 1.0, s.upperWhisker)
	assert.Equal(t, 100.0, s.max)
}

func TestBoxplotStats_Empty(t *testing.T) {
	_, ok := boxplotStats(nil)
	assert.False(t, ok)
}

func TestBoxWhiskerChart(t *testing.T) {
	data := buildFixtureData(t)

	svg := BoxWhiskerChart(domain.MetricAccuracy, data.AccuracySeries, data.Stats)
	assert.True(t, strings.HasPrefix(svg, "<svg"))

	// Window group labels and the summary annotations from the stats rows.
	assert.Contains(t, svg, "10 frames")
	assert.Contains(t, svg, "20 frames")
	assert.Contains(t, svg, "μ=0.7950")
	assert.Contains(t, svg, "μ=0.8767")
	assert.Contains(t, svg, "σ=")
	assert.Contains(t, svg, "Accuracy")
}

func TestBoxWhiskerChart_Deterministic(t *testing.T) {
	data := buildFixtureData(t)

	first := BoxWhiskerChart(domain.MetricF1Behavior, data.F1Series, data.Stats)
	second := BoxWhiskerChart(domain.MetricF1Behavior, data.F1Series, data.Stats)
	assert.Equal(t, first, second)
}

func TestBoxWhiskerChart_Empty(t *testing.T) {
	assert.Empty(t, BoxWhiskerChart(domain.MetricAccuracy, nil, nil))

	empty := []WindowSeries{{WindowSize: 10}, {WindowSize: 20}}
	assert.Empty(t, BoxWhiskerChart(domain.MetricAccuracy, empty, nil))
}

func TestLollipopChart(t *testing.T) {
	data := buildFixtureData(t)
	require.NotEmpty(t, data.Sensitivity)

	svg := LollipopChart(data.Sensitivity[0].SensitivityEntry, data.LollipopMin, data.LollipopMax)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "F1 (Behavior)")
	// Per-window value labels for video A.
	assert.Contains(t, svg, "0.6900")
	assert.Contains(t, svg, "0.8000")
}

func TestLollipopChart_Empty(t *testing.T) {
	assert.Empty(t, LollipopChart(domain.SensitivityEntry{}, 0, 1))

	entry := domain.SensitivityEntry{
		PerWindow: []domain.WindowValue{{WindowSize: 10, Value: 0.5}},
	}
	assert.Empty(t, LollipopChart(entry, 1, 1))
}

func TestMetricLabel(t *testing.T) {
	assert.Equal(t, "Accuracy", metricLabel(domain.MetricAccuracy))
	assert.Equal(t, "F1 (Behavior)", metricLabel(domain.MetricF1Behavior))
	assert.Equal(t, "F1 (Not Behavior)", metricLabel(domain.MetricF1NotBehavior))
	assert.Equal(t, "other", metricLabel("other"))
}

func TestWindowStat(t *testing.T) {
	stats := []domain.WindowStats{
		{WindowSize: 10, MeanAccuracy: 0.9, SDAccuracy: 0.05},
	}

	mean, sd, ok := windowStat(stats, 10, domain.MetricAccuracy)
	require.True(t, ok)
	assert.Equal(t, 0.9, mean)
	assert.Equal(t, 0.05, sd)

	_, _, ok = windowStat(stats, 99, domain.MetricAccuracy)
	assert.False(t, ok)
}
