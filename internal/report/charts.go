package report

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// Chart dimensions, shared by the HTML report and the standalone SVG files.
const (
	barbellWidth    = 300
	barbellHeight   = 200
	barbellPadding  = 40
	boxWidthPx      = 1000
	boxHeightPx     = 500
	boxPadding      = 80
	lollipopWidth   = 800
	lollipopHeight  = 300
	lollipopPadding = 70
)

// jitterSeed fixes the point jitter of the box-whisker charts so rendering
// is reproducible.
const jitterSeed = 42

func newJitterSource(offset int) *rand.Rand {
	return rand.New(rand.NewSource(jitterSeed + int64(offset)))
}

// BarbellChart renders the per-window dot chart of one summary statistic
// column as an SVG fragment. bestWindow marks the highlighted dot, normally
// the tables' best-by-column entry. Empty stats render an empty string.
func BarbellChart(column string, stats []domain.WindowStats, bestWindow int) string {
	if len(stats) == 0 {
		return ""
	}

	values := make([]float64, len(stats))
	minVal, maxVal := 0.0, 0.0
	for i, s := range stats {
		v, ok := s.Value(column)
		if !ok {
			return ""
		}
		values[i] = v
		if i == 0 || v < minVal {
			minVal = v
		}
		if i == 0 || v > maxVal {
			maxVal = v
		}
	}
	valueRange := maxVal - minVal
	padding := valueRange * 0.1
	if padding == 0 {
		padding = 0.01
	}

	areaHeight := float64(barbellHeight - 2*barbellPadding)
	xMin := float64(barbellPadding)
	xMax := float64(barbellWidth - barbellPadding)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="plot-svg" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, barbellWidth, barbellHeight)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#fafafa"/>`, barbellWidth, barbellHeight)

	ySpacing := areaHeight
	if len(stats) > 1 {
		ySpacing = areaHeight / float64(len(stats)-1)
	}
	yPositions := make([]float64, len(stats))
	for i, s := range stats {
		y := float64(barbellPadding) + areaHeight/2
		if len(stats) > 1 {
			y = float64(barbellPadding) + float64(i)*ySpacing
		}
		yPositions[i] = y
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" class="barbell-label" text-anchor="end" font-size="9px">%d</text>`,
			xMin-5, y+4, s.WindowSize)
	}

	fmt.Fprintf(&b, `<line x1="%.2f" y1="%d" x2="%.2f" y2="%d" stroke="#ddd" stroke-width="1"/>`,
		xMin, barbellPadding, xMin, barbellHeight-barbellPadding)
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%d" x2="%.2f" y2="%d" stroke="#ddd" stroke-width="1"/>`,
		xMax, barbellPadding, xMax, barbellHeight-barbellPadding)

	for i, s := range stats {
		normalized := 0.5
		if valueRange > 0 {
			normalized = (values[i] - minVal + padding) / (valueRange + 2*padding)
		}
		x := xMin + normalized*(xMax-xMin)
		y := yPositions[i]

		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" class="barbell-line"/>`, xMin, y, x, y)

		dotClass, dotRadius := "barbell-dot", 5
		if s.WindowSize == bestWindow {
			dotClass, dotRadius = "barbell-dot-best", 6
		}
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%d" class="%s"/>`, x, y, dotRadius, dotClass)

		if x+35 < barbellWidth {
			fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" class="barbell-label" font-size="9px">%.3f</text>`, x+8, y+4, values[i])
		}
	}

	fmt.Fprintf(&b, `<text x="%.2f" y="%d" class="barbell-label" text-anchor="middle" font-size="8px">%.3f</text>`,
		xMin, barbellHeight-barbellPadding+20, minVal)
	fmt.Fprintf(&b, `<text x="%.2f" y="%d" class="barbell-label" text-anchor="middle" font-size="8px">%.3f</text>`,
		xMax, barbellHeight-barbellPadding+20, maxVal)

	b.WriteString(`</svg>`)
	return b.String()
}

// boxStats holds the quartile geometry of one value distribution.
type boxStats struct {
	min, q1, median, q3, max   float64
	lowerWhisker, upperWhisker float64
	sorted                     []float64
}

// boxplotStats computes quartiles by rank index and clamps the whiskers at
// 1.5 IQR. Values outside the whiskers are outliers. Returns false for an
// empty slice.
func boxplotStats(values []float64) (boxStats, bool) {
	if len(values) == 0 {
		return boxStats{}, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)

	at := func(idx int) float64 {
		if idx >= n {
			idx = n - 1
		}
		return sorted[idx]
	}
	q1 := at(int(float64(n) * 0.25))
	median := at(int(float64(n) * 0.5))
	q3 := at(int(float64(n) * 0.75))
	iqr := q3 - q1

	s := boxStats{
		min:          sorted[0],
		q1:           q1,
		median:       median,
		q3:           q3,
		max:          sorted[n-1],
		lowerWhisker: sorted[0],
		upperWhisker: sorted[n-1],
		sorted:       sorted,
	}
	if low := q1 - 1.5*iqr; low > s.lowerWhisker {
		s.lowerWhisker = low
	}
	if high := q3 + 1.5*iqr; high < s.upperWhisker {
		s.upperWhisker = high
	}
	return s, true
}

// BoxWhiskerChart renders the per-window distribution of one metric: boxes
// with IQR whiskers, jittered per-row points with outliers in red, and the
// window statistics annotated above each box. Series without values are
// skipped; an all-empty series set renders an empty string.
func BoxWhiskerChart(metric string, series []WindowSeries, stats []domain.WindowStats) string {
	type windowBox struct {
		windowSize int
		box        boxStats
	}
	var boxes []windowBox
	var allValues []float64
	for _, s := range series {
		if box, ok := boxplotStats(s.Values); ok {
			boxes = append(boxes, windowBox{windowSize: s.WindowSize, box: box})
			allValues = append(allValues, s.Values...)
		}
	}
	if len(boxes) == 0 {
		return ""
	}

	minVal, maxVal := allValues[0], allValues[0]
	for _, v := range allValues[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	padding := (maxVal - minVal) * 0.05
	if padding == 0 {
		padding = 0.01
	}
	yMin := minVal - padding
	yMax := maxVal + padding
	yRange := yMax - yMin

	areaWidth := float64(boxWidthPx - 2*boxPadding)
	areaHeight := float64(boxHeightPx - 2*boxPadding)
	boxSpacing := areaWidth / float64(len(boxes)+1)
	boxWidth := boxSpacing
	if boxWidth > 80 {
		boxWidth = 80
	}

	valToY := func(v float64) float64 {
		return float64(boxHeightPx-boxPadding) - (v-yMin)/yRange*areaHeight
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="plot-svg" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, boxWidthPx, boxHeightPx)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff" stroke="#e0e0e0" stroke-width="1"/>`, boxWidthPx, boxHeightPx)

	for i, wb := range boxes {
		xCenter := float64(boxPadding) + float64(i+1)*boxSpacing
		xLeft := xCenter - boxWidth/2
		xRight := xCenter + boxWidth/2

		yQ1 := valToY(wb.box.q1)
		yMedian := valToY(wb.box.median)
		yQ3 := valToY(wb.box.q3)
		yLower := valToY(wb.box.lowerWhisker)
		yUpper := valToY(wb.box.upperWhisker)

		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#34495e" stroke-width="2"/>`, xCenter, yLower, xCenter, yUpper)
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#34495e" stroke-width="2"/>`, xCenter-10, yLower, xCenter+10, yLower)
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#34495e" stroke-width="2"/>`, xCenter-10, yUpper, xCenter+10, yUpper)
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#3498db" fill-opacity="0.7" stroke="#2980b9" stroke-width="2"/>`,
			xLeft, yQ3, boxWidth, yQ1-yQ3)
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#e74c3c" stroke-width="3"/>`, xLeft, yMedian, xRight, yMedian)

		rng := newJitterSource(i)
		for _, v := range wb.box.sorted {
			jitter := (rng.Float64() - 0.5) * boxWidth * 0.6
			x := xCenter + jitter
			y := valToY(v)
			color, opacity, radius := "#34495e", "0.5", 3.0
			if v < wb.box.lowerWhisker || v > wb.box.upperWhisker {
				color, opacity, radius = "#e74c3c", "0.7", 3.5
			}
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.1f" fill="%s" fill-opacity="%s" stroke="white" stroke-width="1"/>`,
				x, y, radius, color, opacity)
		}

		fmt.Fprintf(&b, `<text x="%.2f" y="%d" class="barbell-label" text-anchor="middle" font-size="14px" font-weight="bold" fill="#2c3e50">%d frames</text>`,
			xCenter, boxHeightPx-boxPadding+30, wb.windowSize)

		if mean, sd, ok := windowStat(stats, wb.windowSize, metric); ok {
			fmt.Fprintf(&b, `<text x="%.2f" y="%d" class="barbell-label" text-anchor="middle" font-size="13px" font-weight="bold" fill="#27ae60">μ=%.4f</text>`,
				xCenter, boxPadding-20, mean)
			fmt.Fprintf(&b, `<text x="%.2f" y="%d" class="barbell-label" text-anchor="middle" font-size="12px" fill="#7f8c8d">σ=%.4f</text>`,
				xCenter, boxPadding-2, sd)
		}
	}

	const ticks = 6
	for i := 0; i <= ticks; i++ {
		v := yMin + float64(i)/ticks*yRange
		y := valToY(v)
		fmt.Fprintf(&b, `<line x1="%d" y1="%.2f" x2="%d" y2="%.2f" stroke="#34495e" stroke-width="1.5"/>`,
			boxPadding-8, y, boxPadding, y)
		fmt.Fprintf(&b, `<text x="%d" y="%.2f" class="barbell-label" text-anchor="end" font-size="13px" font-weight="500" fill="#2c3e50">%.3f</text>`,
			boxPadding-12, y+5, v)
	}

	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#2c3e50" stroke-width="3"/>`,
		boxPadding, boxPadding, boxPadding, boxHeightPx-boxPadding)
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#2c3e50" stroke-width="3"/>`,
		boxPadding, boxHeightPx-boxPadding, boxWidthPx-boxPadding, boxHeightPx-boxPadding)
	fmt.Fprintf(&b, `<text x="20" y="%d" class="barbell-label" text-anchor="middle" font-size="16px" font-weight="bold" fill="#2c3e50" transform="rotate(-90 20 %d)">%s</text>`,
		boxHeightPx/2, boxHeightPx/2, metricLabel(metric))

	b.WriteString(`</svg>`)
	return b.String()
}

// LollipopChart renders one video's per-window mean f1_behavior values.
// yMin/yMax set the shared axis range so charts of different videos stay
// comparable. An entry without per-window values renders an empty string.
func LollipopChart(entry domain.SensitivityEntry, yMin, yMax float64) string {
	if len(entry.PerWindow) == 0 {
		return ""
	}
	yRange := yMax - yMin
	if yRange <= 0 {
		return ""
	}

	minVal := entry.PerWindow[0].Value
	for _, wv := range entry.PerWindow[1:] {
		if wv.Value < minVal {
			minVal = wv.Value
		}
	}

	areaWidth := float64(lollipopWidth - 2*lollipopPadding)
	areaHeight := float64(lollipopHeight - 2*lollipopPadding)
	xSpacing := areaWidth / float64(len(entry.PerWindow)+1)

	valToY := func(v float64) float64 {
		return float64(lollipopHeight-lollipopPadding) - (v-yMin)/yRange*areaHeight
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="plot-svg" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`, lollipopWidth, lollipopHeight)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#ffffff" stroke="#e0e0e0" stroke-width="1"/>`, lollipopWidth, lollipopHeight)

	baselineY := valToY(minVal)
	fmt.Fprintf(&b, `<line x1="%d" y1="%.2f" x2="%d" y2="%.2f" stroke="#bdc3c7" stroke-width="1" stroke-dasharray="3,3"/>`,
		lollipopPadding, baselineY, lollipopWidth-lollipopPadding, baselineY)

	for i, wv := range entry.PerWindow {
		x := float64(lollipopPadding) + float64(i+1)*xSpacing
		y := valToY(wv.Value)

		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#3498db" stroke-width="2.5"/>`, x, baselineY, x, y)
		fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="6" fill="#3498db" stroke="#2980b9" stroke-width="1.5"/>`, x, y)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" class="barbell-label" text-anchor="middle" font-size="12px" font-weight="bold" fill="#2c3e50">%.4f</text>`,
			x, y-12, wv.Value)
		fmt.Fprintf(&b, `<text x="%.2f" y="%d" class="barbell-label" text-anchor="middle" font-size="13px" font-weight="bold" fill="#2c3e50">%d</text>`,
			x, lollipopHeight-lollipopPadding+25, wv.WindowSize)
	}

	const ticks = 5
	for i := 0; i <= ticks; i++ {
		v := yMin + float64(i)/ticks*yRange
		y := valToY(v)
		fmt.Fprintf(&b, `<line x1="%d" y1="%.2f" x2="%d" y2="%.2f" stroke="#34495e" stroke-width="1"/>`,
			lollipopPadding-5, y, lollipopPadding, y)
		fmt.Fprintf(&b, `<text x="%d" y="%.2f" class="barbell-label" text-anchor="end" font-size="12px" fill="#2c3e50">%.3f</text>`,
			lollipopPadding-10, y+4, v)
	}

	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#2c3e50" stroke-width="2"/>`,
		lollipopPadding, lollipopPadding, lollipopPadding, lollipopHeight-lollipopPadding)
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="#2c3e50" stroke-width="2"/>`,
		lollipopPadding, lollipopHeight-lollipopPadding, lollipopWidth-lollipopPadding, lollipopHeight-lollipopPadding)
	fmt.Fprintf(&b, `<text x="25" y="%d" class="barbell-label" text-anchor="middle" font-size="14px" font-weight="bold" fill="#2c3e50" transform="rotate(-90 25 %d)">F1 (Behavior)</text>`,
		lollipopHeight/2, lollipopHeight/2)

	b.WriteString(`</svg>`)
	return b.String()
}

// metricLabel is the axis label for a per-row metric column.
func metricLabel(metric string) string {
	switch metric {
	case domain.MetricAccuracy:
		return "Accuracy"
	case domain.MetricF1Behavior:
		return "F1 (Behavior)"
	case domain.MetricF1NotBehavior:
		return "F1 (Not Behavior)"
	}
	return metric
}

// windowStat looks up one summary statistic pair (mean, sd) of a metric for
// a window.
func windowStat(stats []domain.WindowStats, windowSize int, metric string) (mean, sd float64, ok bool) {
	for i := range stats {
		if stats[i].WindowSize != windowSize {
			continue
		}
		mean, okMean := stats[i].Value("mean_" + metric)
		sd, okSD := stats[i].Value("sd_" + metric)
		return mean, sd, okMean && okSD
	}
	return 0, 0, false
}
