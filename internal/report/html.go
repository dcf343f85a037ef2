package report

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// htmlSummaryCell is one value cell of the window comparison table.
type htmlSummaryCell struct {
	Value string
	Class string
}

// htmlSummaryRow is one window's row of the comparison table, cells in
// domain.SummaryColumns order.
type htmlSummaryRow struct {
	WindowSize int
	Cells      []htmlSummaryCell
}

// htmlPlot is one barbell chart with its heading.
type htmlPlot struct {
	Title    string
	Emphasis bool
	SVG      template.HTML
}

// htmlSensitivity is one sensitivity entry with its lollipop chart.
type htmlSensitivity struct {
	SensitivityRow
	SVG template.HTML
}

// htmlView is the template context for the HTML report.
type htmlView struct {
	*ReportData

	WindowsList  string
	SummaryRows  []htmlSummaryRow
	BestF1Window int
	BestF1Value  float64

	BarbellPlots []htmlPlot
	AccuracyPlot template.HTML
	F1Plot       template.HTML

	SensitivityPlots []htmlSensitivity
}

// HTML renders the report data as a standalone HTML document.
func (r *Renderer) HTML(data *ReportData, w io.Writer) error {
	if data == nil {
		return apperrors.NewReportError("no report data to render", nil)
	}
	view, err := buildHTMLView(data)
	if err != nil {
		return err
	}
	if err := htmlTmpl.Execute(w, view); err != nil {
		return apperrors.NewReportError("failed to render html report", err)
	}
	return nil
}

func buildHTMLView(data *ReportData) (*htmlView, error) {
	bestF1, ok := data.Tables.BestByColumn["mean_f1_behavior"]
	if !ok {
		return nil, apperrors.NewReportError("aggregate tables carry no best mean_f1_behavior window", nil)
	}
	bestF1Stats := data.Tables.Stats(bestF1)
	if bestF1Stats == nil {
		return nil, apperrors.NewReportError("best mean_f1_behavior window has no stats row", nil)
	}

	view := &htmlView{
		ReportData:   data,
		WindowsList:  joinWindowSizes(data.Windows),
		BestF1Window: bestF1,
		BestF1Value:  bestF1Stats.MeanF1Behavior,
		AccuracyPlot: template.HTML(BoxWhiskerChart(domain.MetricAccuracy, data.AccuracySeries, data.Stats)),
		F1Plot:       template.HTML(BoxWhiskerChart(domain.MetricF1Behavior, data.F1Series, data.Stats)),
	}

	for _, s := range data.Stats {
		row := htmlSummaryRow{WindowSize: s.WindowSize}
		for _, col := range domain.SummaryColumns {
			v, _ := s.Value(col)
			cell := htmlSummaryCell{Value: fmt.Sprintf("%.4f", v)}
			if data.Tables.IsBestValue(col, s.WindowSize) {
				cell.Class = "best-cell"
				if col == "mean_f1_behavior" {
					cell.Class = "best-f1"
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		view.SummaryRows = append(view.SummaryRows, row)
	}

	for _, col := range domain.SummaryColumns {
		plot := htmlPlot{
			Title:    plotTitle(col),
			Emphasis: col == "mean_f1_behavior",
			SVG:      template.HTML(BarbellChart(col, data.Stats, data.Tables.BestByColumn[col])),
		}
		if plot.Emphasis {
			plot.Title += " ⭐ - Most Relevant"
		}
		view.BarbellPlots = append(view.BarbellPlots, plot)
	}

	for _, entry := range data.Sensitivity {
		view.SensitivityPlots = append(view.SensitivityPlots, htmlSensitivity{
			SensitivityRow: entry,
			SVG:            template.HTML(LollipopChart(entry.SensitivityEntry, data.LollipopMin, data.LollipopMax)),
		})
	}

	return view, nil
}

// joinWindowSizes formats window sizes as "10, 20, 30".
func joinWindowSizes(windows []int) string {
	parts := make([]string, len(windows))
	for i, w := range windows {
		parts[i] = strconv.Itoa(w)
	}
	return strings.Join(parts, ", ")
}

var htmlTmpl = template.Must(template.New("html").Funcs(template.FuncMap{
	"f4":       func(v float64) string { return fmt.Sprintf("%.4f", v) },
	"truncate": truncateName,
}).Parse(htmlTemplate))

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>{{.Title}}</title>
  <meta charset="UTF-8">
  <style>
    body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; background-color: #f5f5f5; }
    .container { max-width: 1200px; margin: 0 auto; background-color: white; padding: 40px; box-shadow: 0 0 10px rgba(0,0,0,0.1); }
    h1 { color: #2c3e50; border-bottom: 3px solid #3498db; padding-bottom: 10px; }
    h2 { color: #34495e; margin-top: 30px; border-left: 4px solid #3498db; padding-left: 15px; }
    h3 { color: #7f8c8d; }
    table { border-collapse: collapse; width: 100%; margin: 20px 0; }
    th, td { border: 1px solid #ddd; padding: 12px; text-align: left; }
    th { background-color: #3498db; color: white; font-weight: bold; }
    tr:nth-child(even) { background-color: #f2f2f2; }
    tr:hover { background-color: #e8f4f8; }
    .summary-box { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 25px; border-radius: 8px; margin: 20px 0; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
    .summary-box h2 { color: white; border: none; padding: 0; margin: 0 0 15px 0; }
    .best-cell { background-color: #27ae60 !important; color: white; font-weight: bold; }
    .best-f1 { background-color: #e74c3c !important; color: white; font-weight: bold; font-size: 1.1em; }
    .worst-cell { background-color: #ffebee; color: #c62828; font-weight: bold; }
    .na { color: #999; }
    .warning { background-color: #f39c12; padding: 15px; border-radius: 5px; margin: 20px 0; border-left: 4px solid #e67e22; }
    .info { background-color: #3498db; color: white; padding: 15px; border-radius: 5px; margin: 20px 0; }
    .metric { display: inline-block; margin: 10px 20px 10px 0; padding: 10px 20px; background-color: #ecf0f1; border-radius: 5px; }
    .metric strong { color: #2c3e50; display: block; font-size: 1.2em; margin-bottom: 5px; }
    .plots-row { display: flex; flex-wrap: wrap; gap: 15px; margin: 30px 0; justify-content: space-between; }
    .plot-container { flex: 1; min-width: 280px; max-width: 350px; padding: 15px; background-color: #fafafa; border-radius: 8px; border: 1px solid #ddd; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    .plot-title { font-weight: bold; color: #2c3e50; margin-bottom: 10px; font-size: 0.95em; text-align: center; }
    .plot-svg { width: 100%; height: 200px; }
    .boxplot-container { max-width: 100%; padding: 25px; background-color: #fafafa; border-radius: 8px; }
    .boxplot-container .plot-svg { height: auto; }
    .lollipop-grid { display: grid; grid-template-columns: repeat(2, 1fr); gap: 20px; margin: 30px 0; }
    @media (max-width: 1200px) { .lollipop-grid { grid-template-columns: 1fr; } }
    .lollipop-plot-container { padding: 20px; background-color: #fafafa; border-radius: 8px; border: 1px solid #ddd; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
    .barbell-line { stroke: #3498db; stroke-width: 1.5; opacity: 0.7; }
    .barbell-dot { fill: #3498db; stroke: #2c3e50; stroke-width: 1; }
    .barbell-dot-best { fill: #e74c3c; stroke: #c0392b; stroke-width: 2; }
    .barbell-label { font-size: 10px; fill: #34495e; }
    .f1-behavior-section { border: 3px solid #e74c3c; padding: 20px; background-color: #fff5f5; border-radius: 8px; }
    .f1-behavior-plot { border: 2px solid #e74c3c; background-color: #fff5f5; }
  </style>
</head>
<body>
  <div class="container">
    <h1>{{.Title}}</h1>
{{- if .Behavior}}
    <p><strong>Behavior:</strong> {{.Behavior}}</p>
{{- end}}
{{- if .Source}}
    <p><strong>Source:</strong> {{.Source}}</p>
{{- end}}

    <div class="summary-box">
      <h2>Executive Summary</h2>
      <div class="metric">
        <strong>Best Window Size</strong>
        {{.BestWindow}} frames
      </div>
      <div class="metric">
        <strong>Mean F1 (Behavior)</strong>
        {{f4 .Best.MeanF1Behavior}}
      </div>
      <div class="metric">
        <strong>Mean Accuracy</strong>
        {{f4 .Best.MeanAccuracy}}
      </div>
      <div class="metric">
        <strong>Standard Deviation</strong>
        {{f4 .Best.SDAccuracy}}
      </div>
      <div class="metric">
        <strong>Total Videos</strong>
        {{.VideoCount}}
      </div>
      <p style="margin-top: 20px;"><strong>Window Sizes Tested:</strong> {{.WindowsList}} frames</p>
    </div>

    <h2>1. Window Size Comparison</h2>
    <p>The following table shows performance metrics for each window size tested. <strong>Best values in each column are highlighted in green.</strong>
    <span style="background-color: #e74c3c; color: white; padding: 3px 8px; border-radius: 3px; font-weight: bold;">F1 (Behavior) is highlighted in red as the most relevant metric.</span></p>
    <table>
      <tr>
        <th>Window Size</th>
        <th>Mean Accuracy</th>
        <th>SD Accuracy</th>
        <th>Mean F1 (Behavior) ⭐</th>
        <th>SD F1 (Behavior)</th>
        <th>Mean F1 (Not Behavior)</th>
        <th>SD F1 (Not Behavior)</th>
      </tr>
{{- range .SummaryRows}}
      <tr>
        <td>{{.WindowSize}}</td>
{{- range .Cells}}
        <td{{if .Class}} class="{{.Class}}"{{end}}>{{.Value}}</td>
{{- end}}
      </tr>
{{- end}}
    </table>

    <div class="f1-behavior-section">
    <h3>⭐ F1 (Behavior) - Most Relevant Metric</h3>
    <p><strong>F1 (Behavior) is the most relevant metric for this analysis.</strong> The best performing window size for F1 (Behavior) is <strong>{{.BestF1Window}} frames</strong> with a value of <strong>{{f4 .BestF1Value}}</strong>.</p>
    </div>

    <h3>Visualizations: Performance Metrics by Window Size</h3>
    <p>The following barbell plots show the performance of each window size for different metrics. The best value in each plot is highlighted in red.</p>
    <div class="plots-row">
{{- range .BarbellPlots}}
      <div class="plot-container{{if .Emphasis}} f1-behavior-plot{{end}}">
        <div class="plot-title">{{.Title}}</div>
        {{.SVG}}
      </div>
{{- end}}
    </div>

    <h2>2. Per-Video Performance Distribution</h2>
    <p>The following box-whisker plots show the distribution of performance metrics across all videos for each window size. Each point represents one (video, identity) test case. Outliers are shown in red.</p>

    <h3>Accuracy Distribution by Window Size</h3>
    <p style="font-size: 14px; color: #7f8c8d; margin-bottom: 15px;">Each box shows the quartiles (Q1, median, Q3), whiskers extend to 1.5×IQR, and individual points represent each test case. Summary statistics (μ=mean, σ=SD) from Section 1 are displayed above each box.</p>
    <div class="boxplot-container">
      {{.AccuracyPlot}}
    </div>

    <h3>F1 (Behavior) Distribution by Window Size ⭐</h3>
    <p style="font-size: 14px; color: #7f8c8d; margin-bottom: 15px;">Each box shows the quartiles (Q1, median, Q3), whiskers extend to 1.5×IQR, and individual points represent each test case. Summary statistics (μ=mean, σ=SD) from Section 1 are displayed above each box.</p>
    <div class="boxplot-container f1-behavior-plot">
      {{.F1Plot}}
    </div>

    <h2>3. Worst Performing Videos</h2>
    <p>Analysis of worst performing videos across different window sizes. The table below shows:</p>
    <ul style="margin-bottom: 20px;">
      <li><strong>Overall worst videos:</strong> Videos with lowest mean accuracy across all window sizes</li>
      <li><strong>Performance by window size:</strong> Accuracy and F1 (Behavior) for each window size</li>
      <li><strong>Worst window:</strong> The window size where each video performs worst (highlighted in red)</li>
    </ul>

    <h3>Top {{len .WorstVideos}} Worst Performing Videos (Overall)</h3>
    <div style="overflow-x: auto; margin: 20px 0;">
    <table style="min-width: 1000px;">
      <tr>
        <th rowspan="2" style="vertical-align: middle;">Rank</th>
        <th rowspan="2" style="vertical-align: middle;">Video Name</th>
        <th rowspan="2" style="vertical-align: middle;">Mean<br>Accuracy</th>
        <th rowspan="2" style="vertical-align: middle;">Mean<br>F1 (Behavior)</th>
        <th colspan="{{len .Windows}}" style="text-align: center; border-bottom: 2px solid #34495e;">Accuracy by Window Size</th>
        <th colspan="{{len .Windows}}" style="text-align: center; border-bottom: 2px solid #34495e;">F1 (Behavior) by Window Size</th>
      </tr>
      <tr>
{{- range .Windows}}
        <th>{{.}}</th>
{{- end}}
{{- range .Windows}}
        <th>{{.}}</th>
{{- end}}
      </tr>
{{- range .WorstVideos}}
      <tr>
        <td style="font-weight: bold;">{{.Rank}}</td>
        <td style="max-width: 200px; word-wrap: break-word;">{{truncate .VideoName 80}}</td>
        <td style="font-weight: bold;">{{f4 .MeanAccuracy}}</td>
        <td style="font-weight: bold;">{{f4 .MeanF1Behavior}}</td>
{{- range .Accuracy}}
{{- if .HasValue}}
        <td{{if .Worst}} class="worst-cell"{{end}}>{{f4 .Value}}</td>
{{- else}}
        <td class="na">N/A</td>
{{- end}}
{{- end}}
{{- range .F1Behavior}}
{{- if .HasValue}}
        <td{{if .Worst}} class="worst-cell"{{end}}>{{f4 .Value}}</td>
{{- else}}
        <td class="na">N/A</td>
{{- end}}
{{- end}}
      </tr>
{{- end}}
    </table>
    </div>
    <p style="font-size: 13px; color: #7f8c8d; margin-top: 10px;">
      <strong>Note:</strong> Red highlighted cells indicate the window size where each video performs worst.
      Mean values are calculated across all window sizes where the video appears.
    </p>

    <h3>Worst Performing Videos by Window Size</h3>
    <p>The following table shows the worst performing test case at each window size:</p>
    <table>
      <tr>
        <th>Window Size</th>
        <th>Worst Video (Accuracy)</th>
        <th>Accuracy</th>
        <th>Worst Video (F1 Behavior)</th>
        <th>F1 (Behavior)</th>
      </tr>
{{- range .WindowWorst}}
      <tr>
        <td style="font-weight: bold;">{{.WindowSize}} frames</td>
        <td>{{truncate .AccuracyVideo 60}}</td>
        <td class="worst-cell">{{f4 .Accuracy}}</td>
        <td>{{truncate .F1Video 60}}</td>
        <td class="worst-cell">{{f4 .F1Behavior}}</td>
      </tr>
{{- end}}
    </table>

    <h2>4. Most Window-Sensitive Videos</h2>
    <p>Top {{len .Sensitivity}} videos with highest coefficient of variation (most sensitive to window size changes). <strong>Note: Coefficient of Variation is calculated using F1 (Behavior) metric.</strong></p>
    <table>
      <tr>
        <th>Rank</th>
        <th>Video Name</th>
        <th>Coefficient of Variation (CV)</th>
        <th>Mean F1 (Behavior)</th>
        <th>SD F1 (Behavior)</th>
        <th>Best Window</th>
      </tr>
{{- range .Sensitivity}}
      <tr>
        <td>{{.Rank}}</td>
        <td>{{truncate .VideoName 80}}</td>
        <td>{{f4 .CV}}</td>
        <td>{{f4 .MeanF1Behavior}}</td>
        <td>{{f4 .SDF1Behavior}}</td>
        <td>{{.BestWindow}} frames</td>
      </tr>
{{- end}}
    </table>

    <h3>Lollipop Plots: F1 (Behavior) Across Window Sizes</h3>
    <p style="font-size: 14px; color: #7f8c8d; margin-bottom: 20px;">
      The following lollipop plots show how the per-window mean F1 (Behavior) varies across window sizes for each of the most window-sensitive videos.
      <strong>The Coefficient of Variation (CV) is calculated using F1 (Behavior) values: CV = SD(F1) / Mean(F1).</strong>
      <strong>All plots use the same y-axis scale for easy comparison.</strong>
    </p>
    <div class="lollipop-grid">
{{- range .SensitivityPlots}}
      <div class="lollipop-plot-container">
        <h4 style="margin-top: 0; color: #2c3e50; font-size: 1.1em;">Rank {{.Rank}}: {{truncate .VideoName 80}}</h4>
        <p style="font-size: 12px; color: #7f8c8d; margin-bottom: 15px;">
          CV (F1 Behavior) = {{f4 .CV}} | Best Window = {{.BestWindow}} frames
        </p>
        {{.SVG}}
      </div>
{{- end}}
    </div>

{{- if .Features}}

    <h2>5. Feature Importance</h2>
    <p>Top features by importance for each window size, as reported by the classifier.</p>
{{- range .Features}}
    <h3>Window {{.WindowSize}} frames</h3>
    <table>
      <tr>
        <th>Rank</th>
        <th>Feature</th>
        <th>Importance</th>
      </tr>
{{- range .Features}}
      <tr>
        <td>{{.Rank}}</td>
        <td>{{.FeatureName}}</td>
        <td>{{f4 .Importance}}</td>
      </tr>
{{- end}}
    </table>
{{- end}}
{{- end}}

    <h2>6. Key Findings</h2>
    <div class="info">
      <p><strong>Recommendation: Window {{.BestWindow}} frames</strong></p>
      <p>Window size <strong>{{.BestWindow}} frames</strong> shows the best performance with a mean F1 (Behavior) of <strong>{{f4 .Best.MeanF1Behavior}}</strong> (the most relevant metric for this analysis) and a mean accuracy of {{f4 .Best.MeanAccuracy}}.
      Standard deviations of {{f4 .Best.SDAccuracy}} for accuracy and {{f4 .Best.SDF1Behavior}} for F1 (Behavior) indicate how consistent the performance is across videos.</p>
    </div>
{{- if .RunnerUp}}
    <ul>
      <li><strong>Runner-up:</strong> Window {{.RunnerUp}} frames trails the best window by {{f4 .RunnerUpGap}} in mean F1 (Behavior).</li>
      <li><strong>Weakest window:</strong> Window {{.WeakestWindow.WindowSize}} frames shows the lowest mean F1 (Behavior) of {{f4 .WeakestWindow.MeanF1Behavior}}.</li>
    </ul>
{{- end}}

    <h2>7. Data Quality Notes</h2>
    <div class="warning">
      <p><strong>Validation Findings:</strong></p>
      <ul>
        <li><strong>Cross-validation structure:</strong> Each video contains multiple animals (identities). The cross-validation holds out <strong>one animal at a time</strong> (not one video at a time). Each animal is identified by the identity number [0], [1], [2], etc. at the end of the video filename. This is why the same video file appears multiple times with different identities - each represents a separate test case where that specific animal was held out.</li>
        <li>{{.CaseCount}} test cases were parsed across {{len .Windows}} window sizes.</li>
{{- if .ExcludedRows}}
        <li>{{.ExcludedRows}} test case(s) carried a metric outside [0, 1] and were excluded from all statistics.</li>
{{- end}}
{{- if .DiagnosticCount}}
        <li>{{.DiagnosticCount}} parse diagnostic(s) were recorded; see the parser output for details.</li>
{{- end}}
        <li>Some videos may be missing from certain windows - this may indicate data collection or processing issues. See <code>validation_report.txt</code> for complete validation details.</li>
      </ul>
    </div>

    <hr>
    <p style="text-align: center; color: #7f8c8d;">
      <em>Report generated automatically by the window size analysis pipeline</em>
    </p>
  </div>
</body>
</html>
`
