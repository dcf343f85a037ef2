package report

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	apperrors "github.com/vivekJax/JABS-Window-Analysis/internal/errors"
	"github.com/vivekJax/JABS-Window-Analysis/pkg/contracts/domain"
)

// latexEscaper rewrites LaTeX special characters in a single pass, so
// escape sequences in the output are never rescanned.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
)

func escapeLaTeX(s string) string {
	return latexEscaper.Replace(s)
}

type latexSummaryRow struct {
	WindowSize int
	Cells      []string
}

type latexWorstRow struct {
	Rank         int
	Name         string
	MeanAccuracy string
	SDAccuracy   string
}

type latexSensitivityRow struct {
	Rank   int
	Name   string
	CV     string
	MeanF1 string
	SDF1   string
}

type latexFeatureGroup struct {
	WindowSize int
	Rows       []latexFeatureRow
}

type latexFeatureRow struct {
	Rank       int
	Name       string
	Importance string
}

type latexVideoRow struct {
	WindowSize int
	VideoID    int
	Name       string
	Identity   int
	Accuracy   string
	F1Behavior string
}

// latexView is the template context for the LaTeX report. All strings are
// escaped; plot code is prebuilt pgfplots markup.
type latexView struct {
	Title       string
	Behavior    string
	WindowsList string
	WindowCount int
	VideoCount  int
	CaseCount   int
	Excluded    int

	BestWindow  int
	BestMeanF1  string
	BestSDF1    string
	BestMeanAcc string
	BestSDAcc   string
	BestCV      string

	RunnerUp      int
	RunnerUpGap   string
	WeakestWindow int
	WeakestMeanF1 string

	SummaryRows  []latexSummaryRow
	AppendixRows []latexSummaryRow

	BarbellFigures  string
	AccuracyBoxplot string
	F1Boxplot       string
	LollipopGrid    string

	WorstRows       []latexWorstRow
	SensitivityRows []latexSensitivityRow
	FeatureGroups   []latexFeatureGroup
	VideoRows       []latexVideoRow
}

// LaTeX renders the report data as a standalone LaTeX document.
func (r *Renderer) LaTeX(data *ReportData, w io.Writer) error {
	if data == nil {
		return apperrors.NewReportError("no report data to render", nil)
	}
	view := buildLaTeXView(data)
	if err := latexTmpl.Execute(w, view); err != nil {
		return apperrors.NewReportError("failed to render latex report", err)
	}
	return nil
}

func buildLaTeXView(data *ReportData) *latexView {
	f4 := func(v float64) string { return fmt.Sprintf("%.4f", v) }

	view := &latexView{
		Title:       escapeLaTeX(data.Title),
		Behavior:    escapeLaTeX(data.Behavior),
		WindowsList: joinWindowSizes(data.Windows),
		WindowCount: len(data.Windows),
		VideoCount:  data.VideoCount,
		CaseCount:   data.CaseCount,
		Excluded:    data.ExcludedRows,

		BestWindow:  data.BestWindow,
		BestMeanF1:  f4(data.Best.MeanF1Behavior),
		BestSDF1:    f4(data.Best.SDF1Behavior),
		BestMeanAcc: f4(data.Best.MeanAccuracy),
		BestSDAcc:   f4(data.Best.SDAccuracy),

		RunnerUp:      data.RunnerUp,
		RunnerUpGap:   f4(data.RunnerUpGap),
		WeakestWindow: data.WeakestWindow.WindowSize,
		WeakestMeanF1: f4(data.WeakestWindow.MeanF1Behavior),

		AccuracyBoxplot: boxplotTikZ(domain.MetricAccuracy, data.AccuracySeries, data.Stats),
		F1Boxplot:       boxplotTikZ(domain.MetricF1Behavior, data.F1Series, data.Stats),
		LollipopGrid:    lollipopGrid(data.Sensitivity, data.LollipopMin, data.LollipopMax),
	}
	if data.Best.MeanF1Behavior != 0 {
		view.BestCV = f4(data.Best.SDF1Behavior / data.Best.MeanF1Behavior)
	}

	for _, s := range data.Stats {
		marked := latexSummaryRow{WindowSize: s.WindowSize}
		plain := latexSummaryRow{WindowSize: s.WindowSize}
		for _, col := range domain.SummaryColumns {
			v, _ := s.Value(col)
			plain.Cells = append(plain.Cells, f4(v))
			cell := f4(v)
			if data.Tables.IsBestValue(col, s.WindowSize) {
				color := "bestgreen"
				if col == "mean_f1_behavior" {
					color = "bestred"
				}
				cell = fmt.Sprintf(`\textcolor{%s}{\textbf{%s}}`, color, cell)
			}
			marked.Cells = append(marked.Cells, cell)
		}
		view.SummaryRows = append(view.SummaryRows, marked)
		view.AppendixRows = append(view.AppendixRows, plain)
	}

	var figures strings.Builder
	for _, col := range []string{"mean_accuracy", "mean_f1_behavior", "mean_f1_not_behavior"} {
		figures.WriteString(barbellTikZ(col, data.Stats, data.Tables.BestByColumn[col]))
	}
	view.BarbellFigures = figures.String()

	for _, wv := range data.WorstVideos {
		view.WorstRows = append(view.WorstRows, latexWorstRow{
			Rank:         wv.Rank,
			Name:         escapeLaTeX(truncateName(wv.VideoName, 60)),
			MeanAccuracy: f4(wv.MeanAccuracy),
			SDAccuracy:   f4(wv.SDAccuracy),
		})
	}

	for _, entry := range data.Sensitivity {
		view.SensitivityRows = append(view.SensitivityRows, latexSensitivityRow{
			Rank:   entry.Rank,
			Name:   escapeLaTeX(truncateName(entry.VideoName, 50)),
			CV:     f4(entry.CV),
			MeanF1: f4(entry.MeanF1Behavior),
			SDF1:   f4(entry.SDF1Behavior),
		})
	}

	for _, group := range data.Features {
		lg := latexFeatureGroup{WindowSize: group.WindowSize}
		for _, feature := range group.Features {
			lg.Rows = append(lg.Rows, latexFeatureRow{
				Rank:       feature.Rank,
				Name:       escapeLaTeX(feature.FeatureName),
				Importance: f4(feature.Importance),
			})
		}
		view.FeatureGroups = append(view.FeatureGroups, lg)
	}

	for _, row := range data.Rows {
		view.VideoRows = append(view.VideoRows, latexVideoRow{
			WindowSize: row.WindowSize,
			VideoID:    row.VideoID,
			Name:       escapeLaTeX(truncateName(row.VideoName, 60)),
			Identity:   row.Identity,
			Accuracy:   f4(row.Accuracy),
			F1Behavior: f4(row.F1Behavior),
		})
	}

	return view
}

// barbellTikZ renders the per-window dot chart of one summary column as a
// pgfplots figure.
func barbellTikZ(column string, stats []domain.WindowStats, bestWindow int) string {
	if len(stats) == 0 {
		return ""
	}

	minVal, maxVal := 0.0, 0.0
	for i, s := range stats {
		v, ok := s.Value(column)
		if !ok {
			return ""
		}
		if i == 0 || v < minVal {
			minVal = v
		}
		if i == 0 || v > maxVal {
			maxVal = v
		}
	}

	title := SummaryColumnTitle(column)
	var b strings.Builder
	fmt.Fprintf(&b, "\n\\begin{figure}[h]\n\\centering\n\\begin{tikzpicture}\n\\begin{axis}[\n")
	fmt.Fprintf(&b, "    width=0.3\\textwidth,\n    height=0.2\\textwidth,\n")
	fmt.Fprintf(&b, "    ymin=%.4f,\n    ymax=%.4f,\n", minVal*0.95, maxVal*1.05)
	fmt.Fprintf(&b, "    xlabel={Window Size (frames)},\n    ylabel={%s},\n", title)
	ticks := windowTicks(stats)
	fmt.Fprintf(&b, "    xtick={%s},\n    xticklabels={%s},\n", ticks, ticks)
	b.WriteString("    grid=major,\n    grid style={gray!30},\n    axis lines=left,\n    enlarge x limits=0.1,\n]\n")

	for _, s := range stats {
		v, _ := s.Value(column)
		color, markSize := "infoblue", "4pt"
		if s.WindowSize == bestWindow {
			color, markSize = "bestred", "6pt"
		}
		fmt.Fprintf(&b, "\\addplot[only marks, mark=*, mark size=%s, fill=%s, draw=black, line width=0.5pt] coordinates {(%d, %.4f)};\n",
			markSize, color, s.WindowSize, v)
	}

	b.WriteString("\\end{axis}\n\\end{tikzpicture}\n")
	fmt.Fprintf(&b, "\\caption{%s by Window Size}\n\\label{fig:%s}\n\\end{figure}\n", title, column)
	return b.String()
}

// boxplotTikZ renders the per-window distribution of one metric as a
// pgfplots figure with hand-drawn boxes, whiskers and jittered points.
func boxplotTikZ(metric string, series []WindowSeries, stats []domain.WindowStats) string {
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
	padding := (maxVal - minVal) * 0.1
	if padding == 0 {
		padding = 0.01
	}
	yMin := minVal - padding
	if yMin < 0 {
		yMin = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n\\begin{figure}[h]\n\\centering\n\\begin{tikzpicture}\n\\begin{axis}[\n")
	fmt.Fprintf(&b, "    width=0.9\\textwidth,\n    height=0.4\\textwidth,\n")
	fmt.Fprintf(&b, "    ymin=%.4f,\n    ymax=%.4f,\n", yMin, maxVal+padding)
	fmt.Fprintf(&b, "    xlabel={Window Size (frames)},\n    ylabel={%s},\n", metricLabel(metric))
	ticks := seriesTicks(boxesTicks(series))
	fmt.Fprintf(&b, "    xtick={%s},\n    xticklabels={%s},\n", ticks, ticks)
	b.WriteString("    grid=major,\n    grid style={gray!30},\n    axis lines=left,\n    enlarge x limits=0.1,\n]\n")

	const boxWidth = 0.3
	for i, wb := range boxes {
		x := float64(wb.windowSize)
		xLeft := x - boxWidth/2
		xRight := x + boxWidth/2

		fmt.Fprintf(&b, "\\draw[fill=infoblue!30, draw=black, line width=0.5pt] (axis cs:%.3f,%.4f) rectangle (axis cs:%.3f,%.4f);\n",
			xLeft, wb.box.q1, xRight, wb.box.q3)
		fmt.Fprintf(&b, "\\draw[draw=black, line width=1.5pt] (axis cs:%.3f,%.4f) -- (axis cs:%.3f,%.4f);\n",
			xLeft, wb.box.median, xRight, wb.box.median)
		fmt.Fprintf(&b, "\\draw[draw=black, line width=1pt] (axis cs:%.3f,%.4f) -- (axis cs:%.3f,%.4f);\n",
			x, wb.box.lowerWhisker, x, wb.box.q1)
		fmt.Fprintf(&b, "\\draw[draw=black, line width=1pt] (axis cs:%.3f,%.4f) -- (axis cs:%.3f,%.4f);\n",
			x, wb.box.q3, x, wb.box.upperWhisker)

		capLeft := x - boxWidth*0.2
		capRight := x + boxWidth*0.2
		fmt.Fprintf(&b, "\\draw[draw=black, line width=1pt] (axis cs:%.3f,%.4f) -- (axis cs:%.3f,%.4f);\n",
			capLeft, wb.box.lowerWhisker, capRight, wb.box.lowerWhisker)
		fmt.Fprintf(&b, "\\draw[draw=black, line width=1pt] (axis cs:%.3f,%.4f) -- (axis cs:%.3f,%.4f);\n",
			capLeft, wb.box.upperWhisker, capRight, wb.box.upperWhisker)

		if mean, _, ok := windowStat(stats, wb.windowSize, metric); ok {
			fmt.Fprintf(&b, "\\addplot[only marks, mark=*, mark size=2pt, color=gray, fill=gray] coordinates {(%.3f, %.4f)};\n", x, mean)
		}

		rng := newJitterSource(i)
		for _, v := range wb.box.sorted {
			jitter := (rng.Float64() - 0.5) * boxWidth * 0.8
			color, opacity := "infoblue", "0.4"
			if v < wb.box.lowerWhisker || v > wb.box.upperWhisker {
				color, opacity = "bestred", "0.6"
			}
			fmt.Fprintf(&b, "\\addplot[only marks, mark=*, mark size=1.5pt, color=%s, fill=%s, fill opacity=%s] coordinates {(%.3f, %.4f)};\n",
				color, color, opacity, x+jitter, v)
		}
	}

	b.WriteString("\\end{axis}\n\\end{tikzpicture}\n")
	fmt.Fprintf(&b, "\\caption{%s Distribution by Window Size (Box-Whisker Plot)}\n\\label{fig:boxplot_%s}\n\\end{figure}\n",
		metricLabel(metric), strings.ReplaceAll(metric, "_", ""))
	return b.String()
}

// lollipopTikZ renders one video's per-window f1_behavior values sized for
// the two-column landscape grid.
func lollipopTikZ(entry domain.SensitivityEntry, yMin, yMax float64) string {
	if len(entry.PerWindow) == 0 {
		return ""
	}

	var ticks []string
	for _, wv := range entry.PerWindow {
		ticks = append(ticks, fmt.Sprintf("%d", wv.WindowSize))
	}
	tickList := strings.Join(ticks, ",")

	var b strings.Builder
	fmt.Fprintf(&b, "\\begin{tikzpicture}\n\\begin{axis}[\n")
	b.WriteString("    width=8cm,\n    height=5cm,\n")
	fmt.Fprintf(&b, "    ymin=%.4f,\n    ymax=%.4f,\n", yMin, yMax)
	b.WriteString("    xlabel={Window Size (frames)},\n    ylabel={F1 (Behavior)},\n")
	fmt.Fprintf(&b, "    xtick={%s},\n    xticklabels={%s},\n", tickList, tickList)
	b.WriteString("    grid=major,\n    grid style={gray!30},\n    axis lines=left,\n    enlarge x limits=0.1,\n")
	fmt.Fprintf(&b, "    title={%s},\n    title style={font=\\large},\n    scale only axis,\n]\n",
		escapeLaTeX(truncateName(entry.VideoName, 40)))

	for _, wv := range entry.PerWindow {
		fmt.Fprintf(&b, "\\addplot[mark=*, mark size=6pt, color=infoblue, line width=2.5pt] coordinates {(%d, 0) (%d, %.4f)};\n",
			wv.WindowSize, wv.WindowSize, wv.Value)
		fmt.Fprintf(&b, "\\addplot[only marks, mark=*, mark size=6pt, color=bestred] coordinates {(%d, %.4f)};\n",
			wv.WindowSize, wv.Value)
	}

	b.WriteString("\\end{axis}\n\\end{tikzpicture}\n")
	return b.String()
}

// lollipopGrid lays the sensitivity charts out two per row for the
// landscape figure.
func lollipopGrid(entries []SensitivityRow, yMin, yMax float64) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for i, entry := range entries {
		if i%2 == 0 {
			if i > 0 {
				b.WriteString("\\end{tabular}\n\\vspace{0.5cm}\n")
			}
			b.WriteString("\\begin{tabular}{@{}c@{\\hspace{0.8cm}}c@{}}\n")
		}
		b.WriteString("\\begin{minipage}{0.46\\textwidth}\n\\centering\n")
		b.WriteString(lollipopTikZ(entry.SensitivityEntry, yMin, yMax))
		b.WriteString("\\end{minipage}")
		if i%2 == 0 {
			b.WriteString(" & ")
		} else {
			b.WriteString(" \\\\\n")
		}
	}
	if len(entries)%2 == 1 {
		b.WriteString(" \\\\\n")
	}
	b.WriteString("\\end{tabular}\n")
	return b.String()
}

// windowTicks formats the stats window sizes as a pgfplots tick list.
func windowTicks(stats []domain.WindowStats) string {
	parts := make([]string, len(stats))
	for i, s := range stats {
		parts[i] = fmt.Sprintf("%d", s.WindowSize)
	}
	return strings.Join(parts, ",")
}

// boxesTicks returns the window sizes of the series that carry values.
func boxesTicks(series []WindowSeries) []int {
	var out []int
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s.WindowSize)
		}
	}
	return out
}

func seriesTicks(windows []int) string {
	parts := make([]string, len(windows))
	for i, w := range windows {
		parts[i] = fmt.Sprintf("%d", w)
	}
	return strings.Join(parts, ",")
}

var latexTmpl = template.Must(template.New("latex").Delims("<<", ">>").Parse(latexTemplate))

const latexTemplate = `\documentclass[11pt,a4paper]{article}
\usepackage[utf8]{inputenc}
\usepackage[T1]{fontenc}
\usepackage{geometry}
\usepackage{booktabs}
\usepackage{longtable}
\usepackage{array}
\usepackage{graphicx}
\usepackage{xcolor}
\usepackage{hyperref}
\usepackage{amsmath}
\usepackage{adjustbox}
\usepackage{pgfplots}
\usepackage{tikz}
\usepackage{pdflscape}
\usepackage{url}
\pgfplotsset{compat=1.18}

\geometry{margin=1in}
\hypersetup{
    colorlinks=true,
    linkcolor=blue,
    filecolor=magenta,
    urlcolor=cyan,
}

\title{<<.Title>>\\
\large Cross-Validation Results for Behavior Classification}
\author{Automated Analysis Pipeline}
\date{}

\definecolor{bestgreen}{RGB}{39, 174, 96}
\definecolor{bestred}{RGB}{231, 76, 60}
\definecolor{infoblue}{RGB}{52, 152, 219}

\begin{document}

\maketitle

\begin{abstract}
This report analyzes the effect of the smoothing window size on behavior classification performance using leave-one-out cross-validation. Performance metrics are compared across window sizes of <<.WindowsList>> frames to identify the optimal temporal scale for feature generation and classification. Window <<.BestWindow>> frames emerges as the optimal window size with a mean F1 (Behavior) score of <<.BestMeanF1>> and a mean accuracy of <<.BestMeanAcc>>. The analysis also identifies worst-performing videos that may require data quality review and window-sensitive videos that show high variability across temporal scales. A total of <<.VideoCount>> unique videos were analyzed across <<.WindowCount>> window sizes, representing <<.CaseCount>> individual test cases.
\end{abstract}

\tableofcontents
\newpage

\section{Introduction}

\subsection{Purpose and Scope}

This analysis examines the effect of window size on behavior classification performance<<if .Behavior>> for the \textit{<<.Behavior>>} behavior<<end>>. Window size is a critical hyperparameter in temporal feature extraction: it determines the temporal scale at which behavioral patterns are captured. Too small a window may miss important behavioral dynamics, while too large a window may blur important short-term patterns.

The analysis compares performance across window sizes of <<.WindowsList>> frames, using leave-one-out cross-validation where one animal (identity) is held out at a time.

\subsection{Data Structure}

The cross-validation structure holds out \textbf{one animal at a time}, not one video at a time. Each video file contains multiple animals, identified by identity numbers [0], [1], [2], etc. at the end of the video filename. The same video file therefore appears multiple times in the results, each time representing a different animal being held out. Each (video\_name, identity) pair is a separate test case.

\subsection{Performance Metrics}

The analysis tracks accuracy, per-class precision and recall, and per-class F1 scores. Of these, \textbf{F1 (Behavior)} is the most relevant metric: it balances precision and recall for the class of interest and is the criterion used to pick the best window size.

\section{Executive Summary}

Window \textbf{<<.BestWindow>> frames} provides the best balance of classification performance and stability:

\begin{itemize}
    \item Mean F1 (Behavior) of <<.BestMeanF1>> (most relevant metric)
    \item Mean accuracy of <<.BestMeanAcc>>
    \item Standard deviation of <<.BestSDAcc>> for accuracy
    \item Standard deviation of <<.BestSDF1>> for F1 (Behavior)
\end{itemize}
<<if .RunnerUp>>
The runner-up, Window <<.RunnerUp>> frames, trails by <<.RunnerUpGap>> in mean F1 (Behavior). Window <<.WeakestWindow>> frames shows the lowest mean F1 (Behavior) of <<.WeakestMeanF1>>.
<<end>>
\section{Window Size Comparison}

\subsection{Overall Performance Metrics}

Table~\ref{tab:window_comparison} compares performance metrics across all tested window sizes. The best value of each column is marked: green bold for the best of a column, red bold for the best mean F1 (Behavior).

\begin{table}[h]
\centering
\caption{Performance Summary by Window Size}
\label{tab:window_comparison}
\adjustbox{width=\textwidth,center}{%
\begin{tabular}{lcccccc}
\toprule
Window Size & Mean Acc. & SD Acc. & Mean F1 (Beh.) & SD F1 (Beh.) & Mean F1 (Not) & SD F1 (Not) \\
\midrule
<<range .SummaryRows>><<.WindowSize>><<range .Cells>> & <<.>><<end>> \\
<<end>>\bottomrule
\end{tabular}%
}
\end{table}

\subsection{Visualization of Performance Metrics}

The following plots visualize the mean performance metrics across window sizes, highlighting the best performing window for each metric.
<<.BarbellFigures>>
\subsection{Interpretation of Results}

Window <<.BestWindow>> frames achieves the highest mean F1 (Behavior) score of <<.BestMeanF1>>. Since F1 (Behavior) balances precision and recall for the behavior class, it is the criterion used for the recommendation. The standard deviations indicate the stability of each window size: lower values mean more consistent performance across videos. Window <<.BestWindow>> frames shows a standard deviation of <<.BestSDAcc>> for accuracy.

\section{Per-Video Performance Distribution}

To understand the variability in performance across videos, the following box-whisker plots show the distribution of each metric per window size. Boxes span the interquartile range with whiskers at 1.5 IQR; individual test cases are drawn as jittered points with outliers in red, and the gray dot marks the window mean.
<<.AccuracyBoxplot>><<.F1Boxplot>><<if .BestCV>>
The coefficient of variation (CV = SD/Mean) of F1 (Behavior) for Window <<.BestWindow>> frames is <<.BestCV>>.
<<end>>
\section{Worst Performing Videos}

Identifying videos with consistently poor performance supports data quality assessment: poor performance may indicate annotation errors, video quality issues, or inherently ambiguous behavioral instances. Table~\ref{tab:worst_videos} lists the videos with the lowest mean accuracy across all window sizes they appear in.

\begin{table}[h]
\centering
\caption{Worst Performing Videos (Overall)}
\label{tab:worst_videos}
\adjustbox{width=\textwidth,center}{%
\begin{tabular}{clcc}
\toprule
Rank & Video Name & Mean Accuracy & SD Accuracy \\
\midrule
<<range .WorstRows>><<.Rank>> & <<.Name>> & <<.MeanAccuracy>> & <<.SDAccuracy>> \\
<<end>>\bottomrule
\end{tabular}%
}
\end{table}

These videos should be reviewed manually to decide whether annotation or preprocessing issues explain the poor performance.

\section{Window Sensitivity Analysis}

\subsection{Coefficient of Variation}

To identify videos that are most sensitive to window size changes, the coefficient of variation (CV) of the per-window mean F1 (Behavior) scores is calculated per video:

\begin{equation}
CV = \frac{\sigma}{\mu}
\end{equation}

where $\sigma$ is the sample standard deviation and $\mu$ is the mean of the per-window F1 (Behavior) values. Higher CV values indicate greater sensitivity to the temporal scale. Videos observed at fewer than two windows are excluded.

\subsection{Most Sensitive Videos}

\begin{table}[h]
\centering
\caption{Most Window-Sensitive Videos}
\label{tab:sensitive_videos}
\adjustbox{width=\textwidth,center}{%
\begin{tabular}{clccc}
\toprule
Rank & Video Name & CV (F1 Beh.) & Mean F1 (Beh.) & SD F1 (Beh.) \\
\midrule
<<range .SensitivityRows>><<.Rank>> & <<.Name>> & <<.CV>> & <<.MeanF1>> & <<.SDF1>> \\
<<end>>\bottomrule
\end{tabular}%
}
\end{table}
<<if .LollipopGrid>>
The following lollipop plots show how the per-window mean F1 (Behavior) varies across window sizes for each sensitive video. All plots share one y-axis scale.

\newpage
\begin{landscape}
\thispagestyle{empty}
\begin{figure}[!h]
\centering
\vspace{0.4cm}
<<.LollipopGrid>>\vspace{0.4cm}
\caption{F1 (Behavior) Across Window Sizes for Most Window-Sensitive Videos (CV calculated using F1 Behavior)}
\label{fig:lollipop_sensitive}
\end{figure}
\end{landscape}
\newpage
\thispagestyle{plain}
<<end>>
\section{Recommendations}

\begin{enumerate}
    \item \textbf{Primary recommendation}: Use \textbf{Window <<.BestWindow>> frames}, the window with the highest mean F1 (Behavior) of <<.BestMeanF1>>.
    \item \textbf{Data quality}: Review the worst performing videos in Table~\ref{tab:worst_videos} for annotation or video quality issues.
    \item \textbf{Sensitivity}: Investigate the window-sensitive videos in Table~\ref{tab:sensitive_videos}; high CV may reveal temporal scale dependencies worth modeling.
\end{enumerate}

\section*{Data Quality Notes}

The cross-validation holds out one animal at a time; each (video\_name, identity) pair is an independent test case. <<.CaseCount>> test cases were parsed across <<.WindowCount>> window sizes.<<if .Excluded>> <<.Excluded>> test case(s) carried a metric outside [0, 1] and were excluded from all statistics.<<end>> Videos missing from individual windows may indicate data collection or processing issues; the validation report (\texttt{validation\_report.txt}) provides the complete consistency findings.

\appendix

\section{Summary Statistics by Window Size}

\begin{table}[h]
\centering
\caption{Complete Summary Statistics}
\label{tab:summary_all}
\adjustbox{width=\textwidth,center}{%
\begin{tabular}{lcccccc}
\toprule
Window & Mean Acc. & SD Acc. & Mean F1 (Beh.) & SD F1 (Beh.) & Mean F1 (Not) & SD F1 (Not) \\
\midrule
<<range .AppendixRows>><<.WindowSize>><<range .Cells>> & <<.>><<end>> \\
<<end>>\bottomrule
\end{tabular}%
}
\end{table}
<<if .FeatureGroups>>
\section{Feature Importance}
<<range .FeatureGroups>>
\subsection*{Window <<.WindowSize>> frames}

\begin{table}[h]
\centering
\begin{tabular}{clc}
\toprule
Rank & Feature & Importance \\
\midrule
<<range .Rows>><<.Rank>> & <<.Name>> & <<.Importance>> \\
<<end>>\bottomrule
\end{tabular}
\end{table}
<<end>><<end>>
\section{Complete Video Results}

Every parsed test case, in source order.

\begin{longtable}{cclccc}
\caption{Complete Video Results}\label{tab:video_results} \\
\toprule
Window & ID & Video Name & Identity & Accuracy & F1 (Beh.) \\
\midrule
\endfirsthead
\toprule
Window & ID & Video Name & Identity & Accuracy & F1 (Beh.) \\
\midrule
\endhead
\bottomrule
\endfoot
<<range .VideoRows>><<.WindowSize>> & <<.VideoID>> & <<.Name>> & <<.Identity>> & <<.Accuracy>> & <<.F1Behavior>> \\
<<end>>\end{longtable}

\end{document}
`
