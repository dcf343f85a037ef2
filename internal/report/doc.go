// Package report renders the analysis outputs for human readers: an HTML
// report with embedded SVG charts, a LaTeX report with pgfplots figures,
// and standalone SVG chart files.
//
// All renderers consume a ReportData assembled from the parsed scan and the
// aggregate tables. Assembly fails when a required table is missing rather
// than substituting placeholder values: a wrong report is worse than no
// report. Output contains no timestamps or run identifiers, so rendering
// the same input twice produces byte-identical files.
package report
