package config

// Application constants for the window scan toolkit
const (
	// Application Info
	AppName = "windowscan"

	// Output table files
	VideoResultsFile      = "video_results.csv"
	SummaryStatsFile      = "summary_stats.csv"
	FeatureImportanceFile = "feature_importance.csv"
	WindowStatsFile       = "window_stats.csv"
	MetadataFile          = "metadata.txt"
	ValidationReportFile  = "validation_report.txt"

	// Report files
	HTMLReportFile    = "window_analysis_report.html"
	LaTeXReportFile   = "window_analysis_report.tex"
	ExcelWorkbookFile = "window_scan.xlsx"

	// Default directories (relative to the working directory)
	DefaultOutputDir    = "data/processed"
	DefaultChartsSubdir = "charts"
	DefaultLogsDir      = "logs"

	// Analysis defaults
	DefaultTopK      = 10
	DefaultTolerance = 1e-3

	// Run coordination
	LockFileName     = ".windowscan.lock"
	ManifestFileName = "run_manifest.json"

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "windowscan.log"
)
