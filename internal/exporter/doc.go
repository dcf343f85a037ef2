// Package exporter writes the parsed and derived scan tables to disk.
//
// This package contains four main components:
//
// CSVWriter: Core CSV writing with UTF-8 BOM support for Excel compatibility,
// plus the matching reader used for CSV round-trips.
//
// TableExporter: Writes the canonical table files — video_results.csv,
// summary_stats.csv, feature_importance.csv, window_stats.csv — and the
// plain-text parsing metadata file.
//
// TableReader: Loads previously exported CSV tables back into domain rows so
// validation can run against CSV output instead of the raw scan text.
//
// ExcelExporter: Builds the window_scan.xlsx workbook with one sheet per
// table, a validation sheet, and best-value highlighting.
//
// All output is deterministic: no timestamps, stable row ordering, and
// shortest round-trip float formatting. Exporting the same parse twice
// produces byte-identical files.
package exporter
