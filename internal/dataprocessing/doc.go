// Package dataprocessing turns raw window-size scan text into the domain
// model. It owns the line classifier that walks a scan results file once,
// top to bottom, and produces a domain.ScanResult: window sections with
// their video rows, reported summary statistics and feature-importance
// tables, plus a diagnostic for every line that looked like data but could
// not be used.
//
// # Line Classification
//
// Each trimmed line is classified in a fixed order:
//
//  1. Separator lines (long runs of %) close any open summary or feature block
//  2. "Window N" headers, anchored at the line start, open a section
//  3. Labelled statistics ("Mean Accuracy: 0.93") fill the section summary
//  4. A SUMMARY marker switches to summary mode; a "Top K features by
//     importance" line switches to feature mode
//  5. Inside a mode, rows are consumed until a line no longer fits the block
//  6. Everything else that starts with an integer index and carries enough
//     fields is treated as a video row; remaining lines are prose and ignored
//
// Video rows take precedence over nothing and yield to nothing: a name like
// "window 5 test.avi" cannot reopen a section because headers only match at
// the start of a line.
//
// # Diagnostics
//
// Malformed data never aborts a parse. Bad rows, duplicate (video, identity)
// pairs and data found before the first header are recorded as
// domain.ParseDiagnostic values on the result and the parser keeps going.
// Only three conditions are fatal: the input cannot be read, the input is
// empty, or no window header is found at all.
//
// # Usage
//
//	parser := dataprocessing.NewParser(logger)
//	result, err := parser.ParseFile(ctx, "kfold_results.txt")
//	if err != nil {
//	    return err
//	}
//	for _, w := range result.Windows {
//	    fmt.Println(w.WindowSize, len(w.Videos))
//	}
package dataprocessing
