// Package pipeline chains the processing steps of a full analysis run:
// parse, validate, aggregate, export, report. Stages execute sequentially
// and share a State; the first failure stops the run.
//
// Every run writes a manifest (run identity, per-stage status, duration,
// item counts, artifacts) under the logs directory. The manifest is the
// only place a run records timestamps, so the exported tables and reports
// stay byte-identical across runs. A file lock on the output directory
// rejects concurrent runs instead of interleaving their writes.
package pipeline
