// Package analysis derives the aggregate tables from parsed scan rows:
// per-window statistics, the best-window recommendation, the worst-video and
// window-sensitivity rankings, and the best-value-per-column flags used for
// report highlighting.
//
// Everything here is a pure function of its inputs. Rows with a metric
// outside [0,1] are excluded from every statistic and surfaced through
// AggregateTables.ExcludedRows; the validator reports them separately.
package analysis
