package exporter

import "strconv"

// formatFloat formats a float64 for CSV output using the shortest
// representation that round-trips exactly. Fixed decimal places would lose
// precision on recomputed statistics and break write-read-validate loops.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatFloatPtr formats an optional statistic; nil becomes an empty cell.
func formatFloatPtr(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return strconv.Itoa(i)
}
