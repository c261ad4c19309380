package exporter

import (
	"fmt"
	"math"
)

// formatRate formats a proportion with 4 decimal places. Undefined values
// render as an empty cell so spreadsheets do not choke on NaN.
func formatRate(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.4f", f)
}

// formatPValue formats a p-value, flooring tiny values the way report
// readers expect
func formatPValue(p float64) string {
	if math.IsNaN(p) {
		return ""
	}
	if p > 0 && p < 0.0001 {
		return "<0.0001"
	}
	return fmt.Sprintf("%.4f", p)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatPct formats a proportion as a percentage with one decimal place
func formatPct(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.1f%%", f*100)
}
