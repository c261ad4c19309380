package dataprocessing

import (
	"strings"

	"ssicli/internal/ssi"
)

// Dataset holds a loaded tabular file: the header in file order and one
// RawRecord per data row. Column roles are not interpreted here; that is
// the job of ssi.ResolveColumns.
type Dataset struct {
	Columns []string
	Rows    []ssi.RawRecord
}

// Samples collects up to limit non-empty values per column, in row order.
// Role inference uses these to classify the outcome column.
func (d *Dataset) Samples(limit int) map[string][]string {
	samples := make(map[string][]string, len(d.Columns))
	for _, col := range d.Columns {
		samples[col] = nil
	}
	for _, row := range d.Rows {
		full := true
		for _, col := range d.Columns {
			if len(samples[col]) >= limit {
				continue
			}
			full = false
			if value := strings.TrimSpace(row[col]); value != "" {
				samples[col] = append(samples[col], value)
			}
		}
		if full {
			break
		}
	}
	return samples
}

// normalizeHeader trims whitespace and a UTF-8 BOM if the file carries one.
func normalizeHeader(cell string) string {
	return strings.TrimSpace(strings.TrimPrefix(cell, "\uFEFF"))
}
