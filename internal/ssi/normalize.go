package ssi

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Date layouts attempted per value, in priority order
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02-Jan-2006",
	"2-Jan-2006",
	"Jan 2, 2006",
	"20060102",
}

// Values treated as a missing category
var missingCategoryValues = map[string]bool{
	"": true, "NAN": true, "NONE": true, "NULL": true, "N/A": true, "NA": true,
}

// UnknownCategory is the literal assigned when a category value is absent or unusable
const UnknownCategory = "UNKNOWN"

// Normalizer converts raw rows into the canonical record set using a resolved
// role mapping. Rows that cannot produce a valid date and outcome are dropped
// and counted, never retained as nulls.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer with the given logger
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize produces the canonical record set and the count of rejected rows.
// Output order is stable: original row order minus dropped rows.
func (n *Normalizer) Normalize(ctx context.Context, rows []RawRecord, mapping RoleMapping) ([]CanonicalRecord, int) {
	records := make([]CanonicalRecord, 0, len(rows))
	rejected := 0

	for i, row := range rows {
		rec, ok := n.normalizeRow(row, mapping)
		if !ok {
			rejected++
			n.logger.DebugContext(ctx, "rejected row",
				slog.Int("row", i),
				slog.String("date_value", row[mapping.Date]),
				slog.String("outcome_value", row[mapping.Outcome]),
			)
			continue
		}
		records = append(records, rec)
	}

	n.logger.InfoContext(ctx, "normalization complete",
		slog.Int("input_rows", len(rows)),
		slog.Int("records", len(records)),
		slog.Int("rejected", rejected),
		slog.String("coercion_rule", mapping.Rule.String()),
		slog.Bool("aggregated", mapping.Aggregated()),
	)

	return records, rejected
}

func (n *Normalizer) normalizeRow(row RawRecord, mapping RoleMapping) (CanonicalRecord, bool) {
	date, ok := ParseDate(row[mapping.Date])
	if !ok {
		return CanonicalRecord{}, false
	}

	infections, procedures, ok := coerceOutcome(row, mapping)
	if !ok {
		return CanonicalRecord{}, false
	}

	category := UnknownCategory
	if mapping.Category != "" {
		category = StandardizeCategory(row[mapping.Category])
	}

	return CanonicalRecord{
		Date:       date,
		Category:   category,
		Infections: infections,
		Procedures: procedures,
	}, true
}

// coerceOutcome applies the coercion rule recorded by the resolver. It
// returns the infection and procedure counts for the row, or ok=false when
// the outcome (or, in aggregated mode, the volume) cannot be resolved.
func coerceOutcome(row RawRecord, mapping RoleMapping) (infections, procedures int, ok bool) {
	value := strings.ToUpper(strings.TrimSpace(row[mapping.Outcome]))
	if value == "" {
		return 0, 0, false
	}

	switch mapping.Rule {
	case CoerceNumericFlag:
		switch value {
		case "0":
			return 0, 1, true
		case "1":
			return 1, 1, true
		}
		return 0, 0, false

	case CoerceStringFlag:
		switch value {
		case "Y", "YES", "TRUE", "T", "1":
			return 1, 1, true
		case "N", "NO", "FALSE", "F", "0":
			return 0, 1, true
		}
		return 0, 0, false

	case CoerceCount:
		count, err := strconv.Atoi(value)
		if err != nil || count < 0 {
			return 0, 0, false
		}
		volume := 1
		if mapping.Volume != "" {
			volume, err = strconv.Atoi(strings.TrimSpace(row[mapping.Volume]))
			if err != nil || volume <= 0 {
				return 0, 0, false
			}
		}
		if count > volume {
			count = volume
		}
		return count, volume, true

	default:
		return 0, 0, false
	}
}

// ParseDate attempts the supported date layouts in order
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// StandardizeCategory trims and uppercases a category value, mapping missing
// markers to UnknownCategory
func StandardizeCategory(value string) string {
	value = strings.ToUpper(strings.TrimSpace(value))
	if missingCategoryValues[value] {
		return UnknownCategory
	}
	return value
}
