package ssi

import (
	"strconv"
	"strings"
)

// Column name patterns per role, in priority order. Matching is
// case-insensitive: an exact-match pass runs first, then a substring pass,
// with ties broken by leftmost column position. The lists are fixed so that
// resolution stays deterministic and testable.
var (
	datePatterns = []string{
		"date", "surgery_date", "procedure_date", "op_date",
		"surgery_dt", "procedure_dt", "operation_date",
	}
	outcomePatterns = []string{
		"ssi", "infection", "infected", "outcome",
		"infection_count", "has_ssi", "ssi_flag",
	}
	categoryPatterns = []string{
		"procedure", "proc", "surgery_type", "specialty",
		"service", "wound", "category", "operative_procedure",
	}
	volumePatterns = []string{
		"volume", "count", "procedure_count", "total", "n",
	}
)

// ResolveColumns inspects the raw column names, plus a sample of values per
// column, and classifies them into semantic roles. The date and outcome roles
// are required; failing to match either returns a SchemaError. The volume
// role is matched only when its sample values look like positive counts,
// which switches the dataset into pre-aggregated mode.
func ResolveColumns(columns []string, sample map[string][]string) (RoleMapping, error) {
	var mapping RoleMapping
	claimed := make(map[string]bool)

	mapping.Date = matchColumn(columns, datePatterns, claimed)
	if mapping.Date == "" {
		return RoleMapping{}, &SchemaError{Role: RoleDate, Candidates: datePatterns}
	}
	claimed[mapping.Date] = true

	mapping.Outcome = matchColumn(columns, outcomePatterns, claimed)
	if mapping.Outcome == "" {
		return RoleMapping{}, &SchemaError{Role: RoleOutcome, Candidates: outcomePatterns}
	}
	claimed[mapping.Outcome] = true

	mapping.Category = matchColumn(columns, categoryPatterns, claimed)
	if mapping.Category != "" {
		claimed[mapping.Category] = true
	}

	// Volume is optional and must survive value verification: a name match
	// alone is not enough because patterns like "count" and "total" appear in
	// unrelated columns.
	if vol := matchColumn(columns, volumePatterns, claimed); vol != "" && looksLikeVolume(sample[vol]) {
		mapping.Volume = vol
		claimed[vol] = true
	}

	rule, ok := classifyOutcome(sample[mapping.Outcome], mapping.Volume != "")
	if !ok {
		return RoleMapping{}, &SchemaError{Role: RoleOutcome, Candidates: outcomePatterns}
	}
	mapping.Rule = rule

	// A count-style outcome without a usable volume column still runs in
	// aggregated mode with an implicit volume of 1 per row.
	if mapping.Rule != CoerceCount {
		mapping.Volume = ""
	}

	return mapping, nil
}

// matchColumn finds the first column matching the pattern list. Exact matches
// beat substring matches; within a pass, earlier patterns beat later ones and
// leftmost columns break ties.
func matchColumn(columns []string, patterns []string, claimed map[string]bool) string {
	lowered := make([]string, len(columns))
	for i, col := range columns {
		lowered[i] = strings.ToLower(strings.TrimSpace(col))
	}

	for _, pattern := range patterns {
		for i, col := range lowered {
			if !claimed[columns[i]] && col == pattern {
				return columns[i]
			}
		}
	}
	for _, pattern := range patterns {
		// Single-character patterns only participate in the exact pass;
		// as substrings they would match almost any column name.
		if len(pattern) < 2 {
			continue
		}
		for i, col := range lowered {
			if !claimed[columns[i]] && strings.Contains(col, pattern) {
				return columns[i]
			}
		}
	}
	return ""
}

// classifyOutcome inspects sample outcome values and picks the coercion rule.
// With no sample values the string-flag rule is assumed since it also accepts
// literal "0"/"1" values.
func classifyOutcome(values []string, hasVolume bool) (CoercionRule, bool) {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		cleaned = append(cleaned, v)
	}
	if len(cleaned) == 0 {
		return CoerceStringFlag, true
	}

	allBinary := true
	allStringFlag := true
	allCounts := true
	maxCount := 0

	for _, v := range cleaned {
		if v != "0" && v != "1" {
			allBinary = false
		}
		switch v {
		case "Y", "N", "YES", "NO", "TRUE", "FALSE", "T", "F":
		default:
			allStringFlag = false
		}
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			allCounts = false
		} else if n > maxCount {
			maxCount = n
		}
	}

	switch {
	// A verified volume column means the dataset is pre-aggregated, even when
	// every infection count in the sample happens to be 0 or 1.
	case allCounts && hasVolume:
		return CoerceCount, true
	case allBinary:
		return CoerceNumericFlag, true
	case allStringFlag:
		return CoerceStringFlag, true
	case allCounts && maxCount > 1:
		return CoerceCount, true
	case allCounts:
		return CoerceNumericFlag, true
	default:
		return CoerceNone, false
	}
}

// looksLikeVolume verifies that sample values parse as positive counts
func looksLikeVolume(values []string) bool {
	seen := false
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return false
		}
		if n > 0 {
			seen = true
		}
	}
	return seen
}
