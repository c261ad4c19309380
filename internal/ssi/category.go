package ssi

import (
	"math"
	"sort"
)

// CategoryMetrics groups the canonical records by category and computes
// per-category rate estimates, infection shares and alert flags. Buckets are
// sorted by rate descending (label ascending on ties). Categories below the
// volume floor are retained in the output but excluded from alert
// eligibility.
//
// The alert threshold is overall rate + multiplier x sample standard
// deviation over the rates of categories with a positive denominator,
// mirroring the monthly outlier rule at category granularity.
func CategoryMetrics(records []CanonicalRecord, params Params) []CategoryBucket {
	type sums struct{ infections, procedures int }
	byCategory := make(map[string]*sums)
	totalInfections, totalProcedures := 0, 0

	for _, r := range records {
		s, exists := byCategory[r.Category]
		if !exists {
			s = &sums{}
			byCategory[r.Category] = s
		}
		s.infections += r.Infections
		s.procedures += r.Procedures
		totalInfections += r.Infections
		totalProcedures += r.Procedures
	}

	buckets := make([]CategoryBucket, 0, len(byCategory))
	rates := make([]float64, 0, len(byCategory))

	for category, s := range byCategory {
		rate := WilsonRate(s.infections, s.procedures)
		share := 0.0
		if totalInfections > 0 {
			share = float64(s.infections) / float64(totalInfections)
		}
		buckets = append(buckets, CategoryBucket{
			Category:       category,
			Rate:           rate,
			InfectionShare: share,
			LowVolume:      s.procedures < params.VolumeFloor,
		})
		if rate.Defined() {
			rates = append(rates, rate.Rate)
		}
	}

	// The alert threshold centers on the overall rate, not the mean of
	// category rates.
	if _, stddev, ok := meanStddev(rates); ok && totalProcedures > 0 {
		overall := float64(totalInfections) / float64(totalProcedures)
		threshold := overall + params.AlertSDMultiplier*stddev
		for i := range buckets {
			if !buckets[i].LowVolume && buckets[i].Rate.Defined() && buckets[i].Rate.Rate > threshold {
				buckets[i].Alert = true
			}
		}
	}

	sort.Slice(buckets, func(i, j int) bool {
		ri, rj := buckets[i].Rate.Rate, buckets[j].Rate.Rate
		// Undefined rates sort last
		if math.IsNaN(ri) != math.IsNaN(rj) {
			return math.IsNaN(rj)
		}
		if ri != rj {
			return ri > rj
		}
		return buckets[i].Category < buckets[j].Category
	})

	return buckets
}

// Pareto ranks categories by absolute infection count and computes cumulative
// percentages of total infections in that order. Cumulative percentages are
// non-decreasing and the final entry reaches 100% whenever any infections
// exist. The minimal head set of categories responsible for at least the
// configured share of infections is marked vital.
func Pareto(buckets []CategoryBucket, params Params) []ParetoEntry {
	entries := make([]ParetoEntry, 0, len(buckets))
	total := 0
	for _, b := range buckets {
		entries = append(entries, ParetoEntry{
			Category:   b.Category,
			Infections: b.Rate.Numerator,
			Procedures: b.Rate.Denominator,
		})
		total += b.Rate.Numerator
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Infections != entries[j].Infections {
			return entries[i].Infections > entries[j].Infections
		}
		return entries[i].Category < entries[j].Category
	})

	cumulative := 0
	covered := false
	for i := range entries {
		cumulative += entries[i].Infections
		if total > 0 {
			entries[i].CumulativePct = float64(cumulative) / float64(total) * 100
		}
		if !covered && entries[i].Infections > 0 {
			entries[i].Vital = true
			covered = entries[i].CumulativePct >= params.ParetoThreshold*100
		}
	}

	return entries
}
