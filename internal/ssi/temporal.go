package ssi

import (
	"fmt"
	"sort"
	"time"
)

// PeriodKey formats the calendar period label for a date. Month labels are
// "2017-03" and quarter labels are "2017-Q1"; both sort chronologically as
// plain strings.
func PeriodKey(t time.Time, g Granularity) string {
	if g == GranularityQuarter {
		return fmt.Sprintf("%d-Q%d", t.Year(), (int(t.Month())-1)/3+1)
	}
	return t.Format("2006-01")
}

// TemporalMetrics groups the canonical records by calendar period and
// computes per-bucket rate estimates, the trailing rolling rate and outlier
// flags. Buckets are ordered chronologically. A bucket below the volume floor
// is marked low-reliability but still reported.
//
// The rolling rate pools numerators and denominators over the trailing window
// (fewer periods at the start of the series); it is not an average of period
// rates. The outlier threshold is mean + multiplier x sample standard
// deviation over the rates of buckets with a positive denominator.
func TemporalMetrics(records []CanonicalRecord, g Granularity, params Params) []TemporalBucket {
	type sums struct{ infections, procedures int }
	byPeriod := make(map[string]*sums)

	for _, r := range records {
		key := PeriodKey(r.Date, g)
		s, exists := byPeriod[key]
		if !exists {
			s = &sums{}
			byPeriod[key] = s
		}
		s.infections += r.Infections
		s.procedures += r.Procedures
	}

	periods := make([]string, 0, len(byPeriod))
	for key := range byPeriod {
		periods = append(periods, key)
	}
	sort.Strings(periods)

	buckets := make([]TemporalBucket, 0, len(periods))
	for i, period := range periods {
		s := byPeriod[period]

		rollInfections, rollProcedures := s.infections, s.procedures
		for back := 1; back < params.RollingWindow && i-back >= 0; back++ {
			prev := byPeriod[periods[i-back]]
			rollInfections += prev.infections
			rollProcedures += prev.procedures
		}

		buckets = append(buckets, TemporalBucket{
			Period:      period,
			Granularity: g,
			Rate:        WilsonRate(s.infections, s.procedures),
			Rolling:     WilsonRate(rollInfections, rollProcedures),
			LowVolume:   s.procedures < params.VolumeFloor,
		})
	}

	flagOutliers(buckets, params.AlertSDMultiplier)
	return buckets
}

// flagOutliers marks buckets whose rate exceeds the mean + multiplier x SD
// threshold. Buckets with a zero denominator are excluded from the mean and
// SD computation and are never flagged.
func flagOutliers(buckets []TemporalBucket, multiplier float64) {
	rates := make([]float64, 0, len(buckets))
	for _, b := range buckets {
		if b.Rate.Defined() {
			rates = append(rates, b.Rate.Rate)
		}
	}

	mean, stddev, ok := meanStddev(rates)
	if !ok {
		return
	}
	threshold := mean + multiplier*stddev

	for i := range buckets {
		if buckets[i].Rate.Defined() && buckets[i].Rate.Rate > threshold {
			buckets[i].Outlier = true
		}
	}
}
