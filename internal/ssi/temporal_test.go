package ssi

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monthOf builds aggregated records landing in a specific month
func monthOf(year int, month time.Month, infections, procedures int) CanonicalRecord {
	return CanonicalRecord{
		Date:       time.Date(year, month, 15, 0, 0, 0, 0, time.UTC),
		Category:   "A",
		Infections: infections,
		Procedures: procedures,
	}
}

func TestPeriodKey(t *testing.T) {
	d := time.Date(2017, 3, 9, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2017-03", PeriodKey(d, GranularityMonth))
	assert.Equal(t, "2017-Q1", PeriodKey(d, GranularityQuarter))

	assert.Equal(t, "2017-Q4", PeriodKey(time.Date(2017, 10, 1, 0, 0, 0, 0, time.UTC), GranularityQuarter))
	assert.Equal(t, "2017-Q2", PeriodKey(time.Date(2017, 6, 30, 0, 0, 0, 0, time.UTC), GranularityQuarter))
}

func TestTemporalMetrics(t *testing.T) {
	params := DefaultParams()

	t.Run("buckets are chronological with per-bucket rates", func(t *testing.T) {
		records := []CanonicalRecord{
			monthOf(2017, time.March, 2, 100),
			monthOf(2017, time.January, 1, 100),
			monthOf(2017, time.February, 0, 100),
		}

		buckets := TemporalMetrics(records, GranularityMonth, params)
		require.Len(t, buckets, 3)

		assert.Equal(t, "2017-01", buckets[0].Period)
		assert.Equal(t, "2017-02", buckets[1].Period)
		assert.Equal(t, "2017-03", buckets[2].Period)

		assert.InDelta(t, 0.01, buckets[0].Rate.Rate, 1e-12)
		assert.InDelta(t, 0.00, buckets[1].Rate.Rate, 1e-12)
		assert.InDelta(t, 0.02, buckets[2].Rate.Rate, 1e-12)
	})

	t.Run("rolling rate pools numerators and denominators", func(t *testing.T) {
		records := []CanonicalRecord{
			monthOf(2017, time.January, 1, 100),
			monthOf(2017, time.February, 2, 50),
			monthOf(2017, time.March, 3, 150),
			monthOf(2017, time.April, 0, 100),
		}

		buckets := TemporalMetrics(records, GranularityMonth, params)
		require.Len(t, buckets, 4)

		// Clipped to available history at the start of the series
		assert.Equal(t, 1, buckets[0].Rolling.Numerator)
		assert.Equal(t, 100, buckets[0].Rolling.Denominator)

		assert.Equal(t, 3, buckets[1].Rolling.Numerator)
		assert.Equal(t, 150, buckets[1].Rolling.Denominator)

		// Full 3-month window: sums, not an average of rates
		assert.Equal(t, 6, buckets[2].Rolling.Numerator)
		assert.Equal(t, 300, buckets[2].Rolling.Denominator)
		assert.InDelta(t, 0.02, buckets[2].Rolling.Rate, 1e-12)

		assert.Equal(t, 5, buckets[3].Rolling.Numerator)
		assert.Equal(t, 300, buckets[3].Rolling.Denominator)
	})

	t.Run("low volume buckets are flagged but reported", func(t *testing.T) {
		records := []CanonicalRecord{
			monthOf(2017, time.January, 0, 12),
			monthOf(2017, time.February, 1, 80),
		}

		buckets := TemporalMetrics(records, GranularityMonth, params)
		require.Len(t, buckets, 2)
		assert.True(t, buckets[0].LowVolume)
		assert.False(t, buckets[1].LowVolume)
	})

	t.Run("outlier flag uses mean plus two standard deviations", func(t *testing.T) {
		records := []CanonicalRecord{
			monthOf(2017, time.January, 1, 100),
			monthOf(2017, time.February, 1, 100),
			monthOf(2017, time.March, 1, 100),
			monthOf(2017, time.April, 1, 100),
			monthOf(2017, time.May, 1, 100),
			monthOf(2017, time.June, 30, 100),
		}

		buckets := TemporalMetrics(records, GranularityMonth, params)
		require.Len(t, buckets, 6)

		for _, b := range buckets[:5] {
			assert.False(t, b.Outlier, "period %s", b.Period)
		}
		assert.True(t, buckets[5].Outlier)
	})

	t.Run("uniform rates produce no outliers", func(t *testing.T) {
		records := []CanonicalRecord{
			monthOf(2017, time.January, 2, 100),
			monthOf(2017, time.February, 2, 100),
			monthOf(2017, time.March, 2, 100),
		}

		buckets := TemporalMetrics(records, GranularityMonth, params)
		for _, b := range buckets {
			assert.False(t, b.Outlier)
		}
	})

	t.Run("quarterly bucketing", func(t *testing.T) {
		records := []CanonicalRecord{
			monthOf(2017, time.January, 1, 100),
			monthOf(2017, time.February, 1, 100),
			monthOf(2017, time.May, 2, 100),
		}

		buckets := TemporalMetrics(records, GranularityQuarter, params)
		require.Len(t, buckets, 2)

		assert.Equal(t, "2017-Q1", buckets[0].Period)
		assert.Equal(t, 2, buckets[0].Rate.Numerator)
		assert.Equal(t, 200, buckets[0].Rate.Denominator)

		assert.Equal(t, "2017-Q2", buckets[1].Period)
	})

	t.Run("empty record set", func(t *testing.T) {
		buckets := TemporalMetrics(nil, GranularityMonth, params)
		assert.Empty(t, buckets)
	})
}

// Scenario from the surveillance playbook: 100 procedures, 5 infections
// spread across 3 months, 2 categories.
func TestScenarioSmallCohort(t *testing.T) {
	params := DefaultParams()
	var records []CanonicalRecord

	months := []time.Month{time.January, time.February, time.March}
	for i := 0; i < 100; i++ {
		infections := 0
		if i < 5 {
			infections = 1
		}
		category := "COLON"
		if i%2 == 0 {
			category = "CARDIAC"
		}
		records = append(records, CanonicalRecord{
			Date:       time.Date(2017, months[i%3], 10, 0, 0, 0, 0, time.UTC),
			Category:   category,
			Infections: infections,
			Procedures: 1,
		})
	}

	overall := OverallRate(records)
	assert.InDelta(t, 0.05, overall.Rate, 1e-12)
	assert.InDelta(t, 0.0215, overall.CILow, 5e-4)
	assert.InDelta(t, 0.1118, overall.CIHigh, 5e-4)

	buckets := TemporalMetrics(records, GranularityMonth, params)
	require.Len(t, buckets, 3)

	totalInfections, totalProcedures := 0, 0
	for _, b := range buckets {
		totalInfections += b.Rate.Numerator
		totalProcedures += b.Rate.Denominator
		assert.False(t, math.IsNaN(b.Rate.Rate))
	}
	assert.Equal(t, 5, totalInfections)
	assert.Equal(t, 100, totalProcedures)
}
