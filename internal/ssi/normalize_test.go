package ssi

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func individualMapping() RoleMapping {
	return RoleMapping{
		Date:     "surgery_date",
		Outcome:  "ssi",
		Category: "specialty",
		Rule:     CoerceNumericFlag,
	}
}

func TestNormalize(t *testing.T) {
	ctx := context.Background()
	normalizer := NewNormalizer(nil)

	t.Run("individual rows preserve order", func(t *testing.T) {
		rows := []RawRecord{
			{"surgery_date": "2017-01-05", "ssi": "0", "specialty": "cardiac"},
			{"surgery_date": "2017-01-06", "ssi": "1", "specialty": " ortho "},
			{"surgery_date": "2017-02-01", "ssi": "0", "specialty": "cardiac"},
		}

		records, rejected := normalizer.Normalize(ctx, rows, individualMapping())
		require.Len(t, records, 3)
		assert.Zero(t, rejected)

		assert.Equal(t, time.Date(2017, 1, 5, 0, 0, 0, 0, time.UTC), records[0].Date)
		assert.Equal(t, "CARDIAC", records[0].Category)
		assert.Equal(t, 0, records[0].Infections)
		assert.Equal(t, 1, records[0].Procedures)

		assert.Equal(t, "ORTHO", records[1].Category)
		assert.Equal(t, 1, records[1].Infections)

		for _, r := range records {
			assert.True(t, r.IsValid())
		}
	})

	t.Run("unparseable date drops exactly one row", func(t *testing.T) {
		rows := []RawRecord{
			{"surgery_date": "2017-01-05", "ssi": "0", "specialty": "cardiac"},
			{"surgery_date": "not a date", "ssi": "1", "specialty": "cardiac"},
			{"surgery_date": "2017-01-07", "ssi": "1", "specialty": "cardiac"},
		}

		records, rejected := normalizer.Normalize(ctx, rows, individualMapping())
		assert.Len(t, records, 2)
		assert.Equal(t, 1, rejected)
		assert.Equal(t, time.Date(2017, 1, 7, 0, 0, 0, 0, time.UTC), records[1].Date)
	})

	t.Run("unresolvable outcome drops the row", func(t *testing.T) {
		rows := []RawRecord{
			{"surgery_date": "2017-01-05", "ssi": "2", "specialty": "cardiac"},
			{"surgery_date": "2017-01-06", "ssi": "", "specialty": "cardiac"},
			{"surgery_date": "2017-01-07", "ssi": "1", "specialty": "cardiac"},
		}

		records, rejected := normalizer.Normalize(ctx, rows, individualMapping())
		assert.Len(t, records, 1)
		assert.Equal(t, 2, rejected)
	})

	t.Run("string flag coercion", func(t *testing.T) {
		mapping := individualMapping()
		mapping.Rule = CoerceStringFlag

		rows := []RawRecord{
			{"surgery_date": "2017-01-05", "ssi": "Yes", "specialty": "cardiac"},
			{"surgery_date": "2017-01-06", "ssi": "n", "specialty": "cardiac"},
			{"surgery_date": "2017-01-07", "ssi": "TRUE", "specialty": "cardiac"},
			{"surgery_date": "2017-01-08", "ssi": "maybe", "specialty": "cardiac"},
		}

		records, rejected := normalizer.Normalize(ctx, rows, mapping)
		require.Len(t, records, 3)
		assert.Equal(t, 1, rejected)
		assert.Equal(t, 1, records[0].Infections)
		assert.Equal(t, 0, records[1].Infections)
		assert.Equal(t, 1, records[2].Infections)
	})

	t.Run("missing category becomes UNKNOWN", func(t *testing.T) {
		rows := []RawRecord{
			{"surgery_date": "2017-01-05", "ssi": "0", "specialty": "  "},
			{"surgery_date": "2017-01-06", "ssi": "0", "specialty": "n/a"},
			{"surgery_date": "2017-01-07", "ssi": "0", "specialty": "null"},
		}

		records, _ := normalizer.Normalize(ctx, rows, individualMapping())
		require.Len(t, records, 3)
		for _, r := range records {
			assert.Equal(t, UnknownCategory, r.Category)
		}
	})

	t.Run("no category column maps everything to UNKNOWN", func(t *testing.T) {
		mapping := individualMapping()
		mapping.Category = ""

		rows := []RawRecord{{"surgery_date": "2017-01-05", "ssi": "1"}}
		records, _ := normalizer.Normalize(ctx, rows, mapping)
		require.Len(t, records, 1)
		assert.Equal(t, UnknownCategory, records[0].Category)
	})

	t.Run("aggregated rows carry counts", func(t *testing.T) {
		mapping := RoleMapping{
			Date:     "date",
			Outcome:  "infection_count",
			Category: "procedure",
			Volume:   "procedure_count",
			Rule:     CoerceCount,
		}

		rows := []RawRecord{
			{"date": "2016-06-15", "infection_count": "3", "procedure": "colon", "procedure_count": "240"},
			{"date": "2016-06-15", "infection_count": "12", "procedure": "hip", "procedure_count": "10"},
			{"date": "2016-06-15", "infection_count": "1", "procedure": "knee", "procedure_count": "0"},
			{"date": "2016-06-15", "infection_count": "1", "procedure": "knee", "procedure_count": "x"},
		}

		records, rejected := normalizer.Normalize(ctx, rows, mapping)
		require.Len(t, records, 2)
		assert.Equal(t, 2, rejected)

		assert.Equal(t, 3, records[0].Infections)
		assert.Equal(t, 240, records[0].Procedures)

		// Infections are clamped to the procedure count
		assert.Equal(t, 10, records[1].Infections)
		assert.Equal(t, 10, records[1].Procedures)
	})
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
		ok    bool
	}{
		{"2017-03-09", time.Date(2017, 3, 9, 0, 0, 0, 0, time.UTC), true},
		{"2017/03/09", time.Date(2017, 3, 9, 0, 0, 0, 0, time.UTC), true},
		{"03/09/2017", time.Date(2017, 3, 9, 0, 0, 0, 0, time.UTC), true},
		{"9-Mar-2017", time.Date(2017, 3, 9, 0, 0, 0, 0, time.UTC), true},
		{"20170309", time.Date(2017, 3, 9, 0, 0, 0, 0, time.UTC), true},
		{" 2017-03-09 ", time.Date(2017, 3, 9, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := ParseDate(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got))
			}
		})
	}
}

func TestStandardizeCategory(t *testing.T) {
	assert.Equal(t, "COLON SURGERY", StandardizeCategory("  colon surgery "))
	assert.Equal(t, UnknownCategory, StandardizeCategory(""))
	assert.Equal(t, UnknownCategory, StandardizeCategory("nan"))
	assert.Equal(t, UnknownCategory, StandardizeCategory("NONE"))
	assert.Equal(t, UnknownCategory, StandardizeCategory("N/A"))
}
