package ssi

import (
	"math"
	"time"
)

// Granularity selects the calendar bucketing used for temporal metrics
type Granularity string

const (
	// GranularityMonth buckets records by calendar month
	GranularityMonth Granularity = "month"
	// GranularityQuarter buckets records by calendar quarter
	GranularityQuarter Granularity = "quarter"
)

// IsValid checks if the granularity is one of the supported values
func (g Granularity) IsValid() bool {
	return g == GranularityMonth || g == GranularityQuarter
}

// Role identifies the semantic meaning of a source column
type Role string

const (
	RoleDate     Role = "date"
	RoleOutcome  Role = "outcome"
	RoleCategory Role = "category"
	RoleVolume   Role = "volume"
)

// CoercionRule identifies how raw outcome values map onto infection counts.
// The resolver picks the rule once per dataset by inspecting sample values;
// the normalizer applies it to every row.
type CoercionRule int

const (
	// CoerceNone means no rule has been determined
	CoerceNone CoercionRule = iota
	// CoerceNumericFlag handles outcome values in {0, 1}
	CoerceNumericFlag
	// CoerceStringFlag handles Y/N, Yes/No and True/False values (case-insensitive)
	CoerceStringFlag
	// CoerceCount handles non-negative integer infection counts paired with a
	// procedure volume column (pre-aggregated datasets)
	CoerceCount
)

// String returns the string representation of the coercion rule
func (r CoercionRule) String() string {
	switch r {
	case CoerceNumericFlag:
		return "numeric_flag"
	case CoerceStringFlag:
		return "string_flag"
	case CoerceCount:
		return "count"
	default:
		return "none"
	}
}

// RawRecord is one untyped row from the source table, keyed by column name.
// Values may be missing or malformed; the normalizer decides what survives.
type RawRecord map[string]string

// RoleMapping maps semantic roles to matched column names. It is built once
// per dataset by ResolveColumns and is immutable after construction.
type RoleMapping struct {
	Date     string       `json:"date"`
	Outcome  string       `json:"outcome"`
	Category string       `json:"category"` // empty when no category column matched
	Volume   string       `json:"volume"`   // empty unless the dataset is pre-aggregated
	Rule     CoercionRule `json:"rule"`
}

// Aggregated reports whether the dataset carries pre-aggregated counts
// rather than one procedure per row
func (m RoleMapping) Aggregated() bool {
	return m.Rule == CoerceCount
}

// CanonicalRecord is one cleaned observation. Individual-level datasets
// produce records with Procedures == 1 and Infections in {0, 1};
// pre-aggregated datasets produce one record per source row with the counts
// carried through. Both variants feed the same rate computation.
type CanonicalRecord struct {
	Date       time.Time `json:"date"`
	Category   string    `json:"category"`
	Infections int       `json:"infections"`
	Procedures int       `json:"procedures"`
}

// IsValid checks the record invariants: a real date, a non-empty category
// and 0 <= Infections <= Procedures with at least one procedure
func (r CanonicalRecord) IsValid() bool {
	return !r.Date.IsZero() && r.Category != "" &&
		r.Infections >= 0 && r.Procedures > 0 && r.Infections <= r.Procedures
}

// RateEstimate is a proportion with its Wilson score confidence interval.
// A zero denominator yields NaN for the rate and both bounds.
type RateEstimate struct {
	Numerator   int     `json:"numerator"`
	Denominator int     `json:"denominator"`
	Rate        float64 `json:"rate"`
	CILow       float64 `json:"ci_low"`
	CIHigh      float64 `json:"ci_high"`
}

// Defined reports whether the rate is defined (denominator > 0)
func (re RateEstimate) Defined() bool {
	return re.Denominator > 0
}

// IsValid checks the estimate invariants. Undefined estimates are valid as
// long as all three float fields are NaN.
func (re RateEstimate) IsValid() bool {
	if re.Numerator < 0 || re.Numerator > re.Denominator {
		return false
	}
	if re.Denominator == 0 {
		return math.IsNaN(re.Rate) && math.IsNaN(re.CILow) && math.IsNaN(re.CIHigh)
	}
	return re.CILow >= 0 && re.CILow <= re.Rate && re.Rate <= re.CIHigh && re.CIHigh <= 1
}

// TemporalBucket is one calendar period with its rate, the trailing rolling
// rate and the outlier flag
type TemporalBucket struct {
	Period      string       `json:"period"` // "2017-03" or "2017-Q1"
	Granularity Granularity  `json:"granularity"`
	Rate        RateEstimate `json:"rate"`
	Rolling     RateEstimate `json:"rolling"`
	LowVolume   bool         `json:"low_volume"` // denominator below the volume floor
	Outlier     bool         `json:"outlier"`
}

// CategoryBucket is one category with its rate, its share of all infections
// and the alert flag
type CategoryBucket struct {
	Category       string       `json:"category"`
	Rate           RateEstimate `json:"rate"`
	InfectionShare float64      `json:"infection_share"`
	LowVolume      bool         `json:"low_volume"` // excluded from alert eligibility
	Alert          bool         `json:"alert"`
}

// ParetoEntry is one row of the Pareto table: categories sorted by infection
// count with cumulative percentages. Vital marks the minimal head set of
// categories responsible for the configured share of infections.
type ParetoEntry struct {
	Category      string  `json:"category"`
	Infections    int     `json:"infections"`
	Procedures    int     `json:"procedures"`
	CumulativePct float64 `json:"cumulative_pct"`
	Vital         bool    `json:"vital"`
}

// TestResult is the outcome of one statistical test
type TestResult struct {
	Name        string  `json:"name"`
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Significant bool    `json:"significant"`
}

// TrendResult is the outcome of the trend regression
type TrendResult struct {
	TestResult
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	Direction string  `json:"direction"` // "increasing", "decreasing" or "stable"
}

// GroupCounts names one comparison group with its infection and procedure counts
type GroupCounts struct {
	Name       string `json:"name"`
	Infections int    `json:"infections"`
	Procedures int    `json:"procedures"`
}

// Proportion returns the observed infection proportion, NaN when empty
func (g GroupCounts) Proportion() float64 {
	if g.Procedures == 0 {
		return math.NaN()
	}
	return float64(g.Infections) / float64(g.Procedures)
}

// Params carries the analysis configuration. Callers pass it explicitly into
// each engine call; the package holds no ambient state.
type Params struct {
	VolumeFloor       int     `json:"volume_floor"`        // minimum denominator for reliable rates
	AlertSDMultiplier float64 `json:"alert_sd_multiplier"` // outlier/alert threshold in standard deviations
	Alpha             float64 `json:"alpha"`               // significance level for all tests
	RollingWindow     int     `json:"rolling_window"`      // trailing periods for the rolling rate
	ParetoThreshold   float64 `json:"pareto_threshold"`    // cumulative infection share for the vital set
}

// DefaultParams returns the standard analysis configuration
func DefaultParams() Params {
	return Params{
		VolumeFloor:       30,
		AlertSDMultiplier: 2.0,
		Alpha:             0.05,
		RollingWindow:     3,
		ParetoThreshold:   0.80,
	}
}

// IsValid checks if the parameters are usable
func (p Params) IsValid() bool {
	return p.VolumeFloor >= 0 && p.AlertSDMultiplier > 0 &&
		p.Alpha > 0 && p.Alpha < 1 &&
		p.RollingWindow > 0 &&
		p.ParetoThreshold > 0 && p.ParetoThreshold <= 1
}

// z-score for the two-sided 95% confidence interval
const z95 = 1.959963984540054
