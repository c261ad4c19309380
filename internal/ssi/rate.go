package ssi

import "math"

// WilsonRate computes a rate estimate with its 95% Wilson score interval.
// A zero denominator yields NaN for the rate and both bounds rather than a
// division error.
func WilsonRate(numerator, denominator int) RateEstimate {
	re := RateEstimate{Numerator: numerator, Denominator: denominator}
	if denominator == 0 {
		re.Rate = math.NaN()
		re.CILow = math.NaN()
		re.CIHigh = math.NaN()
		return re
	}

	n := float64(denominator)
	p := float64(numerator) / n
	re.Rate = p

	z2 := z95 * z95
	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	margin := z95 * math.Sqrt((p*(1-p)+z2/(4*n))/n) / denom

	re.CILow = math.Max(0, center-margin)
	re.CIHigh = math.Min(1, center+margin)
	return re
}

// OverallRate computes the rate estimate over the entire canonical record set
func OverallRate(records []CanonicalRecord) RateEstimate {
	infections, procedures := 0, 0
	for _, r := range records {
		infections += r.Infections
		procedures += r.Procedures
	}
	return WilsonRate(infections, procedures)
}

// meanStddev computes the mean and sample standard deviation (n-1) of values.
// Fewer than two values yield a zero standard deviation and ok=false, which
// disables threshold-based flagging.
func meanStddev(values []float64) (mean, stddev float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean = sum / float64(len(values))

	if len(values) < 2 {
		return mean, 0, false
	}
	sumSq := 0.0
	for _, v := range values {
		sumSq += (v - mean) * (v - mean)
	}
	stddev = math.Sqrt(sumSq / float64(len(values)-1))
	return mean, stddev, true
}
