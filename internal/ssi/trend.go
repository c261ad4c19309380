package ssi

import "math"

// Direction labels reported by TrendTest
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// TrendTest fits an ordinary least-squares regression of bucket rate against
// a sequential period index and tests whether the slope differs from zero
// using the t-statistic with n-2 degrees of freedom. Buckets with a zero
// denominator are skipped. Fewer than three usable buckets return an
// InsufficientDataError.
func TrendTest(buckets []TemporalBucket, params Params) (TrendResult, error) {
	var ys []float64
	for _, b := range buckets {
		if b.Rate.Defined() {
			ys = append(ys, b.Rate.Rate)
		}
	}

	n := len(ys)
	if n < 3 {
		return TrendResult{}, &InsufficientDataError{Group: "trend"}
	}

	// x is the sequential period index 0..n-1
	var sumX, sumY, sumXX, sumXY float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}

	fn := float64(n)
	meanX := sumX / fn
	meanY := sumY / fn
	sxx := sumXX - fn*meanX*meanX
	sxy := sumXY - fn*meanX*meanY

	slope := sxy / sxx
	intercept := meanY - slope*meanX

	var sse, sst float64
	for i, y := range ys {
		fitted := intercept + slope*float64(i)
		sse += (y - fitted) * (y - fitted)
		sst += (y - meanY) * (y - meanY)
	}

	rSquared := 0.0
	if sst > 0 {
		rSquared = 1 - sse/sst
	}

	df := fn - 2
	var statistic, p float64
	switch {
	case sse == 0 && slope == 0:
		statistic, p = 0, 1
	case sse == 0:
		// Perfect fit with a non-zero slope
		statistic, p = math.Inf(sign(slope)), 0
	default:
		se := math.Sqrt(sse / df / sxx)
		statistic = slope / se
		p = 2 * studentTSF(math.Abs(statistic), df)
	}

	direction := TrendStable
	if slope > 0 {
		direction = TrendIncreasing
	} else if slope < 0 {
		direction = TrendDecreasing
	}

	return TrendResult{
		TestResult: TestResult{
			Name:        TestTrendOLS,
			Statistic:   statistic,
			PValue:      p,
			Significant: p < params.Alpha,
		},
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
		Direction: direction,
	}, nil
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
