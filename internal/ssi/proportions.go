package ssi

import "math"

// Test names reported in TestResult
const (
	TestTwoProportionZ = "two_proportion_z"
	TestChiSquare      = "chi_square"
	TestTrendOLS       = "trend_ols"
)

// CompareGroups runs the two-proportion z-test and the Pearson chi-square
// test on two named groups. A zero denominator in either group returns an
// InsufficientDataError; the tests never silently default to p=1 or p=0.
// Significance uses a strict p < alpha comparison, so a p-value exactly at
// alpha is not significant.
func CompareGroups(g1, g2 GroupCounts, params Params) (TestResult, TestResult, error) {
	if g1.Procedures == 0 {
		return TestResult{}, TestResult{}, &InsufficientDataError{Group: g1.Name}
	}
	if g2.Procedures == 0 {
		return TestResult{}, TestResult{}, &InsufficientDataError{Group: g2.Name}
	}

	zTest := twoProportionZ(g1, g2, params.Alpha)
	chiTest := chiSquare2x2(g1, g2, params.Alpha)
	return zTest, chiTest, nil
}

func twoProportionZ(g1, g2 GroupCounts, alpha float64) TestResult {
	n1 := float64(g1.Procedures)
	n2 := float64(g2.Procedures)
	x1 := float64(g1.Infections)
	x2 := float64(g2.Infections)

	pooled := (x1 + x2) / (n1 + n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))

	// Degenerate table: every observation in both groups has the same
	// outcome. There is no evidence of a difference.
	if se == 0 {
		return TestResult{Name: TestTwoProportionZ, Statistic: 0, PValue: 1}
	}

	z := (g1.Proportion() - g2.Proportion()) / se
	p := 2 * normalSF(math.Abs(z))
	return TestResult{
		Name:        TestTwoProportionZ,
		Statistic:   z,
		PValue:      p,
		Significant: p < alpha,
	}
}

// chiSquare2x2 computes the Pearson statistic on the 2x2 contingency table
// {infected, not infected} x {group1, group2} with one degree of freedom and
// no continuity correction, using the closed form
// N(ad-bc)^2 / ((a+b)(c+d)(a+c)(b+d)).
func chiSquare2x2(g1, g2 GroupCounts, alpha float64) TestResult {
	a := float64(g1.Infections)
	b := float64(g1.Procedures - g1.Infections)
	c := float64(g2.Infections)
	d := float64(g2.Procedures - g2.Infections)
	n := a + b + c + d

	rowInfected := a + c
	rowHealthy := b + d
	col1 := a + b
	col2 := c + d

	// A zero margin means one outcome never occurs; the statistic is zero.
	if rowInfected == 0 || rowHealthy == 0 || col1 == 0 || col2 == 0 {
		return TestResult{Name: TestChiSquare, Statistic: 0, PValue: 1}
	}

	diff := a*d - b*c
	statistic := n * diff * diff / (col1 * col2 * rowInfected * rowHealthy)
	p := chiSquareSF1(statistic)

	return TestResult{
		Name:        TestChiSquare,
		Statistic:   statistic,
		PValue:      p,
		Significant: p < alpha,
	}
}
