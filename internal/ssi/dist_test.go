package ssi

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalSF(t *testing.T) {
	assert.InDelta(t, 0.5, normalSF(0), 1e-12)
	assert.InDelta(t, 0.025, normalSF(1.959963984540054), 1e-9)
	assert.InDelta(t, 0.158655, normalSF(1), 1e-6)

	// Symmetry
	assert.InDelta(t, 1.0, normalSF(1.3)+normalSF(-1.3), 1e-12)
}

func TestChiSquareSF1(t *testing.T) {
	assert.InDelta(t, 1.0, chiSquareSF1(0), 1e-12)
	assert.InDelta(t, 0.05, chiSquareSF1(3.841458820694124), 1e-9)
	assert.InDelta(t, 0.01, chiSquareSF1(6.634896601021213), 1e-6)

	// Agrees with the squared-normal relation for any x
	for _, x := range []float64{0.1, 1, 2.5, 7} {
		assert.InDelta(t, 2*normalSF(math.Sqrt(x)), chiSquareSF1(x), 1e-12)
	}
}

func TestStudentTSF(t *testing.T) {
	// Critical values: P(T > t) = 0.025
	assert.InDelta(t, 0.025, studentTSF(12.706, 1), 1e-4)
	assert.InDelta(t, 0.025, studentTSF(2.571, 5), 1e-4)
	assert.InDelta(t, 0.025, studentTSF(2.228, 10), 1e-4)

	// Symmetry and midpoint
	assert.InDelta(t, 0.5, studentTSF(0, 7), 1e-12)
	assert.InDelta(t, 1.0, studentTSF(1.8, 4)+studentTSF(-1.8, 4), 1e-12)

	// Converges toward the normal for large degrees of freedom
	assert.InDelta(t, normalSF(1.96), studentTSF(1.96, 1e6), 1e-5)
}

func TestRegIncompleteBeta(t *testing.T) {
	assert.Zero(t, regIncompleteBeta(2, 3, 0))
	assert.Equal(t, 1.0, regIncompleteBeta(2, 3, 1))

	// I_x(1, 1) is the identity
	assert.InDelta(t, 0.42, regIncompleteBeta(1, 1, 0.42), 1e-12)

	// I_x(1, b) = 1 - (1-x)^b
	assert.InDelta(t, 1-math.Pow(0.7, 4), regIncompleteBeta(1, 4, 0.3), 1e-12)

	// Symmetry: I_x(a, b) = 1 - I_{1-x}(b, a)
	assert.InDelta(t, 1-regIncompleteBeta(3.5, 1.25, 0.6), regIncompleteBeta(1.25, 3.5, 0.4), 1e-10)
}
