package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateReturns(t *testing.T) {
	t.Parallel()
	if r := CalculateReturns(nil); r != nil {
		t.Errorf("received '%v' expected '%v'", r, nil)
	}
	if r := CalculateReturns([]float64{100}); r != nil {
		t.Errorf("received '%v' expected '%v'", r, nil)
	}
	r := CalculateReturns([]float64{100, 110, 105, 120})
	assert.Len(t, r, 3)
	assert.InDelta(t, 0.1, r[0], 1e-12)
	assert.InDelta(t, -5.0/110, r[1], 1e-12)
	assert.InDelta(t, 120.0/105-1, r[2], 1e-12)
}

func TestCalculateTotalReturn(t *testing.T) {
	t.Parallel()
	if tr := CalculateTotalReturn([]float64{100}); tr != 0 {
		t.Errorf("received '%v' expected '%v'", tr, 0)
	}
	assert.InDelta(t, 0.20, CalculateTotalReturn([]float64{100, 110, 105, 120}), 1e-12)
}

func TestCalculateCompoundAnnualGrowthRate(t *testing.T) {
	t.Parallel()
	if cagr := CalculateCompoundAnnualGrowthRate([]float64{100}, 252); cagr != 0 {
		t.Errorf("received '%v' expected '%v'", cagr, 0)
	}
	// doubling over one full year of periods compounds to exactly 100%
	values := make([]float64, 253)
	for i := range values {
		values[i] = 100
	}
	values[252] = 200
	assert.InDelta(t, 1.0, CalculateCompoundAnnualGrowthRate(values, 252), 1e-12)
}

func TestStandardDeviations(t *testing.T) {
	t.Parallel()
	if sd := PopulationStandardDeviation(nil); sd != 0 {
		t.Errorf("received '%v' expected '%v'", sd, 0)
	}
	if sd := SampleStandardDeviation([]float64{1}); sd != 0 {
		t.Errorf("received '%v' expected '%v'", sd, 0)
	}
	assert.InDelta(t, 2.0, PopulationStandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Greater(t, SampleStandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), PopulationStandardDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}))
}

func TestCalculateSharpeRatio(t *testing.T) {
	t.Parallel()
	if sr := CalculateSharpeRatio(nil, 0, 252); sr != 0 {
		t.Errorf("received '%v' expected '%v'", sr, 0)
	}
	// zero volatility is a defined sentinel, not an error
	if sr := CalculateSharpeRatio([]float64{0.01, 0.01, 0.01}, 0, 252); sr != 0 {
		t.Errorf("received '%v' expected '%v'", sr, 0)
	}
	returns := []float64{0.1, -0.05, 120.0/105 - 1}
	sr := CalculateSharpeRatio(returns, 0, 252)
	mean := ArithmeticAverage(returns)
	std := PopulationStandardDeviation(returns)
	assert.InDelta(t, mean/std*math.Sqrt(252), sr, 1e-12)
}

func TestCalculateSortinoRatio(t *testing.T) {
	t.Parallel()
	if sr := CalculateSortinoRatio(nil, 0, 252); sr != 0 {
		t.Errorf("received '%v' expected '%v'", sr, 0)
	}
	// no downside movement yields +Inf rather than an error
	assert.True(t, math.IsInf(CalculateSortinoRatio([]float64{0.01, 0.02}, 0, 252), 1))

	returns := []float64{0.1, -0.05, 0.02}
	downside := math.Sqrt(math.Pow(-0.05, 2) / 3)
	expected := ArithmeticAverage(returns) / downside * math.Sqrt(252)
	assert.InDelta(t, expected, CalculateSortinoRatio(returns, 0, 252), 1e-12)
}

func TestCalculateMaxDrawdown(t *testing.T) {
	t.Parallel()
	if dd := CalculateMaxDrawdown([]float64{100}); dd != 0 {
		t.Errorf("received '%v' expected '%v'", dd, 0)
	}
	// monotonically non-decreasing curves have exactly zero drawdown
	if dd := CalculateMaxDrawdown([]float64{1, 2, 2, 3}); dd != 0 {
		t.Errorf("received '%v' expected '%v'", dd, 0)
	}
	dd := CalculateMaxDrawdown([]float64{100, 110, 105, 120})
	assert.InDelta(t, -5.0/110, dd, 1e-12)
	assert.LessOrEqual(t, dd, 0.0)
}

func TestCalculateCalmarRatio(t *testing.T) {
	t.Parallel()
	assert.True(t, math.IsInf(CalculateCalmarRatio(0.5, 0), 1))
	assert.InDelta(t, 2.0, CalculateCalmarRatio(0.5, -0.25), 1e-12)
}

func TestValueAtRisk(t *testing.T) {
	t.Parallel()
	if v := CalculateValueAtRisk(nil, 0.95); v != 0 {
		t.Errorf("received '%v' expected '%v'", v, 0)
	}
	returns := []float64{0.05, -0.1, 0.02, -0.03, 0.01, 0.04, -0.02, 0.03, 0.06, -0.01}
	v := CalculateValueAtRisk(returns, 0.95)
	// floor(0.05*10) = index 0 of the ascending sort
	assert.InDelta(t, -0.1, v, 1e-12)
}

func TestConditionalValueAtRisk(t *testing.T) {
	t.Parallel()
	if v := CalculateConditionalValueAtRisk(nil, 0.95); v != 0 {
		t.Errorf("received '%v' expected '%v'", v, 0)
	}
	returns := []float64{0.05, -0.1, 0.02, -0.03, 0.01, 0.04, -0.02, 0.03, 0.06, -0.01}
	cvar := CalculateConditionalValueAtRisk(returns, 0.95)
	assert.InDelta(t, -0.1, cvar, 1e-12)
	// the conditional tail mean can never exceed the threshold itself
	assert.GreaterOrEqual(t, CalculateValueAtRisk(returns, 0.95), cvar)

	cvar80 := CalculateConditionalValueAtRisk(returns, 0.8)
	assert.InDelta(t, (-0.1-0.03-0.02)/3, cvar80, 1e-12)
	assert.GreaterOrEqual(t, CalculateValueAtRisk(returns, 0.8), cvar80)
}

func TestCalculateAlphaBeta(t *testing.T) {
	t.Parallel()
	alpha, beta := CalculateAlphaBeta(nil, nil, 0, 252)
	if alpha != 0 || beta != 0 {
		t.Errorf("received '%v' '%v' expected zeroes", alpha, beta)
	}

	// a portfolio tracking its benchmark exactly has beta 1, alpha 0
	bench := []float64{0.01, -0.02, 0.03, 0.005, -0.01}
	alpha, beta = CalculateAlphaBeta(bench, bench, 0, 252)
	assert.InDelta(t, 1.0, beta, 1e-12)
	assert.InDelta(t, 0.0, alpha, 1e-9)

	// doubling every benchmark move reports beta 2
	doubled := make([]float64, len(bench))
	for i := range bench {
		doubled[i] = bench[i] * 2
	}
	_, beta = CalculateAlphaBeta(doubled, bench, 0, 252)
	assert.InDelta(t, 2.0, beta, 1e-12)

	// a constant outperformance shows up as annualised alpha
	shifted := make([]float64, len(bench))
	for i := range bench {
		shifted[i] = bench[i] + 0.001
	}
	alpha, beta = CalculateAlphaBeta(shifted, bench, 0, 252)
	assert.InDelta(t, 1.0, beta, 1e-12)
	assert.InDelta(t, 0.001*252, alpha, 1e-9)

	// mismatched lengths align on the most recent overlap
	alpha, beta = CalculateAlphaBeta(append([]float64{0.5, -0.5}, bench...), bench, 0, 252)
	assert.InDelta(t, 1.0, beta, 1e-12)
	assert.InDelta(t, 0.0, alpha, 1e-9)

	// a flat benchmark cannot be regressed against
	alpha, beta = CalculateAlphaBeta(bench, []float64{0.01, 0.01, 0.01, 0.01, 0.01}, 0, 252)
	if alpha != 0 || beta != 0 {
		t.Errorf("received '%v' '%v' expected zeroes", alpha, beta)
	}
}
