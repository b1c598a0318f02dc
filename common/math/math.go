package math

import (
	"math"
	"sort"
)

// CalculateReturns returns the period-over-period fractional change of a
// value series. The response is one element shorter than the input
func CalculateReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		returns[i-1] = values[i]/values[i-1] - 1
	}
	return returns
}

// CalculateTotalReturn returns the overall fractional gain or loss across a
// value series
func CalculateTotalReturn(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return values[len(values)-1]/values[0] - 1
}

// CalculateCompoundAnnualGrowthRate calculates CAGR over the series given
// how many periods make up one year
func CalculateCompoundAnnualGrowthRate(values []float64, periodsPerYear float64) float64 {
	numberOfPeriods := float64(len(values) - 1)
	if numberOfPeriods <= 0 {
		return 0
	}
	totalReturn := CalculateTotalReturn(values)
	return math.Pow(1+totalReturn, periodsPerYear/numberOfPeriods) - 1
}

// ArithmeticAverage is the basic form of calculating an average.
// Divide the sum of all values by the length of values
func ArithmeticAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumOfValues float64
	for x := range values {
		sumOfValues += values[x]
	}
	return sumOfValues / float64(len(values))
}

// PopulationStandardDeviation calculates standard deviation using population
// based calculation
func PopulationStandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	avg := ArithmeticAverage(values)
	diffs := make([]float64, len(values))
	for x := range values {
		diffs[x] = math.Pow(values[x]-avg, 2)
	}
	return math.Sqrt(ArithmeticAverage(diffs))
}

// SampleStandardDeviation standard deviation is a statistic that measures the
// dispersion of a dataset relative to its mean and is calculated as the
// square root of the variance
func SampleStandardDeviation(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	mean := ArithmeticAverage(values)
	var combined float64
	for i := range values {
		combined += math.Pow(values[i]-mean, 2)
	}
	return math.Sqrt(combined / (float64(len(values)) - 1))
}

// CalculateSharpeRatio returns the risk adjusted return of the return series
// versus the periodised risk free rate, annualised by periodsPerYear
func CalculateSharpeRatio(returns []float64, riskFreeRate, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	target := riskFreeRate / periodsPerYear
	excessReturns := make([]float64, len(returns))
	for i := range returns {
		excessReturns[i] = returns[i] - target
	}
	standardDeviation := PopulationStandardDeviation(excessReturns)
	if standardDeviation == 0 {
		return 0
	}
	return ArithmeticAverage(excessReturns) / standardDeviation * math.Sqrt(periodsPerYear)
}

// CalculateSortinoRatio returns a variation of the Sharpe ratio which only
// penalises returns falling below the periodised risk free target. A zero
// downside deviation is a legitimate outcome and yields +Inf
func CalculateSortinoRatio(returns []float64, riskFreeRate, periodsPerYear float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	target := riskFreeRate / periodsPerYear
	var totalDownsideSquared float64
	var excess float64
	for i := range returns {
		excess += returns[i] - target
		if returns[i] < target {
			totalDownsideSquared += math.Pow(returns[i]-target, 2)
		}
	}
	downsideDeviation := math.Sqrt(totalDownsideSquared / float64(len(returns)))
	if downsideDeviation == 0 {
		return math.Inf(1)
	}
	excess /= float64(len(returns))
	return excess / downsideDeviation * math.Sqrt(periodsPerYear)
}

// CalculateMaxDrawdown returns the largest peak to trough decline of the
// value series as a fraction of the running peak. The result is always <= 0
func CalculateMaxDrawdown(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	peak := values[0]
	var maxDrawdown float64
	for i := range values {
		if values[i] > peak {
			peak = values[i]
		}
		drawdown := (values[i] - peak) / peak
		if drawdown < maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown
}

// CalculateCalmarRatio is a function of the compounded annual rate of return
// versus its maximum drawdown. A zero drawdown yields +Inf
func CalculateCalmarRatio(cagr, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return math.Inf(1)
	}
	return cagr / math.Abs(maxDrawdown)
}

// CalculateValueAtRisk returns the lower tail return at the given confidence
// level, the sorted ascending return at index floor((1-confidence)*n)
func CalculateValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sortedReturns := make([]float64, len(returns))
	copy(sortedReturns, returns)
	sort.Float64s(sortedReturns)
	index := int(math.Floor((1 - confidence) * float64(len(sortedReturns))))
	return sortedReturns[index]
}

// CalculateConditionalValueAtRisk returns the mean of all returns at or below
// the value at risk index, inclusive, also known as expected shortfall
func CalculateConditionalValueAtRisk(returns []float64, confidence float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sortedReturns := make([]float64, len(returns))
	copy(sortedReturns, returns)
	sort.Float64s(sortedReturns)
	index := int(math.Floor((1 - confidence) * float64(len(sortedReturns))))
	return ArithmeticAverage(sortedReturns[:index+1])
}

// CalculateAlphaBeta performs an ordinary least squares regression of
// portfolio excess returns on benchmark excess returns over the most recent
// overlapping window. Beta is the slope and alpha the intercept annualised by
// periodsPerYear. Fewer than two returns on either side yields (0, 0)
func CalculateAlphaBeta(returns, benchmarkReturns []float64, riskFreeRate, periodsPerYear float64) (alpha, beta float64) {
	if len(returns) < 2 || len(benchmarkReturns) < 2 {
		return 0, 0
	}
	minLen := len(returns)
	if len(benchmarkReturns) < minLen {
		minLen = len(benchmarkReturns)
	}
	target := riskFreeRate / periodsPerYear
	x := make([]float64, minLen)
	y := make([]float64, minLen)
	for i := 0; i < minLen; i++ {
		y[i] = returns[len(returns)-minLen+i] - target
		x[i] = benchmarkReturns[len(benchmarkReturns)-minLen+i] - target
	}
	meanX := ArithmeticAverage(x)
	meanY := ArithmeticAverage(y)
	var covariance, variance float64
	for i := 0; i < minLen; i++ {
		covariance += (x[i] - meanX) * (y[i] - meanY)
		variance += (x[i] - meanX) * (x[i] - meanX)
	}
	if variance == 0 {
		return 0, 0
	}
	beta = covariance / variance
	alpha = (meanY - beta*meanX) * periodsPerYear
	return alpha, beta
}
