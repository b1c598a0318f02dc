package statistics

import (
	"fmt"
	"time"

	"backsim/common/math"
	"backsim/log"
)

// Setup returns a collector with the conventional defaults of daily bars and
// a 95 percent confidence level
func Setup(strategyName string, initialCash float64) *Statistic {
	return &Statistic{
		StrategyName:   strategyName,
		InitialCash:    initialCash,
		PeriodsPerYear: 252,
		Confidence:     0.95,
	}
}

// AddEquitySample records the portfolio's value at a tick. hasBenchmark is
// false before the benchmark's first bar and when no benchmark is configured
func (s *Statistic) AddEquitySample(t time.Time, equity, benchmark float64, hasBenchmark bool) {
	p := EquityPoint{Time: t, Equity: equity}
	if hasBenchmark {
		p.Benchmark = benchmark
		s.benchmark = append(s.benchmark, benchmark)
	}
	s.points = append(s.points, p)
}

// EquityCurve returns the samples collected so far
func (s *Statistic) EquityCurve() []EquityPoint {
	out := make([]EquityPoint, len(s.points))
	copy(out, s.points)
	return out
}

// CalculateResults computes the run's performance and risk figures from the
// collected samples
func (s *Statistic) CalculateResults() (*Report, error) {
	if len(s.points) == 0 {
		return nil, ErrNoDataPoints
	}
	if s.Confidence <= 0 || s.Confidence >= 1 {
		return nil, fmt.Errorf("%w, received %v", ErrInvalidConfidence, s.Confidence)
	}
	equity := make([]float64, len(s.points))
	for i := range s.points {
		equity[i] = s.points[i].Equity
	}
	returns := math.CalculateReturns(equity)
	maxDD := math.CalculateMaxDrawdown(equity)
	cagr := math.CalculateCompoundAnnualGrowthRate(equity, s.PeriodsPerYear)
	benchmarkReturns := math.CalculateReturns(s.benchmark)
	alpha, beta := math.CalculateAlphaBeta(returns, benchmarkReturns, s.RiskFreeRate, s.PeriodsPerYear)

	r := &Report{
		StrategyName:   s.StrategyName,
		StartTime:      s.points[0].Time,
		EndTime:        s.points[len(s.points)-1].Time,
		InitialCash:    s.InitialCash,
		FinalEquity:    equity[len(equity)-1],
		TotalReturn:    math.CalculateTotalReturn(equity),
		CAGR:           cagr,
		SharpeRatio:    math.CalculateSharpeRatio(returns, s.RiskFreeRate, s.PeriodsPerYear),
		SortinoRatio:   Ratio(math.CalculateSortinoRatio(returns, s.RiskFreeRate, s.PeriodsPerYear)),
		MaxDrawdown:    maxDD,
		CalmarRatio:    Ratio(math.CalculateCalmarRatio(cagr, maxDD)),
		ValueAtRisk:    math.CalculateValueAtRisk(returns, s.Confidence),
		ConditionalVaR: math.CalculateConditionalValueAtRisk(returns, s.Confidence),
		Alpha:          alpha,
		Beta:           beta,
		TradeCount:     s.TradeCount,
		EquityCurve:    s.EquityCurve(),
	}
	return r, nil
}

// PrintResults logs the report in a readable summary
func (s *Statistic) PrintResults(r *Report) {
	if r == nil {
		return
	}
	log.Infof(log.Statistics, "------------------ Results: %v ------------------", r.StrategyName)
	log.Infof(log.Statistics, "Period: %v to %v", r.StartTime.Format("2006-01-02"), r.EndTime.Format("2006-01-02"))
	log.Infof(log.Statistics, "Initial cash: %.2f", r.InitialCash)
	log.Infof(log.Statistics, "Final equity: %.2f", r.FinalEquity)
	log.Infof(log.Statistics, "Total return: %.2f%%", r.TotalReturn*100)
	log.Infof(log.Statistics, "CAGR: %.2f%%", r.CAGR*100)
	log.Infof(log.Statistics, "Sharpe ratio: %.4f", r.SharpeRatio)
	log.Infof(log.Statistics, "Sortino ratio: %.4f", r.SortinoRatio)
	log.Infof(log.Statistics, "Max drawdown: %.2f%%", r.MaxDrawdown*100)
	log.Infof(log.Statistics, "Calmar ratio: %.4f", r.CalmarRatio)
	log.Infof(log.Statistics, "VaR %v%%: %.4f", s.Confidence*100, r.ValueAtRisk)
	log.Infof(log.Statistics, "CVaR %v%%: %.4f", s.Confidence*100, r.ConditionalVaR)
	log.Infof(log.Statistics, "Alpha: %.4f Beta: %.4f", r.Alpha, r.Beta)
	log.Infof(log.Statistics, "Trades executed: %v", r.TradeCount)
}

// Reset drops all collected samples
func (s *Statistic) Reset() {
	s.points = nil
	s.benchmark = nil
	s.TradeCount = 0
}
