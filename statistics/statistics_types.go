package statistics

import (
	"encoding/json"
	"errors"
	"math"
	"time"
)

var (
	// ErrNoDataPoints is returned when results are requested before any
	// equity samples were collected
	ErrNoDataPoints = errors.New("no data points to calculate results from")
	// ErrInvalidConfidence is returned for a confidence level outside (0, 1)
	ErrInvalidConfidence = errors.New("confidence level must be in (0, 1)")
)

// Ratio is a float64 that survives JSON encoding when infinite. A run with no
// losing tick legitimately produces +Inf Sortino and Calmar ratios, which
// encoding/json refuses as bare numbers; infinities render as "+Inf"/"-Inf"
// and NaN as null
type Ratio float64

// MarshalJSON implements json.Marshaler
func (r Ratio) MarshalJSON() ([]byte, error) {
	v := float64(r)
	switch {
	case math.IsInf(v, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(v):
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Ratio) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"+Inf"`:
		*r = Ratio(math.Inf(1))
		return nil
	case `"-Inf"`:
		*r = Ratio(math.Inf(-1))
		return nil
	case "null":
		*r = Ratio(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio(v)
	return nil
}

// EquityPoint is one sample of the portfolio's value over the run. Benchmark
// is zero until the benchmark's first bar
type EquityPoint struct {
	Time      time.Time `json:"time"`
	Equity    float64   `json:"equity"`
	Benchmark float64   `json:"benchmark,omitempty"`
}

// Report is the full set of risk and performance figures for a completed run
type Report struct {
	StrategyName   string        `json:"strategyName"`
	StartTime      time.Time     `json:"startTime"`
	EndTime        time.Time     `json:"endTime"`
	InitialCash    float64       `json:"initialCash"`
	FinalEquity    float64       `json:"finalEquity"`
	TotalReturn    float64       `json:"totalReturn"`
	CAGR           float64       `json:"cagr"`
	SharpeRatio    float64       `json:"sharpeRatio"`
	SortinoRatio   Ratio         `json:"sortinoRatio"`
	MaxDrawdown    float64       `json:"maxDrawdown"`
	CalmarRatio    Ratio         `json:"calmarRatio"`
	ValueAtRisk    float64       `json:"valueAtRisk"`
	ConditionalVaR float64       `json:"conditionalVaR"`
	Alpha          float64       `json:"alpha"`
	Beta           float64       `json:"beta"`
	TradeCount     int           `json:"tradeCount"`
	EquityCurve    []EquityPoint `json:"equityCurve"`
}

// Statistic collects equity and benchmark samples tick by tick and produces a
// Report once the run completes
type Statistic struct {
	StrategyName   string
	InitialCash    float64
	RiskFreeRate   float64
	PeriodsPerYear float64
	Confidence     float64
	TradeCount     int

	points    []EquityPoint
	benchmark []float64
}
