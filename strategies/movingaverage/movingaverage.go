package movingaverage

import (
	"errors"
	"fmt"

	"github.com/thrasher-corp/gct-ta/indicators"

	"backsim/data"
	"backsim/log"
	"backsim/strategies/base"
)

const (
	// Name is the identifier the strategy loader resolves
	Name        = "movingaverage"
	description = "Buys when the short moving average crosses above the long and exits on the cross back down"
)

// ErrInvalidWindows is returned when the window lengths do not satisfy
// 0 < short < long
var ErrInvalidWindows = errors.New("windows must satisfy 0 < short < long")

// Strategy trades simple moving average crossovers of the close price
type Strategy struct {
	base.Strategy
	shortWindow int
	longWindow  int
}

// Setup validates the window lengths and returns the strategy
func Setup(shortWindow, longWindow int) (*Strategy, error) {
	if shortWindow <= 0 || shortWindow >= longWindow {
		return nil, fmt.Errorf("%w, received short %v long %v", ErrInvalidWindows, shortWindow, longWindow)
	}
	return &Strategy{shortWindow: shortWindow, longWindow: longWindow}, nil
}

// Name returns the strategy's identifier
func (s *Strategy) Name() string {
	return Name
}

// Description returns a summary of the strategy's behaviour
func (s *Strategy) Description() string {
	return description
}

// OnTick appends each symbol's close to its rolling window and trades the
// crossover once enough history has accrued
func (s *Strategy) OnTick(snapshot data.Snapshot, p base.PortfolioHandler) error {
	if p == nil {
		return base.ErrTooMuchBadData
	}
	for _, symbol := range snapshot.Symbols() {
		bar := snapshot[symbol]
		w := s.Window(symbol, 2*s.longWindow)
		w.Append(bar.Close.InexactFloat64())
		if w.Len() < s.longWindow {
			continue
		}
		values := w.Last(s.longWindow)
		shortSMA := latest(indicators.SMA(values, s.shortWindow))
		longSMA := latest(indicators.SMA(values, s.longWindow))

		switch {
		case shortSMA > longSMA && !s.Invested(symbol):
			qty := base.SharesFor(p.Cash(), bar.Close)
			if qty.IsZero() {
				continue
			}
			if err := p.PlaceOrder(symbol, qty); err != nil {
				return err
			}
			s.SetInvested(symbol, true)
			log.Debugf(log.Strategy, "%v crossover entry on %v, short %v long %v", Name, symbol, shortSMA, longSMA)
		case shortSMA < longSMA && s.Invested(symbol):
			s.SetInvested(symbol, false)
			held := p.Position(symbol)
			if held.IsPositive() {
				if err := p.PlaceOrder(symbol, held.Neg()); err != nil {
					return err
				}
				log.Debugf(log.Strategy, "%v crossover exit on %v, short %v long %v", Name, symbol, shortSMA, longSMA)
			}
		}
	}
	return nil
}

func latest(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}
