package momentum

import (
	"errors"
	"fmt"

	"backsim/data"
	"backsim/log"
	"backsim/strategies/base"
)

const (
	// Name is the identifier the strategy loader resolves
	Name        = "momentum"
	description = "Buys positive trailing returns over a lookback period and exits when momentum turns negative"
)

// ErrInvalidLookback is returned when the lookback period is not positive
var ErrInvalidLookback = errors.New("lookback must be positive")

// Strategy compares the current close against the close lookback ticks ago
type Strategy struct {
	base.Strategy
	lookback int
}

// Setup validates the lookback and returns the strategy
func Setup(lookback int) (*Strategy, error) {
	if lookback <= 0 {
		return nil, fmt.Errorf("%w, received %v", ErrInvalidLookback, lookback)
	}
	return &Strategy{lookback: lookback}, nil
}

// Name returns the strategy's identifier
func (s *Strategy) Name() string {
	return Name
}

// Description returns a summary of the strategy's behaviour
func (s *Strategy) Description() string {
	return description
}

// OnTick trades the sign of the trailing return once lookback+1 closes have
// accrued for a symbol
func (s *Strategy) OnTick(snapshot data.Snapshot, p base.PortfolioHandler) error {
	if p == nil {
		return base.ErrTooMuchBadData
	}
	for _, symbol := range snapshot.Symbols() {
		bar := snapshot[symbol]
		w := s.Window(symbol, 2*(s.lookback+1))
		w.Append(bar.Close.InexactFloat64())
		if w.Len() <= s.lookback {
			continue
		}
		values := w.Last(s.lookback + 1)
		past := values[0]
		current := values[len(values)-1]
		if past == 0 {
			continue
		}
		trailing := current/past - 1

		switch {
		case trailing > 0 && !s.Invested(symbol):
			qty := base.SharesFor(p.Cash(), bar.Close)
			if qty.IsZero() {
				continue
			}
			if err := p.PlaceOrder(symbol, qty); err != nil {
				return err
			}
			s.SetInvested(symbol, true)
			log.Debugf(log.Strategy, "%v entry on %v, trailing return %v", Name, symbol, trailing)
		case trailing < 0 && s.Invested(symbol):
			s.SetInvested(symbol, false)
			held := p.Position(symbol)
			if held.IsPositive() {
				if err := p.PlaceOrder(symbol, held.Neg()); err != nil {
					return err
				}
				log.Debugf(log.Strategy, "%v exit on %v, trailing return %v", Name, symbol, trailing)
			}
		}
	}
	return nil
}
