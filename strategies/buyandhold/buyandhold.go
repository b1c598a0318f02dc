package buyandhold

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"backsim/data"
	"backsim/log"
	"backsim/strategies/base"
)

const (
	// Name is the identifier the strategy loader resolves
	Name        = "buyandhold"
	description = "Enters each symbol once on its first bar and never exits"
)

// ErrInvalidInitialCash is returned when the sizing budget is not positive
var ErrInvalidInitialCash = errors.New("initial cash must be positive")

// Strategy buys every symbol on first sight and holds until the replay ends.
// Sizing uses the run's starting cash so each symbol receives the same budget
// regardless of entry order
type Strategy struct {
	base.Strategy
	initialCash decimal.Decimal
}

// Setup returns the strategy sized against the run's starting cash
func Setup(initialCash decimal.Decimal) (*Strategy, error) {
	if initialCash.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w, received %v", ErrInvalidInitialCash, initialCash)
	}
	return &Strategy{initialCash: initialCash}, nil
}

// Name returns the strategy's identifier
func (s *Strategy) Name() string {
	return Name
}

// Description returns a summary of the strategy's behaviour
func (s *Strategy) Description() string {
	return description
}

// OnTick enters any symbol not yet invested in at its current close
func (s *Strategy) OnTick(snapshot data.Snapshot, p base.PortfolioHandler) error {
	if p == nil {
		return base.ErrTooMuchBadData
	}
	for _, symbol := range snapshot.Symbols() {
		if s.Invested(symbol) {
			continue
		}
		qty := base.SharesFor(s.initialCash, snapshot[symbol].Close)
		if qty.IsZero() {
			continue
		}
		if err := p.PlaceOrder(symbol, qty); err != nil {
			return err
		}
		s.SetInvested(symbol, true)
		log.Debugf(log.Strategy, "%v entered %v with %v shares", Name, symbol, qty)
	}
	return nil
}
