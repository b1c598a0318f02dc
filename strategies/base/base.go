package base

import (
	"errors"

	"github.com/shopspring/decimal"

	"backsim/data"
)

// AllocationFraction is the slice of the cash budget committed per entry
var AllocationFraction = decimal.NewFromFloat(0.05)

// ErrTooMuchBadData is returned when a strategy cannot act on the supplied data
var ErrTooMuchBadData = errors.New("invalid data supplied to strategy")

// PortfolioHandler is the view of the portfolio a strategy is allowed to act
// through
type PortfolioHandler interface {
	PlaceOrder(symbol string, quantity decimal.Decimal) error
	Cash() decimal.Decimal
	Position(symbol string) decimal.Decimal
}

// Handler defines what a strategy implementation must expose to the engine
type Handler interface {
	Name() string
	Description() string
	OnTick(snapshot data.Snapshot, p PortfolioHandler) error
	Reset()
}

// Strategy is embedded by every strategy implementation and tracks the
// invested flag and rolling price history per symbol
type Strategy struct {
	invested map[string]bool
	windows  map[string]*PriceWindow
}

// Invested reports whether the strategy holds an entry for the symbol. The
// flag is set when an order is placed, not when it fills
func (s *Strategy) Invested(symbol string) bool {
	return s.invested[symbol]
}

// SetInvested records or clears the entry flag for a symbol
func (s *Strategy) SetInvested(symbol string, invested bool) {
	if s.invested == nil {
		s.invested = make(map[string]bool)
	}
	s.invested[symbol] = invested
}

// Window returns the symbol's rolling price window, creating it with the
// given capacity on first use
func (s *Strategy) Window(symbol string, capacity int) *PriceWindow {
	if s.windows == nil {
		s.windows = make(map[string]*PriceWindow)
	}
	w, ok := s.windows[symbol]
	if !ok {
		w = NewPriceWindow(capacity)
		s.windows[symbol] = w
	}
	return w
}

// Reset clears all per-symbol state
func (s *Strategy) Reset() {
	s.invested = nil
	s.windows = nil
}

// SharesFor sizes an entry as the whole number of shares a fixed fraction of
// the budget buys at the given price
func SharesFor(budget, price decimal.Decimal) decimal.Decimal {
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return budget.Mul(AllocationFraction).Div(price).Floor()
}
