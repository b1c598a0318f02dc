package strategies

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no strategy matches the requested name
var ErrNotFound = errors.New("strategy not found")

// Settings carries the tunables a strategy may draw on. Unused fields are
// ignored by strategies that do not need them
type Settings struct {
	ShortWindow int
	LongWindow  int
	Lookback    int
	InitialCash decimal.Decimal
}
