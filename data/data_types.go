package data

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is one symbol's OHLCV candle at one timestamp. Bars are never mutated
// once loaded
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Snapshot maps each symbol to its bar for a single timestamp. A snapshot is
// produced once per tick and never mutated after creation
type Snapshot map[string]Bar
