package market

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"backsim/data"
)

var (
	// ErrNoData is returned when a market is constructed with no bars at all
	ErrNoData = errors.New("no market data loaded")
	// ErrExhausted is returned when the replay has run past the final timestamp
	ErrExhausted = errors.New("market data exhausted")
)

// Market replays historical bar data one timestamp at a time. The timeline is
// the sorted union of every symbol's bar timestamps; on a given tick only the
// symbols that traded carry a bar in the snapshot
type Market struct {
	timeline  []time.Time
	bars      map[string]map[int64]data.Bar
	symbols   []string
	benchmark string
	cursor    int

	lastPrices    map[string]decimal.Decimal
	lastBenchmark data.Bar
	hasBenchmark  bool
}
