package data

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSortBars(t *testing.T) {
	t.Parallel()
	bars := []Bar{
		{Time: time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)},
		{Time: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Time: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)},
	}
	SortBars(bars)
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Time.Before(bars[i].Time) {
			t.Error("expected bars sorted ascending by time")
		}
	}
}

func TestSnapshotSymbols(t *testing.T) {
	t.Parallel()
	s := Snapshot{
		"MSFT": {Close: decimal.NewFromInt(50)},
		"AAPL": {Close: decimal.NewFromInt(100)},
		"SPY":  {Close: decimal.NewFromInt(300)},
	}
	assert.Equal(t, []string{"AAPL", "MSFT", "SPY"}, s.Symbols())
	assert.Empty(t, Snapshot{}.Symbols())
}
