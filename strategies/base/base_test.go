package base

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriceWindow(t *testing.T) {
	t.Parallel()
	w := NewPriceWindow(3)
	assert.Equal(t, 0, w.Len())
	w.Append(1)
	w.Append(2)
	assert.Equal(t, []float64{1, 2}, w.Values())

	w.Append(3)
	w.Append(4)
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, []float64{2, 3, 4}, w.Values())
	assert.Equal(t, []float64{3, 4}, w.Last(2))
	assert.Equal(t, []float64{2, 3, 4}, w.Last(10))
}

func TestInvestedFlag(t *testing.T) {
	t.Parallel()
	var s Strategy
	assert.False(t, s.Invested("AAPL"))
	s.SetInvested("AAPL", true)
	assert.True(t, s.Invested("AAPL"))
	s.Reset()
	assert.False(t, s.Invested("AAPL"))
}

func TestWindowPerSymbol(t *testing.T) {
	t.Parallel()
	var s Strategy
	w1 := s.Window("AAPL", 4)
	w1.Append(1)
	w2 := s.Window("AAPL", 4)
	assert.Equal(t, 1, w2.Len())
	other := s.Window("MSFT", 4)
	assert.Equal(t, 0, other.Len())
}

func TestSharesFor(t *testing.T) {
	t.Parallel()
	// 10000 * 0.05 / 100 = 5 shares
	q := SharesFor(decimal.NewFromInt(10000), decimal.NewFromInt(100))
	assert.True(t, q.Equal(decimal.NewFromInt(5)))
	// 10000 * 0.05 / 151 floors to 3
	q = SharesFor(decimal.NewFromInt(10000), decimal.NewFromInt(151))
	assert.True(t, q.Equal(decimal.NewFromInt(3)))
	q = SharesFor(decimal.NewFromInt(10000), decimal.Zero)
	assert.True(t, q.IsZero())
}
