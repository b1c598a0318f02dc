package buyandhold

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backsim/data"
)

type fakePortfolio struct {
	cash      decimal.Decimal
	positions map[string]decimal.Decimal
	orders    int
}

func (f *fakePortfolio) PlaceOrder(symbol string, quantity decimal.Decimal) error {
	f.orders++
	if f.positions == nil {
		f.positions = make(map[string]decimal.Decimal)
	}
	f.positions[symbol] = f.positions[symbol].Add(quantity)
	return nil
}

func (f *fakePortfolio) Cash() decimal.Decimal { return f.cash }

func (f *fakePortfolio) Position(symbol string) decimal.Decimal { return f.positions[symbol] }

func bar(price float64) data.Bar {
	return data.Bar{
		Time:  time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		Close: decimal.NewFromFloat(price),
	}
}

func TestSetup(t *testing.T) {
	t.Parallel()
	_, err := Setup(decimal.Zero)
	if !errors.Is(err, ErrInvalidInitialCash) {
		t.Errorf("received '%v' expected '%v'", err, ErrInvalidInitialCash)
	}
	s, err := Setup(decimal.NewFromInt(10000))
	require.NoError(t, err)
	assert.Equal(t, Name, s.Name())
}

func TestEntersOnceAndHolds(t *testing.T) {
	t.Parallel()
	s, err := Setup(decimal.NewFromInt(10000))
	require.NoError(t, err)
	p := &fakePortfolio{cash: decimal.NewFromInt(10000)}

	require.NoError(t, s.OnTick(data.Snapshot{"AAPL": bar(100), "MSFT": bar(50)}, p))
	assert.Equal(t, 2, p.orders)
	// floor(10000 * 0.05 / 100) = 5 and floor(500 / 50) = 10
	assert.True(t, p.Position("AAPL").Equal(decimal.NewFromInt(5)))
	assert.True(t, p.Position("MSFT").Equal(decimal.NewFromInt(10)))

	// no further orders on later ticks
	require.NoError(t, s.OnTick(data.Snapshot{"AAPL": bar(200), "MSFT": bar(10)}, p))
	assert.Equal(t, 2, p.orders)
}

func TestLateListingEnters(t *testing.T) {
	t.Parallel()
	s, err := Setup(decimal.NewFromInt(10000))
	require.NoError(t, err)
	p := &fakePortfolio{cash: decimal.NewFromInt(10000)}

	require.NoError(t, s.OnTick(data.Snapshot{"AAPL": bar(100)}, p))
	require.NoError(t, s.OnTick(data.Snapshot{"AAPL": bar(101), "MSFT": bar(50)}, p))
	assert.Equal(t, 2, p.orders)
	assert.True(t, s.Invested("MSFT"))
}

func TestSkipsUnaffordableEntry(t *testing.T) {
	t.Parallel()
	s, err := Setup(decimal.NewFromInt(10000))
	require.NoError(t, err)
	p := &fakePortfolio{cash: decimal.NewFromInt(10000)}

	// 500 budget cannot buy a whole share at 600
	require.NoError(t, s.OnTick(data.Snapshot{"AMZN": bar(600)}, p))
	assert.Equal(t, 0, p.orders)
	assert.False(t, s.Invested("AMZN"))
}
