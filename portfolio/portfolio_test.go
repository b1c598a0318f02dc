package portfolio

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backsim/common"
	"backsim/eventholder"
	"backsim/log"
)

var tn = time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{
		InitialCash:     decimal.NewFromInt(10000),
		CommissionRate:  decimal.NewFromFloat(0.001),
		SlippageRate:    decimal.NewFromFloat(0.0005),
		StopLossEnabled: true,
		StopLossPct:     decimal.NewFromFloat(0.05),
	}
}

func prices(symbol string, price float64) map[string]decimal.Decimal {
	return map[string]decimal.Decimal{symbol: decimal.NewFromFloat(price)}
}

func TestSetup(t *testing.T) {
	t.Parallel()
	_, err := Setup(Settings{}, nil)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("received '%v' expected '%v'", err, ErrInvalidSettings)
	}
	s := testSettings()
	s.CommissionRate = decimal.NewFromInt(-1)
	_, err = Setup(s, nil)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("received '%v' expected '%v'", err, ErrInvalidSettings)
	}
	s = testSettings()
	s.StopLossPct = decimal.NewFromInt(1)
	_, err = Setup(s, nil)
	if !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("received '%v' expected '%v'", err, ErrInvalidSettings)
	}
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)
	assert.True(t, p.Cash().Equal(decimal.NewFromInt(10000)))
}

func TestBuyArithmetic(t *testing.T) {
	t.Parallel()
	q := &eventholder.Holder{}
	p, err := Setup(testSettings(), q)
	require.NoError(t, err)

	err = p.PlaceOrder("AAPL", decimal.NewFromInt(10))
	require.NoError(t, err)
	p.ProcessOrders(tn, prices("AAPL", 100))

	trades := p.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, "100.05", trades[0].AdjustedPrice.String())
	assert.Equal(t, "1.0005", trades[0].Commission.String())
	assert.Equal(t, "8998.4995", trades[0].CashAfter.String())
	assert.Equal(t, "8998.4995", p.Cash().String())
	assert.True(t, p.Position("AAPL").Equal(decimal.NewFromInt(10)))

	level, ok := p.StopLevel("AAPL")
	require.True(t, ok)
	assert.Equal(t, "95.0475", level.String())

	e := q.NextEvent()
	require.NotNil(t, e)
	fill, ok := e.(FillEvent)
	require.True(t, ok)
	assert.Equal(t, "AAPL", fill.GetSymbol())
	assert.False(t, fill.StopLoss)
}

func TestBuyInsufficientFunds(t *testing.T) {
	t.Parallel()
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)

	err = p.PlaceOrder("AAPL", decimal.NewFromInt(1000))
	require.NoError(t, err)
	p.ProcessOrders(tn, prices("AAPL", 100))

	assert.Empty(t, p.Trades())
	assert.True(t, p.Cash().Equal(decimal.NewFromInt(10000)))
	assert.Empty(t, p.PendingOrders())
	assert.True(t, p.Position("AAPL").IsZero())
}

func TestSellArithmetic(t *testing.T) {
	t.Parallel()
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)

	require.NoError(t, p.PlaceOrder("AAPL", decimal.NewFromInt(10)))
	p.ProcessOrders(tn, prices("AAPL", 100))
	require.NoError(t, p.PlaceOrder("AAPL", decimal.NewFromInt(-10)))
	p.ProcessOrders(tn.AddDate(0, 0, 1), prices("AAPL", 110))

	trades := p.Trades()
	require.Len(t, trades, 2)
	// adjusted 110 * 0.9995 = 109.945, proceeds 1099.45, commission 1.09945
	assert.Equal(t, "109.945", trades[1].AdjustedPrice.String())
	assert.Equal(t, "1.09945", trades[1].Commission.String())

	assert.True(t, p.Position("AAPL").IsZero())
	if _, ok := p.StopLevel("AAPL"); ok {
		t.Error("expected stop level removed with position")
	}
	expected := decimal.RequireFromString("8998.4995").
		Add(decimal.RequireFromString("1099.45")).
		Sub(decimal.RequireFromString("1.09945"))
	assert.True(t, p.Cash().Equal(expected))
}

func TestSellInsufficientHoldings(t *testing.T) {
	t.Parallel()
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)

	require.NoError(t, p.PlaceOrder("AAPL", decimal.NewFromInt(-5)))
	p.ProcessOrders(tn, prices("AAPL", 100))
	assert.Empty(t, p.Trades())
	assert.True(t, p.Cash().Equal(decimal.NewFromInt(10000)))
	assert.Empty(t, p.PendingOrders())
}

func TestOrderRestsWithoutPrice(t *testing.T) {
	t.Parallel()
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)

	require.NoError(t, p.PlaceOrder("MSFT", decimal.NewFromInt(5)))
	p.ProcessOrders(tn, prices("AAPL", 100))
	require.Len(t, p.PendingOrders(), 1)

	p.ProcessOrders(tn, prices("MSFT", 50))
	assert.Empty(t, p.PendingOrders())
	assert.Len(t, p.Trades(), 1)
}

func TestLimitOrders(t *testing.T) {
	t.Parallel()
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)

	_, err = p.PlaceLimitOrder("AAPL", decimal.NewFromInt(5), decimal.Zero)
	if !errors.Is(err, ErrInvalidLimitPrice) {
		t.Errorf("received '%v' expected '%v'", err, ErrInvalidLimitPrice)
	}

	o, err := p.PlaceLimitOrder("AAPL", decimal.NewFromInt(5), decimal.NewFromInt(95))
	require.NoError(t, err)
	p.ProcessOrders(tn, prices("AAPL", 100))
	assert.Len(t, p.PendingOrders(), 1)

	p.ProcessOrders(tn, prices("AAPL", 94))
	assert.Empty(t, p.PendingOrders())
	require.Len(t, p.Trades(), 1)
	assert.Equal(t, o.ID, p.Trades()[0].OrderID)

	// the caller's order handle carries the fill economics
	assert.Equal(t, Filled, o.Status)
	assert.Equal(t, "94.047", o.FillPrice.String())
	assert.True(t, o.FillQuantity.Equal(decimal.NewFromInt(5)))

	// sell limit fills at or above the limit
	_, err = p.PlaceLimitOrder("AAPL", decimal.NewFromInt(-5), decimal.NewFromInt(100))
	require.NoError(t, err)
	p.ProcessOrders(tn, prices("AAPL", 99))
	assert.Len(t, p.PendingOrders(), 1)
	p.ProcessOrders(tn, prices("AAPL", 101))
	assert.Empty(t, p.PendingOrders())
	assert.Len(t, p.Trades(), 2)
}

func TestInvalidQuantity(t *testing.T) {
	t.Parallel()
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)
	err = p.PlaceOrder("AAPL", decimal.Zero)
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("received '%v' expected '%v'", err, ErrInvalidQuantity)
	}
}

func TestBuySellWrappers(t *testing.T) {
	t.Parallel()
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)

	err = p.Buy("AAPL", decimal.NewFromInt(-5))
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("received '%v' expected '%v'", err, ErrInvalidQuantity)
	}
	err = p.Sell("AAPL", decimal.NewFromInt(-5))
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("received '%v' expected '%v'", err, ErrInvalidQuantity)
	}

	require.NoError(t, p.Buy("AAPL", decimal.NewFromInt(5)))
	require.NoError(t, p.Sell("AAPL", decimal.NewFromInt(2)))
	orders := p.PendingOrders()
	require.Len(t, orders, 2)
	assert.True(t, orders[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, orders[1].Quantity.Equal(decimal.NewFromInt(-2)))
}

func TestCancelOrder(t *testing.T) {
	t.Parallel()
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)

	o, err := p.PlaceLimitOrder("AAPL", decimal.NewFromInt(5), decimal.NewFromInt(90))
	require.NoError(t, err)
	require.NoError(t, p.CancelOrder(o.ID))
	assert.Empty(t, p.PendingOrders())

	err = p.CancelOrder(o.ID)
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("received '%v' expected '%v'", err, ErrOrderNotFound)
	}
}

func TestCheckStopLosses(t *testing.T) {
	t.Parallel()
	q := &eventholder.Holder{}
	p, err := Setup(testSettings(), q)
	require.NoError(t, err)

	require.NoError(t, p.PlaceOrder("AAPL", decimal.NewFromInt(10)))
	p.ProcessOrders(tn, prices("AAPL", 100))
	q.Reset()

	// trigger is 95.0475, a price just above must not fire
	p.CheckStopLosses(tn, prices("AAPL", 95.05))
	assert.True(t, p.Position("AAPL").Equal(decimal.NewFromInt(10)))

	p.CheckStopLosses(tn, prices("AAPL", 95.0475))
	assert.True(t, p.Position("AAPL").IsZero())
	if _, ok := p.StopLevel("AAPL"); ok {
		t.Error("expected stop level removed after exit")
	}

	var e common.Event = q.NextEvent()
	require.NotNil(t, e)
	fill, ok := e.(FillEvent)
	require.True(t, ok)
	assert.True(t, fill.StopLoss)
	assert.True(t, fill.Quantity.Equal(decimal.NewFromInt(-10)))
	assert.Equal(t, "95.0475", fill.Price.String())
}

func TestStopLossDisabled(t *testing.T) {
	t.Parallel()
	s := testSettings()
	s.StopLossEnabled = false
	p, err := Setup(s, nil)
	require.NoError(t, err)

	require.NoError(t, p.PlaceOrder("AAPL", decimal.NewFromInt(10)))
	p.ProcessOrders(tn, prices("AAPL", 100))
	if _, ok := p.StopLevel("AAPL"); ok {
		t.Error("expected no stop level when disabled")
	}
	p.CheckStopLosses(tn, prices("AAPL", 1))
	assert.True(t, p.Position("AAPL").Equal(decimal.NewFromInt(10)))
}

func TestTotalValue(t *testing.T) {
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)

	assert.True(t, p.TotalValue(nil).Equal(decimal.NewFromInt(10000)))

	require.NoError(t, p.PlaceOrder("AAPL", decimal.NewFromInt(10)))
	p.ProcessOrders(tn, prices("AAPL", 100))

	v := p.TotalValue(prices("AAPL", 105))
	expected := decimal.RequireFromString("8998.4995").Add(decimal.NewFromInt(1050))
	assert.True(t, v.Equal(expected))

	// a held symbol with no price is excluded from the total and warned about
	var captured bytes.Buffer
	log.SetOutput(log.Portfolio, &captured)
	defer log.SetOutput(log.Portfolio, os.Stdout)

	v = p.TotalValue(prices("MSFT", 50))
	assert.True(t, v.Equal(decimal.RequireFromString("8998.4995")))
	if !strings.Contains(captured.String(), "no price for held symbol AAPL") {
		t.Errorf("expected missing price warning, received %q", captured.String())
	}
}

func TestReset(t *testing.T) {
	t.Parallel()
	p, err := Setup(testSettings(), nil)
	require.NoError(t, err)

	require.NoError(t, p.PlaceOrder("AAPL", decimal.NewFromInt(10)))
	p.ProcessOrders(tn, prices("AAPL", 100))
	p.Reset()

	assert.True(t, p.Cash().Equal(decimal.NewFromInt(10000)))
	assert.Empty(t, p.Positions())
	assert.Empty(t, p.Trades())
	assert.Empty(t, p.PendingOrders())
}
