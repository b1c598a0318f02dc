package portfolio

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"backsim/common"
)

// OrderKind distinguishes how an order is matched against market prices
type OrderKind string

// OrderStatus tracks an order through its lifecycle
type OrderStatus string

const (
	// Market orders fill at the prevailing price on the next processing pass
	Market OrderKind = "MARKET"
	// Limit orders fill only when the price satisfies the limit
	Limit OrderKind = "LIMIT"

	// Pending orders await a matching price
	Pending OrderStatus = "PENDING"
	// Filled orders executed successfully
	Filled OrderStatus = "FILLED"
	// Cancelled orders were rejected or manually cancelled
	Cancelled OrderStatus = "CANCELLED"
)

var (
	// ErrInsufficientFunds is returned when a buy costs more than available cash
	ErrInsufficientFunds = errors.New("insufficient funds to execute buy")
	// ErrInsufficientHoldings is returned when a sell exceeds the held quantity
	ErrInsufficientHoldings = errors.New("insufficient holdings to execute sell")
	// ErrInvalidQuantity is returned when an order is placed with zero quantity
	ErrInvalidQuantity = errors.New("order quantity must be non-zero")
	// ErrInvalidLimitPrice is returned when a limit order carries a non-positive limit
	ErrInvalidLimitPrice = errors.New("limit price must be positive")
	// ErrOrderNotFound is returned when cancelling an unknown or settled order
	ErrOrderNotFound = errors.New("no pending order with that id")
	// ErrInvalidSettings is returned when portfolio settings fail validation
	ErrInvalidSettings = errors.New("invalid portfolio settings")
)

// Settings holds the simulation cost model and starting balance
type Settings struct {
	InitialCash     decimal.Decimal
	CommissionRate  decimal.Decimal
	SlippageRate    decimal.Decimal
	StopLossEnabled bool
	StopLossPct     decimal.Decimal
}

// Order is a request to change a position. Quantity is signed, positive to
// buy and negative to sell. FillPrice and FillQuantity are zero until the
// order fills; FillPrice is the slippage adjusted price the fill settled at
type Order struct {
	ID           uint64
	Symbol       string
	Kind         OrderKind
	Quantity     decimal.Decimal
	LimitPrice   decimal.Decimal
	Status       OrderStatus
	FillPrice    decimal.Decimal
	FillQuantity decimal.Decimal
	CreatedAt    time.Time
}

// Trade is the immutable record of an executed fill. Price is the raw market
// price, AdjustedPrice includes slippage and CashAfter the balance once
// commission settled
type Trade struct {
	ID            uint64
	OrderID       uint64
	Symbol        string
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	AdjustedPrice decimal.Decimal
	Commission    decimal.Decimal
	CashAfter     decimal.Decimal
	Time          time.Time
}

// FillEvent is emitted onto the event queue for every executed trade
type FillEvent struct {
	Time          time.Time
	Symbol        string
	Quantity      decimal.Decimal
	Price         decimal.Decimal
	AdjustedPrice decimal.Decimal
	Commission    decimal.Decimal
	StopLoss      bool
}

// GetTime returns the fill timestamp
func (f FillEvent) GetTime() time.Time { return f.Time }

// GetSymbol returns the symbol the fill occurred on
func (f FillEvent) GetSymbol() string { return f.Symbol }

// EventAppender receives fill events as they occur
type EventAppender interface {
	AppendEvent(common.Event)
}

// Portfolio tracks cash, open positions, pending orders and the trade ledger
// for a simulation run
type Portfolio struct {
	settings      Settings
	cash          decimal.Decimal
	positions     map[string]decimal.Decimal
	stopLevels    map[string]decimal.Decimal
	pendingOrders []*Order
	trades        []Trade
	orderCounter  uint64
	tradeCounter  uint64
	events        EventAppender
}
