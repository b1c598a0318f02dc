package portfolio

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"backsim/log"
)

var one = decimal.NewFromInt(1)

// Setup validates settings and returns a portfolio ready to trade. events
// receives a FillEvent for every executed trade and may be nil
func Setup(settings Settings, events EventAppender) (*Portfolio, error) {
	if settings.InitialCash.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: initial cash must be positive", ErrInvalidSettings)
	}
	if settings.CommissionRate.IsNegative() {
		return nil, fmt.Errorf("%w: commission rate cannot be negative", ErrInvalidSettings)
	}
	if settings.SlippageRate.IsNegative() {
		return nil, fmt.Errorf("%w: slippage rate cannot be negative", ErrInvalidSettings)
	}
	if settings.StopLossEnabled &&
		(settings.StopLossPct.LessThanOrEqual(decimal.Zero) || settings.StopLossPct.GreaterThanOrEqual(one)) {
		return nil, fmt.Errorf("%w: stop loss pct must be in (0, 1)", ErrInvalidSettings)
	}
	return &Portfolio{
		settings:   settings,
		cash:       settings.InitialCash,
		positions:  make(map[string]decimal.Decimal),
		stopLevels: make(map[string]decimal.Decimal),
		events:     events,
	}, nil
}

// PlaceOrder queues a market order. Quantity is signed, positive to buy and
// negative to sell. The order rests until the next processing pass
func (p *Portfolio) PlaceOrder(symbol string, quantity decimal.Decimal) error {
	_, err := p.addOrder(symbol, quantity, Market, decimal.Zero)
	return err
}

// Buy queues a market buy for a positive quantity of shares
func (p *Portfolio) Buy(symbol string, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w for %v", ErrInvalidQuantity, symbol)
	}
	return p.PlaceOrder(symbol, quantity)
}

// Sell queues a market sell for a positive quantity of shares
func (p *Portfolio) Sell(symbol string, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w for %v", ErrInvalidQuantity, symbol)
	}
	return p.PlaceOrder(symbol, quantity.Neg())
}

// PlaceLimitOrder queues a limit order which fills only once the market price
// satisfies the limit
func (p *Portfolio) PlaceLimitOrder(symbol string, quantity, limitPrice decimal.Decimal) (*Order, error) {
	if limitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w, received %v", ErrInvalidLimitPrice, limitPrice)
	}
	return p.addOrder(symbol, quantity, Limit, limitPrice)
}

func (p *Portfolio) addOrder(symbol string, quantity decimal.Decimal, kind OrderKind, limitPrice decimal.Decimal) (*Order, error) {
	if quantity.IsZero() {
		return nil, fmt.Errorf("%w for %v", ErrInvalidQuantity, symbol)
	}
	p.orderCounter++
	o := &Order{
		ID:         p.orderCounter,
		Symbol:     symbol,
		Kind:       kind,
		Quantity:   quantity,
		LimitPrice: limitPrice,
		Status:     Pending,
		CreatedAt:  time.Now().UTC(),
	}
	p.pendingOrders = append(p.pendingOrders, o)
	log.Debugf(log.Portfolio, "order %v placed: %v %v %v", o.ID, o.Kind, o.Quantity, o.Symbol)
	return o, nil
}

// CancelOrder cancels a pending order by id
func (p *Portfolio) CancelOrder(id uint64) error {
	for _, o := range p.pendingOrders {
		if o.ID == id && o.Status == Pending {
			o.Status = Cancelled
			p.prunePending()
			return nil
		}
	}
	return fmt.Errorf("%w, id %v", ErrOrderNotFound, id)
}

// ProcessOrders walks the pending book in placement order against current
// prices. Market orders fill immediately, limit orders fill when the price
// satisfies the limit and orders whose symbol has no price rest until the
// next pass. Rejected fills cancel the order rather than erroring the run
func (p *Portfolio) ProcessOrders(t time.Time, prices map[string]decimal.Decimal) {
	for _, o := range p.pendingOrders {
		price, ok := prices[o.Symbol]
		if !ok {
			continue
		}
		if o.Kind == Limit && !limitSatisfied(o, price) {
			continue
		}
		if err := p.execute(o, price, t, false); err != nil {
			log.Warnf(log.Portfolio, "order %v rejected: %v", o.ID, err)
		}
	}
	p.prunePending()
}

func limitSatisfied(o *Order, price decimal.Decimal) bool {
	if o.Quantity.IsPositive() {
		return price.LessThanOrEqual(o.LimitPrice)
	}
	return price.GreaterThanOrEqual(o.LimitPrice)
}

// execute settles an order at the given raw price, applying slippage and
// commission, and emits the resulting trade
func (p *Portfolio) execute(o *Order, price decimal.Decimal, t time.Time, stopLoss bool) error {
	if o.Quantity.IsPositive() {
		return p.executeBuy(o, price, t)
	}
	return p.executeSell(o, price, t, stopLoss)
}

func (p *Portfolio) executeBuy(o *Order, price decimal.Decimal, t time.Time) error {
	adjusted := price.Mul(one.Add(p.settings.SlippageRate))
	cost := adjusted.Mul(o.Quantity)
	commission := cost.Mul(p.settings.CommissionRate)
	total := cost.Add(commission)
	if p.cash.LessThan(total) {
		o.Status = Cancelled
		return fmt.Errorf("%w: need %v, have %v", ErrInsufficientFunds, total, p.cash)
	}
	p.cash = p.cash.Sub(total)
	p.positions[o.Symbol] = p.positions[o.Symbol].Add(o.Quantity)
	if p.settings.StopLossEnabled {
		p.stopLevels[o.Symbol] = adjusted.Mul(one.Sub(p.settings.StopLossPct))
	}
	o.Status = Filled
	o.FillPrice = adjusted
	o.FillQuantity = o.Quantity
	p.recordTrade(o, price, adjusted, commission, t, false)
	return nil
}

func (p *Portfolio) executeSell(o *Order, price decimal.Decimal, t time.Time, stopLoss bool) error {
	sellQty := o.Quantity.Neg()
	if p.positions[o.Symbol].LessThan(sellQty) {
		o.Status = Cancelled
		return fmt.Errorf("%w: selling %v, holding %v %v", ErrInsufficientHoldings, sellQty, p.positions[o.Symbol], o.Symbol)
	}
	adjusted := price.Mul(one.Sub(p.settings.SlippageRate))
	proceeds := adjusted.Mul(sellQty)
	commission := proceeds.Mul(p.settings.CommissionRate)
	p.cash = p.cash.Add(proceeds.Sub(commission))
	remaining := p.positions[o.Symbol].Sub(sellQty)
	if remaining.IsZero() {
		delete(p.positions, o.Symbol)
		delete(p.stopLevels, o.Symbol)
	} else {
		p.positions[o.Symbol] = remaining
	}
	o.Status = Filled
	o.FillPrice = adjusted
	o.FillQuantity = o.Quantity
	p.recordTrade(o, price, adjusted, commission, t, stopLoss)
	return nil
}

func (p *Portfolio) recordTrade(o *Order, price, adjusted, commission decimal.Decimal, t time.Time, stopLoss bool) {
	p.tradeCounter++
	trade := Trade{
		ID:            p.tradeCounter,
		OrderID:       o.ID,
		Symbol:        o.Symbol,
		Quantity:      o.Quantity,
		Price:         price,
		AdjustedPrice: adjusted,
		Commission:    commission,
		CashAfter:     p.cash,
		Time:          t,
	}
	p.trades = append(p.trades, trade)
	log.Infof(log.Portfolio, "filled %v %v @ %v (adjusted %v, commission %v), cash %v",
		o.Quantity, o.Symbol, price, adjusted, commission, p.cash)
	if p.events != nil {
		p.events.AppendEvent(FillEvent{
			Time:          t,
			Symbol:        o.Symbol,
			Quantity:      o.Quantity,
			Price:         price,
			AdjustedPrice: adjusted,
			Commission:    commission,
			StopLoss:      stopLoss,
		})
	}
}

func (p *Portfolio) prunePending() {
	kept := p.pendingOrders[:0]
	for _, o := range p.pendingOrders {
		if o.Status == Pending {
			kept = append(kept, o)
		}
	}
	p.pendingOrders = kept
}

// CheckStopLosses sells out every position whose price has fallen to or below
// its stop level. The exit is a market sell of the full position at the
// current price
func (p *Portfolio) CheckStopLosses(t time.Time, prices map[string]decimal.Decimal) {
	if !p.settings.StopLossEnabled {
		return
	}
	symbols := make([]string, 0, len(p.stopLevels))
	for symbol := range p.stopLevels {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		trigger := p.stopLevels[symbol]
		price, ok := prices[symbol]
		if !ok || price.GreaterThan(trigger) {
			continue
		}
		held := p.positions[symbol]
		if held.LessThanOrEqual(decimal.Zero) {
			delete(p.stopLevels, symbol)
			continue
		}
		log.Warnf(log.Portfolio, "stop loss hit on %v: price %v <= trigger %v", symbol, price, trigger)
		p.orderCounter++
		o := &Order{
			ID:        p.orderCounter,
			Symbol:    symbol,
			Kind:      Market,
			Quantity:  held.Neg(),
			Status:    Pending,
			CreatedAt: t,
		}
		if err := p.execute(o, price, t, true); err != nil {
			log.Errorf(log.Portfolio, "stop loss exit failed for %v: %v", symbol, err)
		}
	}
}

// TotalValue returns cash plus the market value of every open position. A
// held symbol without a price is excluded from the total and warned about, so
// the figure understates the portfolio until that symbol trades again
func (p *Portfolio) TotalValue(prices map[string]decimal.Decimal) decimal.Decimal {
	total := p.cash
	for symbol, qty := range p.positions {
		price, ok := prices[symbol]
		if !ok {
			log.Warnf(log.Portfolio, "no price for held symbol %v, excluding %v shares from total value", symbol, qty)
			continue
		}
		total = total.Add(qty.Mul(price))
	}
	return total
}

// Cash returns the available cash balance
func (p *Portfolio) Cash() decimal.Decimal {
	return p.cash
}

// Position returns the held quantity for a symbol, zero if none
func (p *Portfolio) Position(symbol string) decimal.Decimal {
	return p.positions[symbol]
}

// Positions returns a copy of all open positions
func (p *Portfolio) Positions() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(p.positions))
	for symbol, qty := range p.positions {
		out[symbol] = qty
	}
	return out
}

// StopLevel returns the stop loss trigger price for a symbol
func (p *Portfolio) StopLevel(symbol string) (decimal.Decimal, bool) {
	level, ok := p.stopLevels[symbol]
	return level, ok
}

// PendingOrders returns a copy of the resting order book
func (p *Portfolio) PendingOrders() []Order {
	out := make([]Order, len(p.pendingOrders))
	for i := range p.pendingOrders {
		out[i] = *p.pendingOrders[i]
	}
	return out
}

// Trades returns the executed trade ledger in fill order
func (p *Portfolio) Trades() []Trade {
	out := make([]Trade, len(p.trades))
	copy(out, p.trades)
	return out
}

// Reset returns the portfolio to its starting state, keeping settings
func (p *Portfolio) Reset() {
	p.cash = p.settings.InitialCash
	p.positions = make(map[string]decimal.Decimal)
	p.stopLevels = make(map[string]decimal.Decimal)
	p.pendingOrders = nil
	p.trades = nil
	p.orderCounter = 0
	p.tradeCounter = 0
}
