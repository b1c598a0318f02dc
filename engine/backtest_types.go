package engine

import (
	"errors"

	"backsim/database/repository"
	"backsim/eventholder"
	"backsim/market"
	"backsim/portfolio"
	"backsim/statistics"
	"backsim/strategies/base"
)

// ErrAlreadyRan is returned when Run is called again without a Reset
var ErrAlreadyRan = errors.New("backtest already ran, reset before running again")

// BackTest drives a single simulation run, advancing the market one tick at a
// time and coordinating the portfolio, strategy and statistics
type BackTest struct {
	market     *market.Market
	portfolio  *portfolio.Portfolio
	strategy   base.Handler
	statistic  *statistics.Statistic
	eventQueue *eventholder.Holder
	repository *repository.Repository

	fillSubs []func(portfolio.FillEvent)
	hasRun   bool
}
