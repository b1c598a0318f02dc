package engine

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"backsim/common"
	"backsim/config"
	"backsim/data/csv"
	"backsim/database/repository"
	"backsim/eventholder"
	"backsim/log"
	"backsim/market"
	"backsim/portfolio"
	"backsim/statistics"
	"backsim/strategies"
	"backsim/strategies/base"
)

// Setup wires pre-built components into a runnable backtest
func Setup(m *market.Market, p *portfolio.Portfolio, s base.Handler, st *statistics.Statistic, q *eventholder.Holder) (*BackTest, error) {
	if m == nil || p == nil || s == nil || st == nil || q == nil {
		return nil, common.ErrNilArguments
	}
	return &BackTest{
		market:     m,
		portfolio:  p,
		strategy:   s,
		statistic:  st,
		eventQueue: q,
	}, nil
}

// NewFromConfig loads bar data and builds every component a run needs from
// the supplied configuration
func NewFromConfig(cfg *config.Config) (*BackTest, error) {
	if cfg == nil {
		return nil, common.ErrNilArguments
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	feed, err := csv.LoadBarsForSymbols(cfg.Data.Directory, cfg.Data.Symbols)
	if err != nil {
		return nil, fmt.Errorf("could not load bar data: %w", err)
	}
	m, err := market.Setup(feed, cfg.Data.Benchmark)
	if err != nil {
		return nil, err
	}

	queue := &eventholder.Holder{}
	p, err := portfolio.Setup(portfolio.Settings{
		InitialCash:     decimal.NewFromFloat(cfg.Portfolio.InitialCash),
		CommissionRate:  decimal.NewFromFloat(cfg.Portfolio.CommissionRate),
		SlippageRate:    decimal.NewFromFloat(cfg.Portfolio.SlippageRate),
		StopLossEnabled: cfg.Portfolio.StopLossEnabled,
		StopLossPct:     decimal.NewFromFloat(cfg.Portfolio.StopLossPct),
	}, queue)
	if err != nil {
		return nil, err
	}

	s, err := strategies.LoadStrategy(cfg.Strategy.Name, strategies.Settings{
		ShortWindow: cfg.Strategy.ShortWindow,
		LongWindow:  cfg.Strategy.LongWindow,
		Lookback:    cfg.Strategy.Lookback,
		InitialCash: decimal.NewFromFloat(cfg.Portfolio.InitialCash),
	})
	if err != nil {
		return nil, err
	}

	st := statistics.Setup(s.Name(), cfg.Portfolio.InitialCash)
	st.RiskFreeRate = cfg.Statistics.RiskFreeRate
	st.PeriodsPerYear = cfg.Statistics.PeriodsPerYear
	st.Confidence = cfg.Statistics.Confidence

	bt, err := Setup(m, p, s, st, queue)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Enabled {
		bt.repository, err = repository.Setup(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
	}
	log.Infof(log.Engine, "backtest configured: strategy %v, %v symbols, %v ticks",
		s.Name(), len(m.Symbols()), m.Remaining())
	return bt, nil
}

// SubscribeFills registers a callback invoked for every fill in tick order
func (bt *BackTest) SubscribeFills(fn func(portfolio.FillEvent)) {
	if fn == nil {
		return
	}
	bt.fillSubs = append(bt.fillSubs, fn)
}

// Step advances the simulation a single tick. ok is false once the market
// data is exhausted
func (bt *BackTest) Step() (bool, error) {
	t, snapshot, ok := bt.market.Next()
	if !ok {
		return false, nil
	}
	prices := bt.market.CurrentPrices()
	equity := bt.portfolio.TotalValue(prices)
	benchmark, hasBenchmark := bt.market.BenchmarkPrice()
	bt.statistic.AddEquitySample(t, equity.InexactFloat64(), benchmark.InexactFloat64(), hasBenchmark)

	bt.portfolio.CheckStopLosses(t, prices)
	bt.portfolio.ProcessOrders(t, prices)

	if err := bt.strategy.OnTick(snapshot, bt.portfolio); err != nil {
		return false, fmt.Errorf("strategy %v: %w", bt.strategy.Name(), err)
	}

	bt.drainEvents()
	return true, nil
}

// drainEvents flushes queued fill events to subscribers
func (bt *BackTest) drainEvents() {
	for !bt.eventQueue.IsEmpty() {
		e := bt.eventQueue.NextEvent()
		fill, ok := e.(portfolio.FillEvent)
		if !ok {
			continue
		}
		for i := range bt.fillSubs {
			bt.fillSubs[i](fill)
		}
	}
}

// Run replays the full market timeline and computes the run's results,
// persisting them when a repository is configured
func (bt *BackTest) Run(ctx context.Context) (*statistics.Report, error) {
	if bt.hasRun {
		return nil, ErrAlreadyRan
	}
	bt.hasRun = true
	log.Infof(log.Engine, "running %v over %v ticks", bt.strategy.Name(), bt.market.Remaining())
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := bt.Step()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
	}

	trades := bt.portfolio.Trades()
	bt.statistic.TradeCount = len(trades)
	report, err := bt.statistic.CalculateResults()
	if err != nil {
		return nil, err
	}
	bt.statistic.PrintResults(report)

	if bt.repository != nil {
		runID, err := bt.repository.SaveRun(report, trades)
		if err != nil {
			return nil, fmt.Errorf("could not persist run: %w", err)
		}
		log.Infof(log.Engine, "run persisted as %v", runID)
	}
	return report, nil
}

// Portfolio exposes the run's portfolio for inspection
func (bt *BackTest) Portfolio() *portfolio.Portfolio {
	return bt.portfolio
}

// Repository returns the configured run store, nil when persistence is off
func (bt *BackTest) Repository() *repository.Repository {
	return bt.repository
}

// Reset returns every component to its starting state so the backtest can
// run again
func (bt *BackTest) Reset() {
	bt.market.Reset()
	bt.portfolio.Reset()
	bt.strategy.Reset()
	bt.statistic.Reset()
	bt.eventQueue.Reset()
	bt.hasRun = false
}
