package market

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"backsim/data"
	"backsim/log"
)

// Setup builds a market from per-symbol bar series. feed maps a symbol to its
// bars which need not be sorted or aligned across symbols. benchmark names the
// symbol whose close is used as the comparison series and may be empty
func Setup(feed map[string][]data.Bar, benchmark string) (*Market, error) {
	m := &Market{
		bars:       make(map[string]map[int64]data.Bar),
		benchmark:  benchmark,
		lastPrices: make(map[string]decimal.Decimal),
	}
	stamps := make(map[int64]time.Time)
	for symbol, bars := range feed {
		if len(bars) == 0 {
			continue
		}
		sorted := make([]data.Bar, len(bars))
		copy(sorted, bars)
		data.SortBars(sorted)
		bySymbol := make(map[int64]data.Bar, len(sorted))
		for i := range sorted {
			u := sorted[i].Time.UnixNano()
			bySymbol[u] = sorted[i]
			stamps[u] = sorted[i].Time
		}
		m.bars[symbol] = bySymbol
		m.symbols = append(m.symbols, symbol)
	}
	if len(m.symbols) == 0 {
		return nil, ErrNoData
	}
	sort.Strings(m.symbols)
	m.timeline = make([]time.Time, 0, len(stamps))
	for _, t := range stamps {
		m.timeline = append(m.timeline, t)
	}
	sort.Slice(m.timeline, func(i, j int) bool {
		return m.timeline[i].Before(m.timeline[j])
	})
	log.Debugf(log.Market, "loaded %v symbols across %v timestamps", len(m.symbols), len(m.timeline))
	return m, nil
}

// Next advances the replay one timestamp and returns the bars that traded on
// it. ok is false once the timeline is exhausted
func (m *Market) Next() (time.Time, data.Snapshot, bool) {
	if m.cursor >= len(m.timeline) {
		return time.Time{}, nil, false
	}
	t := m.timeline[m.cursor]
	m.cursor++
	snapshot := m.snapshotAt(t)
	for symbol, bar := range snapshot {
		m.lastPrices[symbol] = bar.Close
	}
	if m.benchmark != "" {
		if b, ok := snapshot[m.benchmark]; ok {
			m.lastBenchmark = b
			m.hasBenchmark = true
		}
	}
	return t, snapshot, true
}

// CurrentTime returns the timestamp of the most recent tick served by Next
func (m *Market) CurrentTime() (time.Time, error) {
	if m.cursor == 0 {
		return time.Time{}, ErrNoData
	}
	if m.cursor > len(m.timeline) {
		return time.Time{}, ErrExhausted
	}
	return m.timeline[m.cursor-1], nil
}

// CurrentPrices returns the latest close of every symbol that has traded so
// far, forward filled across ticks the symbol was absent from. Before the
// first Next the mapping is empty
func (m *Market) CurrentPrices() map[string]decimal.Decimal {
	prices := make(map[string]decimal.Decimal, len(m.lastPrices))
	for symbol, price := range m.lastPrices {
		prices[symbol] = price
	}
	return prices
}

// BenchmarkPrice returns the benchmark close for the current tick, forward
// filled from the last tick the benchmark traded on. ok is false before the
// benchmark's first bar or when no benchmark is configured
func (m *Market) BenchmarkPrice() (decimal.Decimal, bool) {
	if !m.hasBenchmark {
		return decimal.Zero, false
	}
	return m.lastBenchmark.Close, true
}

// Symbols returns the symbols loaded into the market in sorted order
func (m *Market) Symbols() []string {
	out := make([]string, len(m.symbols))
	copy(out, m.symbols)
	return out
}

// Remaining reports how many timestamps are left to replay
func (m *Market) Remaining() int {
	return len(m.timeline) - m.cursor
}

// Reset rewinds the replay to before the first timestamp
func (m *Market) Reset() {
	m.cursor = 0
	m.lastPrices = make(map[string]decimal.Decimal)
	m.lastBenchmark = data.Bar{}
	m.hasBenchmark = false
}

func (m *Market) snapshotAt(t time.Time) data.Snapshot {
	u := t.UnixNano()
	snapshot := make(data.Snapshot)
	for _, symbol := range m.symbols {
		if bar, ok := m.bars[symbol][u]; ok {
			snapshot[symbol] = bar
		}
	}
	return snapshot
}
