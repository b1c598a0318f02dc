package config

import "errors"

var (
	// ErrNoSymbols is returned when the data section names no symbols
	ErrNoSymbols = errors.New("no symbols configured")
	// ErrNoDataDirectory is returned when the bar data directory is unset
	ErrNoDataDirectory = errors.New("no data directory configured")
	// ErrNoStrategy is returned when no strategy name is configured
	ErrNoStrategy = errors.New("no strategy configured")
	// ErrBadValue is returned when a numeric setting fails validation
	ErrBadValue = errors.New("invalid configuration value")
)

// Config is the top level simulation configuration, loaded from JSON
type Config struct {
	Strategy   StrategySettings   `json:"strategy"`
	Portfolio  PortfolioSettings  `json:"portfolio"`
	Data       DataSettings       `json:"data"`
	Statistics StatisticSettings  `json:"statistics"`
	API        APISettings        `json:"api"`
	Database   DatabaseSettings   `json:"database"`
}

// StrategySettings selects and tunes the strategy under test
type StrategySettings struct {
	Name        string `json:"name"`
	ShortWindow int    `json:"shortWindow"`
	LongWindow  int    `json:"longWindow"`
	Lookback    int    `json:"lookback"`
}

// PortfolioSettings holds the starting balance and cost model
type PortfolioSettings struct {
	InitialCash     float64 `json:"initialCash"`
	CommissionRate  float64 `json:"commissionRate"`
	SlippageRate    float64 `json:"slippageRate"`
	StopLossEnabled bool    `json:"stopLossEnabled"`
	StopLossPct     float64 `json:"stopLossPct"`
}

// DataSettings points at the bar data to replay
type DataSettings struct {
	Directory string   `json:"directory"`
	Symbols   []string `json:"symbols"`
	Benchmark string   `json:"benchmark"`
}

// StatisticSettings tunes the risk figures computed after the run
type StatisticSettings struct {
	RiskFreeRate   float64 `json:"riskFreeRate"`
	PeriodsPerYear float64 `json:"periodsPerYear"`
	Confidence     float64 `json:"confidence"`
}

// APISettings controls the report server
type APISettings struct {
	Enabled       bool   `json:"enabled"`
	ListenAddress string `json:"listenAddress"`
}

// DatabaseSettings controls run persistence
type DatabaseSettings struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}
