package config

import (
	"encoding/json"
	"fmt"
	"os"

	"backsim/strategies/momentum"
	"backsim/strategies/movingaverage"
)

// Default returns a configuration with the conventional simulation defaults
func Default() *Config {
	return &Config{
		Strategy: StrategySettings{
			Name:        movingaverage.Name,
			ShortWindow: 10,
			LongWindow:  30,
			Lookback:    20,
		},
		Portfolio: PortfolioSettings{
			InitialCash:    100000,
			CommissionRate: 0.001,
			SlippageRate:   0.0005,
			StopLossPct:    0.05,
		},
		Data: DataSettings{
			Directory: "data",
		},
		Statistics: StatisticSettings{
			PeriodsPerYear: 252,
			Confidence:     0.95,
		},
		API: APISettings{
			ListenAddress: "localhost:9051",
		},
		Database: DatabaseSettings{
			Path: "backsim.db",
		},
	}
}

// ReadConfigFromFile loads and validates a configuration from a JSON file
func ReadConfigFromFile(path string) (*Config, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfig(fileData)
}

// LoadConfig parses raw JSON over the defaults and validates the result
func LoadConfig(raw []byte) (*Config, error) {
	cfg := Default()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is runnable
func (c *Config) Validate() error {
	if c.Strategy.Name == "" {
		return ErrNoStrategy
	}
	if c.Data.Directory == "" {
		return ErrNoDataDirectory
	}
	if len(c.Data.Symbols) == 0 {
		return ErrNoSymbols
	}
	if c.Portfolio.InitialCash <= 0 {
		return fmt.Errorf("%w: initial cash %v", ErrBadValue, c.Portfolio.InitialCash)
	}
	if c.Portfolio.CommissionRate < 0 {
		return fmt.Errorf("%w: commission rate %v", ErrBadValue, c.Portfolio.CommissionRate)
	}
	if c.Portfolio.SlippageRate < 0 {
		return fmt.Errorf("%w: slippage rate %v", ErrBadValue, c.Portfolio.SlippageRate)
	}
	if c.Portfolio.StopLossEnabled && (c.Portfolio.StopLossPct <= 0 || c.Portfolio.StopLossPct >= 1) {
		return fmt.Errorf("%w: stop loss pct %v", ErrBadValue, c.Portfolio.StopLossPct)
	}
	if c.Strategy.Name == movingaverage.Name &&
		(c.Strategy.ShortWindow <= 0 || c.Strategy.ShortWindow >= c.Strategy.LongWindow) {
		return fmt.Errorf("%w: windows short %v long %v", ErrBadValue, c.Strategy.ShortWindow, c.Strategy.LongWindow)
	}
	if c.Strategy.Name == momentum.Name && c.Strategy.Lookback <= 0 {
		return fmt.Errorf("%w: lookback %v", ErrBadValue, c.Strategy.Lookback)
	}
	if c.Statistics.PeriodsPerYear <= 0 {
		return fmt.Errorf("%w: periods per year %v", ErrBadValue, c.Statistics.PeriodsPerYear)
	}
	if c.Statistics.Confidence <= 0 || c.Statistics.Confidence >= 1 {
		return fmt.Errorf("%w: confidence %v", ErrBadValue, c.Statistics.Confidence)
	}
	return nil
}
