package strategies

import (
	"fmt"
	"strings"

	"backsim/strategies/base"
	"backsim/strategies/buyandhold"
	"backsim/strategies/momentum"
	"backsim/strategies/movingaverage"
)

// LoadStrategy returns the strategy matching name, configured from settings.
// Matching is case insensitive
func LoadStrategy(name string, settings Settings) (base.Handler, error) {
	switch strings.ToLower(name) {
	case movingaverage.Name:
		return movingaverage.Setup(settings.ShortWindow, settings.LongWindow)
	case buyandhold.Name:
		return buyandhold.Setup(settings.InitialCash)
	case momentum.Name:
		return momentum.Setup(settings.Lookback)
	}
	return nil, fmt.Errorf("%w '%v', expected one of %v", ErrNotFound, name, Names())
}

// Names lists every loadable strategy
func Names() []string {
	return []string{movingaverage.Name, buyandhold.Name, momentum.Name}
}
