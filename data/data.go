package data

import "sort"

// SortBars sorts a bar series by timestamp ascending
func SortBars(bars []Bar) {
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.Before(bars[j].Time)
	})
}

// Symbols returns the symbols present in the snapshot, sorted for
// deterministic iteration
func (s Snapshot) Symbols() []string {
	symbols := make([]string, 0, len(s))
	for symbol := range s {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
