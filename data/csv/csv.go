package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"backsim/data"
)

const dateFormat = "2006-01-02"

var (
	errInvalidHeader = errors.New("csv header must be Date,Open,High,Low,Close,Volume")
	errInvalidRow    = errors.New("csv row could not be parsed")
)

// LoadBars reads an OHLCV bar series from a CSV file with the conventional
// Date,Open,High,Low,Close,Volume header. Rows may appear in any order; the
// result is sorted by timestamp. An empty file yields an empty, non-nil slice
// so callers can distinguish no-rows from read failures
func LoadBars(path string) ([]data.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadBars(f)
}

// ReadBars parses an OHLCV bar series from any reader carrying CSV data
func ReadBars(r io.Reader) ([]data.Bar, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []data.Bar{}, nil
		}
		return nil, err
	}
	if len(header) < 6 ||
		!strings.EqualFold(strings.TrimSpace(header[0]), "date") ||
		!strings.EqualFold(strings.TrimSpace(header[1]), "open") ||
		!strings.EqualFold(strings.TrimSpace(header[2]), "high") ||
		!strings.EqualFold(strings.TrimSpace(header[3]), "low") ||
		!strings.EqualFold(strings.TrimSpace(header[4]), "close") ||
		!strings.EqualFold(strings.TrimSpace(header[5]), "volume") {
		return nil, fmt.Errorf("%w, received %v", errInvalidHeader, header)
	}

	bars := []data.Bar{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		b, err := parseRow(record)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	data.SortBars(bars)
	return bars, nil
}

// LoadBarsForSymbols loads <symbol>.csv for every requested symbol from a
// directory. Symbols without a file are skipped rather than failing the whole
// feed; the caller decides whether an empty feed is fatal
func LoadBarsForSymbols(dir string, symbols []string) (map[string][]data.Bar, error) {
	feed := make(map[string][]data.Bar)
	for _, symbol := range symbols {
		path := filepath.Join(dir, symbol+".csv")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		bars, err := LoadBars(path)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", symbol, err)
		}
		if len(bars) > 0 {
			feed[symbol] = bars
		}
	}
	return feed, nil
}

func parseRow(record []string) (data.Bar, error) {
	if len(record) < 6 {
		return data.Bar{}, fmt.Errorf("%w, received %v", errInvalidRow, record)
	}
	t, err := parseTime(strings.TrimSpace(record[0]))
	if err != nil {
		return data.Bar{}, fmt.Errorf("%w: %v", errInvalidRow, err)
	}
	fields := make([]decimal.Decimal, 5)
	for i := range fields {
		fields[i], err = decimal.NewFromString(strings.TrimSpace(record[i+1]))
		if err != nil {
			return data.Bar{}, fmt.Errorf("%w: %v", errInvalidRow, err)
		}
	}
	return data.Bar{
		Time:   t,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}, nil
}

func parseTime(value string) (time.Time, error) {
	if t, err := time.Parse(dateFormat, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
