package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrNilReport is returned when persisting a nil report
	ErrNilReport = errors.New("nil report received")
	// ErrRunNotFound is returned when no run matches the requested id
	ErrRunNotFound = errors.New("run not found")
)

// Run is the persisted summary of a completed simulation
type Run struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	StrategyName   string    `gorm:"index" json:"strategyName"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	InitialCash    float64   `json:"initialCash"`
	FinalEquity    float64   `json:"finalEquity"`
	TotalReturn    float64   `json:"totalReturn"`
	CAGR           float64   `json:"cagr"`
	SharpeRatio    float64   `json:"sharpeRatio"`
	SortinoRatio   float64   `json:"sortinoRatio"`
	MaxDrawdown    float64   `json:"maxDrawdown"`
	CalmarRatio    float64   `json:"calmarRatio"`
	ValueAtRisk    float64   `json:"valueAtRisk"`
	ConditionalVaR float64   `json:"conditionalVaR"`
	Alpha          float64   `json:"alpha"`
	Beta           float64   `json:"beta"`
	TradeCount     int       `json:"tradeCount"`
	CreatedAt      time.Time `json:"createdAt"`
}

// TradeRecord is one persisted fill belonging to a run
type TradeRecord struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID         string    `gorm:"index" json:"runId"`
	OrderID       uint64    `json:"orderId"`
	Symbol        string    `json:"symbol"`
	Quantity      float64   `json:"quantity"`
	Price         float64   `json:"price"`
	AdjustedPrice float64   `json:"adjustedPrice"`
	Commission    float64   `json:"commission"`
	CashAfter     float64   `json:"cashAfter"`
	Time          time.Time `json:"time"`
}

// Repository persists runs and their trade ledgers to sqlite
type Repository struct {
	db *gorm.DB
}
