package repository

import (
	"fmt"

	"github.com/gofrs/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"backsim/log"
	"backsim/portfolio"
	"backsim/statistics"
)

// Setup opens the sqlite database at path, creating the schema when absent
func Setup(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("could not open database %v: %w", path, err)
	}
	if err = db.AutoMigrate(&Run{}, &TradeRecord{}); err != nil {
		return nil, fmt.Errorf("could not migrate schema: %w", err)
	}
	return &Repository{db: db}, nil
}

// SaveRun persists a run's report and trade ledger, returning the new run id
func (r *Repository) SaveRun(report *statistics.Report, trades []portfolio.Trade) (string, error) {
	if report == nil {
		return "", ErrNilReport
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	run := &Run{
		ID:             id.String(),
		StrategyName:   report.StrategyName,
		StartTime:      report.StartTime,
		EndTime:        report.EndTime,
		InitialCash:    report.InitialCash,
		FinalEquity:    report.FinalEquity,
		TotalReturn:    report.TotalReturn,
		CAGR:           report.CAGR,
		SharpeRatio:    report.SharpeRatio,
		SortinoRatio:   float64(report.SortinoRatio),
		MaxDrawdown:    report.MaxDrawdown,
		CalmarRatio:    float64(report.CalmarRatio),
		ValueAtRisk:    report.ValueAtRisk,
		ConditionalVaR: report.ConditionalVaR,
		Alpha:          report.Alpha,
		Beta:           report.Beta,
		TradeCount:     report.TradeCount,
	}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for i := range trades {
			record := TradeRecord{
				RunID:         run.ID,
				OrderID:       trades[i].OrderID,
				Symbol:        trades[i].Symbol,
				Quantity:      trades[i].Quantity.InexactFloat64(),
				Price:         trades[i].Price.InexactFloat64(),
				AdjustedPrice: trades[i].AdjustedPrice.InexactFloat64(),
				Commission:    trades[i].Commission.InexactFloat64(),
				CashAfter:     trades[i].CashAfter.InexactFloat64(),
				Time:          trades[i].Time,
			}
			if err := tx.Create(&record).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Infof(log.Database, "saved run %v with %v trades", run.ID, len(trades))
	return run.ID, nil
}

// GetRun fetches a persisted run by id
func (r *Repository) GetRun(id string) (*Run, error) {
	var run Run
	err := r.db.First(&run, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w, id %v", ErrRunNotFound, id)
		}
		return nil, err
	}
	return &run, nil
}

// ListRuns returns all persisted runs, newest first
func (r *Repository) ListRuns() ([]Run, error) {
	var runs []Run
	err := r.db.Order("created_at desc").Find(&runs).Error
	return runs, err
}

// GetTrades returns a run's trade ledger in fill order
func (r *Repository) GetTrades(runID string) ([]TradeRecord, error) {
	var trades []TradeRecord
	err := r.db.Where("run_id = ?", runID).Order("id asc").Find(&trades).Error
	return trades, err
}

// Close releases the underlying connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
