// Package forecast discovers recurring transactions in a ledger and simulates
// future cash flow from them.
//
// Every stage is a pure function of its inputs: grouping, scoring and
// classification answer the recurring-bill listing on their own, while
// projection, simulation and risk detection extend them into a forecast.
package forecast

import (
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// Engine runs the detection and forecast stages with a fixed configuration.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine initializes an engine with the given configuration
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the configuration the engine runs with
func (e *Engine) Config() Config {
	return e.cfg
}

// DetectPatterns groups the transactions and classifies the groups under profile p.
func (e *Engine) DetectPatterns(txs []models.Transaction, p Profile) []models.RecurringPattern {
	return e.Classify(e.Group(txs), p)
}

// Forecast runs the whole pipeline: detect patterns with the forecast profile,
// project them over the horizon starting today, simulate daily balances seeded
// with currentBalance and report the first risk event.
func (e *Engine) Forecast(txs []models.Transaction, currentBalance float64, now time.Time, months int) models.CashFlowForecast {
	today := Day(now)
	patterns := e.DetectPatterns(txs, e.cfg.Forecast)
	predictions := e.Project(patterns, today, today.AddDate(0, months, 0))
	entries := e.Simulate(predictions, currentBalance, today, months)
	return models.CashFlowForecast{
		Predictions:   entries,
		OverdraftRisk: e.DetectRisk(entries),
	}
}

// ForecastRange is the history window read for a forecast made at now
func (e *Engine) ForecastRange(now time.Time) models.DateRange {
	today := Day(now)
	return models.DateRange{From: today.AddDate(0, 0, -e.cfg.ForecastLookbackDays), To: today.AddDate(0, 0, 1)}
}

// BillRange is the default history window for the recurring-bill listing
func (e *Engine) BillRange(now time.Time) models.DateRange {
	return e.BillRangeMonths(now, e.cfg.BillLookbackMonths)
}

// BillRangeMonths is the listing window covering the last months months
func (e *Engine) BillRangeMonths(now time.Time, months int) models.DateRange {
	today := Day(now)
	return models.DateRange{From: today.AddDate(0, -months, 0), To: today.AddDate(0, 0, 1)}
}

// Day truncates t to its calendar date at midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// dayNumber counts whole days since the Unix epoch for the calendar date of t.
func dayNumber(t time.Time) int64 {
	return Day(t).Unix() / 86400
}
