package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// Simulate walks one calendar day at a time over [today, today+months),
// applying the predictions dated on each day to a running balance seeded with
// currentBalance. Every day gets an entry, including days without activity.
func (e *Engine) Simulate(predictions []models.PredictedTransaction, currentBalance float64, today time.Time, months int) []models.DailyBalanceEntry {
	start := Day(today)
	end := start.AddDate(0, months, 0)

	byDay := make(map[int64][]models.PredictedTransaction)
	for _, p := range predictions {
		day := dayNumber(p.Date)
		byDay[day] = append(byDay[day], p)
	}

	balance := decimal.NewFromFloat(currentBalance)
	var entries []models.DailyBalanceEntry
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		income, expense := decimal.Zero, decimal.Zero
		dayPredictions := byDay[dayNumber(d)]
		for _, p := range dayPredictions {
			amount := decimal.NewFromFloat(p.Amount)
			if p.Type == models.TransactionIncome {
				income = income.Add(amount)
			} else {
				expense = expense.Add(amount)
			}
		}
		balance = balance.Add(income).Sub(expense)

		if dayPredictions == nil {
			dayPredictions = []models.PredictedTransaction{}
		}
		entries = append(entries, models.DailyBalanceEntry{
			Date:           d,
			RunningBalance: balance.Round(2).InexactFloat64(),
			Income:         income.Round(2).InexactFloat64(),
			Expense:        expense.Round(2).InexactFloat64(),
			Predictions:    dayPredictions,
		})
	}
	return entries
}
