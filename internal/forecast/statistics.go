package forecast

import (
	"github.com/shopspring/decimal"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// averageMonthDays converts a custom cadence into a monthly equivalent
const averageMonthDays = 30

// RecurringBills classifies expense transactions with the bill profile and
// summarizes the recurring expenses found.
func (e *Engine) RecurringBills(txs []models.Transaction) models.RecurringBillsResponse {
	var expenses []models.RecurringPattern
	for _, p := range e.DetectPatterns(txs, e.cfg.Bill) {
		if p.Type == models.TransactionExpense {
			expenses = append(expenses, p)
		}
	}
	if expenses == nil {
		expenses = []models.RecurringPattern{}
	}
	return models.RecurringBillsResponse{
		RecurringExpenses: expenses,
		Statistics:        Summarize(expenses),
	}
}

// Summarize totals patterns per frequency and estimates the monthly budget as
// monthly + quarterly/3 + annual/12 + custom normalized to a 30-day month.
func Summarize(patterns []models.RecurringPattern) models.RecurringStatistics {
	monthly, quarterly, annual, custom := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, p := range patterns {
		amount := decimal.NewFromFloat(p.AverageAmount)
		switch p.FrequencyLabel {
		case models.FrequencyMonthly:
			monthly = monthly.Add(amount)
		case models.FrequencyQuarterly:
			quarterly = quarterly.Add(amount)
		case models.FrequencyAnnual:
			annual = annual.Add(amount)
		default:
			if p.AverageIntervalDays > 0 {
				custom = custom.Add(amount.Mul(decimal.NewFromInt(averageMonthDays)).
					Div(decimal.NewFromInt(int64(p.AverageIntervalDays))))
			}
		}
	}
	budget := monthly.
		Add(quarterly.Div(decimal.NewFromInt(3))).
		Add(annual.Div(decimal.NewFromInt(12))).
		Add(custom)

	return models.RecurringStatistics{
		TotalRecurringExpenses:  len(patterns),
		TotalMonthlyRecurring:   monthly.Round(2).InexactFloat64(),
		TotalQuarterlyRecurring: quarterly.Round(2).InexactFloat64(),
		TotalAnnualRecurring:    annual.Round(2).InexactFloat64(),
		EstimatedMonthlyBudget:  budget.Round(2).InexactFloat64(),
	}
}
