package repository

import (
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// DemoUserID owns the demo ledger
const DemoUserID int64 = 1

// SeedDemo fills m with half a year of history for DemoUserID ending at now:
// a salary, rent, a streaming subscription, a quarterly insurance premium and
// a few one-off purchases.
func SeedDemo(m *MemoryStore, now time.Time) {
	m.AddUser(models.User{ID: DemoUserID, Email: "demo@bank.local", Username: "demo"})
	m.AddAccount(DemoUserID, 1, "RUB")

	y, mo, _ := now.Date()
	monthStart := time.Date(y, mo, 1, 0, 0, 0, 0, time.UTC)

	var id int64
	add := func(desc, category string, amount float64, typ models.TransactionType, date time.Time) {
		if date.After(now) {
			return
		}
		id++
		m.AddTransactions(models.Transaction{
			ID:          id,
			UserID:      DemoUserID,
			AccountID:   1,
			Amount:      amount,
			Type:        typ,
			Description: desc,
			CategoryID:  category,
			Currency:    "RUB",
			Date:        date,
		})
	}

	for k := -6; k <= 0; k++ {
		month := monthStart.AddDate(0, k, 0)
		add("Salary", "salary", 85000, models.TransactionIncome, month.AddDate(0, 0, 4))
		add("Rent", "housing", 45000, models.TransactionExpense, month)
		add("Netflix", "entertainment", 799, models.TransactionExpense, month.AddDate(0, 0, 11))
	}
	for k := -6; k <= 0; k += 3 {
		add("Car insurance", "insurance", 12500, models.TransactionExpense, monthStart.AddDate(0, k, 19))
	}
	add("Electronics store", "shopping", 23990, models.TransactionExpense, monthStart.AddDate(0, -4, 8))
	add("Restaurant", "food", 3400, models.TransactionExpense, monthStart.AddDate(0, -2, 15))
}
