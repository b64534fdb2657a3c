package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/cashflow-service/internal/models"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2026, 1, d, 12, 0, 0, 0, time.UTC) }

	m := NewMemoryStore()
	m.AddAccount(1, 10, "RUB")
	m.AddAccount(1, 11, "USD")
	m.AddTransactions(
		models.Transaction{ID: 3, UserID: 1, AccountID: 10, Amount: 500, Type: models.TransactionIncome, Date: day(3)},
		models.Transaction{ID: 1, UserID: 1, AccountID: 10, Amount: -120.5, Date: day(1)},
		models.Transaction{ID: 2, UserID: 1, AccountID: 11, Amount: 20, Type: models.TransactionExpense, Date: day(2)},
		models.Transaction{ID: 4, UserID: 2, AccountID: 20, Amount: 999, Type: models.TransactionIncome, Currency: "EUR", Date: day(2)},
	)
	m.AddUser(models.User{ID: 2, Email: "b@bank.local"})
	m.AddUser(models.User{ID: 1, Email: "a@bank.local"})
	m.AddUser(models.User{ID: 3})

	t.Run("find transactions by range and type", func(t *testing.T) {
		r := models.DateRange{From: day(1), To: day(3)}
		txs, err := m.FindTransactions(ctx, 1, r, nil)
		require.NoError(t, err)
		require.Len(t, txs, 2)
		assert.Equal(t, int64(1), txs[0].ID)
		assert.Equal(t, 120.5, txs[0].Amount)
		assert.Equal(t, models.TransactionExpense, txs[0].Type)
		assert.Equal(t, "RUB", txs[0].Currency)
		assert.Equal(t, "USD", txs[1].Currency)

		income := models.TransactionIncome
		txs, err = m.FindTransactions(ctx, 1, models.DateRange{From: day(1), To: day(10)}, &income)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, int64(3), txs[0].ID)
	})

	t.Run("account balances are signed sums per account", func(t *testing.T) {
		balances, err := m.AccountBalances(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, []models.AccountBalance{
			{AccountID: 10, Currency: "RUB", Balance: 379.5},
			{AccountID: 11, Currency: "USD", Balance: -20},
		}, balances)

		balances, err = m.AccountBalances(ctx, 42)
		require.NoError(t, err)
		assert.Empty(t, balances)
	})

	t.Run("alert recipients need an email", func(t *testing.T) {
		users, err := m.ListAlertRecipients(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, int64(1), users[0].ID)
		assert.Equal(t, int64(2), users[1].ID)
	})
}

func TestStoredTypes(t *testing.T) {
	assert.Empty(t, storedTypes(nil))
	expense := models.TransactionExpense
	assert.ElementsMatch(t, []string{"expense", "withdrawal"}, storedTypes(&expense))
}

func TestSeedDemo(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	SeedDemo(store, now)

	users, err := store.ListAlertRecipients(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, DemoUserID, users[0].ID)

	all := models.DateRange{From: now.AddDate(-1, 0, 0), To: now.AddDate(0, 0, 1)}
	txs, err := store.FindTransactions(context.Background(), DemoUserID, all, nil)
	require.NoError(t, err)
	for _, tx := range txs {
		assert.False(t, tx.Date.After(now), tx.Description)
	}

	income := models.TransactionIncome
	salaries, err := store.FindTransactions(context.Background(), DemoUserID, all, &income)
	require.NoError(t, err)
	// 2025-09-05 .. 2026-03-05
	assert.Len(t, salaries, 7)
}
