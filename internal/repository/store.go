package repository

import (
	"context"

	"github.com/Dan9191/cashflow-service/internal/models"
)

//go:generate mockgen -source=store.go -destination=store_mock.go -package=repository

// Store defines the ledger reads used by the forecast service
type Store interface {
	// FindTransactions returns the user's transactions dated inside r, ordered
	// by date ascending. A non-nil typeFilter restricts the result to one type.
	FindTransactions(ctx context.Context, userID int64, r models.DateRange, typeFilter *models.TransactionType) ([]models.Transaction, error)

	// AccountBalances returns the signed sum of all historical transactions per
	// account, in the account currency.
	AccountBalances(ctx context.Context, userID int64) ([]models.AccountBalance, error)

	// ListAlertRecipients returns users with an email address, ordered by id.
	ListAlertRecipients(ctx context.Context) ([]models.User, error)
}

// ledgerTypes maps stored type values onto the canonical transaction types.
// Older rows use deposit/withdrawal.
var ledgerTypes = map[string]models.TransactionType{
	"income":     models.TransactionIncome,
	"deposit":    models.TransactionIncome,
	"expense":    models.TransactionExpense,
	"withdrawal": models.TransactionExpense,
}

func storedTypes(filter *models.TransactionType) []string {
	if filter == nil {
		return []string{}
	}
	var out []string
	for stored, typ := range ledgerTypes {
		if typ == *filter {
			out = append(out, stored)
		}
	}
	return out
}
