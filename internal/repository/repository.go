package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindTransactions retrieves a user's transactions for a date range
func (r *Repository) FindTransactions(ctx context.Context, userID int64, dr models.DateRange, typeFilter *models.TransactionType) ([]models.Transaction, error) {
	types := storedTypes(typeFilter)
	sort.Strings(types)
	query := `
		SELECT t.id, a.user_id, t.account_id, t.amount, t.type, t.description,
		       COALESCE(t.category_id, ''), a.currency, t.created_at
		FROM bank.transactions t
		JOIN bank.accounts a ON a.id = t.account_id
		WHERE a.user_id = $1
		  AND t.created_at >= $2 AND t.created_at < $3
		  AND (cardinality($4::text[]) = 0 OR t.type = ANY($4::text[]))
		ORDER BY t.created_at ASC, t.id ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, dr.From, dr.To, pq.Array(types))
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var (
			tx        models.Transaction
			stored    string
			createdAt time.Time
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.AccountID, &tx.Amount, &stored,
			&tx.Description, &tx.CategoryID, &tx.Currency, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Type = ledgerTypes[stored]
		tx.Date = createdAt
		txs = append(txs, tx.Normalize())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txs, nil
}

// AccountBalances sums every historical transaction of each user account
func (r *Repository) AccountBalances(ctx context.Context, userID int64) ([]models.AccountBalance, error) {
	query := `
		SELECT a.id, a.currency,
		       COALESCE(SUM(CASE WHEN t.type IN ('income', 'deposit') THEN ABS(t.amount)
		                         ELSE -ABS(t.amount) END), 0)::text
		FROM bank.accounts a
		LEFT JOIN bank.transactions t ON t.account_id = a.id
		WHERE a.user_id = $1
		GROUP BY a.id, a.currency
		ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum account balances: %w", err)
	}
	defer rows.Close()

	var balances []models.AccountBalance
	for rows.Next() {
		var (
			b   models.AccountBalance
			sum string
		)
		if err := rows.Scan(&b.AccountID, &b.Currency, &sum); err != nil {
			return nil, fmt.Errorf("failed to scan account balance: %w", err)
		}
		d, err := decimal.NewFromString(sum)
		if err != nil {
			return nil, fmt.Errorf("failed to parse balance of account %d: %w", b.AccountID, err)
		}
		b.Balance = d.InexactFloat64()
		balances = append(balances, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account balances: %w", err)
	}
	return balances, nil
}

// ListAlertRecipients retrieves users that can receive risk alerts
func (r *Repository) ListAlertRecipients(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT id, email, username
		FROM bank.users
		WHERE email <> ''
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Username); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}
	return users, nil
}
