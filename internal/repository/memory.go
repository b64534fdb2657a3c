package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// MemoryStore implements Store with in-memory storage
type MemoryStore struct {
	mu sync.RWMutex

	transactions []models.Transaction
	currencies   map[int64]string // account id -> currency
	owners       map[int64]int64  // account id -> user id
	users        map[int64]models.User
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		currencies: make(map[int64]string),
		owners:     make(map[int64]int64),
		users:      make(map[int64]models.User),
	}
}

// AddUser stores or replaces a user
func (m *MemoryStore) AddUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// AddAccount registers an account owned by userID in the given currency
func (m *MemoryStore) AddAccount(userID, accountID int64, currency string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currencies[accountID] = currency
	m.owners[accountID] = userID
}

// AddTransactions appends transactions to the ledger. Accounts referenced for
// the first time are created in the transaction currency.
func (m *MemoryStore) AddTransactions(txs ...models.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tx := range txs {
		if _, ok := m.currencies[tx.AccountID]; !ok {
			m.currencies[tx.AccountID] = tx.Currency
			m.owners[tx.AccountID] = tx.UserID
		}
		m.transactions = append(m.transactions, tx.Normalize())
	}
}

// FindTransactions returns the user's transactions inside the range, oldest first
func (m *MemoryStore) FindTransactions(_ context.Context, userID int64, r models.DateRange, typeFilter *models.TransactionType) ([]models.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Transaction
	for _, tx := range m.transactions {
		if tx.UserID != userID || tx.Date.Before(r.From) || !tx.Date.Before(r.To) {
			continue
		}
		if typeFilter != nil && tx.Type != *typeFilter {
			continue
		}
		if currency, ok := m.currencies[tx.AccountID]; ok && tx.Currency == "" {
			tx.Currency = currency
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// AccountBalances sums every stored transaction per account of the user
func (m *MemoryStore) AccountBalances(_ context.Context, userID int64) ([]models.AccountBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sums := make(map[int64]decimal.Decimal)
	for id, owner := range m.owners {
		if owner == userID {
			sums[id] = decimal.Zero
		}
	}
	for _, tx := range m.transactions {
		if m.owners[tx.AccountID] != userID {
			continue
		}
		sums[tx.AccountID] = sums[tx.AccountID].Add(decimal.NewFromFloat(tx.Signed()))
	}

	out := make([]models.AccountBalance, 0, len(sums))
	for id, sum := range sums {
		out = append(out, models.AccountBalance{
			AccountID: id,
			Currency:  m.currencies[id],
			Balance:   sum.InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out, nil
}

// ListAlertRecipients returns users with an email address
func (m *MemoryStore) ListAlertRecipients(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.User
	for _, u := range m.users {
		if u.Email != "" {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
