package models

import "time"

// TransactionType carries the sign of a transaction. Amounts are always magnitudes.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// Valid reports whether t is a known transaction type
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction represents a financial transaction from the ledger
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	AccountID   int64           `json:"account_id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Currency    string          `json:"currency"`
	Date        time.Time       `json:"date"`
}

// Signed returns the amount with the sign implied by the transaction type
func (t Transaction) Signed() float64 {
	if t.Type == TransactionIncome {
		return t.Amount
	}
	return -t.Amount
}

// Normalize converts a stored row into the canonical form: unsigned amount,
// sign carried by Type. Rows without a type are classified by the sign of the amount.
func (t Transaction) Normalize() Transaction {
	if !t.Type.Valid() {
		if t.Amount < 0 {
			t.Type = TransactionExpense
		} else {
			t.Type = TransactionIncome
		}
	}
	if t.Amount < 0 {
		t.Amount = -t.Amount
	}
	return t
}

// DateRange is a half-open [From, To) interval of dates
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Validate checks that the range is set and ordered
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return InputErrorf("date range must have both from and to")
	}
	if !r.From.Before(r.To) {
		return InputErrorf("date range from %s must be before to %s",
			r.From.Format(DateLayout), r.To.Format(DateLayout))
	}
	return nil
}

// DateLayout is the calendar date format used across the API
const DateLayout = "2006-01-02"
