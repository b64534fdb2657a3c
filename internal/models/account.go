package models

// AccountBalance is the ledger balance of one account in its own currency
type AccountBalance struct {
	AccountID int64   `json:"account_id"`
	Currency  string  `json:"currency"`
	Balance   float64 `json:"balance"`
}
