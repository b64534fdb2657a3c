package models

import "time"

// FrequencyLabel names the cadence band a recurring pattern falls into
type FrequencyLabel string

const (
	FrequencyMonthly   FrequencyLabel = "monthly"
	FrequencyQuarterly FrequencyLabel = "quarterly"
	FrequencyAnnual    FrequencyLabel = "annual"
	FrequencyCustom    FrequencyLabel = "custom"
)

// GroupKey identifies a candidate recurring series. It is comparable and used
// directly as a map key.
type GroupKey struct {
	Description string `json:"description"`
	CategoryID  string `json:"category_id"`
}

// String renders the key for logs and stable ordering
func (k GroupKey) String() string {
	return k.Description + "|" + k.CategoryID
}

// TransactionGroup is a candidate series, members sorted by date ascending
type TransactionGroup struct {
	Key          GroupKey
	Type         TransactionType
	Transactions []Transaction
}

// RecurringPattern is a detected recurring obligation. It is never persisted.
type RecurringPattern struct {
	GroupKey            GroupKey        `json:"group_key"`
	Description         string          `json:"description"`
	CategoryID          string          `json:"category_id"`
	AverageIntervalDays int             `json:"average_interval_days"`
	IntervalStdDev      float64         `json:"interval_std_dev"`
	AverageAmount       float64         `json:"average_amount"`
	AmountStdDev        float64         `json:"amount_std_dev"`
	OccurrenceCount     int             `json:"occurrence_count"`
	ConfidenceScore     float64         `json:"confidence_score"`
	FrequencyLabel      FrequencyLabel  `json:"frequency"`
	LastOccurrenceDate  time.Time       `json:"last_occurrence_date"`
	NextPaymentDate     time.Time       `json:"next_payment_date"`
	Type                TransactionType `json:"type"`
}

// PredictedTransaction is one projected future occurrence of a pattern
type PredictedTransaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Confidence  float64         `json:"confidence"`
}

// DailyBalanceEntry is the simulated balance at the end of one calendar day
type DailyBalanceEntry struct {
	Date           time.Time              `json:"date"`
	RunningBalance float64                `json:"running_balance"`
	Income         float64                `json:"income"`
	Expense        float64                `json:"expense"`
	Predictions    []PredictedTransaction `json:"predicted_transactions"`
}

// RiskKind distinguishes the threshold that was breached
type RiskKind string

const (
	RiskOverdraft  RiskKind = "overdraft"
	RiskLowBalance RiskKind = "low_balance"
)

// OverdraftRiskEvent is the first simulated day breaching a threshold
type OverdraftRiskEvent struct {
	Date    time.Time `json:"date"`
	Balance float64   `json:"balance"`
	Kind    RiskKind  `json:"kind"`
	Message string    `json:"message"`
}

// RecurringStatistics summarizes the recurring expenses of a listing
type RecurringStatistics struct {
	TotalRecurringExpenses  int     `json:"total_recurring_expenses"`
	TotalMonthlyRecurring   float64 `json:"total_monthly_recurring"`
	TotalQuarterlyRecurring float64 `json:"total_quarterly_recurring"`
	TotalAnnualRecurring    float64 `json:"total_annual_recurring"`
	EstimatedMonthlyBudget  float64 `json:"estimated_monthly_budget"`
}

// RecurringBillsResponse is returned by the recurring-bill listing
type RecurringBillsResponse struct {
	RecurringExpenses []RecurringPattern  `json:"recurring_expenses"`
	Statistics        RecurringStatistics `json:"statistics"`
}

// CashFlowForecast is returned by the cash-flow forecast
type CashFlowForecast struct {
	Predictions   []DailyBalanceEntry `json:"predictions"`
	OverdraftRisk *OverdraftRiskEvent `json:"overdraft_risk"`
}
