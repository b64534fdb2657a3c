package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dan9191/cashflow-service/internal/metrics"
	"github.com/Dan9191/cashflow-service/internal/models"
)

// ListRecurringBills detects the user's recurring expenses inside r. A nil
// range means the configured lookback ending today.
func (s *Service) ListRecurringBills(ctx context.Context, userID int64, r *models.DateRange) (resp *models.RecurringBillsResponse, err error) {
	start := time.Now()
	defer func() { observe(metrics.OpRecurringBills, start, err) }()

	if userID <= 0 {
		return nil, models.InputErrorf("invalid user ID: %d", userID)
	}
	dr := s.engine.BillRange(s.now())
	if r != nil {
		dr = *r
	}
	if err := dr.Validate(); err != nil {
		return nil, err
	}

	expense := models.TransactionExpense
	txs, err := s.repo.FindTransactions(ctx, userID, dr, &expense)
	if err != nil {
		return nil, models.Unavailable("find transactions", err)
	}
	if err := s.toBaseCurrency(ctx, txs); err != nil {
		return nil, err
	}

	bills := s.engine.RecurringBills(txs)
	metrics.PatternsDetected.WithLabelValues(metrics.OpRecurringBills).Observe(float64(len(bills.RecurringExpenses)))
	s.log.WithFields(logrus.Fields{
		"user_id":      userID,
		"transactions": len(txs),
		"recurring":    len(bills.RecurringExpenses),
	}).Info("Recurring bills listed")
	return &bills, nil
}

// ForecastCashFlow simulates the user's balance for the next months months.
// Zero months selects the configured default horizon.
func (s *Service) ForecastCashFlow(ctx context.Context, userID int64, months int) (resp *models.CashFlowForecast, err error) {
	start := time.Now()
	defer func() { observe(metrics.OpForecast, start, err) }()

	cfg := s.engine.Config()
	if userID <= 0 {
		return nil, models.InputErrorf("invalid user ID: %d", userID)
	}
	if months == 0 {
		months = cfg.DefaultHorizonMonths
	}
	if months < 0 || months > cfg.MaxHorizonMonths {
		return nil, models.InputErrorf("horizon must be between 1 and %d months, got %d", cfg.MaxHorizonMonths, months)
	}

	now := s.now()
	txs, err := s.repo.FindTransactions(ctx, userID, s.engine.ForecastRange(now), nil)
	if err != nil {
		return nil, models.Unavailable("find transactions", err)
	}
	if err := s.toBaseCurrency(ctx, txs); err != nil {
		return nil, err
	}
	balance, err := s.CurrentBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := s.engine.Forecast(txs, balance, now, months)
	fields := logrus.Fields{
		"user_id":         userID,
		"transactions":    len(txs),
		"horizon_months":  months,
		"current_balance": balance,
	}
	if result.OverdraftRisk != nil {
		metrics.RiskEvents.WithLabelValues(string(result.OverdraftRisk.Kind)).Inc()
		fields["risk"] = result.OverdraftRisk.Kind
		fields["risk_date"] = result.OverdraftRisk.Date.Format(models.DateLayout)
	}
	s.log.WithFields(fields).Info("Cash flow forecast computed")
	return &result, nil
}
