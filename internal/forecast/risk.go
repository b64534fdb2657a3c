package forecast

import (
	"fmt"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// DetectRisk returns the first entry whose balance falls below the overdraft
// or the low-balance threshold, or nil when the horizon stays clear.
func (e *Engine) DetectRisk(entries []models.DailyBalanceEntry) *models.OverdraftRiskEvent {
	for _, entry := range entries {
		date := entry.Date.Format(models.DateLayout)
		switch {
		case entry.RunningBalance < e.cfg.OverdraftThreshold:
			return &models.OverdraftRiskEvent{
				Date:    entry.Date,
				Balance: entry.RunningBalance,
				Kind:    models.RiskOverdraft,
				Message: fmt.Sprintf("Projected overdraft on %s: balance %.2f", date, entry.RunningBalance),
			}
		case entry.RunningBalance < e.cfg.LowBalanceThreshold:
			return &models.OverdraftRiskEvent{
				Date:    entry.Date,
				Balance: entry.RunningBalance,
				Kind:    models.RiskLowBalance,
				Message: fmt.Sprintf("Low balance warning on %s: balance %.2f is below %.2f",
					date, entry.RunningBalance, e.cfg.LowBalanceThreshold),
			}
		}
	}
	return nil
}
