package forecast

import (
	"sort"
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// Project advances every pattern from its last occurrence in steps of its
// average interval and emits the occurrences strictly inside
// (windowStart, windowEnd). Patterns without a positive interval are skipped.
func (e *Engine) Project(patterns []models.RecurringPattern, windowStart, windowEnd time.Time) []models.PredictedTransaction {
	start, end := Day(windowStart), Day(windowEnd)
	var out []models.PredictedTransaction
	for _, p := range patterns {
		interval := p.AverageIntervalDays
		if interval <= 0 {
			continue
		}
		last := Day(p.LastOccurrenceDate)

		// Skip whole intervals that end before the window opens.
		k := 1
		if behind := int(dayNumber(start) - dayNumber(last)); behind > interval {
			k = behind / interval
		}
		for ; ; k++ {
			date := last.AddDate(0, 0, k*interval)
			if !date.Before(end) {
				break
			}
			if !date.After(start) {
				continue
			}
			out = append(out, models.PredictedTransaction{
				Date:        date,
				Description: p.Description,
				CategoryID:  p.CategoryID,
				Amount:      p.AverageAmount,
				Type:        p.Type,
				Confidence:  p.ConfidenceScore,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Description < out[j].Description
	})
	return out
}
