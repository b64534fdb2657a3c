package forecast

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// Classify turns the groups accepted under profile p into recurring patterns,
// ordered by confidence descending and then by key.
func (e *Engine) Classify(groups []models.TransactionGroup, p Profile) []models.RecurringPattern {
	patterns := make([]models.RecurringPattern, 0, len(groups))
	for _, g := range groups {
		s, ok := e.Score(g, p)
		if !ok {
			continue
		}
		last := g.Transactions[len(g.Transactions)-1]
		patterns = append(patterns, models.RecurringPattern{
			GroupKey:            g.Key,
			Description:         strings.TrimSpace(last.Description),
			CategoryID:          g.Key.CategoryID,
			AverageIntervalDays: s.AverageInterval,
			IntervalStdDev:      roundCents(s.IntervalStdDev),
			AverageAmount:       roundCents(s.AmountMean),
			AmountStdDev:        roundCents(s.AmountStdDev),
			OccurrenceCount:     s.Occurrences,
			ConfidenceScore:     s.Confidence,
			FrequencyLabel:      s.Frequency,
			LastOccurrenceDate:  Day(last.Date),
			NextPaymentDate:     NextPaymentDate(Day(last.Date), s.Frequency, s.AverageInterval),
			Type:                g.Type,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].ConfidenceScore != patterns[j].ConfidenceScore {
			return patterns[i].ConfidenceScore > patterns[j].ConfidenceScore
		}
		if patterns[i].GroupKey != patterns[j].GroupKey {
			return patterns[i].GroupKey.String() < patterns[j].GroupKey.String()
		}
		return patterns[i].Type < patterns[j].Type
	})
	return patterns
}

// NextPaymentDate advances last by one canonical period of the frequency.
func NextPaymentDate(last time.Time, freq models.FrequencyLabel, intervalDays int) time.Time {
	switch freq {
	case models.FrequencyMonthly:
		return last.AddDate(0, 1, 0)
	case models.FrequencyQuarterly:
		return last.AddDate(0, 3, 0)
	case models.FrequencyAnnual:
		return last.AddDate(1, 0, 0)
	default:
		return last.AddDate(0, 0, intervalDays)
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
