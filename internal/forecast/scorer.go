package forecast

import (
	"math"

	"github.com/Dan9191/cashflow-service/internal/models"
)

// band is an inclusive range of average intervals, in days, for one cadence
type band struct {
	label    models.FrequencyLabel
	min, max int
}

var bands = []band{
	{models.FrequencyMonthly, 25, 35},
	{models.FrequencyQuarterly, 85, 95},
	{models.FrequencyAnnual, 350, 380},
}

// customMaxIntervalStdDev and customMinIntervals define a custom cadence for
// the regularity method when no band matches.
const (
	customMaxIntervalStdDev = 5
	customMinIntervals      = 3
	fullOccurrenceCount     = 6
)

// Score is the statistics and confidence of one transaction group
type Score struct {
	Occurrences     int
	Intervals       int
	AverageInterval int
	IntervalStdDev  float64
	AmountMean      float64
	AmountStdDev    float64
	Confidence      float64
	Frequency       models.FrequencyLabel
}

// Score computes interval and amount statistics for g and its confidence under
// profile p. It reports false when the group is rejected, including degenerate
// groups with a zero average interval or zero mean amount.
func (e *Engine) Score(g models.TransactionGroup, p Profile) (Score, bool) {
	n := len(g.Transactions)
	if n < 2 || n < p.MinOccurrences {
		return Score{}, false
	}

	gaps := make([]float64, 0, n-1)
	amounts := make([]float64, 0, n)
	for i, tx := range g.Transactions {
		amounts = append(amounts, tx.Amount)
		if i > 0 {
			gaps = append(gaps, float64(dayNumber(tx.Date)-dayNumber(g.Transactions[i-1].Date)))
		}
	}

	intervalMean, intervalStdDev := meanStdDev(gaps)
	amountMean, amountStdDev := meanStdDev(amounts)
	s := Score{
		Occurrences:     n,
		Intervals:       len(gaps),
		AverageInterval: int(math.Round(intervalMean)),
		IntervalStdDev:  intervalStdDev,
		AmountMean:      amountMean,
		AmountStdDev:    amountStdDev,
	}
	if s.AverageInterval <= 0 || amountMean == 0 {
		return Score{}, false
	}

	label, inBand := matchBand(s.AverageInterval)
	var confidence float64
	switch p.Method {
	case MethodRegularity:
		if !inBand {
			if intervalStdDev >= customMaxIntervalStdDev || s.Intervals < customMinIntervals {
				return Score{}, false
			}
			label = models.FrequencyCustom
		}
		confidence = 100 - intervalStdDev/float64(s.AverageInterval)*100
	default:
		if !inBand {
			label = models.FrequencyCustom
		}
		occurrence := math.Min(100, float64(n)/fullOccurrenceCount*100)
		amount := math.Max(0, 100-amountStdDev/math.Abs(amountMean)*100)
		confidence = (occurrence + amount) / 2
	}
	confidence = math.Max(0, math.Min(100, confidence))
	if confidence <= p.MinConfidence {
		return Score{}, false
	}

	s.Confidence = math.Round(confidence)
	s.Frequency = label
	return s, true
}

func matchBand(days int) (models.FrequencyLabel, bool) {
	for _, b := range bands {
		if days >= b.min && days <= b.max {
			return b.label, true
		}
	}
	return models.FrequencyCustom, false
}

// meanStdDev returns the mean and population standard deviation of vals
func meanStdDev(vals []float64) (float64, float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sumSq float64
	for _, v := range vals {
		d := v - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / float64(len(vals)))
}
