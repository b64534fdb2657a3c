package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dan9191/cashflow-service/internal/models"
)

func date(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func tx(id int64, desc string, amount float64, typ models.TransactionType, category, day string) models.Transaction {
	return models.Transaction{
		ID:          id,
		UserID:      1,
		Description: desc,
		Amount:      amount,
		Type:        typ,
		CategoryID:  category,
		Currency:    "RUB",
		Date:        date(day),
	}
}

func netflixHistory() []models.Transaction {
	return []models.Transaction{
		tx(1, "Netflix", 12.99, models.TransactionExpense, "entertainment", "2026-01-01"),
		tx(2, "NETFLIX ", 12.99, models.TransactionExpense, "entertainment", "2026-02-01"),
		tx(3, "netflix.", 12.99, models.TransactionExpense, "entertainment", "2026-03-01"),
	}
}

func TestNormalizeDescription(t *testing.T) {
	e := NewEngine(DefaultConfig())

	tests := []struct {
		in, want string
	}{
		{"  Netflix  ", "netflix"},
		{"NETFLIX.COM", "netflix com"},
		{"Spotify   Premium!", "spotify premium"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, e.NormalizeDescription(tt.in))
		})
	}

	t.Run("punctuation kept when stripping is off", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.StripPunctuation = false
		assert.Equal(t, "netflix.com", NewEngine(cfg).NormalizeDescription(" Netflix.com "))
	})
}

func TestGroup(t *testing.T) {
	e := NewEngine(DefaultConfig())

	t.Run("singletons are discarded", func(t *testing.T) {
		groups := e.Group([]models.Transaction{
			tx(1, "Gym", 40, models.TransactionExpense, "health", "2026-01-03"),
			tx(2, "Dentist", 900, models.TransactionExpense, "health", "2026-01-04"),
		})
		assert.Empty(t, groups)
	})

	t.Run("same description in different categories are separate series", func(t *testing.T) {
		groups := e.Group([]models.Transaction{
			tx(1, "Amazon", 10, models.TransactionExpense, "books", "2026-01-03"),
			tx(2, "Amazon", 10, models.TransactionExpense, "video", "2026-02-03"),
		})
		assert.Empty(t, groups)
	})

	t.Run("members are sorted by date", func(t *testing.T) {
		groups := e.Group([]models.Transaction{
			tx(3, "Netflix", 12.99, models.TransactionExpense, "entertainment", "2026-03-01"),
			tx(1, "netflix", 12.99, models.TransactionExpense, "entertainment", "2026-01-01"),
			tx(2, "NETFLIX", 12.99, models.TransactionExpense, "entertainment", "2026-02-01"),
		})
		require.Len(t, groups, 1)
		assert.Equal(t, models.GroupKey{Description: "netflix", CategoryID: "entertainment"}, groups[0].Key)
		ids := []int64{}
		for _, m := range groups[0].Transactions {
			ids = append(ids, m.ID)
		}
		assert.Equal(t, []int64{1, 2, 3}, ids)
	})

	t.Run("mixed sign groups are split per type", func(t *testing.T) {
		groups := e.Group([]models.Transaction{
			tx(1, "Transfer", 100, models.TransactionIncome, "transfers", "2026-01-01"),
			tx(2, "Transfer", 50, models.TransactionExpense, "transfers", "2026-01-10"),
			tx(3, "Transfer", 100, models.TransactionIncome, "transfers", "2026-02-01"),
			tx(4, "Transfer", 50, models.TransactionExpense, "transfers", "2026-02-10"),
			tx(5, "Refund", 20, models.TransactionIncome, "shopping", "2026-01-05"),
			tx(6, "Refund", 20, models.TransactionExpense, "shopping", "2026-02-05"),
		})
		require.Len(t, groups, 2)
		assert.Equal(t, models.TransactionExpense, groups[0].Type)
		assert.Equal(t, models.TransactionIncome, groups[1].Type)
		for _, g := range groups {
			assert.Len(t, g.Transactions, 2)
			for _, m := range g.Transactions {
				assert.Equal(t, g.Type, m.Type)
			}
		}
	})

	t.Run("negative stored amounts become expense magnitudes", func(t *testing.T) {
		groups := e.Group([]models.Transaction{
			{ID: 1, Description: "Rent", Amount: -800, CategoryID: "housing", Date: date("2026-01-01")},
			{ID: 2, Description: "Rent", Amount: -800, CategoryID: "housing", Date: date("2026-02-01")},
		})
		require.Len(t, groups, 1)
		assert.Equal(t, models.TransactionExpense, groups[0].Type)
		assert.Equal(t, 800.0, groups[0].Transactions[0].Amount)
	})
}

func TestScore(t *testing.T) {
	e := NewEngine(DefaultConfig())

	monthly := models.TransactionGroup{
		Key:  models.GroupKey{Description: "gym", CategoryID: "health"},
		Type: models.TransactionExpense,
		Transactions: []models.Transaction{
			tx(1, "Gym", 40, models.TransactionExpense, "health", "2026-01-05"),
			tx(2, "Gym", 40, models.TransactionExpense, "health", "2026-02-04"),
		},
	}

	t.Run("thirty day spacing with constant amount is monthly", func(t *testing.T) {
		for _, p := range []Profile{ForecastProfile(), BillProfile()} {
			s, ok := e.Score(monthly, p)
			require.True(t, ok, p.Name)
			assert.Equal(t, models.FrequencyMonthly, s.Frequency, p.Name)
			assert.GreaterOrEqual(t, s.Confidence, 60.0, p.Name)
			assert.Equal(t, 30, s.AverageInterval, p.Name)
		}
	})

	t.Run("blend formula", func(t *testing.T) {
		s, ok := e.Score(monthly, ForecastProfile())
		require.True(t, ok)
		// occurrence 2/6*100 = 33.3, amount 100
		assert.Equal(t, 67.0, s.Confidence)
	})

	t.Run("irregular intervals fail the bill profile but pass the forecast profile", func(t *testing.T) {
		g := models.TransactionGroup{
			Key:  models.GroupKey{Description: "taxi", CategoryID: "transport"},
			Type: models.TransactionExpense,
			Transactions: []models.Transaction{
				tx(1, "Taxi", 15, models.TransactionExpense, "transport", "2026-01-01"),
				tx(2, "Taxi", 15, models.TransactionExpense, "transport", "2026-01-11"),
				tx(3, "Taxi", 15, models.TransactionExpense, "transport", "2026-03-02"),
				tx(4, "Taxi", 15, models.TransactionExpense, "transport", "2026-03-22"),
			},
		}
		_, ok := e.Score(g, BillProfile())
		assert.False(t, ok)

		s, ok := e.Score(g, ForecastProfile())
		require.True(t, ok)
		assert.Equal(t, models.FrequencyMonthly, s.Frequency)
	})

	t.Run("steady weekly cadence is custom under the bill profile", func(t *testing.T) {
		g := models.TransactionGroup{
			Key:  models.GroupKey{Description: "cleaner", CategoryID: "home"},
			Type: models.TransactionExpense,
			Transactions: []models.Transaction{
				tx(1, "Cleaner", 30, models.TransactionExpense, "home", "2026-01-01"),
				tx(2, "Cleaner", 30, models.TransactionExpense, "home", "2026-01-08"),
				tx(3, "Cleaner", 30, models.TransactionExpense, "home", "2026-01-15"),
				tx(4, "Cleaner", 30, models.TransactionExpense, "home", "2026-01-22"),
			},
		}
		s, ok := e.Score(g, BillProfile())
		require.True(t, ok)
		assert.Equal(t, models.FrequencyCustom, s.Frequency)
		assert.Equal(t, 7, s.AverageInterval)
		assert.Equal(t, 100.0, s.Confidence)
	})

	t.Run("two weekly occurrences are not enough for a custom cadence", func(t *testing.T) {
		g := models.TransactionGroup{
			Key:  models.GroupKey{Description: "cleaner", CategoryID: "home"},
			Type: models.TransactionExpense,
			Transactions: []models.Transaction{
				tx(1, "Cleaner", 30, models.TransactionExpense, "home", "2026-01-01"),
				tx(2, "Cleaner", 30, models.TransactionExpense, "home", "2026-01-08"),
			},
		}
		_, ok := e.Score(g, BillProfile())
		assert.False(t, ok)
	})

	t.Run("degenerate groups are dropped", func(t *testing.T) {
		sameDay := models.TransactionGroup{
			Type: models.TransactionExpense,
			Transactions: []models.Transaction{
				tx(1, "Coffee", 3, models.TransactionExpense, "food", "2026-01-01"),
				tx(2, "Coffee", 3, models.TransactionExpense, "food", "2026-01-01"),
			},
		}
		_, ok := e.Score(sameDay, ForecastProfile())
		assert.False(t, ok)

		zeroAmount := models.TransactionGroup{
			Type: models.TransactionExpense,
			Transactions: []models.Transaction{
				tx(1, "Trial", 0, models.TransactionExpense, "apps", "2026-01-01"),
				tx(2, "Trial", 0, models.TransactionExpense, "apps", "2026-02-01"),
			},
		}
		_, ok = e.Score(zeroAmount, ForecastProfile())
		assert.False(t, ok)
	})

	t.Run("single member never scores", func(t *testing.T) {
		g := models.TransactionGroup{
			Type:         models.TransactionExpense,
			Transactions: []models.Transaction{tx(1, "Car", 25000, models.TransactionExpense, "auto", "2026-01-01")},
		}
		_, ok := e.Score(g, ForecastProfile())
		assert.False(t, ok)
	})
}

func TestDetectPatternsNetflix(t *testing.T) {
	e := NewEngine(DefaultConfig())

	patterns := e.DetectPatterns(netflixHistory(), BillProfile())
	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, models.FrequencyMonthly, p.FrequencyLabel)
	assert.Greater(t, p.ConfidenceScore, 90.0)
	assert.Equal(t, 12.99, p.AverageAmount)
	assert.Equal(t, 3, p.OccurrenceCount)
	assert.Equal(t, 30, p.AverageIntervalDays)
	assert.Equal(t, date("2026-03-01"), p.LastOccurrenceDate)
	assert.Equal(t, date("2026-04-01"), p.NextPaymentDate)
	assert.Equal(t, "netflix.", p.Description)

	predictions := e.Project(patterns, p.LastOccurrenceDate, p.LastOccurrenceDate.AddDate(0, 2, 0))
	require.Len(t, predictions, 2)
	assert.Equal(t, date("2026-03-31"), predictions[0].Date)
	assert.Equal(t, date("2026-04-30"), predictions[1].Date)
	assert.Equal(t, 30*24*time.Hour, predictions[1].Date.Sub(predictions[0].Date))
	for _, pr := range predictions {
		assert.Equal(t, 12.99, pr.Amount)
		assert.Equal(t, models.TransactionExpense, pr.Type)
		assert.Equal(t, p.ConfidenceScore, pr.Confidence)
	}
}

func TestSingleTransactionNeverProducesPattern(t *testing.T) {
	e := NewEngine(DefaultConfig())
	for _, amount := range []float64{0.01, 12.99, 1e6} {
		txs := []models.Transaction{tx(1, "One-off", amount, models.TransactionExpense, "misc", "2026-01-01")}
		assert.Empty(t, e.DetectPatterns(txs, ForecastProfile()))
		assert.Empty(t, e.DetectPatterns(txs, BillProfile()))
	}
}

func TestClassifyOrdering(t *testing.T) {
	e := NewEngine(DefaultConfig())
	txs := append(netflixHistory(),
		tx(10, "Insurance", 300, models.TransactionExpense, "insurance", "2025-04-10"),
		tx(11, "Insurance", 300, models.TransactionExpense, "insurance", "2025-07-10"),
		tx(12, "Insurance", 300, models.TransactionExpense, "insurance", "2025-10-10"),
		tx(13, "Insurance", 300, models.TransactionExpense, "insurance", "2026-01-10"),
	)
	patterns := e.DetectPatterns(txs, BillProfile())
	require.Len(t, patterns, 2)
	assert.Equal(t, "insurance", patterns[0].GroupKey.Description)
	assert.Equal(t, models.FrequencyQuarterly, patterns[0].FrequencyLabel)
	assert.Equal(t, date("2026-04-10"), patterns[0].NextPaymentDate)
	assert.GreaterOrEqual(t, patterns[0].ConfidenceScore, patterns[1].ConfidenceScore)
}

func TestNextPaymentDate(t *testing.T) {
	last := date("2026-01-31")
	assert.Equal(t, date("2026-03-03"), NextPaymentDate(last, models.FrequencyMonthly, 30))
	assert.Equal(t, date("2026-05-01"), NextPaymentDate(last, models.FrequencyQuarterly, 91))
	assert.Equal(t, date("2027-01-31"), NextPaymentDate(last, models.FrequencyAnnual, 365))
	assert.Equal(t, date("2026-02-14"), NextPaymentDate(last, models.FrequencyCustom, 14))
}

func TestProject(t *testing.T) {
	e := NewEngine(DefaultConfig())

	t.Run("dates are last plus whole intervals inside the window", func(t *testing.T) {
		last := date("2026-01-10")
		p := models.RecurringPattern{
			Description:         "Babysitter",
			AverageIntervalDays: 14,
			AverageAmount:       80,
			Type:                models.TransactionExpense,
			LastOccurrenceDate:  last,
		}
		start, end := date("2026-06-01"), date("2026-08-01")
		predictions := e.Project([]models.RecurringPattern{p}, start, end)
		require.NotEmpty(t, predictions)

		var prev time.Time
		for _, pr := range predictions {
			days := int(pr.Date.Sub(last).Hours() / 24)
			assert.Zero(t, days%14, pr.Date)
			assert.Positive(t, days/14)
			assert.True(t, pr.Date.After(start), pr.Date)
			assert.True(t, pr.Date.Before(end), pr.Date)
			assert.True(t, pr.Date.After(prev), pr.Date)
			prev = pr.Date
		}
		// 2026-06-13 is the first occurrence after the window opens
		assert.Equal(t, date("2026-06-13"), predictions[0].Date)
		assert.Len(t, predictions, 4)
	})

	t.Run("occurrence on the window start is excluded", func(t *testing.T) {
		p := models.RecurringPattern{AverageIntervalDays: 10, LastOccurrenceDate: date("2026-01-01"), Type: models.TransactionExpense}
		predictions := e.Project([]models.RecurringPattern{p}, date("2026-01-11"), date("2026-01-31"))
		require.Len(t, predictions, 1)
		assert.Equal(t, date("2026-01-21"), predictions[0].Date)
	})

	t.Run("non-positive intervals are skipped", func(t *testing.T) {
		patterns := []models.RecurringPattern{
			{AverageIntervalDays: 0, LastOccurrenceDate: date("2026-01-01")},
			{AverageIntervalDays: -7, LastOccurrenceDate: date("2026-01-01")},
		}
		assert.Empty(t, e.Project(patterns, date("2026-01-01"), date("2026-12-31")))
	})

	t.Run("predictions are ordered across patterns", func(t *testing.T) {
		patterns := []models.RecurringPattern{
			{Description: "b", AverageIntervalDays: 5, LastOccurrenceDate: date("2026-01-01")},
			{Description: "a", AverageIntervalDays: 3, LastOccurrenceDate: date("2026-01-01")},
		}
		predictions := e.Project(patterns, date("2026-01-01"), date("2026-01-17"))
		for i := 1; i < len(predictions); i++ {
			assert.False(t, predictions[i].Date.Before(predictions[i-1].Date))
		}
	})
}

func TestSimulate(t *testing.T) {
	e := NewEngine(DefaultConfig())
	today := date("2026-01-15")
	predictions := []models.PredictedTransaction{
		{Date: date("2026-01-15"), Amount: 20, Type: models.TransactionExpense},
		{Date: date("2026-01-20"), Amount: 1500.5, Type: models.TransactionIncome},
		{Date: date("2026-01-20"), Amount: 0.1, Type: models.TransactionExpense},
		{Date: date("2026-01-20"), Amount: 0.2, Type: models.TransactionExpense},
		{Date: date("2026-03-01"), Amount: 999.99, Type: models.TransactionExpense},
		{Date: date("2026-05-01"), Amount: 1e6, Type: models.TransactionExpense},
	}
	entries := e.Simulate(predictions, 250, today, 3)

	t.Run("one entry per day", func(t *testing.T) {
		require.Len(t, entries, 90)
		assert.Equal(t, today, entries[0].Date)
		assert.Equal(t, date("2026-04-14"), entries[len(entries)-1].Date)
		for i := 1; i < len(entries); i++ {
			assert.Equal(t, entries[i-1].Date.AddDate(0, 0, 1), entries[i].Date)
		}
	})

	t.Run("balance continuity", func(t *testing.T) {
		assert.InDelta(t, 250+entries[0].Income-entries[0].Expense, entries[0].RunningBalance, 1e-9)
		for i := 1; i < len(entries); i++ {
			want := entries[i-1].RunningBalance + entries[i].Income - entries[i].Expense
			assert.InDelta(t, want, entries[i].RunningBalance, 1e-9, entries[i].Date)
		}
	})

	t.Run("day totals", func(t *testing.T) {
		assert.Equal(t, 230.0, entries[0].RunningBalance)
		day := entries[5]
		assert.Equal(t, date("2026-01-20"), day.Date)
		assert.Equal(t, 1500.5, day.Income)
		assert.Equal(t, 0.3, day.Expense)
		assert.Equal(t, 1730.2, day.RunningBalance)
		assert.Len(t, day.Predictions, 3)
		assert.NotNil(t, entries[1].Predictions)
		assert.Empty(t, entries[1].Predictions)
		assert.Equal(t, 730.21, entries[len(entries)-1].RunningBalance)
	})
}

func TestDetectRisk(t *testing.T) {
	e := NewEngine(DefaultConfig())
	entriesFor := func(balances ...float64) []models.DailyBalanceEntry {
		var out []models.DailyBalanceEntry
		for i, b := range balances {
			out = append(out, models.DailyBalanceEntry{Date: date("2026-01-01").AddDate(0, 0, i), RunningBalance: b})
		}
		return out
	}

	t.Run("earliest breach wins", func(t *testing.T) {
		risk := e.DetectRisk(entriesFor(120, 80, -10, 50))
		require.NotNil(t, risk)
		assert.Equal(t, 80.0, risk.Balance)
		assert.Equal(t, date("2026-01-02"), risk.Date)
		assert.Equal(t, models.RiskLowBalance, risk.Kind)
		assert.Contains(t, risk.Message, "Low balance")
	})

	t.Run("overdraft before any low balance day", func(t *testing.T) {
		risk := e.DetectRisk(entriesFor(500, -0.01, 20))
		require.NotNil(t, risk)
		assert.Equal(t, models.RiskOverdraft, risk.Kind)
		assert.Equal(t, -0.01, risk.Balance)
		assert.Contains(t, risk.Message, "overdraft")
	})

	t.Run("clear horizon", func(t *testing.T) {
		assert.Nil(t, e.DetectRisk(entriesFor(100, 150, 1000)))
		assert.Nil(t, e.DetectRisk(nil))
	})

	t.Run("threshold from configuration", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LowBalanceThreshold = 1000
		risk := NewEngine(cfg).DetectRisk(entriesFor(1200, 999))
		require.NotNil(t, risk)
		assert.Equal(t, 999.0, risk.Balance)
	})
}

func TestForecast(t *testing.T) {
	e := NewEngine(DefaultConfig())
	now := time.Date(2026, 3, 15, 18, 30, 0, 0, time.UTC)
	txs := []models.Transaction{
		tx(1, "Salary", 3000, models.TransactionIncome, "salary", "2026-01-05"),
		tx(2, "Salary", 3000, models.TransactionIncome, "salary", "2026-02-05"),
		tx(3, "Salary", 3000, models.TransactionIncome, "salary", "2026-03-05"),
		tx(4, "Rent", 2500, models.TransactionExpense, "housing", "2026-01-01"),
		tx(5, "Rent", 2500, models.TransactionExpense, "housing", "2026-02-01"),
		tx(6, "Rent", 2500, models.TransactionExpense, "housing", "2026-03-01"),
		tx(7, "Bakery", 7, models.TransactionExpense, "food", "2026-03-10"),
	}

	result := e.Forecast(txs, 200, now, 2)
	require.Len(t, result.Predictions, 61)
	assert.Equal(t, date("2026-03-15"), result.Predictions[0].Date)
	assert.Equal(t, 200.0, result.Predictions[0].RunningBalance)

	require.NotNil(t, result.OverdraftRisk)
	assert.Equal(t, models.RiskOverdraft, result.OverdraftRisk.Kind)
	assert.Equal(t, date("2026-03-31"), result.OverdraftRisk.Date)
	assert.Equal(t, -2300.0, result.OverdraftRisk.Balance)

	t.Run("idempotent", func(t *testing.T) {
		again := e.Forecast(txs, 200, now, 2)
		assert.Equal(t, result, again)
		assert.Equal(t, e.DetectPatterns(txs, ForecastProfile()), e.DetectPatterns(txs, ForecastProfile()))
	})
}

func TestRecurringBills(t *testing.T) {
	e := NewEngine(DefaultConfig())
	txs := append(netflixHistory(),
		tx(10, "Domain renewal", 24, models.TransactionExpense, "web", "2024-03-01"),
		tx(11, "Domain renewal", 24, models.TransactionExpense, "web", "2025-03-01"),
		tx(20, "Salary", 3000, models.TransactionIncome, "salary", "2026-01-05"),
		tx(21, "Salary", 3000, models.TransactionIncome, "salary", "2026-02-05"),
	)

	resp := e.RecurringBills(txs)
	require.Len(t, resp.RecurringExpenses, 2)
	for _, p := range resp.RecurringExpenses {
		assert.Equal(t, models.TransactionExpense, p.Type)
	}
	assert.Equal(t, 2, resp.Statistics.TotalRecurringExpenses)
	assert.Equal(t, 12.99, resp.Statistics.TotalMonthlyRecurring)
	assert.Equal(t, 24.0, resp.Statistics.TotalAnnualRecurring)
	assert.Equal(t, 0.0, resp.Statistics.TotalQuarterlyRecurring)
	assert.Equal(t, 14.99, resp.Statistics.EstimatedMonthlyBudget)

	empty := e.RecurringBills(nil)
	assert.NotNil(t, empty.RecurringExpenses)
	assert.Zero(t, empty.Statistics.TotalRecurringExpenses)
}

func TestSummarizeCustom(t *testing.T) {
	stats := Summarize([]models.RecurringPattern{
		{AverageAmount: 30, AverageIntervalDays: 7, FrequencyLabel: models.FrequencyCustom},
		{AverageAmount: 90, AverageIntervalDays: 91, FrequencyLabel: models.FrequencyQuarterly},
	})
	assert.Equal(t, 90.0, stats.TotalQuarterlyRecurring)
	// 30*30/7 = 128.571..., plus 90/3
	assert.Equal(t, 158.57, stats.EstimatedMonthlyBudget)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"lookback", func(c *Config) { c.ForecastLookbackDays = 0 }},
		{"bill lookback", func(c *Config) { c.BillLookbackMonths = -1 }},
		{"horizon", func(c *Config) { c.MaxHorizonMonths = 1 }},
		{"thresholds", func(c *Config) { c.LowBalanceThreshold = -5 }},
		{"method", func(c *Config) { c.Bill.Method = "magic" }},
		{"occurrences", func(c *Config) { c.Forecast.MinOccurrences = 1 }},
		{"confidence", func(c *Config) { c.Bill.MinConfidence = 100 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
