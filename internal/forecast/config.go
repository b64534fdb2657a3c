package forecast

import "fmt"

// ScoreMethod selects the confidence formula applied by a profile.
type ScoreMethod string

const (
	// MethodBlend averages an occurrence-count score and an amount-stability score:
	//
	//	occurrence = min(100, count/6*100)
	//	amount     = max(0, 100 - amountStdDev/|amountMean|*100)
	//	confidence = round((occurrence + amount) / 2)
	//
	// Any interval is accepted; intervals outside the known bands are labelled custom.
	MethodBlend ScoreMethod = "blend"

	// MethodRegularity scores how regular the gaps between occurrences are:
	//
	//	confidence = 100 - intervalStdDev/averageInterval*100
	//
	// It is only evaluated when the average interval falls in a frequency band,
	// or when intervalStdDev < 5 over more than two intervals (custom cadence).
	MethodRegularity ScoreMethod = "regularity"
)

// Profile is a named threshold set for the confidence scorer. A group is
// accepted when it has at least MinOccurrences members and its confidence is
// strictly greater than MinConfidence.
type Profile struct {
	Name           string      `toml:"name"`
	Method         ScoreMethod `toml:"method"`
	MinOccurrences int         `toml:"min_occurrences"`
	MinConfidence  float64     `toml:"min_confidence"`
}

// ForecastProfile is used when feeding patterns into the cash-flow forecast.
func ForecastProfile() Profile {
	return Profile{Name: "forecast", Method: MethodBlend, MinOccurrences: 2, MinConfidence: 0}
}

// BillProfile is used when classifying recurring bills for the listing.
func BillProfile() Profile {
	return Profile{Name: "bill", Method: MethodRegularity, MinOccurrences: 2, MinConfidence: 60}
}

// Config holds every tunable of the detection and forecast pipeline
type Config struct {
	ForecastLookbackDays int     `toml:"forecast_lookback_days"`
	BillLookbackMonths   int     `toml:"bill_lookback_months"`
	DefaultHorizonMonths int     `toml:"default_horizon_months"`
	MaxHorizonMonths     int     `toml:"max_horizon_months"`
	LowBalanceThreshold  float64 `toml:"low_balance_threshold"`
	OverdraftThreshold   float64 `toml:"overdraft_threshold"`
	StripPunctuation     bool    `toml:"strip_punctuation"`
	Forecast             Profile `toml:"forecast_profile"`
	Bill                 Profile `toml:"bill_profile"`
}

// DefaultConfig returns the thresholds the pipeline uses when nothing is overridden
func DefaultConfig() Config {
	return Config{
		ForecastLookbackDays: 180,
		BillLookbackMonths:   12,
		DefaultHorizonMonths: 3,
		MaxHorizonMonths:     24,
		LowBalanceThreshold:  100,
		OverdraftThreshold:   0,
		StripPunctuation:     true,
		Forecast:             ForecastProfile(),
		Bill:                 BillProfile(),
	}
}

// Validate rejects configurations the pipeline cannot run with
func (c Config) Validate() error {
	if c.ForecastLookbackDays <= 0 {
		return fmt.Errorf("forecast_lookback_days must be positive, got %d", c.ForecastLookbackDays)
	}
	if c.BillLookbackMonths <= 0 {
		return fmt.Errorf("bill_lookback_months must be positive, got %d", c.BillLookbackMonths)
	}
	if c.DefaultHorizonMonths <= 0 || c.MaxHorizonMonths < c.DefaultHorizonMonths {
		return fmt.Errorf("horizon months invalid: default %d, max %d", c.DefaultHorizonMonths, c.MaxHorizonMonths)
	}
	if c.LowBalanceThreshold < c.OverdraftThreshold {
		return fmt.Errorf("low_balance_threshold %.2f is below overdraft_threshold %.2f",
			c.LowBalanceThreshold, c.OverdraftThreshold)
	}
	for _, p := range []Profile{c.Forecast, c.Bill} {
		if err := p.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p Profile) validate() error {
	switch p.Method {
	case MethodBlend, MethodRegularity:
	default:
		return fmt.Errorf("profile %q: unknown method %q", p.Name, p.Method)
	}
	if p.MinOccurrences < 2 {
		return fmt.Errorf("profile %q: min_occurrences must be at least 2, got %d", p.Name, p.MinOccurrences)
	}
	if p.MinConfidence < 0 || p.MinConfidence >= 100 {
		return fmt.Errorf("profile %q: min_confidence must be in [0, 100), got %.2f", p.Name, p.MinConfidence)
	}
	return nil
}
