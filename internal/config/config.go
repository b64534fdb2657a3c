package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Dan9191/cashflow-service/internal/forecast"
)

// Config holds application configuration
type Config struct {
	Port           string
	DBConn         string
	LogLevel       string
	JWTSecret      string
	CBRURL         string
	BaseCurrency   string
	UseMemoryStore bool
	CORSOrigins    []string

	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SenderEmail   string
	AlertsEnabled bool
	AlertSchedule string

	ThresholdsFile string
	Forecast       forecast.Config
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBConn:         getEnv("DB_CONN", "host=localhost port=5436 user=test password=test dbname=bank sslmode=disable"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:      getEnv("JWT_SECRET", "secret"),
		CBRURL:         getEnv("CBR_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),
		BaseCurrency:   strings.ToUpper(getEnv("BASE_CURRENCY", "RUB")),
		UseMemoryStore: getEnvBool("USE_MEMORY_STORE", false),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		SMTPHost:       getEnv("SMTP_HOST", "localhost"),
		SMTPPort:       getEnv("SMTP_PORT", "1025"),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SenderEmail:    getEnv("SENDER_EMAIL", "alerts@bank.local"),
		AlertsEnabled:  getEnvBool("ALERTS_ENABLED", false),
		AlertSchedule:  getEnv("ALERT_SCHEDULE", "0 8 * * *"),
		ThresholdsFile: getEnv("THRESHOLDS_FILE", ""),
		Forecast:       forecast.DefaultConfig(),
	}

	if !cfg.UseMemoryStore && cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if len(cfg.BaseCurrency) != 3 {
		return nil, fmt.Errorf("BASE_CURRENCY must be a 3-letter code, got %q", cfg.BaseCurrency)
	}
	if cfg.AlertsEnabled && cfg.SenderEmail == "" {
		return nil, fmt.Errorf("SENDER_EMAIL is required when alerts are enabled")
	}

	if cfg.ThresholdsFile != "" {
		fc, err := LoadThresholds(cfg.ThresholdsFile, cfg.Forecast)
		if err != nil {
			return nil, err
		}
		cfg.Forecast = fc
	}
	if err := cfg.Forecast.Validate(); err != nil {
		return nil, fmt.Errorf("invalid forecast thresholds: %w", err)
	}

	return cfg, nil
}

// LoadThresholds overlays the TOML file at path on base. Keys missing from the
// file keep their base values.
func LoadThresholds(path string, base forecast.Config) (forecast.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read thresholds file: %w", err)
	}
	return ParseThresholds(string(data), base)
}

// ParseThresholds overlays TOML text on base and validates the result
func ParseThresholds(text string, base forecast.Config) (forecast.Config, error) {
	cfg := base
	md, err := toml.Decode(text, &cfg)
	if err != nil {
		return base, fmt.Errorf("failed to parse thresholds: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, fmt.Errorf("unknown thresholds keys: %v", undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return base, fmt.Errorf("invalid forecast thresholds: %w", err)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultVal
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
