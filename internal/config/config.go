package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aaraalto/money-manager/internal/finance"
	"github.com/shopspring/decimal"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBConn    string
	LogLevel  string
	JWTSecret string
	RedisAddr string

	// RatesURL points at the central-bank SOAP endpoint used to default the
	// projection growth rate when a request does not supply one.
	RatesURL string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string

	// Simulation defaults applied when a request omits the parameter.
	DefaultExtraPayment    decimal.Decimal
	DefaultGrowthRate      decimal.Decimal
	ProjectionHorizonYears int

	policy finance.Policy
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DBConn:    getEnv("DB_CONN", "host=localhost port=5432 user=coach password=coach dbname=coach sslmode=disable"),
		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		JWTSecret: getEnv("JWT_SECRET", "secret"),
		RedisAddr: getEnv("REDIS_ADDR", ""),
		RatesURL:  getEnv("RATES_URL", "https://www.cbr.ru/DailyInfoWebServ/DailyInfo.asmx"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "coach@money-manager.local"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	if cfg.DefaultExtraPayment, err = getEnvDecimal("DEFAULT_EXTRA_PAYMENT", "500"); err != nil {
		return nil, err
	}
	if cfg.DefaultGrowthRate, err = getEnvDecimal("DEFAULT_GROWTH_RATE", "0.07"); err != nil {
		return nil, err
	}
	if cfg.ProjectionHorizonYears, err = getEnvInt("PROJECTION_HORIZON_YEARS", 10); err != nil {
		return nil, err
	}

	// Engine thresholds are policy, not code: every tier cutoff can be
	// overridden from the environment.
	pol := finance.DefaultPolicy()
	if pol.AbundanceSurplusMultiple, err = getEnvDecimal("ABUNDANCE_SURPLUS_MULTIPLE", pol.AbundanceSurplusMultiple.String()); err != nil {
		return nil, err
	}
	if pol.SafeWithdrawalRate, err = getEnvDecimal("SAFE_WITHDRAWAL_RATE", pol.SafeWithdrawalRate.String()); err != nil {
		return nil, err
	}
	if pol.ToxicRateThreshold, err = getEnvDecimal("TOXIC_RATE_THRESHOLD", pol.ToxicRateThreshold.String()); err != nil {
		return nil, err
	}
	if pol.TargetSavingsRate, err = getEnvDecimal("TARGET_SAVINGS_RATE", pol.TargetSavingsRate.String()); err != nil {
		return nil, err
	}
	if pol.EmergencyFundMonths, err = getEnvInt("EMERGENCY_FUND_MONTHS", pol.EmergencyFundMonths); err != nil {
		return nil, err
	}
	if pol.InvestedExpenseYears, err = getEnvInt("INVESTED_EXPENSE_YEARS", pol.InvestedExpenseYears); err != nil {
		return nil, err
	}
	if pol.MaxPayoffMonths, err = getEnvInt("MAX_PAYOFF_MONTHS", pol.MaxPayoffMonths); err != nil {
		return nil, err
	}
	pol.BurnExcludesDebtService = getEnv("BURN_EXCLUDES_DEBT_SERVICE", "false") == "true"
	cfg.policy = pol

	return cfg, nil
}

// Policy returns the engine thresholds with environment overrides applied.
func (c *Config) Policy() finance.Policy {
	return c.policy
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvDecimal(key, defaultVal string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(getEnv(key, defaultVal))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a decimal number: %w", key, err)
	}
	return d, nil
}

func getEnvInt(key string, defaultVal int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return v, nil
}
