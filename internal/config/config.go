package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/rentora/billing-engine/internal/domain"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Receipt   ReceiptConfig   `mapstructure:"receipt"`
	Business  BusinessConfig  `mapstructure:"business"`
	Health    HealthConfig    `mapstructure:"health"`
}

type ServerConfig struct {
	Port         string `mapstructure:"SERVER_PORT"`
	Host         string `mapstructure:"SERVER_HOST"`
	Env          string `mapstructure:"ENV"`
	ReadTimeout  string `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout string `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLife  string `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	Timezone          string `mapstructure:"SCHEDULER_TIMEZONE"`
	GenerateSpec      string `mapstructure:"SCHEDULER_GENERATE_SPEC"`
	ReminderSpec      string `mapstructure:"SCHEDULER_REMINDER_SPEC"`
	OverdueSpec       string `mapstructure:"SCHEDULER_OVERDUE_SPEC"`
	LateFeeSpec       string `mapstructure:"SCHEDULER_LATE_FEE_SPEC"`
	GenerationLockTTL string `mapstructure:"SCHEDULER_GENERATION_LOCK_TTL"`
}

type GatewayConfig struct {
	BaseURL       string `mapstructure:"GATEWAY_BASE_URL"`
	APIKey        string `mapstructure:"GATEWAY_API_KEY"`
	WebhookSecret string `mapstructure:"GATEWAY_WEBHOOK_SECRET"`
	Timeout       string `mapstructure:"GATEWAY_TIMEOUT"`
}

type ReceiptConfig struct {
	BaseURL string `mapstructure:"RECEIPT_BASE_URL"`
	Timeout string `mapstructure:"RECEIPT_TIMEOUT"`
}

type BusinessConfig struct {
	Currency           string `mapstructure:"CURRENCY"`
	HorizonMonths      int    `mapstructure:"BILLING_HORIZON_MONTHS"`
	LateFeeMonthlyRate string `mapstructure:"LATE_FEE_MONTHLY_RATE"`
	DepositDueDays     int    `mapstructure:"SPLIT_DEPOSIT_DUE_DAYS"`
	BalanceDueDays     int    `mapstructure:"SPLIT_BALANCE_DUE_DAYS"`
	ReminderLeadDays   int    `mapstructure:"SPLIT_REMINDER_LEAD_DAYS"`

	RentPlatformRate       string `mapstructure:"FEE_RENT_PLATFORM_RATE"`
	RentProcessingFixed    string `mapstructure:"FEE_RENT_PROCESSING_FIXED"`
	RentInsuranceRate      string `mapstructure:"FEE_RENT_INSURANCE_RATE"`
	DepositPlatformRate    string `mapstructure:"FEE_DEPOSIT_PLATFORM_RATE"`
	DepositProcessingFixed string `mapstructure:"FEE_DEPOSIT_PROCESSING_FIXED"`
	DepositInsuranceRate   string `mapstructure:"FEE_DEPOSIT_INSURANCE_RATE"`
	MaintPlatformRate      string `mapstructure:"FEE_MAINT_PLATFORM_RATE"`
	MaintProcessingFixed   string `mapstructure:"FEE_MAINT_PROCESSING_FIXED"`
	MaintInsuranceRate     string `mapstructure:"FEE_MAINT_INSURANCE_RATE"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SCHEDULER_TIMEZONE", "UTC")
	viper.SetDefault("SCHEDULER_GENERATE_SPEC", "0 0 1 * * *")
	viper.SetDefault("SCHEDULER_REMINDER_SPEC", "0 0 9 * * *")
	viper.SetDefault("SCHEDULER_OVERDUE_SPEC", "0 30 9 * * *")
	viper.SetDefault("SCHEDULER_LATE_FEE_SPEC", "0 0 2 * * *")
	viper.SetDefault("SCHEDULER_GENERATION_LOCK_TTL", "10m")
	viper.SetDefault("GATEWAY_TIMEOUT", "10s")
	viper.SetDefault("RECEIPT_TIMEOUT", "10s")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")
	viper.SetDefault("CURRENCY", "usd")
	viper.SetDefault("BILLING_HORIZON_MONTHS", 12)
	viper.SetDefault("LATE_FEE_MONTHLY_RATE", "0.05")
	viper.SetDefault("SPLIT_DEPOSIT_DUE_DAYS", 7)
	viper.SetDefault("SPLIT_BALANCE_DUE_DAYS", 30)
	viper.SetDefault("SPLIT_REMINDER_LEAD_DAYS", 3)
	viper.SetDefault("FEE_RENT_PLATFORM_RATE", "0.05")
	viper.SetDefault("FEE_RENT_PROCESSING_FIXED", "2.50")
	viper.SetDefault("FEE_RENT_INSURANCE_RATE", "0.02")
	viper.SetDefault("FEE_DEPOSIT_PLATFORM_RATE", "0.03")
	viper.SetDefault("FEE_DEPOSIT_PROCESSING_FIXED", "1.50")
	viper.SetDefault("FEE_DEPOSIT_INSURANCE_RATE", "0.01")
	viper.SetDefault("FEE_MAINT_PLATFORM_RATE", "0.02")
	viper.SetDefault("FEE_MAINT_PROCESSING_FIXED", "1.00")
	viper.SetDefault("FEE_MAINT_INSURANCE_RATE", "0.005")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Gateway.WebhookSecret == "" {
		return fmt.Errorf("GATEWAY_WEBHOOK_SECRET is required")
	}

	if c.Business.HorizonMonths <= 0 {
		return fmt.Errorf("BILLING_HORIZON_MONTHS must be greater than 0")
	}

	if c.Business.DepositDueDays <= 0 || c.Business.BalanceDueDays <= 0 {
		return fmt.Errorf("split payment due-day offsets must be greater than 0")
	}

	if _, err := decimal.NewFromString(c.Business.LateFeeMonthlyRate); err != nil {
		return fmt.Errorf("LATE_FEE_MONTHLY_RATE must be a valid decimal: %w", err)
	}

	durations := []struct {
		key   string
		value string
	}{
		{"SERVER_READ_TIMEOUT", c.Server.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout},
		{"DATABASE_CONN_MAX_LIFETIME", c.Database.ConnMaxLife},
		{"GATEWAY_TIMEOUT", c.Gateway.Timeout},
		{"RECEIPT_TIMEOUT", c.Receipt.Timeout},
		{"HEALTH_CHECK_TIMEOUT", c.Health.Timeout},
		{"SCHEDULER_GENERATION_LOCK_TTL", c.Scheduler.GenerationLockTTL},
	}
	for _, d := range durations {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", d.key, err)
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetLateFeeMonthlyRate returns the late fee accrual rate as decimal
func (c *Config) GetLateFeeMonthlyRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.LateFeeMonthlyRate)
	return rate
}

// FeeSchedules materializes the fee schedule table keyed by payment type.
// Unknown payment types fall back to the rent schedule at calculation time.
func (c *Config) FeeSchedules() map[string]domain.FeeStructure {
	return map[string]domain.FeeStructure{
		domain.PaymentTypeRent: {
			PlatformRate:    mustDecimal(c.Business.RentPlatformRate),
			ProcessingFixed: mustDecimal(c.Business.RentProcessingFixed),
			InsuranceRate:   mustDecimal(c.Business.RentInsuranceRate),
		},
		domain.PaymentTypeDeposit: {
			PlatformRate:    mustDecimal(c.Business.DepositPlatformRate),
			ProcessingFixed: mustDecimal(c.Business.DepositProcessingFixed),
			InsuranceRate:   mustDecimal(c.Business.DepositInsuranceRate),
		},
		domain.PaymentTypeMaintenance: {
			PlatformRate:    mustDecimal(c.Business.MaintPlatformRate),
			ProcessingFixed: mustDecimal(c.Business.MaintProcessingFixed),
			InsuranceRate:   mustDecimal(c.Business.MaintInsuranceRate),
		},
	}
}

// GetServerReadTimeout returns the server read timeout as duration
func (c *Config) GetServerReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// GetServerWriteTimeout returns the server write timeout as duration
func (c *Config) GetServerWriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

// GetConnMaxLifetime returns the database connection max lifetime as duration
func (c *Config) GetConnMaxLifetime() time.Duration {
	d, _ := time.ParseDuration(c.Database.ConnMaxLife)
	return d
}

// GetGatewayTimeout returns the gateway request timeout as duration
func (c *Config) GetGatewayTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Gateway.Timeout)
	return d
}

// GetReceiptTimeout returns the receipt generator timeout as duration
func (c *Config) GetReceiptTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Receipt.Timeout)
	return d
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Health.Timeout)
	return d
}

// GetGenerationLockTTL returns the per-contract generation lock TTL as duration
func (c *Config) GetGenerationLockTTL() time.Duration {
	d, _ := time.ParseDuration(c.Scheduler.GenerationLockTTL)
	return d
}

func mustDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}
