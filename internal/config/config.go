package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Policy   ledger.QuotaPolicy
	Shifts   ShiftCatalogConfig
}

// DatabaseConfig is optional; without DB_HOST the shift catalog is file based.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
	DefaultShift   string
	Lang           string
	MaxReportDays  int
}

type ShiftCatalogConfig struct {
	File string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using system environment variables")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "punch_ledger"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	maxReportDays, err := strconv.Atoi(getEnv("MAX_REPORT_DAYS", "366"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_REPORT_DAYS: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "UTC"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		DefaultShift:   getEnv("DEFAULT_SHIFT", string(ledger.Shift1)),
		Lang:           getEnv("REPORT_LANG", "en"),
		MaxReportDays:  maxReportDays,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Early-leave policy
	fridayClose, err := time.ParseDuration(getEnv("FRIDAY_EARLY_CLOSE", ledger.DefaultFridayEarlyClose.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid FRIDAY_EARLY_CLOSE: %w", err)
	}
	maxMinutes, err := strconv.Atoi(getEnv("EARLY_LEAVE_MAX_MINUTES", strconv.Itoa(ledger.DefaultEarlyLeaveMaxMinutes)))
	if err != nil {
		return nil, fmt.Errorf("invalid EARLY_LEAVE_MAX_MINUTES: %w", err)
	}
	monthlyCount, err := strconv.Atoi(getEnv("EARLY_LEAVE_MONTHLY_COUNT", strconv.Itoa(ledger.DefaultEarlyLeaveMonthlyCount)))
	if err != nil {
		return nil, fmt.Errorf("invalid EARLY_LEAVE_MONTHLY_COUNT: %w", err)
	}

	config.Policy = ledger.QuotaPolicy{
		FridayEarlyClose:       fridayClose,
		EarlyLeaveMaxMinutes:   maxMinutes,
		EarlyLeaveMonthlyCount: monthlyCount,
	}

	config.Shifts = ShiftCatalogConfig{
		File: getEnv("SHIFTS_FILE", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate checks the settings every entry point needs.
func (c *Config) Validate() error {
	if c.Policy.FridayEarlyClose < 0 {
		return fmt.Errorf("FRIDAY_EARLY_CLOSE must not be negative")
	}
	if c.Policy.EarlyLeaveMaxMinutes < 0 {
		return fmt.Errorf("EARLY_LEAVE_MAX_MINUTES must not be negative")
	}
	if c.Policy.EarlyLeaveMonthlyCount < 0 {
		return fmt.Errorf("EARLY_LEAVE_MONTHLY_COUNT must not be negative")
	}
	if c.App.MaxReportDays < 1 {
		return fmt.Errorf("MAX_REPORT_DAYS must be at least 1")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.DatabaseEnabled() && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required when DB_HOST is set")
	}
	return nil
}

// ValidateServer adds the checks only the HTTP API needs.
func (c *Config) ValidateServer() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	return nil
}

// Location returns the wall-clock context punches are read in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) DatabaseEnabled() bool {
	return c.Database.Host != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
