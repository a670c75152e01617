package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Loans    LoanPolicy
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port string // HTTP listen port
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string // SQLite database file path
}

// RedisConfig contains Redis connection settings.
type RedisConfig struct {
	Addr string // host:port of the Redis server
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	JWTSecret string // JWT signing secret
}

// LoanPolicy holds the lending rules that the database procedures owned in the
// legacy system. They are explicit and configurable here.
type LoanPolicy struct {
	PeriodDays     int     // loan duration in days
	FinePerDay     float64 // fine accrued per whole day late
	MaxActiveLoans int     // maximum open loans per user
}

// Load loads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	periodDays, err := getEnvInt("LOAN_PERIOD_DAYS", 14)
	if err != nil {
		return nil, err
	}
	maxLoans, err := getEnvInt("MAX_ACTIVE_LOANS", 3)
	if err != nil {
		return nil, err
	}
	finePerDay, err := getEnvFloat("FINE_PER_DAY", 0.25)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "library.db"),
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_CONNSTRING", "localhost:6379"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		},
		Loans: LoanPolicy{
			PeriodDays:     periodDays,
			FinePerDay:     finePerDay,
			MaxActiveLoans: maxLoans,
		},
	}

	if cfg.Loans.PeriodDays <= 0 {
		return nil, fmt.Errorf("LOAN_PERIOD_DAYS must be positive, got %d", cfg.Loans.PeriodDays)
	}
	if cfg.Loans.FinePerDay < 0 {
		return nil, fmt.Errorf("FINE_PER_DAY must not be negative, got %g", cfg.Loans.FinePerDay)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// getEnvInt retrieves an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultVal int) (int, error) {
	if value, exists := os.LookupEnv(key); exists {
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid integer for %s: %w", key, err)
		}
		return intVal, nil
	}
	return defaultVal, nil
}

// getEnvFloat retrieves an environment variable as a float with a default fallback.
func getEnvFloat(key string, defaultVal float64) (float64, error) {
	if value, exists := os.LookupEnv(key); exists {
		floatVal, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %w", key, err)
		}
		return floatVal, nil
	}
	return defaultVal, nil
}

// String returns a string representation of the config (sensitive values are masked).
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, DB: %s, Redis: %s, Auth: *** (masked) ***, Loans: %d days / %.2f per day / max %d}",
		c.Server.Port, c.Database.Path, c.Redis.Addr, c.Loans.PeriodDays, c.Loans.FinePerDay, c.Loans.MaxActiveLoans)
}
