package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Database
	SQLiteDBPath string

	// Store selection
	Store string // "sqlite" or "memory"

	// AMQP event bus (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export (export worker only)
	SheetsSpreadsheetID   string
	SheetsName            string
	SheetsOAuthClientFile string
	SheetsOAuthTokenFile  string

	// Seeding
	SeedProfilePath string
	SeedCount       int
	SeedWorkers     int

	// HTTP caching
	StatsCacheTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "8000"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/expenses.db"),
		Store:        getEnv("STORE", "sqlite"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expenses"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		SheetsSpreadsheetID:   getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsName:            getEnv("SHEETS_NAME", "Expenses"),
		SheetsOAuthClientFile: getEnv("SHEETS_OAUTH_CLIENT_FILE", ""),
		SheetsOAuthTokenFile:  getEnv("SHEETS_OAUTH_TOKEN_FILE", ""),

		SeedProfilePath: getEnv("SEED_PROFILE", ""),
		SeedCount:       getEnvInt("SEED_COUNT", 30),
		SeedWorkers:     getEnvInt("SEED_WORKERS", 4),

		StatsCacheTTL: getEnvDuration("STATS_CACHE_TTL", 30*time.Second),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.Store {
	case "sqlite", "memory":
	default:
		problems = append(problems, fmt.Sprintf("invalid store '%s': must be one of [sqlite memory]", c.Store))
	}

	if c.Store == "sqlite" {
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLite database path cannot be empty when using sqlite store")
		} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					problems = append(problems, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SeedCount < 1 {
		problems = append(problems, fmt.Sprintf("invalid seed count %d: must be at least 1", c.SeedCount))
	}
	if c.SeedWorkers < 1 {
		problems = append(problems, fmt.Sprintf("invalid seed workers %d: must be at least 1", c.SeedWorkers))
	}
	if c.StatsCacheTTL < time.Second {
		problems = append(problems, fmt.Sprintf("invalid stats cache TTL %v: must be at least 1 second", c.StatsCacheTTL))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// ValidateSheets checks the export-worker specific settings.
func (c *Config) ValidateSheets() error {
	var problems []string

	if c.SheetsSpreadsheetID == "" {
		problems = append(problems, "spreadsheet ID is required for sheets export")
	}
	if c.SheetsName == "" {
		problems = append(problems, "sheet name is required for sheets export")
	}
	if c.SheetsOAuthClientFile == "" {
		problems = append(problems, "OAuth client file is required for sheets export")
	} else if _, err := os.Stat(c.SheetsOAuthClientFile); os.IsNotExist(err) {
		problems = append(problems, fmt.Sprintf("OAuth client file does not exist: %s", c.SheetsOAuthClientFile))
	}
	if c.SheetsOAuthTokenFile == "" {
		problems = append(problems, "OAuth token file is required for sheets export")
	} else if _, err := os.Stat(c.SheetsOAuthTokenFile); os.IsNotExist(err) {
		problems = append(problems, fmt.Sprintf("OAuth token file does not exist: %s", c.SheetsOAuthTokenFile))
	}

	if len(problems) > 0 {
		return fmt.Errorf("sheets configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
