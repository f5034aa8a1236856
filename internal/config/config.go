package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported ledger sources
const (
	SourceCSV      = "csv"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
	SourceSheets   = "sheets"
)

// Config holds all runtime settings, read from the environment
type Config struct {
	// Ledger source selection
	DataSource string

	// CSV source
	DataPath string

	// SQL sources
	SQLiteDBPath string
	DBConnStr    string
	RunMigration bool

	// Google Sheets source
	SpreadsheetID   string
	SheetRange      string
	CredentialsFile string

	// gRPC server
	GRPCPort string

	// Ambient
	LogLevel string
	CacheTTL time.Duration
}

// Load reads an optional .env file and the environment
func Load() *Config {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	return &Config{
		DataSource: strings.ToLower(getEnv("DATA_SOURCE", SourceCSV)),
		DataPath:   getEnv("DATA_PATH", "financeiro_lumos.csv"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/ledger.db"),
		DBConnStr:    postgresConnStr(),
		RunMigration: getEnvBool("DB_MIGRATE", true),

		SpreadsheetID:   getEnv("GOOGLE_SPREADSHEET_ID", ""),
		SheetRange:      getEnv("GOOGLE_SHEET_RANGE", "Ledger!A:G"),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),

		GRPCPort: getEnv("GRPC_PORT", "8080"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),
	}
}

// Validate checks the configuration and returns every problem at once
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.GRPCPort); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.GRPCPort))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.DataSource {
	case SourceCSV:
		if c.DataPath == "" {
			problems = append(problems, "DATA_PATH is required when using the csv source")
		}
	case SourceSQLite:
		if c.SQLiteDBPath == "" {
			problems = append(problems, "SQLITE_DB_PATH is required when using the sqlite source")
		}
	case SourcePostgres:
		if c.DBConnStr == "" {
			problems = append(problems, "DB_CONN_STR is required when using the postgres source")
		}
	case SourceSheets:
		if c.SpreadsheetID == "" {
			problems = append(problems, "GOOGLE_SPREADSHEET_ID is required when using the sheets source")
		}
		if c.SheetRange == "" {
			problems = append(problems, "GOOGLE_SHEET_RANGE is required when using the sheets source")
		}
		if c.CredentialsFile == "" {
			problems = append(problems, "GOOGLE_CREDENTIALS_FILE is required when using the sheets source")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid data source '%s': must be one of %v",
			c.DataSource, []string{SourceCSV, SourceSQLite, SourcePostgres, SourceSheets}))
	}

	if c.CacheTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid cache TTL %v: cannot be negative", c.CacheTTL))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// postgresConnStr prefers DB_CONN_STR and otherwise builds one from the individual DB_* vars
func postgresConnStr() string {
	if conn := os.Getenv("DB_CONN_STR"); conn != "" {
		return conn
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "cashhealth"),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
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
