// Package config provides configuration management for the ledger
// converter. Paths come from environment variables and .env files; the
// account and VAT tables come from a YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the environment-driven part of the configuration.
type Config struct {
	Ledger LedgerConfig
	Debug  bool
}

// LedgerConfig represents ledger output configuration.
type LedgerConfig struct {
	Root       string // root directory for monthly ledger files
	DBPath     string // conversion-history database, defaults under Root
	TablesPath string // account/VAT tables YAML file
}

// Load loads configuration from environment variables. It automatically
// loads a .env file from the current directory if available; a custom
// .env path can be given instead.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Ignore a missing default .env.
		_ = godotenv.Load()
	}

	config := &Config{
		Ledger: LedgerConfig{
			Root:       getEnvOrDefault("LEDGER_ROOT", "./ledger"),
			DBPath:     os.Getenv("LEDGER_DB_PATH"),
			TablesPath: getEnvOrDefault("LEDGER_TABLES", "config/tables.yaml"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate checks that the named fields are set.
// Field names: "ledger.root", "ledger.dbPath", "ledger.tables".
func (c *Config) Validate(required ...string) error {
	var missing []string

	for _, field := range required {
		var value string
		switch field {
		case "ledger.root":
			value = c.Ledger.Root
		case "ledger.dbPath":
			value = c.Ledger.DBPath
		case "ledger.tables":
			value = c.Ledger.TablesPath
		}
		if value == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %v\nPlease check your .env file or environment variables", missing)
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
