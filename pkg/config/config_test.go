package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LEDGER_ROOT", "")
	t.Setenv("LEDGER_DB_PATH", "")
	t.Setenv("LEDGER_TABLES", "")
	t.Setenv("DEBUG", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./ledger", cfg.Ledger.Root)
	assert.Empty(t, cfg.Ledger.DBPath)
	assert.Equal(t, "config/tables.yaml", cfg.Ledger.TablesPath)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LEDGER_ROOT", "/data/ledger")
	t.Setenv("LEDGER_DB_PATH", "/data/ledger/.sync/history.db")
	t.Setenv("LEDGER_TABLES", "/etc/paypal-ledger/tables.yaml")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/ledger", cfg.Ledger.Root)
	assert.Equal(t, "/data/ledger/.sync/history.db", cfg.Ledger.DBPath)
	assert.Equal(t, "/etc/paypal-ledger/tables.yaml", cfg.Ledger.TablesPath)
	assert.True(t, cfg.Debug)
}

func TestLoadEnvFile(t *testing.T) {
	// godotenv never overrides variables that are already set, so the
	// variable must be absent, not merely empty. t.Setenv registers the
	// restore; Unsetenv clears it for the test body.
	t.Setenv("LEDGER_ROOT", "")
	os.Unsetenv("LEDGER_ROOT")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEDGER_ROOT=/from/env/file\n"), 0644))

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, "/from/env/file", cfg.Ledger.Root)
}

func TestLoadMissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load .env file")
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{
		Ledger: LedgerConfig{Root: "./ledger", TablesPath: "config/tables.yaml"},
	}

	require.NoError(t, cfg.Validate("ledger.root", "ledger.tables"))

	err := cfg.Validate("ledger.root", "ledger.dbPath")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ledger.dbPath")
	assert.NotContains(t, err.Error(), "ledger.root")
}
