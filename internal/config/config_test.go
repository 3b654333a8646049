package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("METAAPI_API_KEY", "test-api-key")
	t.Setenv("METAAPI_ACCOUNT_ID", "test-account-id")
	t.Setenv("ALLOWED_ACCOUNT_NUMBER", "41511120")
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("TELEGRAM_USER", "trader")
	t.Setenv("RISK_FACTOR", "0.02")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "logs", cfg.LogDir)
	assert.Equal(t, "test-api-key", cfg.MetaAPI.APIKey)
	assert.Equal(t, int64(41511120), cfg.MetaAPI.AllowedAccountNumber)
	assert.Equal(t, 30*time.Second, cfg.MetaAPI.RequestTimeout)
	assert.Equal(t, 8443, cfg.Telegram.Port)
	assert.Equal(t, "", cfg.Telegram.AppURL)
	assert.Equal(t, 0.02, cfg.Trading.RiskFraction)
	assert.Equal(t, 8081, cfg.Monitoring.HealthPort)
	assert.Equal(t, 8080, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, "signal-trader.db", cfg.Journal.DBPath)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9443")
	t.Setenv("APP_URL", "https://bot.example.com/")
	t.Setenv("METAAPI_REQUEST_TIMEOUT", "45s")
	t.Setenv("JOURNAL_DB_PATH", "/var/lib/bot/journal.db")

	cfg := Load()

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 9443, cfg.Telegram.Port)
	assert.Equal(t, "https://bot.example.com/", cfg.Telegram.AppURL)
	assert.Equal(t, 45*time.Second, cfg.MetaAPI.RequestTimeout)
	assert.Equal(t, "/var/lib/bot/journal.db", cfg.Journal.DBPath)
}

func TestValidateRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		unset  string
		errMsg string
	}{
		{"missing api key", "METAAPI_API_KEY", "METAAPI_API_KEY"},
		{"missing account id", "METAAPI_ACCOUNT_ID", "METAAPI_ACCOUNT_ID"},
		{"missing account number", "ALLOWED_ACCOUNT_NUMBER", "ALLOWED_ACCOUNT_NUMBER"},
		{"missing token", "TELEGRAM_TOKEN", "TELEGRAM_TOKEN"},
		{"missing user", "TELEGRAM_USER", "TELEGRAM_USER"},
		{"missing risk factor", "RISK_FACTOR", "RISK_FACTOR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tc.unset, "")

			err := Load().Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestValidateRiskFractionBounds(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	cfg.Trading.RiskFraction = 1.5
	assert.Error(t, cfg.Validate())

	cfg.Trading.RiskFraction = -0.01
	assert.Error(t, cfg.Validate())

	cfg.Trading.RiskFraction = 1.0
	assert.NoError(t, cfg.Validate())
}

func TestValidatePortBounds(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	cfg.Telegram.Port = 0
	assert.Error(t, cfg.Validate())

	cfg.Telegram.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestApplyFileYAML(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()

	path := filepath.Join(t.TempDir(), "overrides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"symbols:\n  - EURUSD\n  - GBPUSD\nrisk_fraction: 0.05\nhealth_port: 9001\n"), 0o644))

	require.NoError(t, cfg.ApplyFile(path))

	assert.Equal(t, []string{"EURUSD", "GBPUSD"}, cfg.Trading.Symbols)
	assert.Equal(t, 0.05, cfg.Trading.RiskFraction)
	assert.Equal(t, 9001, cfg.Monitoring.HealthPort)
	// Untouched settings keep their environment values.
	assert.Equal(t, 8080, cfg.Monitoring.PrometheusPort)
}

func TestApplyFileJSON(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()

	path := filepath.Join(t.TempDir(), "overrides.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"symbols": ["XAUUSD"], "prometheus_port": 9100}`), 0o644))

	require.NoError(t, cfg.ApplyFile(path))

	assert.Equal(t, []string{"XAUUSD"}, cfg.Trading.Symbols)
	assert.Equal(t, 9100, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, 0.02, cfg.Trading.RiskFraction)
}

func TestApplyFileMissing(t *testing.T) {
	setRequiredEnv(t)
	cfg := Load()

	err := cfg.ApplyFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
