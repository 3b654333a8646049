package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the full environment-style configuration surface of the bot.
type Config struct {
	Environment string
	LogDir      string

	MetaAPI    MetaAPIConfig
	Telegram   TelegramConfig
	Trading    TradingConfig
	Monitoring MonitoringConfig
	Journal    JournalConfig
}

// MetaAPIConfig holds brokerage gateway credentials and the account guard.
type MetaAPIConfig struct {
	APIKey    string
	AccountID string
	// AllowedAccountNumber rejects the connection post-hoc when the
	// connected terminal's login does not match.
	AllowedAccountNumber int64
	RequestTimeout       time.Duration
}

// TelegramConfig holds the transport credentials and delivery settings.
type TelegramConfig struct {
	Token string
	// AuthorizedUser is the single Telegram username allowed to drive the
	// bot.
	AuthorizedUser string
	// AppURL is the externally reachable callback base URL. Empty selects
	// long polling instead of a webhook.
	AppURL string
	Port   int
}

// TradingConfig holds the risk settings applied to every calculated trade.
type TradingConfig struct {
	RiskFraction float64
	// Symbols overrides the built-in instrument allow-list when set.
	Symbols []string
}

// MonitoringConfig holds the health and metrics endpoint ports.
type MonitoringConfig struct {
	HealthPort     int
	PrometheusPort int
}

// JournalConfig holds the trade journal location.
type JournalConfig struct {
	DBPath string
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		Environment: getEnv("ENV", "development"),
		LogDir:      getEnv("LOG_DIR", "logs"),

		MetaAPI: MetaAPIConfig{
			APIKey:               getEnv("METAAPI_API_KEY", ""),
			AccountID:            getEnv("METAAPI_ACCOUNT_ID", ""),
			AllowedAccountNumber: getEnvInt64("ALLOWED_ACCOUNT_NUMBER", 0),
			RequestTimeout:       getEnvDuration("METAAPI_REQUEST_TIMEOUT", 30*time.Second),
		},

		Telegram: TelegramConfig{
			Token:          getEnv("TELEGRAM_TOKEN", ""),
			AuthorizedUser: getEnv("TELEGRAM_USER", ""),
			AppURL:         getEnv("APP_URL", ""),
			Port:           getEnvInt("PORT", 8443),
		},

		Trading: TradingConfig{
			RiskFraction: getEnvFloat("RISK_FACTOR", 0),
		},

		Monitoring: MonitoringConfig{
			HealthPort:     getEnvInt("HEALTH_PORT", 8081),
			PrometheusPort: getEnvInt("PROMETHEUS_PORT", 8080),
		},

		Journal: JournalConfig{
			DBPath: getEnv("JOURNAL_DB_PATH", "signal-trader.db"),
		},
	}
}

// Validate checks that every required setting is present and sane.
func (c *Config) Validate() error {
	if c.MetaAPI.APIKey == "" {
		return fmt.Errorf("METAAPI_API_KEY is required")
	}
	if c.MetaAPI.AccountID == "" {
		return fmt.Errorf("METAAPI_ACCOUNT_ID is required")
	}
	if c.MetaAPI.AllowedAccountNumber == 0 {
		return fmt.Errorf("ALLOWED_ACCOUNT_NUMBER is required")
	}
	if c.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is required")
	}
	if c.Telegram.AuthorizedUser == "" {
		return fmt.Errorf("TELEGRAM_USER is required")
	}
	if c.Telegram.Port <= 0 || c.Telegram.Port > 65535 {
		return fmt.Errorf("PORT must be a valid port number")
	}
	if c.Trading.RiskFraction <= 0 || c.Trading.RiskFraction > 1 {
		return fmt.Errorf("RISK_FACTOR must be between 0 and 1")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
