package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/alphapulse/alphapulse/models"
)

// Config holds all application configuration loaded from the environment.
type Config struct {
	MarketDataAPIKey string
	OpenAIAPIKey     string
	TelegramToken    string
	TelegramChatID   string

	Symbols         []string
	BenchmarkSymbol string
	Interval        string
	CandleCount     int
	WindowDays      int // calendar-day window; when set, overrides CandleCount

	RiskFreeRate   float64
	SortinoTarget  float64
	VaRConfidence  float64

	SignalConfigPath string // optional YAML override for signal tables
	RegimeTablesPath string // optional YAML override for regime multipliers

	MonitorInterval int // minutes; 0 disables the monitor loop
	HistoryCapacity int
	RequestTimeout  int // seconds
	LogLevel        string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

// Load initializes configuration from environment variables, reading a
// .env file first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		MarketDataAPIKey: os.Getenv("MARKET_DATA_API_KEY"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		Symbols:         splitSymbols(getEnvWithDefault("SYMBOLS", "SPY,QQQ,TLT,GLD")),
		BenchmarkSymbol: getEnvWithDefault("BENCHMARK_SYMBOL", "SPY"),
		Interval:        getEnvWithDefault("INTERVAL", "1day"),
		CandleCount:     getEnvIntWithDefault("CANDLE_COUNT", 120),
		WindowDays:      getEnvIntWithDefault("ANALYSIS_WINDOW_DAYS", 0),

		RiskFreeRate:  getEnvFloatWithDefault("RISK_FREE_RATE", 0.03),
		SortinoTarget: getEnvFloatWithDefault("SORTINO_TARGET", 0.02),
		VaRConfidence: getEnvFloatWithDefault("VAR_CONFIDENCE", 0.95),

		SignalConfigPath: os.Getenv("SIGNAL_CONFIG_PATH"),
		RegimeTablesPath: os.Getenv("REGIME_TABLES_PATH"),

		MonitorInterval: getEnvIntWithDefault("MONITOR_INTERVAL_MIN", 0),
		HistoryCapacity: getEnvIntWithDefault("HISTORY_CAPACITY", 100),
		RequestTimeout:  getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),

		DBHost:     getEnvWithDefault("DB_HOST", ""),
		DBPort:     getEnvWithDefault("DB_PORT", "5432"),
		DBUser:     getEnvWithDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnvWithDefault("DB_NAME", "alphapulse"),
		DBSSLMode:  getEnvWithDefault("DB_SSLMODE", "disable"),
	}

	// A calendar-day window wins over a raw candle count.
	if cfg.WindowDays > 0 {
		cfg.CandleCount = models.CandlesForWindow(cfg.Interval, cfg.WindowDays)
	}

	return cfg, nil
}

func splitSymbols(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
