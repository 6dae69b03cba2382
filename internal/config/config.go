package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string
	LogFile  string

	TelegramToken  string
	TelegramAPIURL string

	CompletionBackend string
	OpenAIAPIKey      string
	GeminiAPIKey      string

	RecordStore       string
	GoogleCredsJSON   string
	SheetID           string
	SheetTitle        string
	SheetRange        string
	DatabaseURL       string
	SessionBackend    string
	SessionTTL        time.Duration
	RedisAddr         string
	RedisPassword     string
	WorkerCount       int
	WorkerQueueSize   int
	StoreTimeout      time.Duration
	CompletionTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "10000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		TelegramToken:  strings.TrimSpace(getEnv("TELEGRAM_TOKEN", "")),
		TelegramAPIURL: getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),

		CompletionBackend: strings.ToLower(strings.TrimSpace(getEnv("COMPLETION_BACKEND", "openai"))),
		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),

		RecordStore:       strings.ToLower(strings.TrimSpace(getEnv("RECORD_STORE", "sheets"))),
		GoogleCredsJSON:   getEnv("GOOGLE_CREDS", ""),
		SheetID:           getEnv("SHEET_ID", ""),
		SheetTitle:        getEnv("SHEET_TITLE", "Patients"),
		SheetRange:        getEnv("SHEET_RANGE", ""),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		SessionBackend:    strings.ToLower(strings.TrimSpace(getEnv("SESSION_BACKEND", "memory"))),
		SessionTTL:        getEnvAsDuration("SESSION_TTL", 30*24*time.Hour),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		WorkerCount:       getEnvAsInt("WORKER_COUNT", 4),
		WorkerQueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 64),
		StoreTimeout:      getEnvAsDuration("STORE_TIMEOUT", 30*time.Second),
		CompletionTimeout: getEnvAsDuration("COMPLETION_TIMEOUT", 30*time.Second),
	}
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
