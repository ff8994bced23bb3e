package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Dialogue oracles; with neither key the demo policy is used
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	ClaudeModel     string
	LLMTemperature  float64

	// Calendar; without credentials events go to the demo calendar
	GoogleCalendarID         string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	TimeZone                 string

	// Storage
	DBPath        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration

	// Surfaces
	HTTPPort         int
	TelegramBotToken string

	// Booking e-mail
	ResendAPIKey string
	EmailFrom    string
	NotifyEmail  string

	DevMode bool
}

func LoadFromEnv() *Config {
	cfg := &Config{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     getEnvOrDefault("CALENDRIX_OPENAI_MODEL", "gpt-4o"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		ClaudeModel:     getEnvOrDefault("CALENDRIX_CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		LLMTemperature:  getEnvAsFloatOrDefault("CALENDRIX_LLM_TEMPERATURE", 0.7),

		GoogleCalendarID:         getEnvOrDefault("GOOGLE_CALENDAR_ID", "primary"),
		GoogleServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		GoogleServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		TimeZone:                 getEnvOrDefault("CALENDRIX_TIMEZONE", "UTC"),

		DBPath:        getEnvOrDefault("CALENDRIX_DB_PATH", "./scheduler.db"),
		RedisAddr:     os.Getenv("CALENDRIX_REDIS_ADDR"),
		RedisPassword: os.Getenv("CALENDRIX_REDIS_PASSWORD"),
		RedisDB:       getEnvAsIntOrDefault("CALENDRIX_REDIS_DB", 0),
		SessionTTL:    time.Duration(getEnvAsIntOrDefault("CALENDRIX_SESSION_TTL_MINUTES", 1440)) * time.Minute,

		HTTPPort:         getEnvAsIntOrDefault("CALENDRIX_HTTP_PORT", getEnvAsIntOrDefault("PORT", 5000)),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    os.Getenv("CALENDRIX_EMAIL_FROM"),
		NotifyEmail:  os.Getenv("CALENDRIX_NOTIFY_EMAIL"),

		DevMode: getEnvAsBoolOrDefault("CALENDRIX_DEV_MODE", false),
	}

	return cfg
}

// HasGoogleCredentials reports whether a service account is configured
func (c *Config) HasGoogleCredentials() bool {
	return c.GoogleServiceAccountJSON != "" || c.GoogleServiceAccountFile != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
