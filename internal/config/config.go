package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// SQLite booking store
	DatabasePath string

	// Redis-backed conversation sessions
	RedisAddr     string
	RedisPassword string
	SessionTTL    time.Duration

	// Groq (OpenAI-compatible) completion API
	GroqAPIKey  string
	GroqBaseURL string
	ChatModel   string

	// Retrieval sidecar
	RetrieverBaseURL string
	RetrieverAPIKey  string
	RetrieverTimeout time.Duration

	// Confirmation email
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	AdminJWTSecret string

	// Conversation memory replayed into LLM prompts
	MaxMemoryTurns int

	// HTTP surface
	CORSAllowedOrigins []string
	ChatRateLimit      float64
	ChatRateBurst      int
}

// Load reads configuration from the environment. A local .env file is honored
// when present so the server can run outside a container.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabasePath: getEnv("DATABASE_PATH", "db/bookings.db"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		GroqAPIKey:  getEnv("GROQ_API_KEY", ""),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		ChatModel:   getEnv("CHAT_MODEL", "llama-3.3-70b-versatile"),

		RetrieverBaseURL: getEnv("RETRIEVER_BASE_URL", ""),
		RetrieverAPIKey:  getEnv("RETRIEVER_API_KEY", ""),
		RetrieverTimeout: getEnvAsDuration("RETRIEVER_TIMEOUT", 15*time.Second),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Bookwise Assistant"),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		MaxMemoryTurns: getEnvAsInt("MAX_MEMORY_TURNS", 25),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		ChatRateLimit:      getEnvAsFloat("CHAT_RATE_LIMIT", 2),
		ChatRateBurst:      getEnvAsInt("CHAT_RATE_BURST", 5),
	}
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
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
