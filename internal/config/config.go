package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"nextgenacademy/internal/llm"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	DatabaseType    string // sqlite, postgres, supabase, mysql, or none for the local file store
	DatabaseURL     string
	DatabasePath    string
	MigrationsPath  string // empty means the embedded migrations
	LocalStorePath  string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	SessionSecret   string
	SessionDuration time.Duration
	LogLevel        string
	BlocklistURL    string // empty means the default list; "off" disables seeding
	LoginRateLimit  int    // login and register attempts per minute per client
	TrustedProxies  string // comma separated IPs or CIDRs allowed to set X-Forwarded-For

	LLMProvider     string
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	AnthropicModel  string
	LLMTimeout      time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		DatabaseType:    getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:     getEnv("DB_URL", ""),
		DatabasePath:    getEnv("DB_PATH", "./academy.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", ""),
		LocalStorePath:  getEnv("LOCAL_STORE_PATH", "./profiles.json"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		SessionSecret:   getEnv("SESSION_SECRET", "change-me-in-production"),
		SessionDuration: getEnvDuration("SESSION_DURATION", 24*time.Hour),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		BlocklistURL:    getEnv("BLOCKLIST_URL", ""),
		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		TrustedProxies:  getEnv("TRUSTED_PROXIES", ""),

		LLMProvider:     getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:    firstEnv("GEMINI_API_KEY", "API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-haiku"),
		LLMTimeout:      getEnvDuration("LLM_TIMEOUT", 30*time.Second),
	}
}

// LLM converts the provider settings into an llm.Config
func (c *Config) LLM() llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.LLMProvider
	cfg.Gemini = llm.GeminiConfig{APIKey: c.GeminiAPIKey, Model: c.GeminiModel}
	cfg.OpenAI = llm.OpenAIConfig{APIKey: c.OpenAIAPIKey, Model: c.OpenAIModel, BaseURL: c.OpenAIBaseURL}
	cfg.Anthropic = llm.AnthropicConfig{APIKey: c.AnthropicAPIKey, Model: c.AnthropicModel}
	cfg.Timeout = c.LLMTimeout
	return cfg
}

// UsesDatabase reports whether profiles are kept in a SQL database rather than the local file
func (c *Config) UsesDatabase() bool {
	return c.DatabaseType != "none" && c.DatabaseType != "local"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
