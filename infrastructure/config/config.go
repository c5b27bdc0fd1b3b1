package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Local durable store
	DatabasePath string

	// Remote mirror (optional — empty URL means pure local-only mode)
	SupabaseURL   string
	SupabaseKey   string
	SupabaseTable string

	// External analyzer
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Plan fallback for tokens without a plan claim
	DefaultPlan string

	// Logging and features
	LogLevel   string
	EnableCORS bool

	// Rate limiting
	IPRequestsPerMinute    int
	OwnerRequestsPerMinute int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		DatabasePath: getEnv("DATABASE_PATH", "rekrutin.db"),

		SupabaseURL:   getEnv("SUPABASE_URL", ""),
		SupabaseKey:   getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseTable: getEnv("SUPABASE_APPLICATIONS_TABLE", "applications"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "rekrutinai"),

		DefaultPlan: getEnv("DEFAULT_PLAN", "free"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),

		IPRequestsPerMinute:    getEnvInt("IP_REQUESTS_PER_MINUTE", 100),
		OwnerRequestsPerMinute: getEnvInt("OWNER_REQUESTS_PER_MINUTE", 200),
	}

	// Development convenience only; Validate rejects this in production.
	if cfg.JWTSecret == "" && cfg.Environment != "production" {
		cfg.JWTSecret = "local-dev-secret"
	}

	// A non-positive rate limit would disable the API entirely; treat it as
	// misconfiguration and fall back to the defaults.
	if cfg.IPRequestsPerMinute < 1 {
		cfg.IPRequestsPerMinute = 100
	}
	if cfg.OwnerRequestsPerMinute < 1 {
		cfg.OwnerRequestsPerMinute = 200
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required")
		}
		if c.SupabaseURL != "" && c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required when SUPABASE_URL is set")
		}
	}

	return nil
}

// MirrorEnabled reports whether a remote persistent store is configured
func (c *Config) MirrorEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseKey != ""
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
