package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	Environment string

	// Primary generator settings. An empty OpenAIAPIKey disables the
	// primary path entirely; generation then always uses the fallback.
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	// When true, POST /generate rejects requests without a valid bearer
	// token. Off by default.
	RequireAuthForGenerate bool

	FrontendOrigins []string
}

func LoadConfig() (*Config, error) {
	// Missing .env is fine; environment variables alone are enough.
	_ = godotenv.Load()

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		RedisURL:               getEnv("REDIS_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", "supersecretkey"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		OpenAIAPIKey:           getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:            getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:          getEnv("OPENAI_BASE_URL", ""),
		RequireAuthForGenerate: getEnv("REQUIRE_AUTH_FOR_GENERATE", "false") == "true",
		FrontendOrigins:        splitOrigins(getEnv("FRONTEND_ORIGINS", "http://localhost:3000")),
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
