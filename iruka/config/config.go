package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// JWTSecret signs the session tokens handed to the browser.
	JWTSecret    string
	SessionStore string // memory | postgres

	LLMProvider    string // groq | openai | ollama
	GroqAPIKey     string
	OpenAIAPIKey   string
	OllamaURL      string
	LLMBaseURL     string
	LLMModel       string
	LLMTemperature float64
	LLMMaxTokens   int
	LLMTimeout     time.Duration

	CatalogSource string // embedded | file | minio
	CatalogPath   string
	CatalogObject string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	AssistantProfile string
	OrderPhone       string
	LogDir           string
}

func LoadConfig() Config {
	// a missing .env is fine, the process environment wins anyway
	_ = godotenv.Load()

	cfg := Config{
		Port: getEnv("PORT", "8000"),

		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", ""),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		SessionStore: strings.ToLower(getEnv("SESSION_STORE", "memory")),

		LLMProvider:    strings.ToLower(getEnv("LLM_PROVIDER", "groq")),
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OllamaURL:      getEnv("OLLAMA_URL", "http://localhost:11434/api"),
		LLMBaseURL:     getEnv("LLM_BASE_URL", ""),
		LLMModel:       getEnv("LLM_MODEL", "llama-3.1-8b-instant"),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.6),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 400),
		LLMTimeout:     getEnvDuration("LLM_TIMEOUT", 30*time.Second),

		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", "embedded")),
		CatalogPath:   getEnv("CATALOG_PATH", "data.json"),
		CatalogObject: getEnv("CATALOG_OBJECT", "catalog/data.json"),

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "iruka"),
		MinIOUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		AssistantProfile: getEnv("ASSISTANT_PROFILE", ""),
		OrderPhone:       getEnv("ORDER_PHONE", "6281257571238"),
		LogDir:           getEnv("LOG_DIR", "./logs"),
	}
	if cfg.JWTSecret == "" {
		// tokens then only survive for the lifetime of this process
		cfg.JWTSecret = uuid.NewString()
	}
	return cfg
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
