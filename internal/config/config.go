package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	SMTP      SMTPConfig
	Keys      APIKeys
	Ai        AIConfig
	Retrieval RetrievalConfig
	Chat      ChatConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	ChatLogFilePath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
	SalesEmail string
}

type APIKeys struct {
	GoogleGemini string
	OpenAI       string
	JWTSecret    string
}

type AIConfig struct {
	EmbeddingProvider string // "gemini" or "ollama"
	OllamaBaseURL     string
	OllamaEmbedModel  string
	LLMProvider       string // "ollama" or "openai"
	LLMModel          string
	OpenAIBaseURL     string // empty uses the SDK default (api.openai.com)
}

// RetrievalConfig carries the fusion weights and thresholds. Weights default
// to lexical 0.5, semantic 0.3, relational 0.2 and are not required to sum
// to 1.0.
type RetrievalConfig struct {
	LexicalWeight    float64
	SemanticWeight   float64
	RelationalWeight float64
	MinScore         float64
	LexicalTopN      int
	SemanticTopK     int
	LexicalIndexPath string
}

type ChatConfig struct {
	HistoryLimit    int // turns kept in memory per user
	NormalizerDepth int // turns handed to the normalizer
	DealerListCap   int
	PacingDelayMs   int // per-chunk stream throttle, 0 disables
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			ChatLogFilePath:    getEnv("CHAT_LOG_FILE_PATH", "logs/chat.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "Horizon Tyres Assistant"),
			SalesEmail: getEnv("SALES_ALERT_EMAIL", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
			JWTSecret:    getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbedModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		},
		Retrieval: RetrievalConfig{
			LexicalWeight:    getEnvAsFloat("FUSION_LEXICAL_WEIGHT", 0.5),
			SemanticWeight:   getEnvAsFloat("FUSION_SEMANTIC_WEIGHT", 0.3),
			RelationalWeight: getEnvAsFloat("FUSION_RELATIONAL_WEIGHT", 0.2),
			MinScore:         getEnvAsFloat("FUSION_MIN_SCORE", 0.1),
			LexicalTopN:      getEnvAsInt("LEXICAL_TOP_N", 5),
			SemanticTopK:     getEnvAsInt("SEMANTIC_TOP_K", 5),
			LexicalIndexPath: getEnv("LEXICAL_INDEX_PATH", "data/lexical_index.gob"),
		},
		Chat: ChatConfig{
			HistoryLimit:    getEnvAsInt("CHAT_HISTORY_LIMIT", 20),
			NormalizerDepth: getEnvAsInt("CHAT_NORMALIZER_DEPTH", 5),
			DealerListCap:   getEnvAsInt("DEALER_LIST_CAP", 5),
			PacingDelayMs:   getEnvAsInt("CHAT_PACING_DELAY_MS", 50),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}
