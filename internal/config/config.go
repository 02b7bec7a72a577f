// Package config loads application configuration from environment variables.
// Construction fails fast on missing credentials or invalid values; degraded
// operation is decided by the callers, not hidden here.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Sort modes accepted by the news search API.
const (
	SortByRelevancy   = "relevancy"
	SortByPopularity  = "popularity"
	SortByPublishedAt = "publishedAt"
)

// NewsConfig holds news search API settings.
type NewsConfig struct {
	// APIKey is the news search API credential. Required.
	APIKey string

	// BaseURL is the search endpoint. Default: NewsAPI "everything".
	BaseURL string

	// DaysBack is the size of the date window for searches. Default: 7
	DaysBack int

	// Language is the article language code. Default: "en"
	Language string

	// SortBy is the result ordering: relevancy, popularity or publishedAt.
	SortBy string

	// PageSize is the number of articles requested per search. Default: 10
	PageSize int

	// Timeout is the per-request HTTP timeout. Default: 30s
	Timeout time.Duration
}

// VectorConfig holds vector store settings.
type VectorConfig struct {
	// Backend selects the vector store implementation by name
	// ("snapshot" or "pgvector"). Default: "snapshot"
	Backend string

	// DataDir is the root directory for snapshot collections. Default: "./vector_db"
	DataDir string

	// DatabaseURL is the Postgres DSN, required for the pgvector backend.
	DatabaseURL string

	// EmbeddingModel is the embedding model identifier. Default: "text-embedding-3-small"
	EmbeddingModel string

	// OpenAIAPIKey is the embedding provider credential. Required.
	OpenAIAPIKey string
}

// Config is the root application configuration.
type Config struct {
	News   NewsConfig
	Vector VectorConfig

	// AnthropicAPIKey enables AI summary generation. Optional; when empty
	// the summarizer degrades to its fallback output.
	AnthropicAPIKey string

	// ProfilePath is the location of the JSON preference document.
	// Default: "user_data.json"
	ProfilePath string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		News: NewsConfig{
			APIKey:   os.Getenv("NEWSAPI_KEY"),
			BaseURL:  getEnvOrDefault("NEWSAPI_BASE_URL", "https://newsapi.org/v2/everything"),
			DaysBack: getEnvInt("NEWS_DAYS_BACK", 7),
			Language: getEnvOrDefault("NEWS_LANGUAGE", "en"),
			SortBy:   getEnvOrDefault("NEWS_SORT_BY", SortByRelevancy),
			PageSize: getEnvInt("NEWS_PAGE_SIZE", 10),
			Timeout:  getEnvDuration("NEWS_TIMEOUT", 30*time.Second),
		},
		Vector: VectorConfig{
			Backend:        getEnvOrDefault("VECTOR_BACKEND", "snapshot"),
			DataDir:        getEnvOrDefault("VECTOR_DATA_DIR", "./vector_db"),
			DatabaseURL:    os.Getenv("DATABASE_URL"),
			EmbeddingModel: getEnvOrDefault("EMBEDDING_MODEL", "text-embedding-3-small"),
			OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		},
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		ProfilePath:     getEnvOrDefault("PROFILE_PATH", "user_data.json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration correctness.
func (c *Config) Validate() error {
	if c.News.APIKey == "" {
		return fmt.Errorf("NEWSAPI_KEY is required")
	}

	if c.Vector.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	switch c.News.SortBy {
	case SortByRelevancy, SortByPopularity, SortByPublishedAt:
	default:
		return fmt.Errorf("NEWS_SORT_BY must be one of relevancy, popularity, publishedAt; got %q", c.News.SortBy)
	}

	if c.News.DaysBack < 1 {
		return fmt.Errorf("NEWS_DAYS_BACK must be positive")
	}

	if c.News.PageSize < 1 || c.News.PageSize > 100 {
		return fmt.Errorf("NEWS_PAGE_SIZE must be between 1 and 100")
	}

	if c.News.Timeout <= 0 {
		return fmt.Errorf("NEWS_TIMEOUT must be positive")
	}

	if c.Vector.Backend == "pgvector" && c.Vector.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the pgvector backend")
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses integer environment variable with default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration parses duration environment variable with default.
// Supports formats like "30s", "1m", "2h".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
