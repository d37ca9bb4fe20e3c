// Package config reads application configuration from the environment,
// loading a .env file first when one is present.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Model   ModelConfig
	Storage StorageConfig
	Suggest SuggestConfig
}

// ModelConfig points at the completion endpoint used by the model-assisted
// extraction path.
type ModelConfig struct {
	BaseURL string
	Model   string

	Timeout           time.Duration
	CategorizeTimeout time.Duration
	MaxRetries        int
	ChunkSize         int
}

// StorageConfig locates the staging area for uploaded statements.
type StorageConfig struct {
	Root string
}

// SuggestConfig controls the category suggestion index.
type SuggestConfig struct {
	// IndexPath is the on-disk index location; empty keeps it in memory.
	IndexPath string
	// RefreshSpec is the cron expression for taxonomy reindexing.
	RefreshSpec string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		Model: ModelConfig{
			BaseURL:           getEnv("MODEL_BASE_URL", "http://localhost:11434"),
			Model:             getEnv("MODEL_NAME", "mistral"),
			Timeout:           getEnvAsDuration("MODEL_TIMEOUT", 120*time.Second),
			CategorizeTimeout: getEnvAsDuration("MODEL_CATEGORIZE_TIMEOUT", 30*time.Second),
			MaxRetries:        getEnvAsInt("MODEL_MAX_RETRIES", 3),
			ChunkSize:         getEnvAsInt("MODEL_CHUNK_SIZE", 8000),
		},
		Storage: StorageConfig{
			Root: getEnv("STORAGE_ROOT", "./statements"),
		},
		Suggest: SuggestConfig{
			IndexPath:   getEnv("SUGGEST_INDEX_PATH", ""),
			RefreshSpec: getEnv("SUGGEST_REFRESH_SPEC", "0 3 * * *"),
		},
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
