package config

import (
	"fmt"
	"os"
	"strconv"

	"noc-assistant/internal/models"
)

// Index backend selection values for VECTOR_INDEX_BACKEND.
const (
	BackendChromem  = "chromem"
	BackendPostgres = "postgres"
)

const (
	defaultEmbeddingModel  = "text-embedding-3-small"
	defaultGenerativeModel = "gpt-4-turbo-preview"
	defaultBaseURL         = "https://api.openai.com/v1"
	defaultChunkSize       = 1000
	defaultChunkOverlap    = 200
	defaultRetrievalK      = 4
	defaultScoreThreshold  = 0.2
	defaultTemperature     = 0.2
	defaultEmbeddingDim    = 1536
	defaultChromemPath     = "./chromem_db"
)

// Config is the single explicit configuration object, constructed once
// at startup and passed by reference to every component. No other
// package reads the environment.
type Config struct {
	EmbeddingAPIKey  string
	GenerativeAPIKey string
	IndexName        string

	EmbeddingModel    string
	GenerativeModel   string
	EmbeddingBaseURL  string
	GenerativeBaseURL string
	EmbeddingDim      int

	ChunkSize      int
	ChunkOverlap   int
	RetrievalK     int
	ScoreThreshold float64
	Temperature    float64

	IndexBackend      string
	ChromemPath       string
	DatabaseURL       string
	DatabasePassword  string
	SubstitutionsFile string
	Debug             bool
}

// Load reads the enumerated environment keys, applies defaults and
// validates eagerly. Missing required keys are reported together in a
// single *models.ConfigError.
func Load() (*Config, error) {
	cfg := &Config{
		EmbeddingAPIKey:   os.Getenv("EMBEDDING_API_KEY"),
		GenerativeAPIKey:  os.Getenv("GENERATIVE_API_KEY"),
		IndexName:         os.Getenv("VECTOR_INDEX_NAME"),
		EmbeddingModel:    envOrDefault("EMBEDDING_MODEL", defaultEmbeddingModel),
		GenerativeModel:   envOrDefault("GENERATIVE_MODEL", defaultGenerativeModel),
		EmbeddingBaseURL:  envOrDefault("EMBEDDING_BASE_URL", defaultBaseURL),
		GenerativeBaseURL: envOrDefault("GENERATIVE_BASE_URL", defaultBaseURL),
		IndexBackend:      envOrDefault("VECTOR_INDEX_BACKEND", BackendChromem),
		ChromemPath:       envOrDefault("CHROMEM_PATH", defaultChromemPath),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DatabasePassword:  os.Getenv("DATABASE_PASSWORD"),
		SubstitutionsFile: os.Getenv("SUBSTITUTIONS_FILE"),
		Debug:             os.Getenv("DEBUG") == "true",
	}

	var err error
	if cfg.ChunkSize, err = envInt("CHUNK_SIZE", defaultChunkSize); err != nil {
		return nil, err
	}
	if cfg.ChunkOverlap, err = envInt("CHUNK_OVERLAP", defaultChunkOverlap); err != nil {
		return nil, err
	}
	if cfg.RetrievalK, err = envInt("RETRIEVAL_K", defaultRetrievalK); err != nil {
		return nil, err
	}
	if cfg.EmbeddingDim, err = envInt("EMBEDDING_DIMENSIONS", defaultEmbeddingDim); err != nil {
		return nil, err
	}
	if cfg.ScoreThreshold, err = envFloat("SCORE_THRESHOLD", defaultScoreThreshold); err != nil {
		return nil, err
	}
	if cfg.Temperature, err = envFloat("GENERATION_TEMPERATURE", defaultTemperature); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.EmbeddingAPIKey == "" {
		missing = append(missing, "EMBEDDING_API_KEY")
	}
	if c.GenerativeAPIKey == "" {
		missing = append(missing, "GENERATIVE_API_KEY")
	}
	if c.IndexName == "" {
		missing = append(missing, "VECTOR_INDEX_NAME")
	}
	if c.IndexBackend == BackendPostgres && c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return &models.ConfigError{Missing: missing}
	}

	if c.IndexBackend != BackendChromem && c.IndexBackend != BackendPostgres {
		return fmt.Errorf("invalid VECTOR_INDEX_BACKEND %q: must be %q or %q",
			c.IndexBackend, BackendChromem, BackendPostgres)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return f, nil
}
