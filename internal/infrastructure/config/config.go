// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigDir is the directory name for claim configuration.
	DefaultConfigDir = ".claim"
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "config.yaml"
	// DefaultDatabaseFile is the default audit database file name.
	DefaultDatabaseFile = "claim.db"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	LLM      LLMConfig      `yaml:"llm,omitempty"`
	Embedder EmbedderConfig `yaml:"embedder,omitempty"`
	Qdrant   QdrantConfig   `yaml:"qdrant,omitempty"`
	SQLite   SQLiteConfig   `yaml:"sqlite,omitempty"`
	Search   SearchConfig   `yaml:"search,omitempty"`
	Analysis AnalysisConfig `yaml:"analysis,omitempty"`
}

// LLMConfig holds configuration for the LLM provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// EmbedderConfig holds configuration for the embedding provider.
type EmbedderConfig struct {
	Provider string `yaml:"provider,omitempty"`
	Model    string `yaml:"model,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`
}

// QdrantConfig holds configuration for the Qdrant vector database.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	Collection string `yaml:"collection,omitempty"`
	APIKey     string `yaml:"api_key,omitempty"`
}

// SQLiteConfig holds configuration for the SQLite audit database.
type SQLiteConfig struct {
	// Path is the file path to the SQLite database. When empty, the
	// database lives inside the config directory.
	Path string `yaml:"path,omitempty"`
}

// SearchConfig holds configuration for the evidence search providers.
type SearchConfig struct {
	TavilyAPIKey  string        `yaml:"tavily_api_key,omitempty"`
	SerpAPIKey    string        `yaml:"serpapi_key,omitempty"`
	Timeout       time.Duration `yaml:"timeout,omitempty"`
	RatePerSecond float64       `yaml:"rate_per_second,omitempty"`
	RateBurst     int           `yaml:"rate_burst,omitempty"`
	CacheTTL      time.Duration `yaml:"cache_ttl,omitempty"`
}

// AnalysisConfig holds tuning parameters for claim analysis.
type AnalysisConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold,omitempty"`
	CandidateLimit      int     `yaml:"candidate_limit,omitempty"`
	EvidenceTarget      int     `yaml:"evidence_target,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
		},
		Embedder: EmbedderConfig{
			Provider: "openai",
			Model:    "text-embedding-3-small",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "claims",
		},
		Search: SearchConfig{
			Timeout:       10 * time.Second,
			RatePerSecond: 1,
			RateBurst:     3,
			CacheTTL:      5 * time.Minute,
		},
		Analysis: AnalysisConfig{
			SimilarityThreshold: 0.8,
			CandidateLimit:      5,
			EvidenceTarget:      9,
		},
	}
}

// Load loads configuration from the .claim directory in the given path.
func Load(basePath string) (*Config, error) {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)

	data, err := os.ReadFile(configFile)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s (run 'claim init' first)", configFile)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Start with defaults
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	cfg.applyEnvOverrides()

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = key
		}
		if c.Embedder.APIKey == "" {
			c.Embedder.APIKey = key
		}
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		if c.Qdrant.APIKey == "" {
			c.Qdrant.APIKey = key
		}
	}
	if key := os.Getenv("TAVILY_API_KEY"); key != "" {
		if c.Search.TavilyAPIKey == "" {
			c.Search.TavilyAPIKey = key
		}
	}
	if key := os.Getenv("SERPAPI_KEY"); key != "" {
		if c.Search.SerpAPIKey == "" {
			c.Search.SerpAPIKey = key
		}
	}
}

// ConfigDir returns the path to the .claim config directory.
func ConfigDir(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir)
}

// ConfigFilePath returns the path to the config file.
func ConfigFilePath(basePath string) string {
	return filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
}

// DatabasePath returns the path to the SQLite audit database, honoring
// an explicit override from the config file.
func (c *Config) DatabasePath(basePath string) string {
	if c.SQLite.Path != "" {
		return c.SQLite.Path
	}
	return filepath.Join(basePath, DefaultConfigDir, DefaultDatabaseFile)
}

// Exists checks if a claim config exists in the given path.
func Exists(basePath string) bool {
	configFile := filepath.Join(basePath, DefaultConfigDir, DefaultConfigFile)
	_, err := os.Stat(configFile)
	return err == nil
}
