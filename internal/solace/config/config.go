// Package config loads Solace configuration. Precedence: built-in defaults,
// then an optional YAML file, then SOLACE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LLMConfig configures the chat completion provider.
type LLMConfig struct {
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// EmbeddingConfig configures the embedding provider.
type EmbeddingConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// Retries is the total attempt count for each embed call. 1 (the
	// default) keeps the single-attempt core contract; higher values wrap
	// the embedder in the retry decorator.
	Retries int `yaml:"retries"`
}

// RetrievalConfig tunes the similarity search.
type RetrievalConfig struct {
	Limit        int     `yaml:"limit"`
	Threshold    float64 `yaml:"threshold"`
	SummaryLimit int     `yaml:"summary_limit"`
}

// Config is the full application configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`
	// DatabasePath is the SQLite file path.
	DatabasePath string `yaml:"database_path"`
	// PersonaPath optionally overrides the built-in persona pack.
	PersonaPath string `yaml:"persona_path"`
	// BufferWindow is the turn buffer size in lines.
	BufferWindow int `yaml:"buffer_window"`
	// SummaryPolicy is allow, reject or overwrite.
	SummaryPolicy string `yaml:"summary_policy"`

	LLM       LLMConfig       `yaml:"llm"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Addr:          ":8000",
		DatabasePath:  "./solace.db",
		BufferWindow:  20,
		SummaryPolicy: "allow",
		LLM: LLMConfig{
			TimeoutSeconds: 120,
		},
		Embedding: EmbeddingConfig{
			Retries: 1,
		},
		Retrieval: RetrievalConfig{
			Limit:        5,
			Threshold:    0.7,
			SummaryLimit: 3,
		},
	}
}

// Load builds the configuration: defaults, overlaid with the YAML file at
// path (when non-empty), overlaid with environment variables.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LLMTimeout returns the configured LLM HTTP timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}
	setFloat := func(key string, dst *float64) {
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}

	setString("SOLACE_ADDR", &cfg.Addr)
	setString("SOLACE_DATABASE_PATH", &cfg.DatabasePath)
	setString("SOLACE_PERSONA_PATH", &cfg.PersonaPath)
	setInt("SOLACE_BUFFER_WINDOW", &cfg.BufferWindow)
	setString("SOLACE_SUMMARY_POLICY", &cfg.SummaryPolicy)

	setString("SOLACE_LLM_API_KEY", &cfg.LLM.APIKey)
	setString("SOLACE_LLM_BASE_URL", &cfg.LLM.BaseURL)
	setString("SOLACE_LLM_MODEL", &cfg.LLM.Model)
	setInt("SOLACE_LLM_TIMEOUT_SECONDS", &cfg.LLM.TimeoutSeconds)

	setString("SOLACE_EMBED_API_KEY", &cfg.Embedding.APIKey)
	setString("SOLACE_EMBED_BASE_URL", &cfg.Embedding.BaseURL)
	setString("SOLACE_EMBED_MODEL", &cfg.Embedding.Model)
	setInt("SOLACE_EMBED_RETRIES", &cfg.Embedding.Retries)

	setInt("SOLACE_RETRIEVAL_LIMIT", &cfg.Retrieval.Limit)
	setFloat("SOLACE_RETRIEVAL_THRESHOLD", &cfg.Retrieval.Threshold)
	setInt("SOLACE_SUMMARY_LIMIT", &cfg.Retrieval.SummaryLimit)
}

func validate(cfg *Config) error {
	switch cfg.SummaryPolicy {
	case "allow", "reject", "overwrite":
	default:
		return fmt.Errorf("config: summary_policy must be allow, reject or overwrite, got %q", cfg.SummaryPolicy)
	}
	if cfg.Retrieval.Threshold < -1 || cfg.Retrieval.Threshold > 1 {
		return fmt.Errorf("config: retrieval threshold must be in [-1, 1], got %v", cfg.Retrieval.Threshold)
	}
	if cfg.DatabasePath == "" {
		return fmt.Errorf("config: database_path must not be empty")
	}
	return nil
}
