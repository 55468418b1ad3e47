// Package config loads service configuration from a TOML file with
// environment variable overrides for deployment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Gemini   GeminiConfig   `toml:"gemini"`
	BigQuery BigQueryConfig `toml:"bigquery"`
	GCS      GCSConfig      `toml:"gcs"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           string        `toml:"port"`
	ReadTimeout    time.Duration `toml:"read_timeout"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
	MetricsEnabled bool          `toml:"metrics_enabled"`
}

// GeminiConfig configures the text-generation provider. AgentTimeout
// bounds each sub-agent call; SynthesisTimeout bounds the final advisory
// call, which carries a much larger prompt.
type GeminiConfig struct {
	Model            string        `toml:"model"`
	AgentTimeout     time.Duration `toml:"agent_timeout"`
	SynthesisTimeout time.Duration `toml:"synthesis_timeout"`
}

// BigQueryConfig locates the persistent store.
type BigQueryConfig struct {
	ProjectID string `toml:"project_id"`
	Dataset   string `toml:"dataset"`
}

// GCSConfig configures provider file staging.
type GCSConfig struct {
	Bucket string `toml:"bucket"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:           "8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   30 * time.Second,
			MetricsEnabled: true,
		},
		Gemini: GeminiConfig{
			Model:            "gemini-2.5-flash",
			AgentTimeout:     10 * time.Second,
			SynthesisTimeout: 30 * time.Second,
		},
		BigQuery: BigQueryConfig{
			Dataset: "finadvisor",
		},
	}
}

// Load reads the TOML file at path on top of the defaults, then applies
// environment overrides. A missing file is not an error; the defaults and
// environment carry a local setup.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Gemini.Model = v
	}
	if v := os.Getenv("BQ_PROJECT_ID"); v != "" {
		cfg.BigQuery.ProjectID = v
	}
	if v := os.Getenv("BQ_DATASET"); v != "" {
		cfg.BigQuery.Dataset = v
	}
	if v := os.Getenv("GCS_BUCKET"); v != "" {
		cfg.GCS.Bucket = v
	}
}
