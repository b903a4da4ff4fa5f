package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for docchat.
type Config struct {
	Chunking ChunkingConfig `yaml:"chunking"`
	Retrieve RetrieveConfig `yaml:"retrieve"`
	Chat     ChatConfig     `yaml:"chat"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ChunkingConfig holds chunking parameters in raw characters. They are
// runtime-mutable: changing them affects future ingests only.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK int `yaml:"top_k"`
}

// ChatConfig holds the generation endpoint configuration.
type ChatConfig struct {
	BaseURL      string `yaml:"base_url"`
	Model        string `yaml:"model"`
	APIKeyEnv    string `yaml:"api_key_env"`
	HistoryLimit int    `yaml:"history_limit"`
	ContextChars int    `yaml:"context_chars"`
}

// IngestConfig holds file selection globs for the add command.
type IngestConfig struct {
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chunking: ChunkingConfig{
			Size:    600,
			Overlap: 100,
		},
		Retrieve: RetrieveConfig{
			TopK: 5,
		},
		Chat: ChatConfig{
			BaseURL:      "https://api.openai.com/v1",
			Model:        "gpt-4o-mini",
			APIKeyEnv:    "OPENAI_API_KEY",
			HistoryLimit: 20,
			ContextChars: 6000,
		},
		Ingest: IngestConfig{
			Includes: []string{"**/*.txt", "**/*.md", "**/*.markdown", "**/*.rst"},
			Excludes: []string{"**/node_modules/**", "**/.git/**", "**/.docchat/**"},
		},
		Logging: LoggingConfig{
			Verbose: false,
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults, not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for
// docchat.yaml, then .docchat/config.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docchat.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".docchat", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DataDBPath returns the path to the document database.
func DataDBPath(dir string) string {
	return filepath.Join(dir, ".docchat", "docchat.db")
}

// EnsureDataDir ensures the .docchat directory exists.
func EnsureDataDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".docchat"), 0755)
}
