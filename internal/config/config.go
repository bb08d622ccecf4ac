package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// CorpusConfig locates the corpus source.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type   string                `yaml:"type"`
	OpenAI *OpenAIEmbedderConfig `yaml:"openai,omitempty"`
}

// RedisSessionConfig contains connection details for the Redis session store.
type RedisSessionConfig struct {
	Address   string `yaml:"address"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	TTLSecs   int    `yaml:"ttl_secs"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SessionConfig selects and configures the session store backend.
type SessionConfig struct {
	Type  string              `yaml:"type"`
	Redis *RedisSessionConfig `yaml:"redis,omitempty"`
}

// RetrievalConfig tunes match selection.
type RetrievalConfig struct {
	Threshold float64 `yaml:"threshold"`
}

// ServerConfig configures the HTTP shell.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	CookieName string `yaml:"cookie_name"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Session   SessionConfig   `yaml:"session"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Server    ServerConfig    `yaml:"server"`
}

// Load reads a config from the specified path. A missing file yields
// the defaults so the service can run with just a corpus on disk.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Corpus:    CorpusConfig{Path: "data/corpus.csv"},
		Embedder:  EmbedderConfig{Type: "tfidf"},
		Session:   SessionConfig{Type: "memory"},
		Retrieval: RetrievalConfig{Threshold: 0.55},
		Server:    ServerConfig{Addr: ":8080", CookieName: "conversation_id"},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = "data/corpus.csv"
	}
	if cfg.Retrieval.Threshold == 0 {
		cfg.Retrieval.Threshold = 0.55
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.CookieName == "" {
		cfg.Server.CookieName = "conversation_id"
	}
	if cfg.Embedder.Type == "openai" && cfg.Embedder.OpenAI != nil {
		if cfg.Embedder.OpenAI.BaseURL == "" {
			cfg.Embedder.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedder.OpenAI.APIKeyEnv == "" {
			cfg.Embedder.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedder.OpenAI.Model == "" {
			cfg.Embedder.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedder.OpenAI.TimeoutSecs == 0 {
			cfg.Embedder.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.Session.Type == "redis" && cfg.Session.Redis != nil {
		if cfg.Session.Redis.Address == "" {
			cfg.Session.Redis.Address = "localhost:6379"
		}
		if cfg.Session.Redis.TTLSecs == 0 {
			cfg.Session.Redis.TTLSecs = 24 * 60 * 60
		}
	}
}
