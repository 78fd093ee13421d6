package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds minimal runtime configuration. Extend as needed.
type Config struct {
	// Server
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Model assets
	TokenizerVariant string `env:"TOKENIZER_VARIANT" envDefault:"clip"` // "clip" (SD1.x) or "openclip" (SD2.x)
	VocabPath        string `env:"VOCAB_PATH" envDefault:"assets/vocab.json"`
	MergesPath       string `env:"MERGES_PATH" envDefault:"assets/merges.txt"`
	TablePath        string `env:"TABLE_PATH" envDefault:"assets/token_embeddings.tbl"`

	// Loaded embeddings
	EmbeddingsDir string `env:"EMBEDDINGS_DIR" envDefault:"embeddings"`

	// Neighbor cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"noop"` // "redis" or "noop"
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"3600"` // seconds

	// Save notifications
	NotifyProvider string `env:"NOTIFY_PROVIDER" envDefault:"inprocess"` // "inprocess" (single binary) or "nats" (multi-process)
	NatsURL        string `env:"NATS_URL"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
