package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/necropreneur/embedding-inspector/internal/cache"
	"github.com/necropreneur/embedding-inspector/internal/config"
	"github.com/necropreneur/embedding-inspector/internal/inspector"
	"github.com/necropreneur/embedding-inspector/internal/logger"
	"github.com/necropreneur/embedding-inspector/internal/model"
	"github.com/necropreneur/embedding-inspector/internal/notify"
	"github.com/necropreneur/embedding-inspector/internal/store"
	"github.com/necropreneur/embedding-inspector/internal/tokenizer"
)

// Deps bundles common runtime dependencies for the inspector binaries.
type Deps struct {
	Config    config.Config
	Log       *slog.Logger
	Tokenizer tokenizer.Tokenizer
	Table     *model.Table
	Store     store.Store
	Cache     cache.Cache
	Notifier  notify.Notifier
	Inspector *inspector.Service
}

// Build loads env, config, and shared components.
func Build(service string) (Deps, error) {
	// .env is optional; environment variables win either way
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(service, cfg.LogLevel)

	tok, err := buildTokenizer(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize tokenizer: %w", err)
	}
	table, err := model.Load(cfg.TablePath)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to load embedding table: %w", err)
	}
	log.Info("loaded token embedding table", "rows", table.Rows(), "dim", table.Dim())

	st, err := store.NewDirStore(cfg.EmbeddingsDir)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize embeddings store: %w", err)
	}
	log.Info("scanned embeddings directory", "dir", st.Dir(), "loaded", st.Len())

	c, err := buildCache(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize cache: %w", err)
	}
	n, err := buildNotifier(cfg, log, st)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	svc := inspector.New(log, tok, table, st, c, n, time.Duration(cfg.CacheTTL)*time.Second)
	return Deps{
		Config:    cfg,
		Log:       log,
		Tokenizer: tok,
		Table:     table,
		Store:     st,
		Cache:     c,
		Notifier:  n,
		Inspector: svc,
	}, nil
}

func buildTokenizer(cfg config.Config, log *slog.Logger) (tokenizer.Tokenizer, error) {
	switch cfg.TokenizerVariant {
	case "clip":
		tok, err := tokenizer.LoadCLIP(cfg.VocabPath, cfg.MergesPath)
		if err != nil {
			return nil, err
		}
		log.Info("using CLIP tokenizer")
		return tok, nil
	case "openclip":
		tok, err := tokenizer.LoadOpenCLIP(cfg.VocabPath, cfg.MergesPath)
		if err != nil {
			return nil, err
		}
		log.Info("using OpenCLIP tokenizer")
		return tok, nil
	default:
		return nil, fmt.Errorf("invalid TOKENIZER_VARIANT: %s (valid options: clip, openclip)", cfg.TokenizerVariant)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Warn("redis unavailable, falling back to no-op cache", "err", err)
			return cache.NewNoOpCache(), nil
		}
		log.Info("using Redis neighbor cache")
		return c, nil
	case "noop":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, noop)", cfg.CacheProvider)
	}
}

func buildNotifier(cfg config.Config, log *slog.Logger, st store.Store) (notify.Notifier, error) {
	switch cfg.NotifyProvider {
	case "nats":
		if cfg.NatsURL == "" {
			return nil, fmt.Errorf("NATS_URL is required when NOTIFY_PROVIDER=nats")
		}
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		log.Info("using NATS save notifier")
		return notify.NewNATS(log, nc), nil
	case "inprocess":
		return notify.NewInProcess(log, st), nil
	default:
		return nil, fmt.Errorf("invalid NOTIFY_PROVIDER: %s (valid options: nats, inprocess)", cfg.NotifyProvider)
	}
}
