package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"faqbot/internal/config"
	"faqbot/internal/corpus"
	"faqbot/internal/domain"
	"faqbot/internal/embedding/openai"
	"faqbot/internal/embedding/tfidf"
	"faqbot/internal/server"
	"faqbot/internal/service"
	"faqbot/internal/session"
	"faqbot/internal/session/memory"
	sessionredis "faqbot/internal/session/redis"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Error("failed to load config", "path", cfgPath, "error", err)
		os.Exit(1)
	}

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.New()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Error("openai embedder config missing")
			os.Exit(1)
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Error("openai embedder init failed", "error", err)
			os.Exit(1)
		}
		emb = client
	default:
		log.Error("unknown embedder", "type", cfg.Embedder.Type)
		os.Exit(1)
	}

	entries, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		log.Error("corpus load failed", "path", cfg.Corpus.Path, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	index, err := corpus.Build(ctx, entries, emb)
	if err != nil {
		log.Error("index build failed", "error", err)
		os.Exit(1)
	}
	log.Info("corpus indexed",
		"entries", index.Len(),
		"embedder", emb.Name(),
		"dimension", emb.Dimension(),
	)

	var sessions session.Store
	switch cfg.Session.Type {
	case "memory", "":
		sessions = memory.NewStore()
	case "redis":
		rcfg := sessionredis.Config{}
		if cfg.Session.Redis != nil {
			rcfg = sessionredis.Config{
				Address:   cfg.Session.Redis.Address,
				Password:  cfg.Session.Redis.Password,
				DB:        cfg.Session.Redis.DB,
				TTL:       time.Duration(cfg.Session.Redis.TTLSecs) * time.Second,
				KeyPrefix: cfg.Session.Redis.KeyPrefix,
			}
		}
		store := sessionredis.NewStore(rcfg)
		if err := store.Ping(ctx); err != nil {
			log.Error("redis session store unreachable", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		sessions = store
	default:
		log.Error("unknown session store", "type", cfg.Session.Type)
		os.Exit(1)
	}

	engine := service.NewEngine(emb, index, cfg.Retrieval.Threshold)
	controller := service.NewController(engine)
	srv := server.New(controller, sessions, cfg.Server.CookieName, log)

	log.Info("faqbot listening", "addr", cfg.Server.Addr)
	if err := srv.Run(cfg.Server.Addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
