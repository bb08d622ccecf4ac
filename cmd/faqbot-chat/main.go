package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"faqbot/internal/config"
	"faqbot/internal/corpus"
	"faqbot/internal/domain"
	"faqbot/internal/embedding/openai"
	"faqbot/internal/embedding/tfidf"
	"faqbot/internal/service"
	"faqbot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.New()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatalf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatalf("openai embedder init failed: %v", err)
		}
		emb = client
	default:
		log.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	entries, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		log.Fatalf("corpus load failed: %v", err)
	}
	index, err := corpus.Build(context.Background(), entries, emb)
	if err != nil {
		log.Fatalf("index build failed: %v", err)
	}

	engine := service.NewEngine(emb, index, cfg.Retrieval.Threshold)
	controller := service.NewController(engine)

	m := tui.New(controller, index.Len())
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
