package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"docchat/internal/chunker"
	"docchat/internal/config"
	"docchat/internal/domain"
	"docchat/internal/embedding/openai"
	"docchat/internal/embedding/tfidf"
	"docchat/internal/llm"
	"docchat/internal/retrieval"
	"docchat/internal/service"
	"docchat/internal/store"
	"docchat/internal/summarizer"
	"docchat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	var showStats bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/docchat/config.yaml if not provided)")
	flag.BoolVar(&showStats, "stats", false, "Print usage statistics and exit")
	flag.Parse()
	inputs := flag.Args()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatal("failed to load config", "error", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		log.Fatal("failed to open store", "path", cfg.Store.Path, "error", err)
	}
	defer st.Close()

	if showStats {
		printStats(st)
		return
	}

	// Assemble components
	var enc domain.Encoder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		enc = tfidf.New()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			log.Fatal("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatal("openai embedder init failed", "error", err)
		}
		enc = client
	default:
		log.Fatal("unknown embedder", "type", cfg.Embedder.Type)
	}

	var gen domain.Generator
	switch cfg.LLM.Type {
	case "openai", "":
		if cfg.LLM.OpenAI == nil {
			log.Fatal("openai llm config missing")
		}
		client, err := llm.NewClient(llm.Config{
			BaseURL:     cfg.LLM.OpenAI.BaseURL,
			APIKeyEnv:   cfg.LLM.OpenAI.APIKeyEnv,
			Model:       cfg.LLM.OpenAI.Model,
			Temperature: cfg.LLM.OpenAI.Temperature,
			Timeout:     time.Duration(cfg.LLM.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatal("openai llm init failed", "error", err)
		}
		gen = client
	case "none":
		gen = llm.NewExtractive()
	default:
		log.Fatal("unknown llm", "type", cfg.LLM.Type)
	}

	w, err := chunker.NewWindow(cfg.Chunker.MaxChars, cfg.Chunker.Overlap)
	if err != nil {
		log.Fatal("invalid chunker config", "error", err)
	}

	svc := service.New(w, enc, gen, st, retrieval.NewSearcher(enc), summarizer.NewFrequencySummarizer(), service.Config{
		TopK:                cfg.Retrieval.TopK,
		Alpha:               cfg.Retrieval.Alpha,
		ConfidenceThreshold: cfg.Retrieval.ConfidenceThreshold,
		SummaryMaxSentences: cfg.Summarizer.MaxSentences,
	}, logger)

	var active domain.Document
	for i, path := range inputs {
		doc, err := svc.IngestFile(path)
		if err != nil {
			log.Fatal("ingest failed", "path", path, "error", err)
		}
		if i == 0 {
			active = doc
		}
	}
	if active.ID == "" {
		docs, err := svc.Documents()
		if err != nil {
			log.Fatal("failed to list documents", "error", err)
		}
		if len(docs) == 0 {
			fmt.Println("Usage: docchat [--config=config.yaml] file1.txt [file2.pdf ...]")
			os.Exit(1)
		}
		active = docs[0]
	}

	m := tui.New(svc, active.ID, active.Title)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal("tui failed", "error", err)
	}
}

func printStats(st *store.SQLite) {
	stats, err := st.Stats()
	if err != nil {
		log.Fatal("failed to load stats", "error", err)
	}
	fmt.Printf("Documents: %d\nQuestions: %d\n", stats.TotalDocuments, stats.TotalQuestions)
	if len(stats.TopDocuments) > 0 {
		fmt.Println("\nMost asked-about documents:")
		for _, d := range stats.TopDocuments {
			fmt.Printf("  %-40s %d questions\n", d.Document.Title, d.QuestionCount)
		}
	}
	if len(stats.Recent) > 0 {
		fmt.Println("\nRecent questions:")
		for _, r := range stats.Recent {
			fmt.Printf("  [%s] %d%%  %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Confidence, r.Question)
		}
	}
}
