package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/research/completion"
	"github.com/w-h-a/research/extractor"
	"github.com/w-h-a/research/extractor/pdf"
	"github.com/w-h-a/research/extractor/text"
	"github.com/w-h-a/research/generator"
	"github.com/w-h-a/research/generator/anthropic"
	"github.com/w-h-a/research/generator/google"
	"github.com/w-h-a/research/generator/openai"
	imageprovider "github.com/w-h-a/research/image_provider"
	"github.com/w-h-a/research/image_provider/lexica"
	"github.com/w-h-a/research/image_provider/pollinations"
	"github.com/w-h-a/research/image_provider/web"
	handler "github.com/w-h-a/research/internal/handler/http"
	"github.com/w-h-a/research/internal/service/research"
	"github.com/w-h-a/research/retriever"
	"github.com/w-h-a/research/retriever/tfidf"
	"github.com/w-h-a/research/server"
	httpserver "github.com/w-h-a/research/server/http"
	"github.com/w-h-a/research/store"
	"github.com/w-h-a/research/store/local"
	"github.com/w-h-a/research/store/postgres"
	websearcher "github.com/w-h-a/research/web_searcher"
	"github.com/w-h-a/research/web_searcher/tavily"
)

var (
	cfg struct {
		// Server config
		Address   string `help:"Address the API listens on" default:":5000" env:"ADDRESS"`
		LogLevel  string `help:"Log level (debug, info, warn, error)" default:"info" env:"LOG_LEVEL"`
		LogFormat string `help:"Log format (text, json)" default:"text" env:"LOG_FORMAT"`

		// Store config
		Store         string `help:"Document store (local, postgres)" default:"local" enum:"local,postgres" env:"STORE"`
		StoreLocation string `help:"Upload directory or postgres DSN" default:"uploads" env:"STORE_LOCATION"`

		// Generator config
		Provider    string        `help:"Model provider (openai, anthropic, google)" default:"openai" enum:"openai,anthropic,google" env:"PROVIDER"`
		APIKey      string        `help:"API key for the model provider" default:"" env:"GROQ_API_KEY"`
		BaseURL     string        `help:"Base URL for OpenAI-compatible providers" default:"https://api.groq.com/openai/v1" env:"BASE_URL"`
		TextModel   string        `help:"Model identifier for text completions" default:"llama-3.3-70b-versatile" env:"TEXT_MODEL"`
		VisionModel string        `help:"Model identifier for image analysis" default:"llama-3.2-11b-vision-preview" env:"VISION_MODEL"`
		MaxRetries  int           `help:"Attempts per completion when rate limited" default:"3" env:"MAX_RETRIES"`
		Timeout     time.Duration `help:"Deadline for a single completion" default:"2m" env:"COMPLETION_TIMEOUT"`

		// Web search config
		TavilyKey string `help:"API key for Tavily web search" default:"" env:"TAVILY_API_KEY"`
	}
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	_ = kong.Parse(&cfg)

	slog.SetDefault(slog.New(logHandler(cfg.LogFormat, cfg.LogLevel)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create store
	var s store.Store
	switch cfg.Store {
	case "postgres":
		s = postgres.NewStore(store.WithLocation(cfg.StoreLocation))
	default:
		s = local.NewStore(store.WithLocation(cfg.StoreLocation))
	}

	x := extractor.ByExtension(map[string]extractor.Extractor{
		".pdf": pdf.NewExtractor(),
		".txt": text.NewExtractor(),
	})

	// Create retriever
	re := tfidf.NewRetriever(
		retriever.WithStore(s),
		retriever.WithExtractor(x),
		retriever.WithContext(ctx),
	)

	// Create completion client
	client := completion.NewClient(
		newGenerator(cfg.Provider),
		completion.WithApiKey(cfg.APIKey),
		completion.WithTextModel(cfg.TextModel),
		completion.WithVisionModel(cfg.VisionModel),
		completion.WithMaxRetries(cfg.MaxRetries),
		completion.WithTimeout(cfg.Timeout),
		completion.WithContext(ctx),
	)

	opts := []research.Option{
		research.WithStore(s),
		research.WithExtractor(x),
		research.WithContext(ctx),
	}

	// Web search and the image chain are optional
	images := []imageprovider.ImageProvider{}
	if len(cfg.TavilyKey) > 0 {
		searcher := tavily.NewSearcher(websearcher.WithApiKey(cfg.TavilyKey))
		opts = append(opts, research.WithWebSearcher(searcher))
		images = append(images, web.NewProvider(imageprovider.WithSearcher(searcher)))
	}
	images = append(images, lexica.NewProvider(), pollinations.NewProvider())
	opts = append(opts, research.WithImageProvider(imageprovider.Chain(images...)))

	service := research.NewService(re, client, opts...)

	// Create server
	srv := httpserver.NewServer(
		server.WithAddress(cfg.Address),
		server.WithHandler(handler.NewHandler(service).Router()),
		httpserver.WithMiddleware(handler.RequestId, handler.Logging, handler.Recover),
	)

	if err := srv.Start(); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	slog.Info("research api listening", "address", srv.Address(), "provider", cfg.Provider, "store", cfg.Store)

	<-ctx.Done()

	if err := srv.Stop(context.Background()); err != nil {
		slog.Error("failed to stop server", "error", err)
		os.Exit(1)
	}

	slog.Info("research api stopped")
}

func newGenerator(provider string) generator.Generator {
	opts := []generator.Option{
		generator.WithApiKey(cfg.APIKey),
		generator.WithModel(cfg.TextModel),
	}

	switch provider {
	case "anthropic":
		return anthropic.NewGenerator(opts...)
	case "google":
		return google.NewGenerator(opts...)
	default:
		return openai.NewGenerator(append(opts, generator.WithBaseURL(cfg.BaseURL))...)
	}
}

func logHandler(format string, level string) slog.Handler {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	hopts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(os.Stderr, hopts)
	}

	return slog.NewTextHandler(os.Stderr, hopts)
}
