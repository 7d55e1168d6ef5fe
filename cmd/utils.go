package cmd

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"uni-assistant/internal/api"
	"uni-assistant/internal/chat"
	"uni-assistant/internal/config"
	"uni-assistant/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func LoadEnvFile() {
	var configPath string

	flag.StringVar(&configPath, "env", "", "path to load env from")
	flag.Parse()

	if configPath == "" {
		log.Printf("no env file specified, using os.Environ only")
		return
	}

	log.Printf("loading env from file %s", configPath)
	err := godotenv.Load(configPath)
	if err != nil {
		log.Fatalf("error loading .env file '%s': %v", configPath, err)
	}
}

func NewReplyGenerator(cfg *config.Config) (chat.ReplyGenerator, error) {
	systemPrompt := chat.ResolveSystemPrompt(cfg.SystemPrompt)

	switch cfg.ReplyBackend {
	case config.ReplyBackendOpenAI:
		return chat.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, systemPrompt), nil
	case config.ReplyBackendLangchain:
		return chat.NewLangchainGenerator(cfg.OpenAIAPIKey, cfg.OpenAIModel, systemPrompt)
	case config.ReplyBackendStatic:
		slog.Warn("using static reply backend, the assistant will not call a language model")
		return chat.NewStaticGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown reply backend '%s'", cfg.ReplyBackend)
	}
}

// CreateServer builds the http server. Middlewares run before the standard
// stack, which lets the local binary add CORS.
func CreateServer(db *gorm.DB, cfg *config.Config, generator chat.ReplyGenerator, middlewares ...func(http.Handler) http.Handler) *http.Server {
	r := chi.NewRouter()

	for _, m := range middlewares {
		r.Use(m)
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	api.NewBackendService(db, cfg, generator).AddRoutes(r)

	if cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err != nil {
			log.Fatalf("invalid STATIC_DIR '%s': %v", cfg.StaticDir, err)
		}
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}
}
