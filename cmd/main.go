package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/Vovarama1992/kine-assistant/internal/ai"
	"github.com/Vovarama1992/kine-assistant/internal/assistant"
	"github.com/Vovarama1992/kine-assistant/internal/config"
	"github.com/Vovarama1992/kine-assistant/internal/http/middleware"
	"github.com/Vovarama1992/kine-assistant/internal/observability/metrics"
	"github.com/Vovarama1992/kine-assistant/internal/patients"
	"github.com/Vovarama1992/kine-assistant/internal/session"
	"github.com/Vovarama1992/kine-assistant/internal/worker"
	"github.com/Vovarama1992/kine-assistant/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Production: cfg.IsProduction(),
		FilePath:   cfg.LogFile,
	})
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewAssistantMetrics(reg)

	// --- Record store ---
	store, closeStore, err := newRecordStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// --- Completion service ---
	completer, model, err := newCompleter(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := completer.(io.Closer); ok {
		defer closer.Close()
	}

	// --- Sessions ---
	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	outbound, err := assistant.NewTelegramOutbound(cfg.TelegramAPIURL, cfg.TelegramToken)
	if err != nil {
		return err
	}

	// --- Assistant module wiring ---
	svc := assistant.NewService(assistant.Deps{
		Finder:            patients.NewResolver(store, m),
		Generator:         assistant.NewGenerator(completer, model, m),
		Sessions:          sessions,
		Locks:             session.NewLocks(),
		Outbound:          outbound,
		Metrics:           m,
		Logger:            logger,
		StoreTimeout:      cfg.StoreTimeout,
		CompletionTimeout: cfg.CompletionTimeout,
	})

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize, logger)
	pool.Start(ctx)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Telegram-Bot-Api-Secret-Token"},
	}))

	assistant.RegisterRoutes(r, assistant.NewHandler(svc, pool, m, logger))

	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("bot webhook listening",
			"addr", srv.Addr,
			"record_store", cfg.RecordStore,
			"completion_backend", cfg.CompletionBackend,
			"session_backend", cfg.SessionBackend,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if err := pool.Stop(shutdownCtx); err != nil {
		logger.Error("worker pool shutdown failed", "error", err)
	}
	return nil
}

func newRecordStore(ctx context.Context, cfg *config.Config) (patients.Store, func(), error) {
	switch cfg.RecordStore {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, nil, errors.New("DATABASE_URL is not set")
		}
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return patients.NewPostgresStore(db), func() { db.Close() }, nil

	case "sheets":
		if cfg.GoogleCredsJSON == "" {
			return nil, nil, errors.New("GOOGLE_CREDS is not set")
		}
		store, err := patients.NewSheetsStore(ctx, patients.SheetsConfig{
			SpreadsheetID: cfg.SheetID,
			Title:         cfg.SheetTitle,
			Range:         cfg.SheetRange,
		}, patients.GoogleCredentials(cfg.GoogleCredsJSON)...)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	default:
		return nil, nil, errors.New("unknown RECORD_STORE " + cfg.RecordStore)
	}
}

func newCompleter(ctx context.Context, cfg *config.Config) (ai.Completer, string, error) {
	switch cfg.CompletionBackend {
	case "gemini":
		c, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		return c, ai.DefaultGeminiModel, err
	case "openai":
		c, err := ai.NewOpenAIClient(cfg.OpenAIAPIKey)
		return c, ai.DefaultOpenAIModel, err
	default:
		return nil, "", errors.New("unknown COMPLETION_BACKEND " + cfg.CompletionBackend)
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	switch cfg.SessionBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		return session.NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }, nil
	case "memory":
		return session.NewMemoryStore(cfg.SessionTTL), func() {}, nil
	default:
		return nil, nil, errors.New("unknown SESSION_BACKEND " + cfg.SessionBackend)
	}
}
