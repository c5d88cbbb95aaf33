package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/nikitkaralius/pollbot/internal/handlers"
	"github.com/nikitkaralius/pollbot/internal/i18n"
	"github.com/nikitkaralius/pollbot/internal/jobs"
	"github.com/nikitkaralius/pollbot/internal/llm"
	"github.com/nikitkaralius/pollbot/internal/messenger"
	"github.com/nikitkaralius/pollbot/internal/polls"
	"github.com/nikitkaralius/pollbot/internal/storage"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	log "github.com/sirupsen/logrus"
)

// config holds environment configuration
type config struct {
	TelegramBotToken string
	OpenAIAPIKey     string
	DatabaseDSN      string
	LogVerbose       bool
	HTTPAddr         string
	WebhookURL       string
	Mode             string
	Workers          int
}

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("failed to load .env: %v", err)
	}

	cfg := config{}
	flag.StringVar(&cfg.DatabaseDSN, "dsn", os.Getenv("POSTGRES_DSN"), "Postgres DB DSN (required, default $POSTGRES_DSN)")
	flag.BoolVar(&cfg.LogVerbose, "verbose", false, "Enable verbose logging (default = false)")
	flag.StringVar(&cfg.HTTPAddr, "http-addr", ":8080", "HTTP listen address (default :8080)")
	flag.StringVar(&cfg.WebhookURL, "webhook-url", "", "Telegram webhook public URL (required for webhook mode)")
	flag.StringVar(&cfg.Mode, "mode", "long-polling", "Bot update mode: long-polling or webhook (default long-polling)")
	flag.IntVar(&cfg.Workers, "workers", 10, "Max concurrent background jobs (default 10)")
	flag.Parse()

	if cfg.LogVerbose {
		log.SetLevel(log.DebugLevel)
	}
	if cfg.Mode == "webhook" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	if cfg.DatabaseDSN == "" {
		log.Fatal("database dsn is required")
	}

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if cfg.TelegramBotToken == "" {
		log.Fatal("env TELEGRAM_BOT_TOKEN is required")
	}
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := i18n.Load()
	if err != nil {
		log.Fatalf("failed to load translations: %v", err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.LogVerbose {
		bot.Debug = true
	}
	me := bot.Self.UserName
	log.Printf("Authorized on account @%s", me)

	store, err := storage.NewStore(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()
	if err := store.WaitForDB(ctx); err != nil {
		log.Fatal(err)
	}
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	sender := messenger.NewTelegram(bot)

	// Date resolution is optional
	var dates handlers.DateResolver
	if cfg.OpenAIAPIKey != "" {
		llmClient, err := llm.NewClient(ctx, cfg.OpenAIAPIKey)
		if err != nil {
			log.Fatalf("failed to create LLM client: %v", err)
		}
		dates = llmClient
	} else {
		log.Info("OPENAI_API_KEY not set, date resolution disabled")
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, jobs.NewDeletePollWorker(func(ctx context.Context) (jobs.Session, error) {
		return store.Begin(ctx)
	}, sender, catalog))

	riverClient, err := river.NewClient(riverpgxv5.New(store.Pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: cfg.Workers},
		},
		Workers: workers,
	})
	if err != nil {
		log.Fatalf("failed to create river client: %v", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		log.Fatalf("failed to start river client: %v", err)
	}
	pollsService := polls.NewPollsService[pgx.Tx](riverClient)

	handler := handlers.NewHandler(handlers.Config{
		Sessions: func(ctx context.Context) (handlers.Session, error) {
			return store.Begin(ctx)
		},
		Sender:       sender,
		Catalog:      catalog,
		PollsService: pollsService,
		Dates:        dates,
		BotUsername:  me,
	})

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	switch cfg.Mode {
	case "webhook":
		if cfg.WebhookURL == "" {
			log.Fatal("webhook-url is required in webhook mode")
		}

		wh, err := tgbotapi.NewWebhook(cfg.WebhookURL)
		if err != nil {
			log.Fatalf("failed to build webhook: %v", err)
		}
		if _, err := bot.Request(wh); err != nil {
			log.Fatalf("failed to set webhook: %v", err)
		}
		info, err := bot.GetWebhookInfo()
		if err == nil {
			log.Printf("Webhook set: pending updates: %d", info.PendingUpdateCount)
		}

		router.Post("/telegram/webhook", func(w http.ResponseWriter, r *http.Request) {
			var update tgbotapi.Update
			if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			handler.HandleUpdate(r.Context(), update)
			w.WriteHeader(http.StatusOK)
		})
	case "long-polling":
		if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			log.Printf("failed to remove webhook (continuing): %v", err)
		}
	default:
		log.Fatal("Unknown mode specified. See available options using --help")
	}

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.Printf("Service listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	if cfg.Mode == "long-polling" {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updates := bot.GetUpdatesChan(u)
		log.Printf("Started long polling with timeout=%d seconds", u.Timeout)
	loop:
		for {
			select {
			case <-ctx.Done():
				bot.StopReceivingUpdates()
				break loop
			case update := <-updates:
				handler.HandleUpdate(ctx, update)
			}
		}
	}

	<-ctx.Done()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
	if err := riverClient.Stop(ctxShutdown); err != nil {
		log.WithError(err).Warn("river client did not stop cleanly")
	}
}
