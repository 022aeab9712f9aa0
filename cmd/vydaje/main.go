package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"vydaje/internal/amqp"
	"vydaje/internal/bot"
	"vydaje/internal/config"
	"vydaje/internal/log"
	"vydaje/internal/services"
	"vydaje/internal/storage"
)

func main() {
	// .env is for local development; absent in production is fine.
	_ = godotenv.Load()

	logger := log.New(slog.LevelInfo, log.ComponentBot)
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.TelegramToken == "" {
		logger.Error("TELEGRAM_API_TOKEN is required")
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Failed to load timezone", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath, loc)
	if err != nil {
		logger.Error("Failed to initialize storage", log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided, spreadsheet sync is off")
	}

	expenses := services.NewExpenseService(repo, amqpClient, loc)
	stats := services.NewStatsService(repo, loc, cfg.Currency)

	b, err := bot.New(cfg.TelegramToken, cfg.TelegramAccessID, expenses, stats, cfg.Currency)
	if err != nil {
		logger.Error("Failed to initialize Telegram bot", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting vydaje bot", "timezone", cfg.Timezone)
	if err := b.Run(ctx); err != nil {
		logger.Error("Bot stopped with error", log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Bot stopped gracefully")
}
