package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"nami/internal/amqp"
	"nami/internal/config"
	applog "nami/internal/log"
	"nami/internal/notify"
	"nami/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: applog.DefaultConfig().Level, Component: applog.ComponentWorker})
	applog.SetDefault(logger)

	logger.Info("Starting nami-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set for the worker")
		os.Exit(1)
	}

	// Without Discord credentials the worker drains the queue and drops
	// alerts, which keeps the broker from filling up in dev setups.
	var notifier worker.Notifier
	if cfg.DiscordBotToken != "" {
		discord, err := notify.NewDiscord(cfg.DiscordBotToken, cfg.DiscordChannelID)
		if err != nil {
			logger.Error("Failed to initialize Discord notifier", applog.FieldError, err)
			os.Exit(1)
		}
		defer discord.Close()
		notifier = discord
		logger.Info("Discord notifier initialized", "channel_id", cfg.DiscordChannelID)
	} else {
		logger.Warn("Discord disabled - alerts will be dropped")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	alertWorker := worker.NewAlertWorker(notifier)

	logger.Info("Consuming budget alerts", "queue", cfg.AMQPQueue)
	if err := amqpClient.ConsumeBudgetAlerts(ctx, alertWorker.HandleAlert); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", applog.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
