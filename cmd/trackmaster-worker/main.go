package main

import (
	"context"
	"errors"
	"os"
	"time"

	"trackmaster/internal/amqp"
	"trackmaster/internal/cli"
	"trackmaster/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting trackmaster-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the backup worker")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	backup, err := worker.NewBackupWorker(cfg.BackupFile)
	if err != nil {
		logger.Error("Failed to open backup file", "error", err, "path", cfg.BackupFile)
		os.Exit(1)
	}
	defer backup.Close()

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Consuming expense events", "queue", cfg.AMQPQueue, "backup_file", cfg.BackupFile)
	if err := amqpClient.ConsumeExpenseEvents(ctx, func(event *amqp.ExpenseEvent) error {
		return backup.HandleEvent(ctx, event)
	}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
