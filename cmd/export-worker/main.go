package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/kasereka12/BudgetTracer/internal/amqp"
	"github.com/kasereka12/BudgetTracer/internal/backend"
	"github.com/kasereka12/BudgetTracer/internal/cli"
	"github.com/kasereka12/BudgetTracer/internal/config"
	gsheet "github.com/kasereka12/BudgetTracer/internal/sheets/google"
	"github.com/kasereka12/BudgetTracer/internal/worker"
)

func main() {
	resyncOwner := flag.String("resync", "", "export every expense of this owner id before consuming")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger("export-worker")
	cfg := cli.LoadAndValidateConfig(logger, (*config.Config).ValidateExporter)

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	// the worker only reads; it never publishes changes
	bcfg.AMQPURL = ""
	res, err := backend.NewFactory(logger.Logger).CreateBackend(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", bcfg.Type)
		os.Exit(1)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()

	creds, err := cfg.GoogleCredentials()
	if err != nil {
		logger.Error("Failed to read Google credentials", "error", err)
		os.Exit(1)
	}
	exporter, err := gsheet.NewWithCredentials(context.Background(), cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, creds)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	w := worker.NewExportWorker(res.Services.Expenses, exporter)
	ctx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, nil)

	if *resyncOwner != "" {
		n, err := w.Resync(ctx, *resyncOwner)
		if err != nil {
			logger.Error("Resync failed", "error", err, "owner_id", *resyncOwner, "exported", n)
			os.Exit(1)
		}
	}

	logger.Info("Starting export worker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue, "sheet", cfg.GoogleSheetName)
	err = amqp.ConsumeWithReconnect(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, w.HandleRecordChange)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Consumer stopped", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Export worker stopped")
}
