package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/ingest"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	path := flag.String("file", "", "CSV file with columns Date,Amount,Category,Type,Note (- for stdin)")
	dryRun := flag.Bool("dry-run", false, "validate the file without storing anything")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: fintrack-import -file transactions.csv [-dry-run]")
		os.Exit(2)
	}

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentImport)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("Invalid timezone", "error", err, "timezone", cfg.Timezone)
		os.Exit(1)
	}

	in := os.Stdin
	if *path != "-" {
		f, err := os.Open(*path)
		if err != nil {
			logger.Error("Failed to open import file", "error", err, "path", *path)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	transactions, problems := ingest.ParseCSV(in, loc)
	for _, p := range problems {
		logger.Warn("Skipping row", "problem", p)
	}
	logger.Info("Parsed import file", "valid", len(transactions), "rejected", len(problems))
	if *dryRun || len(transactions) == 0 {
		return
	}

	if cfg.DataBackend == config.BackendMemory {
		logger.Warn("DATA_BACKEND is memory, imported transactions are only published as events")
	}

	ctx := context.Background()
	be := cli.InitBackend(ctx, logger, cfg)
	defer func() {
		if err := be.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	}()

	svc := services.NewTransactionService(be.Store, be.Publisher, nil, loc)
	res, err := svc.Import(ctx, transactions)
	if err != nil {
		logger.Error("Import interrupted", "error", err, "imported", res.Imported)
		return
	}
	logger.Info("Import complete", "imported", res.Imported, "failed", res.Failed)
}
