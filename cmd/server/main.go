package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/JustJay7/collections-tracker/internal/analysis"
	"github.com/JustJay7/collections-tracker/internal/config"
	"github.com/JustJay7/collections-tracker/internal/database"
	"github.com/JustJay7/collections-tracker/internal/ledger"
	"github.com/JustJay7/collections-tracker/internal/server"
	"github.com/JustJay7/collections-tracker/pkg/logger"
)

func main() {
	var migrate, analyze bool
	flag.BoolVar(&migrate, "migrate", false, "Run database migrations")
	flag.BoolVar(&analyze, "analyze", false, "Run one analysis pass before serving")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", "error", err)
	}

	if migrate {
		if err := database.Migrate(db); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		log.Info("Database migrations completed successfully")
		return
	}

	svc, err := analysis.NewFromConfig(cfg, db, log)
	if err != nil {
		log.Fatal("Failed to build analysis service", "error", err)
	}

	if analyze {
		// A missing email cache should not keep the API from starting.
		_, err := svc.Run(context.Background(), "startup")
		if err != nil && !errors.Is(err, ledger.ErrEmptyMessageCache) {
			log.Fatal("Startup analysis failed", "error", err)
		}
	}

	srv := server.New(cfg, svc, log)

	log.Info("Starting collections tracker API",
		"host", cfg.Host,
		"port", cfg.Port,
		"ledger", cfg.LedgerPath,
	)

	if err := srv.Run(); err != nil {
		log.Fatal("Server failed to start", "error", err)
	}
}
