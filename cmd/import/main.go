package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/housing-survey-dashboard/internal/config"
	"github.com/housing-survey-dashboard/internal/infrastructure/ingest"
	"github.com/housing-survey-dashboard/internal/pkg/logger"
	"github.com/housing-survey-dashboard/internal/repository/postgres"
	"github.com/housing-survey-dashboard/migrations"
)

// Импорт анкеты в таблицу набора по умолчанию:
//
//	import --file survey.xlsx [--table housing_projects] [--migrate]
func main() {
	flags := pflag.NewFlagSet("import", pflag.ExitOnError)
	path := flags.StringP("file", "f", "", "survey file (xlsx, csv, geojson)")
	flags.StringP("table", "t", "", "target table, overrides DATASET_TABLE")
	migrate := flags.Bool("migrate", false, "apply schema migrations before import")
	timeout := flags.Duration("timeout", 5*time.Minute, "import timeout")
	_ = flags.Parse(os.Args[1:])

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: import --file <survey> [--table <name>]")
		os.Exit(2)
	}

	// 1. Load configuration
	if err := viper.BindPFlag("DATASET_TABLE", flags.Lookup("table")); err != nil {
		panic(fmt.Sprintf("Failed to bind flags: %v", err))
	}
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "housing-import")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, *timeout)
	defer cancelTimeout()

	// 3. Parse the survey
	data, err := os.ReadFile(*path)
	if err != nil {
		log.Fatal("Failed to read survey file", zap.String("path", *path), zap.Error(err))
	}

	ingester := ingest.NewAdapter(cfg.Dataset.FallbackEPSG, cfg.Upload.MaxBytes, log)
	set, err := ingester.Ingest(ctx, data, filepath.Base(*path))
	if err != nil {
		log.Fatal("Failed to parse survey file", zap.String("path", *path), zap.Error(err))
	}

	// 4. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	if *migrate {
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			_ = db.Close()
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	repo, err := postgres.NewDatasetRepository(db, cfg.Dataset.Table)
	if err != nil {
		log.Fatal("Failed to initialize dataset repository", zap.Error(err))
	}

	// 5. Replace the table contents
	n, err := repo.ReplaceAll(ctx, set)
	if err != nil {
		_ = db.Close()
		log.Fatal("Import failed", zap.Error(err))
	}

	log.Info("Import finished",
		zap.String("file", *path),
		zap.String("table", cfg.Dataset.Table),
		zap.Int("records", n),
	)
}
