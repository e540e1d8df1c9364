package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pictiv/internal/config"
	"pictiv/internal/database"
	"pictiv/internal/export"
	"pictiv/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	outDir := flag.String("out", "", "output directory (defaults to exports.path)")
	flag.Parse()

	if *configPath == "" {
		*configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbLogger := logging.Component(logger, "database")
	store, err := database.Open(ctx, cfg.Database, &dbLogger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close(context.Background())

	dir := *outDir
	if dir == "" {
		dir = cfg.Exports.Path
	}

	exportLogger := logging.Component(logger, "export")
	path, err := export.NewExporter(store, dir, &exportLogger).Export(ctx)
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}
