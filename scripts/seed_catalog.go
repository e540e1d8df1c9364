package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"pictiv/internal/catalog"
	"pictiv/internal/config"
	"pictiv/internal/database"
	"pictiv/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		catalogPath = flag.String("catalog", "", "path to catalog.yaml (built-in catalog when empty)")
		configPath  = flag.String("config", "configs/config.yaml", "path to config.yaml")
	)
	flag.Parse()

	file := catalog.Default()
	if *catalogPath != "" {
		loaded, err := catalog.LoadFile(*catalogPath)
		if err != nil {
			return err
		}
		file = loaded
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := database.Open(ctx, cfg.Database, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer store.Close(context.Background())

	svc := service.NewCatalogService(store, &logger)

	services, err := svc.SeedServices(ctx, file.Services)
	if err != nil {
		return fmt.Errorf("seed services: %w", err)
	}
	announcements, err := svc.SeedAnnouncements(ctx, file.AnnouncementList())
	if err != nil {
		return fmt.Errorf("seed announcements: %w", err)
	}

	fmt.Printf("done: services=%d announcements=%d\n", services, announcements)
	return nil
}
