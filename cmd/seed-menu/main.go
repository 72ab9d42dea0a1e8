package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/MiguelMtzP/crm-restaurant-backend/internal/config"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/container"
	"github.com/MiguelMtzP/crm-restaurant-backend/internal/infrastructure/catalog"
	"github.com/MiguelMtzP/crm-restaurant-backend/pkg/utils"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	menuPath := flag.String("menu", "configs/menu.yaml", "path to the menu seed file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: "stdout",
		Format:     "console",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := seed(cfg, *menuPath, logger); err != nil {
		logger.Error("Menu seeding failed", zap.Error(err))
		os.Exit(1)
	}
}

func seed(cfg *config.Config, menuPath string, logger *zap.Logger) error {
	items, err := catalog.LoadFile(menuPath)
	if err != nil {
		return err
	}

	containerCfg, err := cfg.ToContainerConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store, err := container.ProvideStore(ctx, containerCfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()

	n, err := catalog.Seed(ctx, store.Menu, items, logger)
	if err != nil {
		return err
	}

	logger.Info("Menu seeded", zap.Int("items", n), zap.String("file", menuPath))
	return nil
}
