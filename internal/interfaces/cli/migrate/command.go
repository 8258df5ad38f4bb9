// Package migrate provides the schema migration command.
package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"rebill/internal/infrastructure/config"
	"rebill/internal/infrastructure/database"
	"rebill/internal/shared/logger"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long:  `Apply the persistence model schema to the configured database.`,
		RunE:  run,
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		OutputPath: cfg.Logger.OutputPath,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if cfg.Database.Driver == "memory" {
		return fmt.Errorf("the memory driver has no schema to migrate")
	}

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	logger.Get().Info("schema migrated", "driver", cfg.Database.Driver)
	return nil
}
