package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/apple-stock-notifier/internal/config"
	"github.com/donaldgifford/apple-stock-notifier/internal/store"
)

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Apply pending schema migrations when storage.backend is postgres.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadOfflineConfig()
			if err != nil {
				return err
			}
			log := c.logger(cfg)

			if cfg.Storage.Backend != config.BackendPostgres {
				log.Info("nothing to migrate", "backend", cfg.Storage.Backend)
				return nil
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer pool.Close()

			log.Info("running migrations", "host", cfg.Database.Host, "database", cfg.Database.Name)

			applied, err := store.RunMigrations(ctx, pool)
			if err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			log.Info("migrations complete", "applied", applied)
			return nil
		},
	}
}
