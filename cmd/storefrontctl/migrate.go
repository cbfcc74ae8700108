package main

import (
	"fmt"

	"storefront/internal/config"
	"storefront/internal/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCmd(cfg *config.Config, log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalog schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dbService, err := database.New(cmd.Context(), cfg.Database)
				if err != nil {
					return err
				}
				defer dbService.Close()

				return database.RunMigrations(dbService.DB(), log)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the migration status",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dbService, err := database.New(cmd.Context(), cfg.Database)
				if err != nil {
					return err
				}
				defer dbService.Close()

				if err := database.GetMigrationStatus(dbService.DB()); err != nil {
					return fmt.Errorf("failed to read migration status: %w", err)
				}
				return nil
			},
		},
	)
	return cmd
}
