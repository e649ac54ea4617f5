package main

import (
	"fmt"

	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-acquiring-service/internal/infrastructure/postgres"
	"github.com/spf13/cobra"
)

func migrateCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.PayDB.Dsn == "" || cfg.MigrationsPath == "" {
				return fmt.Errorf("pay_db.dsn and migrations_path are required")
			}
			db, err := postgres.Open(cfg.PayDB.Dsn)
			if err != nil {
				return err
			}
			if err := migrate.RunMigrations(db, cfg.MigrationsPath); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.PayDB.Dsn == "" || cfg.MigrationsPath == "" {
				return fmt.Errorf("pay_db.dsn and migrations_path are required")
			}
			db, err := postgres.Open(cfg.PayDB.Dsn)
			if err != nil {
				return err
			}
			if err := migrate.RollbackMigrations(db, cfg.MigrationsPath, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}
