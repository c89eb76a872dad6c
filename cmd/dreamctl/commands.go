package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"dreamvisualizer/internal/adapter/repo"
	"dreamvisualizer/internal/analytics"
	"dreamvisualizer/internal/infra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dreamctl",
		Short:         "Operational commands for the DreamVisualizer backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().String("db", "", "database URL (defaults to DATABASE_URL)")
	root.AddCommand(newMigrateCmd(), newSnapshotCmd())
	return root
}

func databaseURL(cmd *cobra.Command) (string, error) {
	url, _ := cmd.Flags().GetString("db")
	if url = strings.TrimSpace(url); url == "" {
		url = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if url == "" {
		return "", fmt.Errorf("--db flag or DATABASE_URL is required")
	}
	return url, nil
}

func withMigrator(cmd *cobra.Command, fn func(*infra.Migrator) error) error {
	url, err := databaseURL(cmd)
	if err != nil {
		return err
	}
	m, err := infra.NewMigrator(url)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func newMigrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *infra.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied successfully")
				return nil
			})
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			return withMigrator(cmd, func(m *infra.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
				return nil
			})
		},
	}
	down.Flags().Int("steps", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(cmd, func(m *infra.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
				return nil
			})
		},
	}

	migrateCmd.AddCommand(up, down, version)
	return migrateCmd
}

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Capture today's analytics snapshot immediately",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			cfg := &infra.Config{DatabaseURL: url}
			pool, err := infra.NewDBPool(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := infra.NewLogger(os.Getenv("APP_ENV"), "dreamctl")
			agg := analytics.NewAggregator(repo.NewAnalyticsRepository(infra.NewSQLRunner(pool, logger)))
			snap, err := agg.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "snapshot %s: %d dreams, %d images, %.2f audio minutes\n",
				snap.Date.Format("2006-01-02"), snap.TotalDreams, snap.TotalImages, snap.AudioMinutes)
			return nil
		},
	}
}
