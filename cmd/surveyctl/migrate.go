package main

import (
	"log/slog"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/surveybase/internal/database"
)

func (c *cli) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := database.MigrateUp(cmd.Context(), slog.Default(), c.cfg.Database.URL); err != nil {
					return err
				}
				pterm.Success.Println("database is up to date")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := database.MigrateDown(cmd.Context(), slog.Default(), c.cfg.Database.URL); err != nil {
					return err
				}
				pterm.Success.Println("rolled back one migration")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return database.MigrateStatus(cmd.Context(), slog.Default(), c.cfg.Database.URL)
			},
		},
	)
	return cmd
}
