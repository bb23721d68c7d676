package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/sideby/teachconnect/internal/infrastructure/database"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect SQL migrations",
	}

	var steps int
	up := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(migrate.Up, steps)
		},
	}
	up.Flags().IntVarP(&steps, "steps", "n", 0, "maximum migrations to apply (0 = all)")

	var downSteps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(migrate.Down, downSteps)
		},
	}
	down.Flags().IntVarP(&downSteps, "steps", "n", 1, "migrations to roll back (0 = all)")

	status := &cobra.Command{
		Use:   "status",
		Short: "List applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateStatus()
		},
	}

	cmd.AddCommand(up, down, status)
	return cmd
}

func runMigrate(direction migrate.MigrationDirection, max int) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	n, err := database.Migrate(db, direction, max, logger)
	if err != nil {
		return err
	}
	fmt.Printf("Applied %d migration(s)\n", n)
	return nil
}

func runMigrateStatus() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewPostgresDB(cfg, logger)
	if err != nil {
		return err
	}
	defer database.CloseDB(db)

	records, err := database.MigrationStatus(db)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "MIGRATION\tAPPLIED AT")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\n", r.Id, r.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
