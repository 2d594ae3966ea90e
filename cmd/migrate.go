/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/campusboard/server/internal/db"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all up migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()
		if err := db.MigrateUp(db.DSN(cfg.Database)); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	},
}

var migrateDownSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Long: `Roll back migrations. Without --steps every migration is rolled back,
dropping all tables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()
		if err := db.MigrateDown(db.DSN(cfg.Database), migrateDownSteps); err != nil {
			return err
		}
		log.WithField("steps", migrateDownSteps).Info("migrations rolled back")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)

	migrateDownCmd.Flags().IntVar(&migrateDownSteps, "steps", 0, "number of migrations to roll back (0 rolls back all)")
}
