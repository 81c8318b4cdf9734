package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bagdasarian/leadpipe/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		applied, err := db.Migrate(cmd.Context(), db.DSN(cfg.Database))
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			log.Info("database is up to date")
			return nil
		}
		log.Info("migrations applied", zap.Strings("versions", applied))
		return nil
	},
}
