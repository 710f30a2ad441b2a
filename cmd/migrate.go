package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmehdipour/iovox-sms/internal/config"
	"github.com/jmehdipour/iovox-sms/internal/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the exchange journal table for the configured driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if !cfg.Journal.Enabled() {
			return fmt.Errorf("journal.driver is not set")
		}

		driver, err := db.NormalizeDriver(cfg.Journal.Driver)
		if err != nil {
			return err
		}

		sqlDB, err := openJournalDB(cfg.Journal)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer sqlDB.Close()

		sqlPath := filepath.Join("migrations", driver, "001_init.sql")
		sqlBytes, err := os.ReadFile(sqlPath)
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", sqlPath, err)
		}

		if _, err := sqlDB.Exec(string(sqlBytes)); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), ">> Migration complete (%s)\n", driver)
		return nil
	},
}
