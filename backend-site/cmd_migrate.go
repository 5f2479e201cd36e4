package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/OttoDev-System/intellicor-saas/backend-site/internal/repository"
	"github.com/OttoDev-System/intellicor-saas/pkg/database"
)

var migratePrint bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the lead and audit tables",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().BoolVar(&migratePrint, "print", false, "print the schema instead of applying it")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	if migratePrint {
		fmt.Fprint(cmd.OutOrStdout(), repository.Schema())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := initLogger(cfg)
	if err != nil {
		return err
	}

	db, err := database.NewPostgres(cmd.Context(), database.FromAppConfig(cfg.Database))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(cmd.Context(), db); err != nil {
		return err
	}
	log.Info("schema applied", zap.String("database", cfg.Database.DBName))
	return nil
}
