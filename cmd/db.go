package cmd

import (
	"github.com/emrgen/notes/internal/config"
	"github.com/emrgen/notes/internal/model"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := config.GetDb(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			if err := model.Migrate(db); err != nil {
				return err
			}

			color.Green("migrated %s database", cfg.DB.Driver)
			return nil
		},
	}

	return command
}
