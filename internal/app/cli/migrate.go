package cli

import (
	"hogwarts-artifacts/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			_, err = database.InitDB(cfg.DB, log)
			return err
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Migrate and load the demo artifacts, wizards and users",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			db, err := database.InitDB(cfg.DB, log)
			if err != nil {
				return err
			}
			if err := database.Seed(db, cfg.BcryptCost); err != nil {
				return err
			}
			log.Info("demo data loaded", zap.String("driver", cfg.DB.Driver))
			return nil
		},
	}
}
