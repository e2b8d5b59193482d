package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"habitfree/internal/db"
)

func addMigrate(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply pending schema migrations and list the applied versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			database, err := db.Connect(cfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer database.Close()

			if err := db.Migrate(cmd.Context(), database, cfg.Database.Driver); err != nil {
				return err
			}

			versions, err := db.AppliedVersions(cmd.Context(), database)
			if err != nil {
				return err
			}
			for _, v := range versions {
				fmt.Fprintf(cmd.OutOrStdout(), "%03d applied\n", v)
			}
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}
