// Package commands is the habitfree command tree.
package commands

import (
	"github.com/spf13/cobra"

	"habitfree/internal/config"
)

var configFile string

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "habitfree",
		Short:         "Track habit-free streaks and deliver scheduled messages.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml); environment variables override it")

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addServe(topLevel)
	addDeliver(topLevel)
	addMigrate(topLevel)
	addWatch(topLevel)
	addHabit(topLevel)
	addMessage(topLevel)
	addDelivered(topLevel)
}

func loadConfig() (*config.Config, error) {
	return config.LoadFile(configFile)
}
