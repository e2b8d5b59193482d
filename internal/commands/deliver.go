package commands

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"habitfree/internal/service"
)

func addDeliver(topLevel *cobra.Command) {
	var date string

	cmd := &cobra.Command{
		Use:   "deliver",
		Short: "deliver the messages due on a date once, for cron-driven deployments",
		Example: `
habitfree deliver
habitfree deliver --date 2030-06-16
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			var report service.DeliveryReport
			if date == "" {
				report, err = a.delivery.DeliverToday(cmd.Context())
			} else {
				report, err = a.delivery.DeliverDue(cmd.Context(), date)
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "UTC calendar date YYYY-MM-DD (default today)")

	topLevel.AddCommand(cmd)
}
