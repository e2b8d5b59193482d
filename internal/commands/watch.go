package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"habitfree/internal/client"
	"habitfree/internal/config"
	"habitfree/internal/model"
	"habitfree/internal/poller"
	"habitfree/internal/tui"
)

type watchOptions struct {
	sessionOptions
	plain bool
}

func addWatch(topLevel *cobra.Command) {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "open the dashboard: live streaks and the messages due today",
		Example: `
habitfree watch --username alice --password pass1
habitfree watch --username alice --password pass1 --plain
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), &opts.sessionOptions)
			if err != nil {
				return err
			}

			if opts.plain {
				return printDue(cmd.Context(), cmd.OutOrStdout(), s.api, s.userID)
			}
			return runDashboard(s.api, s.userID, opts.username, s.cfg)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print and dismiss due messages without the dashboard")

	topLevel.AddCommand(cmd)
}

func runDashboard(api *client.Client, userID int64, username string, cfg *config.Config) error {
	m := tui.NewModel(api, tui.Options{
		UserID:     userID,
		Username:   username,
		MinRefetch: cfg.Client.MinRefetch,
		Timeout:    cfg.Client.Timeout,
		Theme:      cfg.Theme,
	})

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// printDue writes each due message and dismisses it from the server.
func printDue(ctx context.Context, w io.Writer, api *client.Client, userID int64) error {
	messages, err := api.Messages(ctx, userID)
	if err != nil {
		return err
	}

	queue := poller.NewDueQueue(userID, messages, model.Today(time.Now()))
	if queue.Len() == 0 {
		fmt.Fprintln(w, "No messages due.")
		return nil
	}

	for {
		msg, ok := queue.Current()
		if !ok {
			return nil
		}
		fmt.Fprintf(w, "[%s] %s\n", msg.SendDate, msg.Text)
		if err := queue.Dismiss(ctx, api); err != nil {
			return fmt.Errorf("dismiss message %d: %w", msg.ID, err)
		}
	}
}
