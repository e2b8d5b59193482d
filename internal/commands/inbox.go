package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"habitfree/internal/client"
	"habitfree/internal/model"
)

func addMessage(topLevel *cobra.Command) {
	opts := &sessionOptions{}
	var date string

	cmd := &cobra.Command{
		Use:   "message",
		Short: "compose, list, mask and delete scheduled messages",
		Example: `
habitfree message send "One more week" --date 2030-06-20 --username alice --password pass1
habitfree message list --username alice --password pass1
habitfree message toggle 4 --username alice --password pass1
`,
	}
	opts.addFlags(cmd)

	send := &cobra.Command{
		Use:   "send TEXT",
		Short: "schedule a message for a future date",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := client.CheckCompose(strings.Join(args, " "), date, time.Now())
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			msg, err := s.api.SaveMessage(cmd.Context(), s.userID, text, date)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message %d scheduled for %s\n", msg.ID, msg.SendDate)
			return nil
		},
	}
	send.Flags().StringVar(&date, "date", "", "send date (YYYY-MM-DD), after today")
	cmd.AddCommand(send)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "print scheduled messages, masked ones hidden",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			messages, err := s.api.Messages(cmd.Context(), s.userID)
			if err != nil {
				return err
			}
			printMessages(cmd.OutOrStdout(), messages)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle ID",
		Short: "mask or reveal a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			msg, err := s.api.ToggleMask(cmd.Context(), s.userID, id)
			if err != nil {
				return err
			}
			state := "revealed"
			if msg.IsMasked {
				state = "masked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message %d %s: %s\n", msg.ID, state, msg.Display())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "delete a scheduled message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err := s.api.DeleteMessage(cmd.Context(), s.userID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Message %d deleted\n", id)
			return nil
		},
	})

	topLevel.AddCommand(cmd)
}

func addDelivered(topLevel *cobra.Command) {
	opts := &sessionOptions{}
	var page, limit int

	cmd := &cobra.Command{
		Use:   "delivered",
		Short: "page through the delivery history, newest first",
		Example: `
habitfree delivered --username alice --password pass1
habitfree delivered --page 2 --limit 10 --username alice --password pass1
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			result, err := s.api.Delivered(cmd.Context(), s.userID, page, limit)
			if err != nil {
				return err
			}
			printDelivered(cmd.OutOrStdout(), result, time.Now())
			return nil
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 20, "deliveries per page")

	topLevel.AddCommand(cmd)
}

func printMessages(w io.Writer, messages []model.Message) {
	if len(messages) == 0 {
		fmt.Fprintln(w, "No messages scheduled")
		return
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "SEND ON", "MESSAGE")
	for _, m := range messages {
		t.Row(strconv.FormatInt(m.ID, 10), m.SendDate, m.Display())
	}
	fmt.Fprintln(w, t.String())
}

func printDelivered(w io.Writer, result model.DeliveredPage, now time.Time) {
	if len(result.Deliveries) == 0 {
		fmt.Fprintln(w, "No deliveries yet")
		return
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "SEND ON", "DELIVERED", "MESSAGE")
	for _, d := range result.Deliveries {
		t.Row(
			strconv.FormatInt(d.MessageID, 10),
			d.SendDate,
			humanize.RelTime(d.DeliveredAt, now, "ago", "from now"),
			d.Text,
		)
	}
	fmt.Fprintln(w, t.String())
	fmt.Fprintf(w, "page %d, %d of %d deliveries\n", result.Page, len(result.Deliveries), result.Total)
}
