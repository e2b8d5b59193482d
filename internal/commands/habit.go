package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"habitfree/internal/model"
	"habitfree/internal/streak"
)

func addHabit(topLevel *cobra.Command) {
	opts := &sessionOptions{}

	cmd := &cobra.Command{
		Use:   "habit",
		Short: "list, add and delete tracked habits",
		Example: `
habitfree habit list --username alice --password pass1
habitfree habit add Smoking --username alice --password pass1
habitfree habit delete 3 --username alice --password pass1
`,
	}
	opts.addFlags(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "print every habit with its current streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			habits, err := s.api.Habits(cmd.Context(), s.userID)
			if err != nil {
				return err
			}
			printHabits(cmd.OutOrStdout(), habits, time.Now())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "start tracking a habit from now",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			habit, err := s.api.AddHabit(cmd.Context(), s.userID, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Habit %q added (id %d)\n", habit.Name, habit.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "stop tracking a habit",
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
			if err := s.api.DeleteHabit(cmd.Context(), s.userID, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Habit %d deleted\n", id)
			return nil
		},
	})

	topLevel.AddCommand(cmd)
}

func printHabits(w io.Writer, habits []model.Habit, now time.Time) {
	if len(habits) == 0 {
		fmt.Fprintln(w, "No habits found")
		return
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "HABIT", "STREAK", "SINCE")
	for _, h := range habits {
		t.Row(
			strconv.FormatInt(h.ID, 10),
			h.Name,
			streak.Elapsed(h.StartDatetime, now).String(),
			h.StartDatetime.UTC().Format("2006-01-02 15:04"),
		)
	}
	fmt.Fprintln(w, t.String())
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
