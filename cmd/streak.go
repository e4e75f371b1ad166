package cmd

import (
	"fmt"
	"io"

	"github.com/go-co-op/gocron"
	"github.com/spf13/cobra"

	"github.com/klazic/trigo/internal/streak"
	"github.com/klazic/trigo/internal/ui/layout"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the daily practice streak",
	RunE:  runStreakShow,
}

var streakShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current streak",
	RunE:  runStreakShow,
}

var streakWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the streak whenever it changes, and again at every midnight",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		// Today moves at midnight without any stored change, so the
		// scheduler re-evaluates the summary then.
		sched := gocron.NewScheduler(e.cfg.Location)
		_, err = sched.Every(1).Day().At("00:00").Do(func() {
			sum, err := e.svc.Streak.Summary(ctx)
			if err != nil {
				e.logger.Error("midnight streak refresh", "err", err)
				return
			}
			printStreak(out, sum)
		})
		if err != nil {
			return fmt.Errorf("schedule midnight refresh: %w", err)
		}
		sched.StartAsync()
		defer sched.Stop()

		for sum := range e.svc.Streak.SummaryFlow(ctx) {
			printStreak(out, sum)
		}
		return nil
	},
}

func init() {
	streakCmd.AddCommand(streakShowCmd)
	streakCmd.AddCommand(streakWatchCmd)
}

func runStreakShow(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()

	sum, err := e.svc.Streak.Summary(cmd.Context())
	if err != nil {
		return err
	}
	printStreak(cmd.OutOrStdout(), sum)
	return nil
}

func printStreak(w io.Writer, s streak.Summary) {
	if !s.HasLastDay() {
		fmt.Fprintln(w, "No practice recorded yet.")
		return
	}
	mark := "not yet today"
	if s.TodayActive {
		mark = "done today"
	}
	fmt.Fprintf(w, "%s streak, last active %s (%s)\n", layout.DayCount(s.Current), s.LastDay, mark)
}
