package cmd

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/klazic/trigo/internal/progress"
	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/ui/layout"
	"github.com/klazic/trigo/internal/ui/theme"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress per lesson and difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		o, err := e.svc.Overview(cmd.Context())
		if err != nil {
			return err
		}
		buckets := make(map[string]*service.CategoryDetail, len(o.Cards))
		for _, c := range o.Cards {
			if !c.Available {
				continue
			}
			d, err := e.svc.Category(cmd.Context(), c.ID)
			if err != nil {
				return err
			}
			buckets[c.ID] = d
		}
		renderStats(cmd.OutOrStdout(), o, buckets)
		return nil
	},
}

func renderStats(w io.Writer, o *service.Overview, details map[string]*service.CategoryDetail) {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Lesson", "Difficulty", "Solved", "Coverage", "Answered", "Mastery", "Best").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, c := range o.Cards {
		d, ok := details[c.ID]
		if !ok {
			t.Row(c.Title, "-", "-", "-", "-", "-", "-")
			continue
		}
		for _, b := range d.Buckets {
			if b.Pool == 0 {
				continue
			}
			t.Row(
				c.Title,
				b.Difficulty.DisplayName(),
				fmt.Sprintf("%d/%d", b.Solved, b.Pool),
				fmt.Sprintf("%d%%", b.CoveragePct()),
				fmt.Sprintf("%d/%d", b.Progress.Correct, b.Progress.Attempted),
				fmt.Sprintf("%d%%", b.Progress.MasteryPct()),
				fmt.Sprintf("%d%%", b.Progress.BestPct),
			)
		}
	}

	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "Overall: %d of %d questions solved (%d%%)\n",
		o.Global.Correct, o.Global.Attempted, progress.CoveragePct(o.Global.Correct, o.Global.Attempted))
	fmt.Fprintln(w, streakText(o))
	if t := o.Continue; t != nil {
		fmt.Fprintf(w, "Next up: %s, %s\n", t.Title, strings.ToLower(t.Difficulty.DisplayName()))
	} else if len(o.Cards) > 0 {
		fmt.Fprintln(w, "Every lesson is fully solved.")
	}
}

func streakText(o *service.Overview) string {
	s := o.Streak
	if s.Current == 0 || !s.HasLastDay() {
		return "Streak: none yet"
	}
	today := "not yet practiced today"
	if s.TodayActive {
		today = "practiced today"
	}
	return fmt.Sprintf("Streak: %s (last active %s, %s)", layout.DayCount(s.Current), s.LastDay, today)
}

