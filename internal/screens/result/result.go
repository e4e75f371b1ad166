package result

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/klazic/trigo/internal/router"
	"github.com/klazic/trigo/internal/screen"
	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/session"
	"github.com/klazic/trigo/internal/ui/components"
	"github.com/klazic/trigo/internal/ui/layout"
	"github.com/klazic/trigo/internal/ui/theme"
)

// bucketMsg carries the bucket progress after the session was recorded.
type bucketMsg struct {
	Bucket *service.Bucket
	Err    error
}

// ResultScreen shows the score of a finished session and the updated
// progress of its category and difficulty.
type ResultScreen struct {
	ctx       context.Context
	svc       *service.Services
	summary   *session.Summary
	recordErr error

	bucket  *service.Bucket
	loadErr error
	menu    components.Menu
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a result screen. retry builds a fresh session screen for the
// same category and difficulty.
func New(ctx context.Context, svc *service.Services, summary *session.Summary, recordErr error, retry func() screen.Screen) *ResultScreen {
	s := &ResultScreen{
		ctx:       ctx,
		svc:       svc,
		summary:   summary,
		recordErr: recordErr,
	}
	s.menu = components.NewMenu([]components.MenuItem{
		{
			Label: "Play again",
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.ReplaceScreenMsg{Screen: retry()} }
			},
		},
		{
			Label: "Back to lesson",
			Action: func() tea.Cmd {
				return func() tea.Msg { return router.PopScreenMsg{} }
			},
		},
	})
	return s
}

func (s *ResultScreen) Init() tea.Cmd {
	r := s.summary.Result
	return func() tea.Msg {
		detail, err := s.svc.Category(s.ctx, r.CategoryID)
		if err != nil {
			return bucketMsg{Err: err}
		}
		for _, b := range detail.Buckets {
			if b.Difficulty == r.Difficulty {
				return bucketMsg{Bucket: &b}
			}
		}
		return bucketMsg{}
	}
}

func (s *ResultScreen) Title() string {
	return "Session Results"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return components.Hints(components.Keys.Up, components.Keys.Down, components.Keys.Enter, components.Keys.Back)
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bucketMsg:
		s.bucket = msg.Bucket
		s.loadErr = msg.Err
		if msg.Err != nil {
			s.svc.Logger.Warn("load lesson progress", "err", msg.Err)
		}
		return s, nil
	case tea.KeyMsg:
		if key.Matches(msg, components.Keys.Back) {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	r := s.summary.Result
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("Session complete!"))
	b.WriteString("\n\n")

	scoreStyle := theme.Correct
	if r.ScorePct() < 50 {
		scoreStyle = theme.Incorrect
	}
	b.WriteString(center.Render(
		theme.Body.Render("Score ") +
			scoreStyle.Render(fmt.Sprintf("%d/%d", r.Correct, r.Total)) +
			theme.Body.Render(fmt.Sprintf("   Accuracy %.0f%%", s.summary.Accuracy*100)),
	))
	b.WriteString("\n")

	if s.recordErr != nil {
		b.WriteString(center.Foreground(theme.Error).Render("Progress could not be saved: " + s.recordErr.Error()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	barWidth := min(width-8, 60)
	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(barWidth, 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.DifficultyStyle(r.Difficulty).Render(s.svc.Bank.Title(r.CategoryID)+" · "+r.Difficulty.DisplayName())))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	switch {
	case s.bucket != nil:
		b.WriteString(s.renderBucket(width, barWidth))
	case s.loadErr != nil:
		b.WriteString(center.Foreground(theme.TextDim).Render("Lesson progress unavailable"))
	default:
		b.WriteString(center.Foreground(theme.TextDim).Render("Loading progress..."))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}

func (s *ResultScreen) renderBucket(width, barWidth int) string {
	bk := s.bucket
	p := bk.Progress

	lines := []string{
		components.NewProgressBar("Mastery", p.MasteryPct(), true, barWidth).View(),
		withFill(components.NewProgressBar("Solved ", bk.CoveragePct(), true, barWidth), theme.DifficultyStyle(bk.Difficulty)).View(),
		theme.Hint.Render(fmt.Sprintf("%d/%d answered correctly   best %d%%   %d of %d questions solved",
			p.Correct, p.Attempted, p.BestPct, bk.Solved, bk.Pool)),
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(lines, "\n"))
}

func withFill(p components.ProgressBar, accent lipgloss.Style) components.ProgressBar {
	p.Fill = lipgloss.NewStyle().Background(accent.GetForeground())
	return p
}
