package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/router"
	"github.com/klazic/trigo/internal/screen"
	"github.com/klazic/trigo/internal/screens/lesson"
	"github.com/klazic/trigo/internal/screens/play"
	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/ui/components"
	"github.com/klazic/trigo/internal/ui/layout"
	"github.com/klazic/trigo/internal/ui/theme"
)

// HomeScreen lists the lessons with their coverage and offers to continue
// where the learner left off. It renders the latest overview broadcast by
// the app.
type HomeScreen struct {
	ctx      context.Context
	svc      *service.Services
	overview *service.Overview
	menu     components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(ctx context.Context, svc *service.Services) *HomeScreen {
	return &HomeScreen{ctx: ctx, svc: svc}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Lessons"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return components.Hints(components.Keys.Up, components.Keys.Down, components.Keys.Enter, components.Keys.Quit)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.OverviewMsg:
		h.setOverview(msg.Overview)
		return h, nil
	case tea.KeyMsg:
		if h.overview == nil {
			return h, nil
		}
		var cmd tea.Cmd
		h.menu, cmd = h.menu.Update(msg)
		return h, cmd
	}
	return h, nil
}

func (h *HomeScreen) setOverview(o *service.Overview) {
	if o == nil {
		return
	}
	first := h.overview == nil
	h.overview = o

	var items []components.MenuItem
	if t := o.Continue; t != nil {
		items = append(items, components.MenuItem{
			Label:  "Continue: " + t.Title,
			Detail: t.Difficulty.DisplayName(),
			Action: h.push(func() screen.Screen {
				return play.New(h.ctx, h.svc, t.CategoryID, t.Difficulty, nil)
			}),
		})
	}
	for _, c := range o.Cards {
		items = append(items, components.MenuItem{
			Label:    c.Title,
			Detail:   cardDetail(c),
			Disabled: !c.Available || c.Total == 0,
			Action: h.push(func() screen.Screen {
				return lesson.New(h.ctx, h.svc, c.ID, c.NextDifficulty())
			}),
		})
	}
	items = append(items, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})

	// A changed item count shifts positions, so start over from the top.
	if first || len(items) != len(h.menu.Items) {
		h.menu = components.NewMenu(items)
		return
	}
	h.menu = h.menu.SetItems(items)
}

func (h *HomeScreen) push(build func() screen.Screen) func() tea.Cmd {
	return func() tea.Cmd {
		next := build()
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func cardDetail(c service.Card) string {
	if !c.Available || c.Total == 0 {
		return "coming soon"
	}
	if c.Complete() {
		return fmt.Sprintf("%d questions   all solved", c.Total)
	}
	parts := make([]string, 0, len(quiz.Difficulties))
	for _, d := range quiz.Difficulties {
		if c.Counts[d] == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%c %d%%", d.DisplayName()[0], c.CoveragePct(d)))
	}
	return fmt.Sprintf("%d questions   %s", c.Total, strings.Join(parts, "  "))
}

func (h *HomeScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if h.overview == nil {
		return center.Foreground(theme.TextDim).Render("\n\n\n  Loading lessons...")
	}
	o := h.overview
	cw := min(width-8, 70)

	var sections []string
	sections = append(sections,
		center.Inherit(theme.Title).Render("Trigonometry practice")+"\n"+
			center.Inherit(theme.Subtitle).Render(streakLine(o)))

	solvedPct := 0
	if o.Global.Attempted > 0 {
		solvedPct = 100 * o.Global.Correct / o.Global.Attempted
	}
	bar := components.NewProgressBar(
		fmt.Sprintf("Solved %d/%d", o.Global.Correct, o.Global.Attempted),
		solvedPct, true, cw-4)
	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Card.Width(cw).Render(bar.View())))

	sections = append(sections, lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(cw).Render(h.menu.View())))

	return "\n" + strings.Join(sections, "\n\n")
}

func streakLine(o *service.Overview) string {
	s := o.Streak
	switch {
	case s.Current == 0:
		return "Finish a session to start a streak"
	case s.TodayActive:
		return fmt.Sprintf("%s streak, practiced today", layout.DayCount(s.Current))
	default:
		return fmt.Sprintf("%s streak, practice today to keep it", layout.DayCount(s.Current))
	}
}
