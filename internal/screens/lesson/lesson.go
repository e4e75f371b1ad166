package lesson

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/router"
	"github.com/klazic/trigo/internal/screen"
	"github.com/klazic/trigo/internal/screens/play"
	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/ui/components"
	"github.com/klazic/trigo/internal/ui/layout"
	"github.com/klazic/trigo/internal/ui/theme"
)

type detailMsg struct {
	Detail *service.CategoryDetail
	Err    error
}

// LessonScreen shows one category's buckets and starts sessions.
type LessonScreen struct {
	ctx        context.Context
	svc        *service.Services
	categoryID string
	initial    quiz.Difficulty

	detail *service.CategoryDetail
	err    error
	menu   components.Menu
	loaded bool
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)

// New creates a lesson screen with the cursor on difficulty d.
func New(ctx context.Context, svc *service.Services, categoryID string, d quiz.Difficulty) *LessonScreen {
	return &LessonScreen{
		ctx:        ctx,
		svc:        svc,
		categoryID: categoryID,
		initial:    d,
	}
}

func (l *LessonScreen) Init() tea.Cmd {
	return l.load()
}

func (l *LessonScreen) load() tea.Cmd {
	return func() tea.Msg {
		d, err := l.svc.Category(l.ctx, l.categoryID)
		return detailMsg{Detail: d, Err: err}
	}
}

func (l *LessonScreen) Title() string {
	return l.svc.Bank.Title(l.categoryID)
}

func (l *LessonScreen) KeyHints() []layout.KeyHint {
	if l.detail == nil {
		return components.Hints(components.Keys.Back)
	}
	return components.Hints(components.Keys.Up, components.Keys.Down, startBinding, components.Keys.Back)
}

var startBinding = key.NewBinding(
	key.WithKeys("enter"),
	key.WithHelp("enter", "start"),
)

func (l *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case detailMsg:
		l.apply(msg)
		return l, nil
	case screen.ResumedMsg, screen.OverviewMsg:
		return l, l.load()
	case tea.KeyMsg:
		if key.Matches(msg, components.Keys.Back) {
			return l, func() tea.Msg { return router.PopScreenMsg{} }
		}
		if l.detail == nil {
			return l, nil
		}
		var cmd tea.Cmd
		l.menu, cmd = l.menu.Update(msg)
		return l, cmd
	}
	return l, nil
}

func (l *LessonScreen) apply(msg detailMsg) {
	l.err = msg.Err
	if msg.Err != nil {
		l.svc.Logger.Warn("load lesson", "category", l.categoryID, "err", msg.Err)
		l.detail = nil
		return
	}
	l.detail = msg.Detail

	items := make([]components.MenuItem, 0, len(msg.Detail.Buckets))
	for _, b := range msg.Detail.Buckets {
		items = append(items, components.MenuItem{
			Label:    fmt.Sprintf("%-8s", b.Difficulty.DisplayName()),
			Detail:   bucketDetail(b),
			Disabled: b.Pool == 0,
			Action:   l.start(b.Difficulty),
		})
	}

	if !l.loaded {
		l.menu = components.NewMenu(items)
		if i := int(l.initial); i < len(items) && !items[i].Disabled {
			l.menu.Selected = i
		}
		l.loaded = true
		return
	}
	l.menu = l.menu.SetItems(items)
}

func (l *LessonScreen) start(d quiz.Difficulty) func() tea.Cmd {
	return func() tea.Cmd {
		next := play.New(l.ctx, l.svc, l.categoryID, d, nil)
		return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
}

func bucketDetail(b service.Bucket) string {
	if b.Pool == 0 {
		return "no questions yet"
	}
	return fmt.Sprintf("%2d questions   solved %3d%%   mastery %3d%%", b.Pool, b.CoveragePct(), b.Progress.MasteryPct())
}

func (l *LessonScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	if l.err != nil {
		msg := "Could not load this lesson."
		var nf *quiz.ErrCategoryNotFound
		if errors.As(l.err, &nf) {
			msg = "This lesson has no questions yet."
		}
		return center.Foreground(theme.TextDim).Render("\n\n\n  " + msg)
	}
	if l.detail == nil {
		return center.Foreground(theme.TextDim).Render("\n\n\n  Loading...")
	}

	contentWidth := min(width-8, 70)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Inherit(theme.Title).Render(l.detail.Title))
	b.WriteString("\n\n")

	var bars []string
	for _, bk := range l.detail.Buckets {
		if bk.Pool == 0 {
			continue
		}
		bar := components.NewProgressBar(fmt.Sprintf("%-6s", bk.Difficulty.DisplayName()), bk.CoveragePct(), true, contentWidth)
		bar.Fill = lipgloss.NewStyle().Background(theme.DifficultyStyle(bk.Difficulty).GetForeground())
		bars = append(bars, bar.View())
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(bars, "\n")))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, l.menu.View()))
	return b.String()
}
