package app

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/klazic/trigo/internal/progress"
	"github.com/klazic/trigo/internal/router"
	"github.com/klazic/trigo/internal/screen"
	"github.com/klazic/trigo/internal/screens/home"
	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/ui/components"
	"github.com/klazic/trigo/internal/ui/layout"
)

// overviewMsg carries the next value of the overview stream. ok is false
// once the stream has ended.
type overviewMsg struct {
	overview *service.Overview
	ok       bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router    *router.Router
	overviews <-chan *service.Overview
	stats     layout.HeaderStats
	start     screen.Screen
	width     int
	height    int
}

// Options configures the app.
type Options struct {
	// Start is pushed above the home screen on launch, e.g. a session
	// requested from the command line.
	Start func(ctx context.Context, svc *service.Services) screen.Screen
}

// newAppModel creates a new AppModel with the home screen at the root.
func newAppModel(ctx context.Context, svc *service.Services, opts Options) AppModel {
	m := AppModel{
		router:    router.New(home.New(ctx, svc)),
		overviews: svc.OverviewFlow(ctx),
	}
	if opts.Start != nil {
		m.start = opts.Start(ctx, svc)
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init(), m.nextOverview()}
	if m.start != nil {
		start := m.start
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: start} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) nextOverview() tea.Cmd {
	ch := m.overviews
	return func() tea.Msg {
		o, ok := <-ch
		return overviewMsg{overview: o, ok: ok}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case overviewMsg:
		if !msg.ok {
			return m, nil
		}
		m.stats = headerStats(msg.overview)
		return m, tea.Batch(
			m.router.Broadcast(screen.OverviewMsg{Overview: msg.overview}),
			m.nextOverview(),
		)

	case tea.KeyMsg:
		if key.Matches(msg, components.Keys.Quit) {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func headerStats(o *service.Overview) layout.HeaderStats {
	return layout.HeaderStats{
		CoveragePct: progress.CoveragePct(o.Global.Correct, o.Global.Attempted),
		StreakDays:  o.Streak.Current,
		TodayActive: o.Streak.TodayActive,
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	var footerHints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if hp, ok := active.(screen.KeyHintProvider); ok {
			footerHints = hp.KeyHints()
		}
	}
	if footerHints == nil {
		footerHints = components.Hints(components.Keys.Back, components.Keys.Quit)
	}

	header := layout.RenderHeader(title, m.stats, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program and blocks until it exits. Background
// work started by the screens is canceled on return.
func Run(ctx context.Context, svc *service.Services, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newAppModel(ctx, svc, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
