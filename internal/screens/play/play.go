package play

import (
	"context"
	"math/rand/v2"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/router"
	"github.com/klazic/trigo/internal/screen"
	"github.com/klazic/trigo/internal/screens/result"
	"github.com/klazic/trigo/internal/service"
	sess "github.com/klazic/trigo/internal/session"
	"github.com/klazic/trigo/internal/ui/components"
	"github.com/klazic/trigo/internal/ui/layout"
	"github.com/klazic/trigo/internal/ui/theme"
)

// PlayScreen runs one quiz session for a category and difficulty.
type PlayScreen struct {
	ctx        context.Context
	svc        *service.Services
	categoryID string
	difficulty quiz.Difficulty
	rng        *rand.Rand

	ctrl    *sess.Controller
	choice  components.MultiChoice
	spinner spinner.Model

	feedback           *feedback
	showingQuitConfirm bool

	// recorded is set once Complete has returned; recordErr is its result.
	recording bool
	recorded  bool
	recordErr error
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)

// New creates a play screen. A nil rng draws a fresh seed per session.
func New(ctx context.Context, svc *service.Services, categoryID string, d quiz.Difficulty, rng *rand.Rand) *PlayScreen {
	return &PlayScreen{
		ctx:        ctx,
		svc:        svc,
		categoryID: categoryID,
		difficulty: d,
		rng:        rng,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.Selected),
		),
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	ch := s.svc.StartSession(s.ctx, s.categoryID, s.difficulty, s.rng)
	return tea.Batch(
		s.spinner.Tick,
		func() tea.Msg {
			return sessionReadyMsg{Controller: <-ch}
		},
	)
}

func (s *PlayScreen) Title() string {
	return s.svc.Bank.Title(s.categoryID) + " · " + s.difficulty.DisplayName()
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.ctrl == nil:
		return components.Hints(components.Keys.Back)
	case s.showingQuitConfirm:
		return []layout.KeyHint{
			{Key: "y", Description: "end session"},
			{Key: "n", Description: "keep going"},
		}
	case s.feedback != nil:
		return []layout.KeyHint{{Key: "any key", Description: "continue"}}
	case s.ctrl.Phase() == sess.PhaseFinished:
		return components.Hints(components.Keys.Back)
	}
	return components.Hints(
		components.Keys.Up,
		components.Keys.Down,
		components.Keys.Choose,
		submitBinding,
		components.Keys.Back,
	)
}

var submitBinding = key.NewBinding(
	key.WithKeys("enter"),
	key.WithHelp("enter", "submit"),
)

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionReadyMsg:
		return s.handleReady(msg)

	case sessionRecordedMsg:
		return s.handleRecorded(msg)

	case spinner.TickMsg:
		if s.ctrl != nil {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PlayScreen) handleReady(msg sessionReadyMsg) (screen.Screen, tea.Cmd) {
	s.ctrl = msg.Controller
	if s.ctrl == nil {
		return s, nil
	}
	if err := s.ctrl.Err(); err != nil {
		s.svc.Logger.Error("session generation failed", "category", s.categoryID, "difficulty", s.difficulty.Key(), "err", err)
		return s, nil
	}
	if s.ctrl.Phase() == sess.PhaseFinished {
		// Nothing to answer; forwarding an empty result records nothing.
		return s, s.record()
	}
	s.loadCurrent()
	return s, nil
}

func (s *PlayScreen) loadCurrent() {
	q, ok := s.ctrl.Current()
	if !ok {
		return
	}
	s.choice = components.NewMultiChoice(q.Prompt, q.Choices)
}

func (s *PlayScreen) handleRecorded(msg sessionRecordedMsg) (screen.Screen, tea.Cmd) {
	s.recording = false
	s.recorded = true
	s.recordErr = msg.Err
	if s.feedback == nil {
		return s, s.showResult()
	}
	return s, nil
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	pop := func() tea.Msg { return router.PopScreenMsg{} }

	if s.ctrl == nil {
		if key.Matches(msg, components.Keys.Back) {
			return s, pop
		}
		return s, nil
	}

	// Failed session: any key goes back.
	if s.ctrl.Err() != nil {
		return s, pop
	}

	if s.showingQuitConfirm {
		switch msg.String() {
		case "y", "Y":
			s.showingQuitConfirm = false
			return s, pop
		case "n", "N", "esc":
			s.showingQuitConfirm = false
		}
		return s, nil
	}

	if s.feedback != nil {
		last := s.feedback.Last
		s.feedback = nil
		if last && s.recorded {
			return s, s.showResult()
		}
		return s, nil
	}

	if s.ctrl.Phase() == sess.PhaseFinished {
		if s.recording {
			return s, nil
		}
		return s, pop
	}

	switch {
	case key.Matches(msg, components.Keys.Back):
		s.showingQuitConfirm = true
		return s, nil
	case key.Matches(msg, components.Keys.Enter):
		s.ctrl.Select(s.choice.Cursor)
		return s.submit()
	}

	s.choice = s.choice.Update(msg)
	if s.choice.Picked != components.NoChoice {
		s.ctrl.Select(s.choice.Picked)
	}
	return s, nil
}

func (s *PlayScreen) submit() (screen.Screen, tea.Cmd) {
	q, ok := s.ctrl.Current()
	if !ok {
		return s, nil
	}
	picked := s.ctrl.Selected()

	out := s.ctrl.SubmitOrAdvance()
	if !out.Answered {
		return s, nil
	}

	s.feedback = &feedback{
		Prompt:  q.Prompt,
		Choices: q.Choices,
		Picked:  picked,
		Answer:  q.CorrectIndex,
		Correct: out.Correct,
		Last:    out.Finished,
	}

	if out.Finished {
		return s, s.record()
	}
	s.loadCurrent()
	return s, nil
}

// record forwards the finished session. It runs at most once per screen.
func (s *PlayScreen) record() tea.Cmd {
	if s.recording || s.recorded {
		return nil
	}
	r, ok := s.ctrl.Result()
	if !ok {
		return nil
	}
	s.recording = true
	return func() tea.Msg {
		return sessionRecordedMsg{Err: s.svc.Complete(s.ctx, r)}
	}
}

func (s *PlayScreen) showResult() tea.Cmd {
	summary, ok := sess.BuildSummary(s.ctrl)
	if !ok || summary.Result.Empty() {
		return nil
	}
	retry := func() screen.Screen {
		return New(s.ctx, s.svc, s.categoryID, s.difficulty, nil)
	}
	next := result.New(s.ctx, s.svc, summary, s.recordErr, retry)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}
