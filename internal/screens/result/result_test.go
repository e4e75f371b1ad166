package result

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/router"
	"github.com/klazic/trigo/internal/screen"
	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/session"
	"github.com/klazic/trigo/internal/store"
)

type stubScreen struct{}

func (stubScreen) Init() tea.Cmd                           { return nil }
func (s stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (stubScreen) View(int, int) string                    { return "" }
func (stubScreen) Title() string                           { return "stub" }

func testResult(t *testing.T, recordErr error) (*ResultScreen, *service.Services) {
	t.Helper()
	bank, err := quiz.DefaultBank()
	require.NoError(t, err)
	svc := service.New(store.NewMemory(), bank, service.Options{})

	r := session.Result{
		SessionID:  "s-1",
		CategoryID: "unit_circle",
		Difficulty: quiz.Medium,
		Correct:    2,
		Total:      3,
		CorrectIDs: []string{"unit_circle-medium-01", "unit_circle-medium-02"},
	}
	require.NoError(t, svc.Complete(context.Background(), r))

	sum := &session.Summary{Result: r, Accuracy: 2.0 / 3.0}
	s := New(context.Background(), svc, sum, recordErr, func() screen.Screen { return stubScreen{} })
	return s, svc
}

func TestResultScreen_LoadsBucket(t *testing.T) {
	s, _ := testResult(t, nil)
	assert.Contains(t, s.View(100, 30), "Loading progress")

	scr, _ := s.Update(s.Init()())
	s = scr.(*ResultScreen)

	require.NotNil(t, s.bucket)
	assert.Equal(t, quiz.Medium, s.bucket.Difficulty)
	assert.Equal(t, 3, s.bucket.Pool)
	assert.Equal(t, 2, s.bucket.Solved)
	assert.Equal(t, 66, s.bucket.CoveragePct())

	view := s.View(100, 30)
	assert.Contains(t, view, "Session complete!")
	assert.Contains(t, view, "2/3")
	assert.Contains(t, view, "2 of 3 questions solved")
}

func TestResultScreen_ShowsRecordError(t *testing.T) {
	s, _ := testResult(t, errors.New("disk full"))
	assert.Contains(t, s.View(100, 30), "disk full")
}

func TestResultScreen_Navigation(t *testing.T) {
	s, _ := testResult(t, nil)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	replace, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok, "Play again replaces the result")
	assert.Equal(t, "stub", replace.Screen.Title())

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Nil(t, cmd)
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}
