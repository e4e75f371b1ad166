package home

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/router"
	"github.com/klazic/trigo/internal/screen"
	"github.com/klazic/trigo/internal/screens/lesson"
	"github.com/klazic/trigo/internal/screens/play"
	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/store"
)

func testHome(t *testing.T) (*HomeScreen, *service.Services) {
	t.Helper()
	bank, err := quiz.DefaultBank()
	require.NoError(t, err)
	svc := service.New(store.NewMemory(), bank, service.Options{})

	h := New(context.Background(), svc)
	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	scr, _ := h.Update(screen.OverviewMsg{Overview: o})
	return scr.(*HomeScreen), svc
}

func TestHomeScreen_LoadingUntilOverview(t *testing.T) {
	bank, err := quiz.DefaultBank()
	require.NoError(t, err)
	h := New(context.Background(), service.New(store.NewMemory(), bank, service.Options{}))

	assert.Contains(t, h.View(80, 24), "Loading lessons")
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestHomeScreen_Menu(t *testing.T) {
	h, _ := testHome(t)

	// Continue, three lessons, quit.
	require.Len(t, h.menu.Items, 5)
	assert.Equal(t, "Continue: Angles and radians", h.menu.Items[0].Label)
	assert.Equal(t, "Easy", h.menu.Items[0].Detail)
	assert.Contains(t, h.menu.Items[1].Detail, "19 questions")
	assert.Equal(t, "Quit", h.menu.Items[4].Label)
}

func TestHomeScreen_ContinuePushesPlay(t *testing.T) {
	h, _ := testHome(t)

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &play.PlayScreen{}, push.Screen)
}

func TestHomeScreen_LessonPushesLesson(t *testing.T) {
	h, _ := testHome(t)

	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &lesson.LessonScreen{}, push.Screen)
	assert.Equal(t, "The unit circle", push.Screen.Title())
}

func TestHomeScreen_KeepsCursorOnRefresh(t *testing.T) {
	h, svc := testHome(t)
	h.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	require.Equal(t, 1, h.menu.Selected)

	o, err := svc.Overview(context.Background())
	require.NoError(t, err)
	h.Update(screen.OverviewMsg{Overview: o})
	assert.Equal(t, 1, h.menu.Selected)
}

func TestHomeScreen_View(t *testing.T) {
	h, _ := testHome(t)
	view := h.View(100, 30)

	assert.Contains(t, view, "Trigonometry practice")
	assert.Contains(t, view, "Finish a session to start a streak")
	assert.Contains(t, view, "Solved 0/")
}
