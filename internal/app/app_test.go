package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/screen"
	"github.com/klazic/trigo/internal/screens/home"
	"github.com/klazic/trigo/internal/service"
	"github.com/klazic/trigo/internal/session"
	"github.com/klazic/trigo/internal/store"
)

func testApp(t *testing.T, opts Options) (AppModel, *service.Services) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	bank, err := quiz.DefaultBank()
	require.NoError(t, err)
	svc := service.New(store.NewMemory(), bank, service.Options{})
	return newAppModel(ctx, svc, opts), svc
}

func TestAppModel_OverviewUpdatesHeader(t *testing.T) {
	m, svc := testApp(t, Options{})

	require.NoError(t, svc.Complete(context.Background(), session.Result{
		CategoryID: "identities", Difficulty: quiz.Easy, Correct: 2, Total: 2,
		CorrectIDs: []string{"identities-easy-01", "identities-easy-02"},
	}))
	o, err := svc.Overview(context.Background())
	require.NoError(t, err)

	updated, cmd := m.Update(overviewMsg{overview: o, ok: true})
	m = updated.(AppModel)
	assert.NotNil(t, cmd)
	assert.Equal(t, 1, m.stats.StreakDays)
	assert.True(t, m.stats.TodayActive)
	assert.Equal(t, 100*2/o.Global.Attempted, m.stats.CoveragePct)

	h := m.router.Active().(*home.HomeScreen)
	assert.Contains(t, h.View(100, 30), "practiced today")
}

func TestAppModel_ClosedStreamStops(t *testing.T) {
	m, _ := testApp(t, Options{})
	_, cmd := m.Update(overviewMsg{})
	assert.Nil(t, cmd)
}

func TestAppModel_StartScreenPushed(t *testing.T) {
	var built bool
	m, _ := testApp(t, Options{
		Start: func(ctx context.Context, svc *service.Services) screen.Screen {
			built = true
			return home.New(ctx, svc)
		},
	})
	assert.True(t, built)
	assert.NotNil(t, m.start)
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m, _ := testApp(t, Options{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAppModel_TooSmall(t *testing.T) {
	m, _ := testApp(t, Options{})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	v := updated.(AppModel).View()
	assert.True(t, v.AltScreen)
	assert.NotNil(t, v.Content)
}
