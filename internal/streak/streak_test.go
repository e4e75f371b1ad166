package streak

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klazic/trigo/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var d1 = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func newTracker(t *testing.T, kv store.KV) (*Tracker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: d1}
	return New(kv, WithClock(clock), WithLocation(time.UTC)), clock
}

func eachKV(t *testing.T, fn func(t *testing.T, kv store.KV)) {
	t.Run("memory", func(t *testing.T) {
		fn(t, store.NewMemory())
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { s.Close() })
		fn(t, s)
	})
}

func summary(t *testing.T, tr *Tracker) Summary {
	t.Helper()
	s, err := tr.Summary(context.Background())
	require.NoError(t, err)
	return s
}

func TestStreakContinuationAndGap(t *testing.T) {
	eachKV(t, func(t *testing.T, kv store.KV) {
		ctx := context.Background()
		tr, clock := newTracker(t, kv)

		require.NoError(t, tr.MarkActiveToday(ctx))
		assert.Equal(t, 1, summary(t, tr).Current)

		clock.Set(d1.Add(5 * time.Hour))
		require.NoError(t, tr.MarkActiveToday(ctx))
		assert.Equal(t, 1, summary(t, tr).Current)

		clock.Set(d1.AddDate(0, 0, 1))
		require.NoError(t, tr.MarkActiveToday(ctx))
		assert.Equal(t, 2, summary(t, tr).Current)

		clock.Set(d1.AddDate(0, 0, 3))
		require.NoError(t, tr.MarkActiveToday(ctx))
		s := summary(t, tr)
		assert.Equal(t, 1, s.Current)
		assert.True(t, s.TodayActive)
		assert.Equal(t, "2025-03-13", s.LastDay.String())
	})
}

func TestSameDayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	tr, _ := newTracker(t, kv)

	require.NoError(t, tr.MarkActiveToday(ctx))
	require.NoError(t, tr.MarkActiveToday(ctx))

	p, err := kv.Data(ctx)
	require.NoError(t, err)
	days, _ := p.StringSet(KeyDays)
	assert.Equal(t, []string{"2025-03-10"}, days)
	assert.Equal(t, 1, p.IntOr(KeyCurrent, 0))
}

func TestConcurrentMarksCountOnce(t *testing.T) {
	eachKV(t, func(t *testing.T, kv store.KV) {
		tr, _ := newTracker(t, kv)
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, tr.MarkActiveToday(context.Background()))
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, summary(t, tr).Current)
	})
}

func TestFutureLastDayResets(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Edit(ctx, func(p *store.MutablePreferences) error {
		p.SetInt(KeyCurrent, 9)
		p.SetString(KeyLastDay, "2025-04-01")
		p.SetStringSet(KeyDays, []string{"2025-04-01"})
		return nil
	}))
	tr, _ := newTracker(t, kv)

	require.NoError(t, tr.MarkActiveToday(ctx))

	s := summary(t, tr)
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, "2025-03-10", s.LastDay.String())

	p, _ := kv.Data(ctx)
	days, _ := p.StringSet(KeyDays)
	assert.Equal(t, []string{"2025-03-10"}, days)
}

func TestMalformedLastDayIsAbsent(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Edit(ctx, func(p *store.MutablePreferences) error {
		p.SetInt(KeyCurrent, 5)
		p.SetString(KeyLastDay, "yesterday-ish")
		p.SetStringSet(KeyDays, []string{"garbage", "2025-03-01"})
		return nil
	}))
	tr, _ := newTracker(t, kv)

	s := summary(t, tr)
	assert.False(t, s.HasLastDay())
	assert.Equal(t, 5, s.Current)

	require.NoError(t, tr.MarkActiveToday(ctx))
	assert.Equal(t, 1, summary(t, tr).Current)

	p, _ := kv.Data(ctx)
	days, _ := p.StringSet(KeyDays)
	assert.Equal(t, []string{"2025-03-01", "2025-03-10"}, days)
}

func TestRetentionIsBounded(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	tr, clock := newTracker(t, kv)

	start := d1.AddDate(0, 0, -(MaxRetainedDays + 50))
	for i := range MaxRetainedDays + 51 {
		clock.Set(start.AddDate(0, 0, i))
		require.NoError(t, tr.MarkActiveToday(ctx))
	}

	p, err := kv.Data(ctx)
	require.NoError(t, err)
	days, _ := p.StringSet(KeyDays)
	assert.Len(t, days, MaxRetainedDays)
	assert.Equal(t, "2025-03-10", days[len(days)-1])
	assert.Equal(t, MaxRetainedDays+51, p.IntOr(KeyCurrent, 0))

	last, _ := p.String(KeyLastDay)
	assert.Equal(t, days[len(days)-1], last)
}

func TestRetain(t *testing.T) {
	today := Day{2025, time.March, 10}

	// 400 consecutive days ending today, plus one day far in the past.
	var full []string
	for i := range MaxRetainedDays {
		full = append(full, today.AddDays(-i).String())
	}
	overLimit := append(slices.Clone(full), "2020-01-01")

	tests := []struct {
		name    string
		days    []string
		wantLen int
		first   string
		last    string
	}{
		{
			name:    "small set keeps old days",
			days:    []string{"2025-03-10", "2023-01-01", "bad", "2025-03-09", "2025-03-11", "2025-03-09"},
			wantLen: 3,
			first:   "2023-01-01",
			last:    "2025-03-10",
		},
		{
			name:    "at the limit nothing is trimmed",
			days:    full,
			wantLen: MaxRetainedDays,
			first:   today.AddDays(-(MaxRetainedDays - 1)).String(),
			last:    "2025-03-10",
		},
		{
			name:    "over the limit drops days before the cutoff",
			days:    overLimit,
			wantLen: MaxRetainedDays,
			first:   today.AddDays(-(MaxRetainedDays - 1)).String(),
			last:    "2025-03-10",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := retain(tt.days, today)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if got[0] != tt.first {
				t.Errorf("first = %s, want %s", got[0], tt.first)
			}
			if got[len(got)-1] != tt.last {
				t.Errorf("last = %s, want %s", got[len(got)-1], tt.last)
			}
		})
	}
}

func TestSummaryTodayIsRecomputed(t *testing.T) {
	ctx := context.Background()
	tr, clock := newTracker(t, store.NewMemory())
	require.NoError(t, tr.MarkActiveToday(ctx))
	assert.True(t, summary(t, tr).TodayActive)

	clock.Set(d1.AddDate(0, 0, 1))
	s := summary(t, tr)
	assert.False(t, s.TodayActive)
	assert.Equal(t, 1, s.Current)
}

func TestSummaryFlow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tr, _ := newTracker(t, store.NewMemory())

	flow := tr.SummaryFlow(ctx)
	assert.Equal(t, Summary{}, <-flow)

	require.NoError(t, tr.MarkActiveToday(ctx))
	select {
	case s := <-flow:
		assert.Equal(t, Summary{TodayActive: true, Current: 1, LastDay: Day{2025, time.March, 10}}, s)
	case <-time.After(2 * time.Second):
		t.Fatal("no summary after mark")
	}
}

func TestReset(t *testing.T) {
	eachKV(t, func(t *testing.T, kv store.KV) {
		ctx := context.Background()
		tr, _ := newTracker(t, kv)
		require.NoError(t, tr.MarkActiveToday(ctx))

		require.NoError(t, tr.Reset(ctx))
		assert.Equal(t, Summary{}, summary(t, tr))

		p, err := kv.Data(ctx)
		require.NoError(t, err)
		assert.Zero(t, p.Len())
	})
}

func TestDayOfUsesLocation(t *testing.T) {
	zagreb := time.FixedZone("CET", 60*60)
	late := time.Date(2025, time.March, 10, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, Day{2025, time.March, 11}, DayOf(late, zagreb))
	assert.Equal(t, Day{2025, time.March, 10}, DayOf(late, time.UTC))
}
