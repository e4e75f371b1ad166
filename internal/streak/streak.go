package streak

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/klazic/trigo/internal/store"
)

// Persisted keys.
const (
	KeyCurrent = "streak.current"
	KeyLastDay = "streak.last_day"
	KeyDays    = "streak.days"
)

// MaxRetainedDays bounds the active-day history.
const MaxRetainedDays = 400

// Summary is the streak as seen on a given day.
type Summary struct {
	TodayActive bool
	Current     int
	// LastDay is zero when no valid last day is stored.
	LastDay Day
}

// HasLastDay reports whether a last active day is known.
func (s Summary) HasLastDay() bool {
	return !s.LastDay.IsZero()
}

// Tracker maintains the daily activity streak in a KV store.
type Tracker struct {
	kv     store.KV
	clock  Clock
	loc    *time.Location
	logger *slog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLocation sets the zone that defines calendar days. Defaults to
// time.Local.
func WithLocation(loc *time.Location) Option {
	return func(t *Tracker) {
		if loc != nil {
			t.loc = loc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// New creates a Tracker over kv.
func New(kv store.KV, opts ...Option) *Tracker {
	t := &Tracker{
		kv:     kv,
		clock:  SystemClock{},
		loc:    time.Local,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(t)
	}
	t.logger = t.logger.With("component", "streak")
	return t
}

// Today returns the current calendar day in the tracker's zone.
func (t *Tracker) Today() Day {
	return DayOf(t.clock.Now(), t.loc)
}

// MarkActiveToday records activity for today in one transaction. Repeated
// calls on the same day have no effect.
func (t *Tracker) MarkActiveToday(ctx context.Context) error {
	today := t.Today()
	var current int
	var changed bool

	err := t.kv.Edit(ctx, func(p *store.MutablePreferences) error {
		days, _ := p.StringSet(KeyDays)
		if slices.Contains(days, today.String()) {
			return nil
		}

		current = p.IntOr(KeyCurrent, 0)
		last, ok := parseLastDay(p.String(KeyLastDay))
		switch {
		case !ok:
			current = 1
		case last == today.AddDays(-1):
			current++
		case last == today:
			// Days lost today's entry; keep the streak.
		default:
			// Gap of two or more days, or a last day in the future.
			current = 1
		}

		p.SetInt(KeyCurrent, current)
		p.SetString(KeyLastDay, today.String())
		p.SetStringSet(KeyDays, retain(append(days, today.String()), today))
		changed = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("mark active: %w", err)
	}
	if changed {
		t.logger.Debug("active day recorded", "day", today.String(), "current", current)
	}
	return nil
}

// retain drops unparseable entries and days after today, so today is always
// the latest retained day. Once more than MaxRetainedDays remain, days older
// than today minus MaxRetainedDays go, then the oldest while still over.
func retain(days []string, today Day) []string {
	kept := make([]Day, 0, len(days))
	for _, s := range days {
		d, err := ParseDay(s)
		if err != nil || today.Before(d) {
			continue
		}
		kept = append(kept, d)
	}
	slices.SortFunc(kept, func(a, b Day) int { return a.Time().Compare(b.Time()) })
	kept = slices.Compact(kept)
	if len(kept) > MaxRetainedDays {
		cutoff := today.AddDays(-MaxRetainedDays)
		kept = slices.DeleteFunc(kept, func(d Day) bool { return d.Before(cutoff) })
	}
	if len(kept) > MaxRetainedDays {
		kept = kept[len(kept)-MaxRetainedDays:]
	}

	out := make([]string, len(kept))
	for i, d := range kept {
		out[i] = d.String()
	}
	return out
}

// Summary reads the streak relative to today.
func (t *Tracker) Summary(ctx context.Context) (Summary, error) {
	p, err := t.kv.Data(ctx)
	if err != nil {
		return Summary{}, err
	}
	return summarize(p, t.Today()), nil
}

// SummaryFlow emits the streak summary whenever the stored state changes.
// Today is re-evaluated on every emission.
func (t *Tracker) SummaryFlow(ctx context.Context) <-chan Summary {
	return store.Project(ctx, t.kv, func(p store.Preferences) Summary {
		return summarize(p, t.Today())
	})
}

// SummaryOf derives the summary from a snapshot relative to today.
func (t *Tracker) SummaryOf(p store.Preferences) Summary {
	return summarize(p, t.Today())
}

// Reset clears the streak in one transaction.
func (t *Tracker) Reset(ctx context.Context) error {
	err := t.kv.Edit(ctx, func(p *store.MutablePreferences) error {
		p.Remove(KeyCurrent)
		p.Remove(KeyLastDay)
		p.Remove(KeyDays)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset streak: %w", err)
	}
	t.logger.Info("streak reset")
	return nil
}

func summarize(p store.Preferences, today Day) Summary {
	s := Summary{Current: p.IntOr(KeyCurrent, 0)}
	if days, ok := p.StringSet(KeyDays); ok {
		s.TodayActive = slices.Contains(days, today.String())
	}
	if last, ok := lastDay(p); ok {
		s.LastDay = last
	}
	return s
}

// lastDay treats a missing or malformed value as absent.
func lastDay(p store.Preferences) (Day, bool) {
	return parseLastDay(p.String(KeyLastDay))
}

func parseLastDay(raw string, ok bool) (Day, bool) {
	if !ok {
		return Day{}, false
	}
	d, err := ParseDay(raw)
	if err != nil {
		return Day{}, false
	}
	return d, true
}
