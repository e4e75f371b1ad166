package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/store"
)

// ErrInvalidArgument is returned for session tallies that cannot be
// recorded, such as an empty session.
var ErrInvalidArgument = errors.New("invalid argument")

// Progress is the accumulated record of one (category, difficulty).
type Progress struct {
	Attempted int
	Correct   int
	BestPct   int
}

// MasteryPct returns floor(100 * Correct / Attempted), or 0 before any
// attempt.
func (p Progress) MasteryPct() int {
	if p.Attempted == 0 {
		return 0
	}
	return 100 * p.Correct / p.Attempted
}

// Add sums attempts and keeps the higher best score.
func (p Progress) Add(o Progress) Progress {
	return Progress{
		Attempted: p.Attempted + o.Attempted,
		Correct:   p.Correct + o.Correct,
		BestPct:   max(p.BestPct, o.BestPct),
	}
}

// Coverage is the number of distinct solved questions per difficulty of a
// category.
type Coverage struct {
	Easy   int
	Medium int
	Hard   int
}

// Of returns the solved count of one difficulty.
func (c Coverage) Of(d quiz.Difficulty) int {
	switch d {
	case quiz.Easy:
		return c.Easy
	case quiz.Medium:
		return c.Medium
	case quiz.Hard:
		return c.Hard
	}
	return 0
}

// Total returns the solved count across difficulties.
func (c Coverage) Total() int {
	return c.Easy + c.Medium + c.Hard
}

// CoveragePct returns floor(100 * solved / total), capped at 100. An empty
// bucket counts as fully covered.
func CoveragePct(solved, total int) int {
	if total <= 0 {
		return 100
	}
	return min(100*solved/total, 100)
}

// Aggregator records session tallies and solved questions in a KV store
// and exposes them as one-shot reads and live projections.
type Aggregator struct {
	kv     store.KV
	logger *slog.Logger
}

// New creates an Aggregator over kv. A nil logger discards output.
func New(kv store.KV, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{kv: kv, logger: logger.With("component", "progress")}
}

// RecordSession adds one session's tally to the bucket in a single
// transaction: attempts and correct answers accumulate and the best score is
// a running maximum.
func (a *Aggregator) RecordSession(ctx context.Context, categoryID string, d quiz.Difficulty, correct, total int) error {
	if total <= 0 {
		return fmt.Errorf("%w: session total %d must be positive", ErrInvalidArgument, total)
	}
	if correct < 0 || correct > total {
		return fmt.Errorf("%w: correct %d outside [0,%d]", ErrInvalidArgument, correct, total)
	}
	if !d.Valid() {
		return fmt.Errorf("%w: difficulty %d", ErrInvalidArgument, int(d))
	}
	pct := 100 * correct / total

	err := a.kv.Edit(ctx, func(p *store.MutablePreferences) error {
		kA, kC, kB := key(categoryID, d, fieldAttempted), key(categoryID, d, fieldCorrect), key(categoryID, d, fieldBest)
		p.SetInt(kA, p.IntOr(kA, 0)+total)
		p.SetInt(kC, p.IntOr(kC, 0)+correct)
		p.SetInt(kB, max(p.IntOr(kB, 0), pct))
		return nil
	})
	if err != nil {
		return fmt.Errorf("record session %s/%s: %w", categoryID, d.Key(), err)
	}
	a.logger.Debug("session recorded", "category", categoryID, "difficulty", d.Key(), "correct", correct, "total", total, "pct", pct)
	return nil
}

// RecordSolved unions ids into the bucket's solved set. Recording IDs that
// are already present changes nothing.
func (a *Aggregator) RecordSolved(ctx context.Context, categoryID string, d quiz.Difficulty, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if !d.Valid() {
		return fmt.Errorf("%w: difficulty %d", ErrInvalidArgument, int(d))
	}

	var added int
	err := a.kv.Edit(ctx, func(p *store.MutablePreferences) error {
		k := key(categoryID, d, fieldSolved)
		cur, _ := p.StringSet(k)
		merged := slices.Clone(cur)
		for _, id := range ids {
			if id != "" && !slices.Contains(merged, id) {
				merged = append(merged, id)
				added++
			}
		}
		if added == 0 {
			return nil
		}
		p.SetStringSet(k, merged)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record solved %s/%s: %w", categoryID, d.Key(), err)
	}
	a.logger.Debug("solved recorded", "category", categoryID, "difficulty", d.Key(), "added", added)
	return nil
}

// ResetAll removes every progress key in one transaction.
func (a *Aggregator) ResetAll(ctx context.Context) error {
	var n int
	err := a.kv.Edit(ctx, func(p *store.MutablePreferences) error {
		n = p.RemovePrefix(Prefix)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	a.logger.Info("progress reset", "keys", n)
	return nil
}

// Progress reads the bucket's counters.
func (a *Aggregator) Progress(ctx context.Context, categoryID string, d quiz.Difficulty) (Progress, error) {
	p, err := a.kv.Data(ctx)
	if err != nil {
		return Progress{}, err
	}
	return ProgressOf(p, categoryID, d), nil
}

// ProgressFlow emits the bucket's counters, starting with the current value
// (zero before the first write), and again whenever they change.
func (a *Aggregator) ProgressFlow(ctx context.Context, categoryID string, d quiz.Difficulty) <-chan Progress {
	return store.Project(ctx, a.kv, func(p store.Preferences) Progress {
		return ProgressOf(p, categoryID, d)
	})
}

// SolvedIDs returns the bucket's solved question IDs, sorted.
func (a *Aggregator) SolvedIDs(ctx context.Context, categoryID string, d quiz.Difficulty) ([]string, error) {
	p, err := a.kv.Data(ctx)
	if err != nil {
		return nil, err
	}
	ids, _ := p.StringSet(key(categoryID, d, fieldSolved))
	return ids, nil
}

// SolvedCount returns the size of the bucket's solved set.
func (a *Aggregator) SolvedCount(ctx context.Context, categoryID string, d quiz.Difficulty) (int, error) {
	p, err := a.kv.Data(ctx)
	if err != nil {
		return 0, err
	}
	return p.SetLen(key(categoryID, d, fieldSolved)), nil
}

// SolvedCountFlow emits the size of the bucket's solved set as it changes.
func (a *Aggregator) SolvedCountFlow(ctx context.Context, categoryID string, d quiz.Difficulty) <-chan int {
	return store.Project(ctx, a.kv, func(p store.Preferences) int {
		return p.SetLen(key(categoryID, d, fieldSolved))
	})
}

// Coverage reads the solved counts of every difficulty of a category.
func (a *Aggregator) Coverage(ctx context.Context, categoryID string) (Coverage, error) {
	p, err := a.kv.Data(ctx)
	if err != nil {
		return Coverage{}, err
	}
	return CoverageOf(p, categoryID), nil
}

// CoverageFlow emits the solved counts of a category as they change.
func (a *Aggregator) CoverageFlow(ctx context.Context, categoryID string) <-chan Coverage {
	return store.Project(ctx, a.kv, func(p store.Preferences) Coverage {
		return CoverageOf(p, categoryID)
	})
}

// TotalSolved returns the number of solved IDs across every difficulty of
// the given categories. Solved sets of other categories are ignored.
func (a *Aggregator) TotalSolved(ctx context.Context, categoryIDs []string) (int, error) {
	p, err := a.kv.Data(ctx)
	if err != nil {
		return 0, err
	}
	return TotalSolvedOf(p, categoryIDs), nil
}

// TotalSolvedFlow emits TotalSolved as it changes.
func (a *Aggregator) TotalSolvedFlow(ctx context.Context, categoryIDs []string) <-chan int {
	ids := slices.Clone(categoryIDs)
	return store.Project(ctx, a.kv, func(p store.Preferences) int {
		return TotalSolvedOf(p, ids)
	})
}

// ProgressOf reads a bucket's counters from a snapshot.
func ProgressOf(p store.Preferences, categoryID string, d quiz.Difficulty) Progress {
	return Progress{
		Attempted: p.IntOr(key(categoryID, d, fieldAttempted), 0),
		Correct:   p.IntOr(key(categoryID, d, fieldCorrect), 0),
		BestPct:   p.IntOr(key(categoryID, d, fieldBest), 0),
	}
}

// CoverageOf reads a category's solved counts from a snapshot.
func CoverageOf(p store.Preferences, categoryID string) Coverage {
	return Coverage{
		Easy:   p.SetLen(key(categoryID, quiz.Easy, fieldSolved)),
		Medium: p.SetLen(key(categoryID, quiz.Medium, fieldSolved)),
		Hard:   p.SetLen(key(categoryID, quiz.Hard, fieldSolved)),
	}
}

// TotalSolvedOf counts solved IDs in the buckets of the given categories.
func TotalSolvedOf(p store.Preferences, categoryIDs []string) int {
	n := 0
	for _, id := range categoryIDs {
		n += CoverageOf(p, id).Total()
	}
	return n
}
