package service

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/klazic/trigo/internal/progress"
	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/store"
	"github.com/klazic/trigo/internal/streak"
)

// Card summarizes one category of the catalog.
type Card struct {
	ID    string
	Title string
	// Counts holds the pool size per difficulty.
	Counts map[quiz.Difficulty]int
	Total  int
	// Solved holds the distinct solved questions per difficulty.
	Solved progress.Coverage
	// Available is false when the bank has no questions file for the category.
	Available bool
}

// CoveragePct returns the coverage percentage of one difficulty.
func (c Card) CoveragePct(d quiz.Difficulty) int {
	return progress.CoveragePct(c.Solved.Of(d), c.Counts[d])
}

// Complete reports whether every difficulty is fully covered.
func (c Card) Complete() bool {
	for _, d := range quiz.Difficulties {
		if c.CoveragePct(d) < 100 {
			return false
		}
	}
	return true
}

// NextDifficulty returns the first difficulty that is not fully covered,
// or Hard when all are.
func (c Card) NextDifficulty() quiz.Difficulty {
	switch {
	case c.CoveragePct(quiz.Easy) < 100:
		return quiz.Easy
	case c.CoveragePct(quiz.Medium) < 100:
		return quiz.Medium
	default:
		return quiz.Hard
	}
}

// Target is where a learner should continue.
type Target struct {
	CategoryID string
	Title      string
	Difficulty quiz.Difficulty
}

// Overview is the data behind the home screen.
type Overview struct {
	// Global counts every question in the catalog as attempted and every
	// solved catalog question as correct, so Global.MasteryPct is overall
	// coverage and never exceeds 100.
	Global progress.Progress
	Cards  []Card
	// Continue is nil once the whole catalog is covered.
	Continue *Target
	Streak   streak.Summary
}

// Overview computes the home screen data from the current store state.
func (s *Services) Overview(ctx context.Context) (*Overview, error) {
	p, err := s.KV.Data(ctx)
	if err != nil {
		return nil, err
	}
	return s.overviewOf(ctx, p)
}

// OverviewFlow recomputes the overview on every committed change. A failed
// pool load ends the stream.
func (s *Services) OverviewFlow(ctx context.Context) <-chan *Overview {
	out := make(chan *Overview, 1)
	in := s.KV.Observe(ctx)
	go func() {
		defer close(out)
		for p := range in {
			ov, err := s.overviewOf(ctx, p)
			if err != nil {
				s.Logger.Error("overview failed", "err", err)
				return
			}
			select {
			case <-out:
			default:
			}
			out <- ov
		}
	}()
	return out
}

// overviewOf derives everything from one snapshot so the view is consistent.
func (s *Services) overviewOf(ctx context.Context, p store.Preferences) (*Overview, error) {
	cats := s.Bank.Catalog()
	pools, err := s.poolCounts(ctx, cats)
	if err != nil {
		return nil, err
	}

	ov := &Overview{Streak: s.Streak.SummaryOf(p)}
	totalQuestions, totalSolved := 0, 0
	for i, c := range cats {
		card := Card{
			ID:        c.ID,
			Title:     c.Title,
			Counts:    pools[i].counts,
			Solved:    progress.CoverageOf(p, c.ID),
			Available: pools[i].available,
		}
		for _, n := range card.Counts {
			card.Total += n
		}
		totalQuestions += card.Total
		for d, n := range card.Counts {
			totalSolved += min(card.Solved.Of(d), n)
		}
		if ov.Continue == nil && card.Available && !card.Complete() {
			ov.Continue = &Target{CategoryID: c.ID, Title: c.Title, Difficulty: card.NextDifficulty()}
		}
		ov.Cards = append(ov.Cards, card)
	}
	ov.Global = progress.Progress{Attempted: totalQuestions, Correct: totalSolved}
	return ov, nil
}

type pool struct {
	counts    map[quiz.Difficulty]int
	available bool
}

// poolCounts loads every category concurrently. Pool sizes never change for
// a process, so a successful load is kept.
func (s *Services) poolCounts(ctx context.Context, cats []quiz.Category) ([]pool, error) {
	s.poolsMu.Lock()
	defer s.poolsMu.Unlock()
	if s.pools != nil {
		return s.pools, nil
	}

	pools := make([]pool, len(cats))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range cats {
		g.Go(func() error {
			n, err := quiz.CountsByDifficulty(gctx, s.Bank, c.ID)
			var nf *quiz.ErrCategoryNotFound
			switch {
			case errors.As(err, &nf):
				pools[i] = pool{counts: map[quiz.Difficulty]int{quiz.Easy: 0, quiz.Medium: 0, quiz.Hard: 0}}
				return nil
			case err != nil:
				return err
			}
			pools[i] = pool{counts: n, available: true}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.pools = pools
	return pools, nil
}
