package service

import (
	"context"

	"github.com/klazic/trigo/internal/progress"
	"github.com/klazic/trigo/internal/quiz"
)

// Bucket is the state of one (category, difficulty).
type Bucket struct {
	Difficulty quiz.Difficulty
	Pool       int
	Solved     int
	Progress   progress.Progress
}

// CoveragePct returns the share of the pool ever answered correctly.
func (b Bucket) CoveragePct() int {
	return progress.CoveragePct(b.Solved, b.Pool)
}

// CategoryDetail is the per-difficulty view of one category.
type CategoryDetail struct {
	ID      string
	Title   string
	Buckets []Bucket
}

// Category loads the detail view of one category. A category without
// questions fails with *quiz.ErrCategoryNotFound.
func (s *Services) Category(ctx context.Context, categoryID string) (*CategoryDetail, error) {
	counts, err := quiz.CountsByDifficulty(ctx, s.Bank, categoryID)
	if err != nil {
		return nil, err
	}
	p, err := s.KV.Data(ctx)
	if err != nil {
		return nil, err
	}

	cov := progress.CoverageOf(p, categoryID)
	d := &CategoryDetail{ID: categoryID, Title: s.Bank.Title(categoryID)}
	for _, diff := range quiz.Difficulties {
		d.Buckets = append(d.Buckets, Bucket{
			Difficulty: diff,
			Pool:       counts[diff],
			Solved:     cov.Of(diff),
			Progress:   progress.ProgressOf(p, categoryID, diff),
		})
	}
	return d, nil
}
