// Package service wires the quiz bank, progress and streak tracking into
// the operations the front ends call.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/klazic/trigo/internal/progress"
	"github.com/klazic/trigo/internal/quiz"
	"github.com/klazic/trigo/internal/session"
	"github.com/klazic/trigo/internal/store"
	"github.com/klazic/trigo/internal/streak"
)

// Catalog is a question bank that also lists its categories.
type Catalog interface {
	quiz.Bank
	Catalog() []quiz.Category
	Title(categoryID string) string
}

// Services is the dependency container handed to every front end.
type Services struct {
	KV          store.KV
	Bank        Catalog
	Generator   *quiz.Generator
	Progress    *progress.Aggregator
	Streak      *streak.Tracker
	Logger      *slog.Logger
	SessionSize int

	poolsMu sync.Mutex
	pools   []pool
}

// Options configures New.
type Options struct {
	Logger      *slog.Logger
	SessionSize int
	Streak      []streak.Option
}

// New builds Services over a store and a bank.
func New(kv store.KV, bank Catalog, opts Options) *Services {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	size := opts.SessionSize
	if size <= 0 {
		size = quiz.DefaultSessionSize
	}
	streakOpts := append([]streak.Option{streak.WithLogger(logger)}, opts.Streak...)

	return &Services{
		KV:          kv,
		Bank:        bank,
		Generator:   quiz.NewGenerator(bank),
		Progress:    progress.New(kv, logger),
		Streak:      streak.New(kv, streakOpts...),
		Logger:      logger,
		SessionSize: size,
	}
}

// StartSession generates a session in the background. A nil rng draws a
// fresh seed.
func (s *Services) StartSession(ctx context.Context, categoryID string, d quiz.Difficulty, rng *rand.Rand) <-chan *session.Controller {
	if rng == nil {
		seed := quiz.RandomSeed()
		s.Logger.Debug("session seed", "category", categoryID, "difficulty", d.Key(), "seed", seed)
		rng = quiz.NewRand(seed)
	}
	return session.Start(ctx, s.Generator, categoryID, d, s.SessionSize, rng)
}

// Complete forwards a finished session to progress and streak tracking.
// Each sink is attempted once, in order, even if an earlier one fails; the
// errors are joined. An empty session forwards nothing.
func (s *Services) Complete(ctx context.Context, r session.Result) error {
	if r.Empty() {
		s.Logger.Info("empty session not recorded", "session", r.SessionID, "category", r.CategoryID, "difficulty", r.Difficulty.Key())
		return nil
	}

	var errs []error
	if err := s.Progress.RecordSession(ctx, r.CategoryID, r.Difficulty, r.Correct, r.Total); err != nil {
		errs = append(errs, err)
	}
	if err := s.Progress.RecordSolved(ctx, r.CategoryID, r.Difficulty, r.CorrectIDs); err != nil {
		errs = append(errs, err)
	}
	if err := s.Streak.MarkActiveToday(ctx); err != nil {
		errs = append(errs, err)
	}

	err := errors.Join(errs...)
	if err != nil {
		s.Logger.Error("session completion partially recorded", "session", r.SessionID, "err", err)
		return fmt.Errorf("complete session %s: %w", r.SessionID, err)
	}
	s.Logger.Info("session recorded", "session", r.SessionID, "category", r.CategoryID,
		"difficulty", r.Difficulty.Key(), "correct", r.Correct, "total", r.Total)
	return nil
}

// ResetAll clears progress and the streak. The two resets are separate
// transactions; both are attempted.
func (s *Services) ResetAll(ctx context.Context) error {
	return errors.Join(s.Progress.ResetAll(ctx), s.Streak.Reset(ctx))
}
