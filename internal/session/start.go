package session

import (
	"context"
	"math/rand/v2"

	"github.com/klazic/trigo/internal/quiz"
)

// Generator produces the questions of a session.
type Generator interface {
	CreateSession(ctx context.Context, categoryID string, difficulty quiz.Difficulty, size int, rng *rand.Rand) ([]quiz.SessionQuestion, error)
}

// Start creates a controller and generates its questions in the background.
// The returned channel delivers the controller once it has left Loading,
// either in progress, finished (empty pool) or failed, and is then closed.
func Start(ctx context.Context, gen Generator, categoryID string, difficulty quiz.Difficulty, size int, rng *rand.Rand) <-chan *Controller {
	out := make(chan *Controller, 1)
	go func() {
		defer close(out)
		c := New(categoryID, difficulty)
		qs, err := gen.CreateSession(ctx, categoryID, difficulty, size, rng)
		if err != nil {
			c.Fail(err)
		} else {
			c.Load(qs)
		}
		out <- c
	}()
	return out
}
