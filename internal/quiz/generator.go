package quiz

import (
	"context"
	"math/rand/v2"
)

// DefaultSessionSize is the number of questions requested per session.
const DefaultSessionSize = 10

// NewRand returns a deterministic random source for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomSeed returns an unpredictable seed for production sessions.
func RandomSeed() uint64 {
	return rand.Uint64()
}

// Generator builds quiz sessions from a Bank.
type Generator struct {
	bank Bank
}

// NewGenerator creates a Generator backed by bank.
func NewGenerator(bank Bank) *Generator {
	return &Generator{bank: bank}
}

// CreateSession loads the category and samples a session from it.
// A missing category is an error; an empty difficulty pool is not.
func (g *Generator) CreateSession(ctx context.Context, categoryID string, difficulty Difficulty, size int, rng *rand.Rand) ([]SessionQuestion, error) {
	pool, err := g.bank.LoadCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return CreateSession(pool, difficulty, size, rng), nil
}

// CreateSession samples min(size, pool size) questions of the given
// difficulty in random order and shuffles each question's choices, all from
// rng. It is a pure function of (pool, rng). A nil rng uses a random seed.
func CreateSession(pool []Question, difficulty Difficulty, size int, rng *rand.Rand) []SessionQuestion {
	if rng == nil {
		rng = NewRand(RandomSeed())
	}

	filtered := FilterByDifficulty(pool, difficulty)
	n := min(max(size, 0), len(filtered))

	order := rng.Perm(len(filtered))
	session := make([]SessionQuestion, 0, n)
	for _, idx := range order[:n] {
		session = append(session, ShuffleChoices(filtered[idx], rng))
	}
	return session
}

// FilterByDifficulty returns the questions of one difficulty, in bank order.
func FilterByDifficulty(pool []Question, difficulty Difficulty) []Question {
	var out []Question
	for _, q := range pool {
		if q.Difficulty == difficulty {
			out = append(out, q)
		}
	}
	return out
}

// ShuffleChoices permutes q's choices and remaps CorrectIndex so it still
// points at the original correct text. q itself is not modified.
func ShuffleChoices(q Question, rng *rand.Rand) SessionQuestion {
	order := rng.Perm(len(q.Choices))
	choices := make([]string, len(q.Choices))
	correct := -1
	for newIdx, oldIdx := range order {
		choices[newIdx] = q.Choices[oldIdx]
		if oldIdx == q.CorrectIndex {
			correct = newIdx
		}
	}

	out := q
	out.Choices = choices
	out.CorrectIndex = correct
	return SessionQuestion{Question: out}
}
