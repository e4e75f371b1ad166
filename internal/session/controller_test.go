package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klazic/trigo/internal/quiz"
)

func sessionQuestions(n int) []quiz.SessionQuestion {
	qs := make([]quiz.SessionQuestion, n)
	for i := range qs {
		qs[i] = quiz.SessionQuestion{Question: quiz.Question{
			ID:           fmt.Sprintf("q%d", i),
			CategoryID:   "angles",
			Difficulty:   quiz.Easy,
			Choices:      []string{"a", "b", "c"},
			CorrectIndex: i % 3,
		}}
	}
	return qs
}

func TestControllerLifecycle(t *testing.T) {
	c := New("angles", quiz.Easy)
	if c.Phase() != PhaseLoading {
		t.Fatalf("phase = %s, want loading", c.Phase())
	}
	if _, ok := c.Result(); ok {
		t.Fatal("Result available while loading")
	}

	c.Load(sessionQuestions(3))
	if c.Phase() != PhaseInProgress {
		t.Fatalf("phase = %s, want in_progress", c.Phase())
	}

	// q0 correct, q1 wrong, q2 correct.
	choices := []int{0, 0, 2}
	for i, ch := range choices {
		if c.Index() != i {
			t.Fatalf("index = %d, want %d", c.Index(), i)
		}
		c.Select(ch)
		out := c.SubmitOrAdvance()
		if !out.Answered {
			t.Fatalf("question %d not answered", i)
		}
		if out.Finished != (i == len(choices)-1) {
			t.Fatalf("question %d: Finished = %v", i, out.Finished)
		}
	}

	if c.Phase() != PhaseFinished {
		t.Fatalf("phase = %s, want finished", c.Phase())
	}
	r, ok := c.Result()
	if !ok {
		t.Fatal("no result after finish")
	}
	want := Result{SessionID: c.ID(), CategoryID: "angles", Difficulty: quiz.Easy, Correct: 2, Total: 3, CorrectIDs: []string{"q0", "q2"}}
	assert.Equal(t, want, r)
	assert.Equal(t, 66, r.ScorePct())
}

func TestSubmitWithoutSelectionIsNoOp(t *testing.T) {
	c := New("angles", quiz.Easy)
	c.Load(sessionQuestions(2))

	out := c.SubmitOrAdvance()
	assert.False(t, out.Answered)
	assert.Equal(t, 0, c.Index())
	assert.Equal(t, 0, c.CorrectCount())
}

func TestSelectOverwritesAndIgnoresOutOfRange(t *testing.T) {
	c := New("angles", quiz.Easy)
	c.Load(sessionQuestions(2))

	c.Select(1)
	c.Select(2)
	assert.Equal(t, 2, c.Selected())

	c.Select(3)
	c.Select(-1)
	assert.Equal(t, 2, c.Selected())
}

func TestAdvanceClearsSelection(t *testing.T) {
	c := New("angles", quiz.Easy)
	c.Load(sessionQuestions(2))

	c.Select(0)
	c.SubmitOrAdvance()
	assert.Equal(t, NoSelection, c.Selected())
	assert.Equal(t, 1, c.Index())
}

func TestEmptySessionFinishesImmediately(t *testing.T) {
	c := New("angles", quiz.Hard)
	c.Load(nil)

	require.Equal(t, PhaseFinished, c.Phase())
	r, ok := c.Result()
	require.True(t, ok)
	assert.True(t, r.Empty())
	assert.Empty(t, r.CorrectIDs)

	c.Select(0)
	assert.False(t, c.SubmitOrAdvance().Answered)
	_, ok = c.Current()
	assert.False(t, ok)
}

func TestTallyFrozenAfterFinish(t *testing.T) {
	c := New("angles", quiz.Easy)
	c.Load(sessionQuestions(1))
	c.Select(0)
	c.SubmitOrAdvance()

	before, _ := c.Result()
	before.CorrectIDs[0] = "mutated"

	c.Select(0)
	c.SubmitOrAdvance()
	c.Load(sessionQuestions(5))
	c.Fail(errors.New("late"))

	after, _ := c.Result()
	assert.Equal(t, 1, after.Correct)
	assert.Equal(t, 1, after.Total)
	assert.Equal(t, []string{"q0"}, after.CorrectIDs)
	assert.NoError(t, c.Err())
}

func TestFailFinishesWithoutResult(t *testing.T) {
	c := New("missing", quiz.Easy)
	c.Fail(&quiz.ErrCategoryNotFound{CategoryID: "missing"})

	assert.Equal(t, PhaseFinished, c.Phase())
	var nf *quiz.ErrCategoryNotFound
	assert.ErrorAs(t, c.Err(), &nf)
	_, ok := c.Result()
	assert.False(t, ok)
}

func TestLoadDoesNotAliasInput(t *testing.T) {
	qs := sessionQuestions(2)
	c := New("angles", quiz.Easy)
	c.Load(qs)
	qs[0].ID = "changed"

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "q0", cur.ID)
}

func TestBuildSummary(t *testing.T) {
	c := New("angles", quiz.Easy)
	c.Load(sessionQuestions(2))
	_, ok := BuildSummary(c)
	require.False(t, ok)

	c.Select(0)
	c.SubmitOrAdvance()
	c.Select(0)
	c.SubmitOrAdvance()

	s, ok := BuildSummary(c)
	require.True(t, ok)
	assert.InDelta(t, 0.5, s.Accuracy, 1e-9)
	assert.Equal(t, []Answer{{"q0", 0, true}, {"q1", 0, false}}, s.Answers)
}

type stubGenerator struct {
	qs  []quiz.SessionQuestion
	err error
}

func (g stubGenerator) CreateSession(context.Context, string, quiz.Difficulty, int, *rand.Rand) ([]quiz.SessionQuestion, error) {
	return g.qs, g.err
}

func TestStart(t *testing.T) {
	tests := []struct {
		name      string
		gen       stubGenerator
		wantPhase Phase
		wantErr   bool
	}{
		{"questions", stubGenerator{qs: sessionQuestions(3)}, PhaseInProgress, false},
		{"empty pool", stubGenerator{}, PhaseFinished, false},
		{"not found", stubGenerator{err: &quiz.ErrCategoryNotFound{CategoryID: "x"}}, PhaseFinished, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := <-Start(context.Background(), tt.gen, "angles", quiz.Easy, 10, quiz.NewRand(1))
			require.True(t, ok)
			assert.Equal(t, tt.wantPhase, c.Phase())
			assert.Equal(t, tt.wantErr, c.Err() != nil)
		})
	}
}

func TestStartWithBank(t *testing.T) {
	bank, err := quiz.DefaultBank()
	require.NoError(t, err)

	c := <-Start(context.Background(), quiz.NewGenerator(bank), "angles", quiz.Easy, 10, quiz.NewRand(9))
	require.NoError(t, c.Err())
	assert.Equal(t, 10, c.Total())
}
