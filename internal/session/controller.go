package session

import (
	"slices"

	"github.com/google/uuid"

	"github.com/klazic/trigo/internal/quiz"
)

// Controller drives a single quiz session through
// Loading -> InProgress -> Finished. It holds no references to stores;
// its owner reads Result once the session is finished and forwards it.
//
// A Controller is not safe for concurrent use; the owning UI loop
// serializes calls.
type Controller struct {
	id         string
	categoryID string
	difficulty quiz.Difficulty

	phase     Phase
	err       error
	questions []quiz.SessionQuestion
	index     int
	selected  int
	correct   int
	correctID map[string]bool
	answers   []Answer

	result *Result
}

// New returns a controller in the Loading phase.
func New(categoryID string, difficulty quiz.Difficulty) *Controller {
	return &Controller{
		id:         uuid.NewString(),
		categoryID: categoryID,
		difficulty: difficulty,
		phase:      PhaseLoading,
		selected:   NoSelection,
		correctID:  make(map[string]bool),
	}
}

// Load installs the generated questions. An empty list finishes the
// session immediately. Calls outside Loading are ignored.
func (c *Controller) Load(questions []quiz.SessionQuestion) {
	if c.phase != PhaseLoading {
		return
	}
	c.questions = slices.Clone(questions)
	if len(c.questions) == 0 {
		c.finish()
		return
	}
	c.phase = PhaseInProgress
}

// Fail ends a session whose questions could not be generated.
func (c *Controller) Fail(err error) {
	if c.phase != PhaseLoading {
		return
	}
	c.err = err
	c.phase = PhaseFinished
}

// Select sets the pending choice for the current question, overwriting any
// previous one. It is ignored outside InProgress or when i is out of range.
func (c *Controller) Select(i int) {
	if c.phase != PhaseInProgress {
		return
	}
	if i < 0 || i >= len(c.questions[c.index].Choices) {
		return
	}
	c.selected = i
}

// SubmitOrAdvance scores the pending selection and moves to the next
// question, or finishes the session after the last one. Without a pending
// selection it does nothing.
func (c *Controller) SubmitOrAdvance() Outcome {
	if c.phase != PhaseInProgress || c.selected == NoSelection {
		return Outcome{}
	}

	q := c.questions[c.index]
	ok := q.IsCorrect(c.selected)
	if ok {
		c.correct++
		c.correctID[q.ID] = true
	}
	c.answers = append(c.answers, Answer{QuestionID: q.ID, Choice: c.selected, Correct: ok})

	out := Outcome{Answered: true, QuestionID: q.ID, Correct: ok}
	if c.index == len(c.questions)-1 {
		c.finish()
		out.Finished = true
		return out
	}
	c.index++
	c.selected = NoSelection
	return out
}

// finish freezes the tally. It runs exactly once per controller.
func (c *Controller) finish() {
	ids := make([]string, 0, len(c.correctID))
	for id := range c.correctID {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	c.result = &Result{
		SessionID:  c.id,
		CategoryID: c.categoryID,
		Difficulty: c.difficulty,
		Correct:    c.correct,
		Total:      len(c.questions),
		CorrectIDs: ids,
	}
	c.phase = PhaseFinished
	c.selected = NoSelection
}

// Result returns the frozen tally. ok is false until the session finishes
// and for sessions that failed to load.
func (c *Controller) Result() (Result, bool) {
	if c.result == nil {
		return Result{}, false
	}
	r := *c.result
	r.CorrectIDs = slices.Clone(r.CorrectIDs)
	return r, true
}

// Current returns the question being answered.
func (c *Controller) Current() (quiz.SessionQuestion, bool) {
	if c.phase != PhaseInProgress {
		return quiz.SessionQuestion{}, false
	}
	return c.questions[c.index], true
}

func (c *Controller) ID() string                  { return c.id }
func (c *Controller) CategoryID() string          { return c.categoryID }
func (c *Controller) Difficulty() quiz.Difficulty { return c.difficulty }
func (c *Controller) Phase() Phase                { return c.phase }
func (c *Controller) Err() error                  { return c.err }
func (c *Controller) Index() int                  { return c.index }
func (c *Controller) Selected() int               { return c.selected }
func (c *Controller) Total() int                  { return len(c.questions) }
func (c *Controller) CorrectCount() int           { return c.correct }

// Answers returns the answers submitted so far, in order.
func (c *Controller) Answers() []Answer {
	return slices.Clone(c.answers)
}
