package session

import (
	"fmt"

	"github.com/klazic/trigo/internal/quiz"
)

// Phase is the lifecycle stage of a quiz session.
type Phase int

const (
	PhaseLoading    Phase = iota // Questions are being generated
	PhaseInProgress              // Serving questions
	PhaseFinished                // Terminal; the tally is frozen
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// NoSelection is the value of Selected when no choice is pending.
const NoSelection = -1

// Result is the terminal tally of a finished session. It is what the
// session owner forwards to progress and streak tracking.
type Result struct {
	SessionID  string
	CategoryID string
	Difficulty quiz.Difficulty
	Correct    int
	Total      int
	// CorrectIDs is sorted and free of duplicates.
	CorrectIDs []string
}

// Empty reports whether the session had no questions.
func (r Result) Empty() bool {
	return r.Total == 0
}

// ScorePct returns floor(100 * Correct / Total), or 0 for an empty session.
func (r Result) ScorePct() int {
	if r.Total == 0 {
		return 0
	}
	return 100 * r.Correct / r.Total
}

// Outcome describes the effect of one SubmitOrAdvance call.
type Outcome struct {
	// Answered is false when the call was ignored.
	Answered   bool
	QuestionID string
	Correct    bool
	Finished   bool
}

// Answer records one submitted answer, for the result view.
type Answer struct {
	QuestionID string
	Choice     int
	Correct    bool
}
