package quiz

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Difficulty partitions a category's question pool.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// Difficulties lists every difficulty in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// String returns the wire name ("EASY", "MEDIUM", "HARD").
func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "EASY"
	case Medium:
		return "MEDIUM"
	case Hard:
		return "HARD"
	default:
		return fmt.Sprintf("Difficulty(%d)", int(d))
	}
}

// Key returns the lowercase form used in persisted keys.
func (d Difficulty) Key() string {
	return strings.ToLower(d.String())
}

// DisplayName returns a human-readable name.
func (d Difficulty) DisplayName() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return d.String()
	}
}

// Valid reports whether d is one of the defined difficulties.
func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

// ParseDifficulty accepts the wire or key form, case-insensitively.
func ParseDifficulty(s string) (Difficulty, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EASY":
		return Easy, nil
	case "MEDIUM":
		return Medium, nil
	case "HARD":
		return Hard, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("marshal invalid difficulty %d", int(d))
	}
	return json.Marshal(d.String())
}

func (d *Difficulty) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Question is one multiple-choice item from the bank. Questions are
// immutable once loaded.
type Question struct {
	ID           string     `json:"id"`
	CategoryID   string     `json:"categoryId"`
	Difficulty   Difficulty `json:"difficulty"`
	Prompt       string     `json:"promptLatex"`
	Choices      []string   `json:"choicesLatex"`
	CorrectIndex int        `json:"correctIndex"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question has empty id")
	}
	if !q.Difficulty.Valid() {
		return fmt.Errorf("question %s: invalid difficulty %d", q.ID, int(q.Difficulty))
	}
	if len(q.Choices) == 0 {
		return fmt.Errorf("question %s: no choices", q.ID)
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Choices) {
		return fmt.Errorf("question %s: correct index %d out of range [0,%d)", q.ID, q.CorrectIndex, len(q.Choices))
	}
	return nil
}

// CorrectChoice returns the text of the correct choice.
func (q Question) CorrectChoice() string {
	return q.Choices[q.CorrectIndex]
}

// SessionQuestion is a Question whose choices were shuffled for one session,
// with CorrectIndex remapped to the new position of the correct choice.
type SessionQuestion struct {
	Question
}

// IsCorrect reports whether choice is the correct answer.
func (q SessionQuestion) IsCorrect(choice int) bool {
	return choice == q.CorrectIndex
}

// Category is one lesson in the catalog.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
