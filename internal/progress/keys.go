package progress

import "github.com/klazic/trigo/internal/quiz"

// Prefix is the namespace of every progress key.
const Prefix = "progress."

const (
	fieldAttempted = "attempted"
	fieldCorrect   = "correct"
	fieldBest      = "best"
	fieldSolved    = "solved_ids"
)

func key(categoryID string, d quiz.Difficulty, field string) string {
	return Prefix + categoryID + "." + d.Key() + "." + field
}
