package theme

import (
	"charm.land/lipgloss/v2"

	"github.com/klazic/trigo/internal/quiz"
)

// Color palette
var (
	Primary   = lipgloss.Color("#38BDF8") // Sky
	Secondary = lipgloss.Color("#A78BFA") // Violet
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate

	Easy   = lipgloss.Color("#4ADE80")
	Medium = lipgloss.Color("#FACC15")
	Hard   = lipgloss.Color("#FB7185")
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Disabled = lipgloss.NewStyle().
			Foreground(TextDim).
			Faint(true)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	Streak = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)

// DifficultyStyle returns the accent style of a difficulty.
func DifficultyStyle(d quiz.Difficulty) lipgloss.Style {
	switch d {
	case quiz.Easy:
		return lipgloss.NewStyle().Foreground(Easy)
	case quiz.Medium:
		return lipgloss.NewStyle().Foreground(Medium)
	case quiz.Hard:
		return lipgloss.NewStyle().Foreground(Hard)
	}
	return Body
}
