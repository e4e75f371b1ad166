package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/klazic/trigo/internal/ui/mathtext"
	"github.com/klazic/trigo/internal/ui/theme"
)

// NoChoice marks a MultiChoice without a picked option.
const NoChoice = -1

// MultiChoice renders a question and moves a cursor over its options.
// The component never scores; the owner reads Cursor and Picked.
type MultiChoice struct {
	Prompt  string
	Options []string
	Cursor  int
	Picked  int
}

// NewMultiChoice creates a selector with the cursor on the first option.
func NewMultiChoice(prompt string, options []string) MultiChoice {
	return MultiChoice{
		Prompt:  prompt,
		Options: options,
		Picked:  NoChoice,
	}
}

// Update handles cursor movement and number keys. A number key moves the
// cursor and picks the option in one step.
func (m MultiChoice) Update(msg tea.Msg) MultiChoice {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m
	}

	switch {
	case key.Matches(kmsg, Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(kmsg, Keys.Down):
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case key.Matches(kmsg, Keys.Choose):
		i := int(kmsg.String()[0]-'1')
		if i < len(m.Options) {
			m.Cursor = i
			m.Picked = i
		}
	}
	return m
}

// View renders the prompt and the options.
func (m MultiChoice) View(width int) string {
	var b strings.Builder

	prompt := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width).
		Render(mathtext.Render(m.Prompt))
	b.WriteString(prompt + "\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Cursor {
			prefix = "▸ "
		}
		marker := " "
		if i == m.Picked {
			marker = "●"
		}
		line := fmt.Sprintf("%s%s %d)  %s", prefix, marker, i+1, mathtext.Render(opt))

		style := theme.Unselected
		if i == m.Cursor {
			style = theme.Selected
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
