package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/klazic/trigo/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.Selected = m.firstEnabled()
	return m
}

func (m Menu) firstEnabled() int {
	for i, item := range m.Items {
		if !item.Disabled {
			return i
		}
	}
	return 0
}

// SetItems replaces the items, keeping the cursor when it is still valid.
func (m Menu) SetItems(items []MenuItem) Menu {
	m.Items = items
	if m.Selected >= len(items) || (m.Selected < len(items) && items[m.Selected].Disabled) {
		m.Selected = m.firstEnabled()
	}
	return m
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(kmsg, Keys.Up):
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case key.Matches(kmsg, Keys.Down):
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case key.Matches(kmsg, Keys.Enter):
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		line := "    " + item.Label
		style := theme.Unselected
		switch {
		case item.Disabled:
			style = theme.Disabled
		case i == m.Selected:
			line = "  ▸ " + item.Label
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		if item.Detail != "" {
			b.WriteString("  " + theme.Hint.Render(item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
