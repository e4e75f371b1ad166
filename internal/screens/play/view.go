package play

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/klazic/trigo/internal/quiz"
	sess "github.com/klazic/trigo/internal/session"
	"github.com/klazic/trigo/internal/ui/mathtext"
	"github.com/klazic/trigo/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	switch {
	case s.ctrl == nil:
		return s.renderLoading(width)
	case s.ctrl.Err() != nil:
		return renderError(width, s.ctrl.Err())
	case s.showingQuitConfirm:
		return renderQuitConfirm(width)
	case s.feedback != nil:
		return s.renderFeedback(width)
	case s.ctrl.Phase() == sess.PhaseFinished:
		return s.renderFinished(width)
	}
	return s.renderQuestionView(width)
}

func centered(width int) lipgloss.Style {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
}

// renderQuestionView renders the active question display.
func (s *PlayScreen) renderQuestionView(width int) string {
	var b strings.Builder

	infoLeft := theme.DifficultyStyle(s.difficulty).
		Bold(true).
		Render("  " + s.difficulty.DisplayName())

	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d  %s %d",
			s.ctrl.Index()+1,
			s.ctrl.Total(),
			theme.Correct.Render("✓"),
			s.ctrl.CorrectCount(),
		))

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	block := s.choice.View(min(width-8, 70))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, block))
	b.WriteString("\n")
	b.WriteString(centered(width).
		Inherit(theme.Hint).
		Render("Pick with 1-9 or the arrows, then Enter"))

	return b.String()
}

// renderFeedback shows whether the last answer was right.
func (s *PlayScreen) renderFeedback(width int) string {
	f := s.feedback

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.Text).Render(mathtext.Render(f.Prompt)))
	b.WriteString("\n\n")

	if f.Correct {
		b.WriteString(centered(width).Inherit(theme.Correct).Render("Correct!"))
	} else {
		b.WriteString(centered(width).Inherit(theme.Incorrect).Render("Not quite"))
		b.WriteString("\n")
		b.WriteString(centered(width).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("You picked %s, the answer is %s",
				mathtext.Render(f.Choices[f.Picked]),
				mathtext.Render(f.Choices[f.Answer]))))
	}
	b.WriteString("\n\n")

	hint := "Press any key for the next question..."
	if f.Last {
		hint = "Press any key to see your results..."
	}
	b.WriteString(centered(width).Foreground(theme.TextDim).Render(hint))
	return b.String()
}

func (s *PlayScreen) renderFinished(width int) string {
	if s.ctrl.Total() == 0 {
		return centered(width).
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("\n\n\n  No %s questions in this lesson yet.\n\n  Press any key to go back.",
				s.difficulty.DisplayName()))
	}
	msg := "Saving your progress..."
	if s.recordErr != nil {
		msg = "Could not save your progress."
	}
	return centered(width).Foreground(theme.TextDim).Render("\n\n\n  " + msg)
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width).Foreground(theme.Text).Bold(true).Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.TextDim).Render("Unfinished sessions are not recorded."))
	b.WriteString("\n\n")
	b.WriteString(centered(width).Foreground(theme.Success).Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(centered(width).Foreground(theme.Primary).Render("[N] No, keep going"))
	return b.String()
}

func (s *PlayScreen) renderLoading(width int) string {
	return centered(width).
		Foreground(theme.TextDim).
		Render("\n\n\n  " + s.spinner.View() + " Preparing your session...")
}

func renderError(width int, err error) string {
	msg := err.Error()
	var nf *quiz.ErrCategoryNotFound
	if errors.As(err, &nf) {
		msg = fmt.Sprintf("lesson %q has no questions", nf.CategoryID)
	}
	return centered(width).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", msg))
}

