package take

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trailhead/internal/quiz"
	"github.com/abhisek/trailhead/internal/ui/components"
	"github.com/abhisek/trailhead/internal/ui/layout"
	"github.com/abhisek/trailhead/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch s.state.Status {
	case quiz.StatusLoading:
		return s.renderLoading(width, height)
	case quiz.StatusError:
		return renderError(width, height, s.quizID, s.state.Err)
	case quiz.StatusCompleted:
		return renderCompleted(width, height, quiz.BuildResults(s.state))
	}
	return s.renderQuestionView(width)
}

func (s *Screen) renderLoading(width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.TextDim).
		Render(s.spinner.View() + " Loading quiz...")
}

func renderError(width, height int, quizID string, err error) string {
	headline := "Could not load the quiz."
	if errors.Is(err, quiz.ErrNotFound) {
		headline = fmt.Sprintf("No quiz found for %q.", quizID)
	}
	detail := ""
	if err != nil && !errors.Is(err, quiz.ErrNotFound) {
		detail = "\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(err.Error())
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(theme.Incorrect.Render(headline) + detail +
			"\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render("Press r to try again or Esc to go back"))
}

func renderCompleted(width, height int, res *quiz.Results) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Quiz complete: %d / %d\n\nPress Enter to see the results", res.Score, res.Total))
}

func (s *Screen) renderQuestionView(width int) string {
	st := s.state
	q, ok := st.CurrentQuestion()
	if !ok {
		return ""
	}
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", st.Current+1, st.Quiz.Len()))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d answered", st.AnsweredCount()))
	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 2; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")

	bar := components.NewProgressBar("Progress", st.ProgressPercentage(), true, inner)
	b.WriteString("  " + bar.View())
	b.WriteString("\n")
	b.WriteString("  " + layout.Divider(inner))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(inner).
		PaddingLeft(2).
		Foreground(theme.Text).
		Bold(true).
		Render(q.Prompt))
	b.WriteString("\n\n")

	opts := components.NewOptionList(q.Options)
	opts.Cursor = s.cursor
	if sel, ok := st.Selected(q.ID); ok {
		opts.Chosen = sel
	}
	b.WriteString(opts.View())
	b.WriteString("\n")
	b.WriteString("  " + layout.Divider(inner))
	b.WriteString("\n")
	b.WriteString(s.renderNavigator())

	if s.jumping {
		b.WriteString("\n\n")
		b.WriteString(theme.Pending.Render(fmt.Sprintf("  Jump to question (1-%d): %s_", st.Quiz.Len(), s.jumpBuf)))
	} else if st.IsLast() {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  Last question: → finishes the quiz"))
	}
	return b.String()
}

// renderNavigator shows every question as a numbered cell: the current one
// highlighted, answered ones in the secondary color.
func (s *Screen) renderNavigator() string {
	st := s.state
	cells := make([]string, 0, st.Quiz.Len())
	for i, q := range st.Quiz.Questions {
		label := fmt.Sprintf(" %d ", i+1)
		_, answered := st.Selected(q.ID)
		var style lipgloss.Style
		switch {
		case i == st.Current:
			style = lipgloss.NewStyle().Background(theme.Primary).Foreground(theme.Text).Bold(true)
		case answered:
			style = lipgloss.NewStyle().Foreground(theme.Secondary)
		default:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		}
		cells = append(cells, style.Render(label))
	}
	return "  " + strings.Join(cells, " ")
}
