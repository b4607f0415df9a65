package results

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trailhead/internal/explain"
	"github.com/abhisek/trailhead/internal/quiz"
	"github.com/abhisek/trailhead/internal/ui/components"
	"github.com/abhisek/trailhead/internal/ui/layout"
	"github.com/abhisek/trailhead/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	var b strings.Builder
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	b.WriteString(s.renderScore(width))
	b.WriteString("\n")
	b.WriteString("  " + layout.Divider(inner))
	b.WriteString("\n")
	b.WriteString(s.renderList(inner, height))
	b.WriteString("  " + layout.Divider(inner))
	b.WriteString("\n")
	b.WriteString(s.renderDetail(inner))
	return b.String()
}

func (s *Screen) renderScore(width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	title := center.Foreground(theme.Primary).Bold(true).Render(s.res.Title)
	score := center.Foreground(theme.Text).Bold(true).Render(
		fmt.Sprintf("%d / %d correct  (%d%%)", s.res.Score, s.res.Total, int(s.res.Percent()+0.5)))

	verdictColor := theme.Accent
	switch {
	case s.res.Total > 0 && s.res.Score == s.res.Total:
		verdictColor = theme.Success
	case float64(s.res.Score) > float64(s.res.Total)*0.5:
		verdictColor = theme.Secondary
	}
	verdict := center.Foreground(verdictColor).Render(s.res.Verdict())

	answered := center.Foreground(theme.TextDim).Render(
		fmt.Sprintf("%d of %d answered", s.res.Answered, s.res.Total))

	return "\n" + title + "\n" + score + "\n" + verdict + "\n" + answered + "\n"
}

// renderList shows one row per question. On short terminals the list is
// windowed around the cursor.
func (s *Screen) renderList(width, height int) string {
	rows := len(s.res.Items)
	limit := rows
	if layout.IsCompactHeight(height) && limit > 5 {
		limit = 5
	}
	start := 0
	if s.cursor >= limit {
		start = s.cursor - limit + 1
	}

	var b strings.Builder
	for i := start; i < start+limit && i < rows; i++ {
		item := s.res.Items[i]
		mark, style := "–", lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case item.Correct:
			mark, style = "✓", theme.Correct
		case item.Answered:
			mark, style = "✗", theme.Incorrect
		}
		prefix := "   "
		if i == s.cursor {
			prefix = " ▸ "
		}
		prompt := layout.Truncate(item.Question.Prompt, width-10)
		line := fmt.Sprintf("%s%s %2d. %s", prefix, mark, i+1, prompt)
		if i == s.cursor {
			line = style.Render(prefix+mark) + theme.Selected.Render(fmt.Sprintf(" %2d. %s", i+1, prompt))
		} else {
			line = style.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Screen) renderDetail(width int) string {
	if len(s.res.Items) == 0 {
		return ""
	}
	item := s.res.Items[s.cursor]
	wrap := lipgloss.NewStyle().Width(width).PaddingLeft(2)
	label := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(wrap.Foreground(theme.Text).Bold(true).Render(item.Question.Prompt))
	b.WriteString("\n\n")

	opts := components.NewOptionList(item.Question.Options)
	opts.Reveal = true
	opts.Correct = item.Question.CorrectIndex
	opts.Chosen = item.Selected
	b.WriteString(opts.View())
	b.WriteString("\n")

	yours := explain.NotAnswered
	yoursStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if item.Answered {
		yours = item.SelectedOption()
		yoursStyle = theme.Incorrect
		if item.Correct {
			yoursStyle = theme.Correct
		}
	}
	b.WriteString("  " + label.Render("Your answer:    ") + yoursStyle.Render(yours) + "\n")
	b.WriteString("  " + label.Render("Correct answer: ") + theme.Correct.Render(item.Question.CorrectOption()) + "\n")

	if item.Question.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(wrap.Foreground(theme.Text).Render(item.Question.Explanation))
		b.WriteString("\n")
	}

	if ai := s.renderExplanation(item.Question, width); ai != "" {
		b.WriteString("\n")
		b.WriteString(ai)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *Screen) renderExplanation(q quiz.Question, width int) string {
	if s.deps.Explainer == nil {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(width).PaddingLeft(2)
	entry := s.tracker.Get(q.ID)
	switch entry.Status {
	case explain.StatusPending:
		return "  " + s.spinner.View() + theme.Pending.Render(" Fetching explanation...")
	case explain.StatusSucceeded:
		return wrap.Foreground(theme.Secondary).Render(entry.Text)
	case explain.StatusFailed:
		return wrap.Foreground(theme.Error).Render(entry.Text)
	}
	return wrap.Foreground(theme.TextDim).Italic(true).Render("Press e for an explanation.")
}
