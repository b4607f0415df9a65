package roadmap

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trailhead/internal/api"
	"github.com/abhisek/trailhead/internal/ui/components"
	"github.com/abhisek/trailhead/internal/ui/layout"
	"github.com/abhisek/trailhead/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Height(height).Align(lipgloss.Center, lipgloss.Center)
	switch {
	case s.loading:
		return center.Foreground(theme.TextDim).Render(s.spinner.View() + " Loading roadmap...")
	case s.err != nil:
		return center.Render(theme.Incorrect.Render("Could not load the roadmap.") + "\n\n" +
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(s.err.Error()+"\n\nPress r to try again or Esc to go back"))
	}

	inner := max(width-4, 20)
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	rm := s.detail.Roadmap

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + theme.Title.Render(rm.Title) + "\n")
	if rm.Description != "" {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Text).Width(inner).Render(rm.Description) + "\n")
	}
	if meta := metaLine(rm); meta != "" {
		b.WriteString("  " + dim.Render(meta) + "\n")
	}
	if len(rm.Skills) > 0 {
		b.WriteString("  " + lipgloss.NewStyle().Foreground(theme.Secondary).Render("Skills: "+strings.Join(rm.Skills, ", ")) + "\n")
	}
	b.WriteString("\n")

	if p := s.progress; p != nil {
		b.WriteString("  " + components.NewProgressBar("Progress", p.Percentage, true, inner).View() + "\n")
		b.WriteString("  " + dim.Render(fmt.Sprintf("%d completed, %d remaining", p.Completed, p.Remaining)) + "\n")
	}
	b.WriteString("  " + layout.Divider(inner) + "\n")

	if len(s.detail.Milestones) == 0 {
		b.WriteString("\n  " + dim.Render("This roadmap has no milestones yet.") + "\n")
	}
	for i, m := range s.detail.Milestones {
		b.WriteString(s.renderMilestone(i, m, inner))
	}

	if s.notice != "" {
		b.WriteString("\n  " + theme.Incorrect.Render(s.notice) + "\n")
	}
	return b.String()
}

func metaLine(rm api.Roadmap) string {
	var parts []string
	if rm.Duration != "" {
		parts = append(parts, rm.Duration)
	}
	if rm.Difficulty != "" {
		parts = append(parts, rm.Difficulty)
	}
	if rm.Learners > 0 {
		parts = append(parts, fmt.Sprintf("%d learners", rm.Learners))
	}
	if rm.CompletionRate > 0 {
		parts = append(parts, fmt.Sprintf("%d%% completion", rm.CompletionRate))
	}
	return strings.Join(parts, " · ")
}

func (s *Screen) renderMilestone(i int, m api.Milestone, width int) string {
	mark := "○"
	style := theme.Unselected
	switch {
	case s.toggling == m.ID:
		mark = s.spinner.View()
	case m.Completed():
		mark = "✓"
		style = theme.Correct
	case m.Status == api.MilestoneInProgress:
		mark = "▶"
	case m.Status == api.MilestoneLocked:
		mark = "🔒"
	}

	order := m.Order
	if order == 0 {
		order = i + 1
	}
	line := fmt.Sprintf("%s %d. %s", mark, order, m.Title)
	if m.Duration != "" {
		line += "  (" + m.Duration + ")"
	}

	var b strings.Builder
	if i == s.cursor {
		b.WriteString(theme.Selected.Render("  ▸ " + line))
		if m.Description != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Width(width - 6).
				Render("      " + m.Description))
		}
	} else {
		b.WriteString(style.Render("    " + line))
	}
	b.WriteString("\n")
	return b.String()
}
