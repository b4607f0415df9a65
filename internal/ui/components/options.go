package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/trailhead/internal/ui/theme"
)

// OptionLabels are the letters shown next to answer options.
var OptionLabels = []string{"A", "B", "C", "D", "E", "F"}

// OptionLabel returns the letter for option i, or its 1-based number when
// i is past the last letter.
func OptionLabel(i int) string {
	if i >= 0 && i < len(OptionLabels) {
		return OptionLabels[i]
	}
	return fmt.Sprint(i + 1)
}

// OptionList renders the options of one question.
//
// While answering, Cursor is the highlighted row and Chosen the recorded
// answer (-1 for none). With Reveal set the list shows the outcome: the
// correct option in green and a wrong choice in red.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int
	Correct int
	Reveal  bool
}

// NewOptionList creates a list for answering with nothing chosen.
func NewOptionList(options []string) OptionList {
	return OptionList{Options: options, Chosen: -1, Correct: -1}
}

// MoveUp moves the cursor up, stopping at the first option.
func (o OptionList) MoveUp() OptionList {
	if o.Cursor > 0 {
		o.Cursor--
	}
	return o
}

// MoveDown moves the cursor down, stopping at the last option.
func (o OptionList) MoveDown() OptionList {
	if o.Cursor < len(o.Options)-1 {
		o.Cursor++
	}
	return o
}

// View renders the list.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		mark := "○"
		if i == o.Chosen {
			mark = "●"
		}
		prefix := "  "
		if !o.Reveal && i == o.Cursor {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, OptionLabel(i), opt)

		style := theme.Unselected
		switch {
		case o.Reveal && i == o.Correct:
			style = theme.Correct
		case o.Reveal && i == o.Chosen:
			style = theme.Incorrect
		case o.Reveal:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == o.Cursor:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
