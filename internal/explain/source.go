package explain

import (
	"context"

	"github.com/abhisek/trailhead/internal/quiz"
)

// NotAnswered is sent as the selected answer for skipped questions.
const NotAnswered = "Not Answered"

// FailureMessage is shown in place of an explanation that could not be
// fetched.
const FailureMessage = "Failed to fetch AI explanation."

// Request carries the derived strings sent to an explanation backend.
// Option indices never leave the process.
type Request struct {
	Question       string `json:"question" validate:"required"`
	CorrectAnswer  string `json:"correctAnswer" validate:"required"`
	SelectedAnswer string `json:"selectedAnswer" validate:"required"`
}

// NewRequest derives a Request from a question and the learner's selection.
// When answered is false or selected is out of range, the selected answer
// is NotAnswered.
func NewRequest(q quiz.Question, selected int, answered bool) Request {
	sel := NotAnswered
	if answered && q.ValidOption(selected) {
		sel = q.Options[selected]
	}
	return Request{
		Question:       q.Prompt,
		CorrectAnswer:  q.CorrectOption(),
		SelectedAnswer: sel,
	}
}

// RequestFor derives a Request from a results row.
func RequestFor(item quiz.ResultItem) Request {
	return NewRequest(item.Question, item.Selected, item.Answered)
}

// Source produces a natural-language explanation for a question/answer pair.
type Source interface {
	Explain(ctx context.Context, req Request) (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, req Request) (string, error)

func (f SourceFunc) Explain(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
