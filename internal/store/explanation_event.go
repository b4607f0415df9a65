package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendExplanation(ctx context.Context, data ExplanationEventData) error {
	if data.QuestionID == "" {
		return fmt.Errorf("append explanation: missing question id")
	}
	return r.insert(ctx, tableExplanations,
		[]string{"quiz_id", "question_id", "source", "success", "latency_ms", "error_message"},
		[]any{data.QuizID, data.QuestionID, data.Source, data.Success, data.LatencyMs, data.ErrorMessage},
	)
}
