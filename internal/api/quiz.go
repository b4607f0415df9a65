package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/abhisek/trailhead/internal/quiz"
)

type quizResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Quizzes []wireQuiz `json:"quizzes" validate:"dive"`
}

type wireQuiz struct {
	ID        string         `json:"_id"`
	AltID     string         `json:"id"`
	Title     string         `json:"title"`
	Questions []wireQuestion `json:"questions" validate:"dive"`
}

type wireQuestion struct {
	ID           string   `json:"_id" validate:"required_without=AltID"`
	AltID        string   `json:"id"`
	Question     string   `json:"question" validate:"required"`
	Options      []string `json:"options" validate:"min=2,max=6,dive,required"`
	CorrectIndex *int     `json:"correctIndex" validate:"required,gte=0"`
	Explanation  string   `json:"explanation"`
}

// firstNonEmpty prefers the backend's _id and falls back to id.
func firstNonEmpty(ids ...string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

// FetchQuiz loads the quiz for a roadmap or quiz id. A missing quiz, an
// unsuccessful response and a quiz without questions all yield
// quiz.ErrNotFound. Malformed payloads are errors but not ErrNotFound.
func (c *Client) FetchQuiz(ctx context.Context, id string) (*quiz.Quiz, error) {
	var out quizResponse
	_, err := c.do(ctx, http.MethodGet, "/quiz/"+url.PathEscape(id), nil, &out)
	var serr *StatusError
	if errors.As(err, &serr) && serr.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", quiz.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if !out.Success || len(out.Quizzes) == 0 || len(out.Quizzes[0].Questions) == 0 {
		c.log.Info("no quiz", "id", id, "message", out.Message)
		return nil, fmt.Errorf("%w: %s", quiz.ErrNotFound, id)
	}

	wq := out.Quizzes[0]
	if err := c.validate.Struct(wq); err != nil {
		return nil, fmt.Errorf("invalid quiz payload: %w", err)
	}

	q := &quiz.Quiz{
		ID:        firstNonEmpty(wq.ID, wq.AltID, id),
		Title:     wq.Title,
		Questions: make([]quiz.Question, len(wq.Questions)),
	}
	for i, w := range wq.Questions {
		q.Questions[i] = quiz.Question{
			ID:           firstNonEmpty(w.ID, w.AltID),
			Prompt:       w.Question,
			Options:      w.Options,
			CorrectIndex: *w.CorrectIndex,
			Explanation:  w.Explanation,
		}
	}
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quiz payload: %w", err)
	}
	return q, nil
}
