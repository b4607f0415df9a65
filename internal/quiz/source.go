package quiz

import (
	"context"
	"errors"
)

// Source supplies quizzes by roadmap or quiz identifier.
type Source interface {
	FetchQuiz(ctx context.Context, id string) (*Quiz, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, id string) (*Quiz, error)

func (f SourceFunc) FetchQuiz(ctx context.Context, id string) (*Quiz, error) {
	return f(ctx, id)
}

// Load fetches quizID from src and returns the resulting session state.
// Failures (transport errors, missing or empty quizzes) produce an error
// state and a *LoadError. There is no retry; callers issue a fresh Load.
func Load(ctx context.Context, src Source, quizID string) (State, error) {
	q, err := src.FetchQuiz(ctx, quizID)
	if err != nil {
		var lerr *LoadError
		if !errors.As(err, &lerr) {
			lerr = &LoadError{QuizID: quizID, Err: err}
		}
		return Failed(quizID, lerr), lerr
	}
	if q == nil {
		lerr := &LoadError{QuizID: quizID, Err: ErrNotFound}
		return Failed(quizID, lerr), lerr
	}
	if q.ID == "" {
		// The source owns q; the session gets its own header.
		cp := *q
		cp.ID = quizID
		q = &cp
	}
	return Start(q)
}
