package quiz

import (
	"errors"
	"fmt"
)

// MinOptions and MaxOptions bound the number of options a question may carry.
const (
	MinOptions = 2
	MaxOptions = 6
)

// Question is a single multiple-choice prompt with exactly one correct option.
type Question struct {
	ID           string
	Prompt       string
	Options      []string
	CorrectIndex int

	// Explanation is optional static text shipped with the question.
	Explanation string
}

// CorrectOption returns the text of the correct option.
func (q Question) CorrectOption() string {
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ""
	}
	return q.Options[q.CorrectIndex]
}

// ValidOption reports whether i indexes one of the question's options.
func (q Question) ValidOption(i int) bool {
	return i >= 0 && i < len(q.Options)
}

// Quiz is an ordered set of questions attached to a roadmap.
// Question order is presentation order.
type Quiz struct {
	ID        string
	Title     string
	Questions []Question
}

// Len returns the number of questions.
func (q *Quiz) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Questions)
}

// Index returns the position of the question with the given ID, or -1.
func (q *Quiz) Index(questionID string) int {
	if q == nil {
		return -1
	}
	for i, qq := range q.Questions {
		if qq.ID == questionID {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants of a loaded quiz.
// An empty quiz is reported as ErrNotFound.
func (q *Quiz) Validate() error {
	if q == nil || len(q.Questions) == 0 {
		return ErrNotFound
	}
	seen := make(map[string]bool, len(q.Questions))
	var errs []error
	for i, qq := range q.Questions {
		if qq.ID == "" {
			errs = append(errs, fmt.Errorf("question %d: missing id", i+1))
			continue
		}
		if seen[qq.ID] {
			errs = append(errs, fmt.Errorf("question %d: duplicate id %q", i+1, qq.ID))
		}
		seen[qq.ID] = true
		if n := len(qq.Options); n < MinOptions || n > MaxOptions {
			errs = append(errs, fmt.Errorf("question %q: %d options, want %d-%d", qq.ID, n, MinOptions, MaxOptions))
			continue
		}
		if !qq.ValidOption(qq.CorrectIndex) {
			errs = append(errs, fmt.Errorf("question %q: correct index %d out of range", qq.ID, qq.CorrectIndex))
		}
	}
	return errors.Join(errs...)
}

// Answer is a learner's recorded selection for one question.
type Answer struct {
	QuestionID string
	Selected   int
}
