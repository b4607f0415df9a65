package quiz

import "maps"

// Status is the phase of a quiz session.
type Status int

const (
	StatusLoading    Status = iota // Waiting on the quiz source
	StatusError                    // Load failed or the quiz was empty
	StatusInProgress               // Answering questions
	StatusCompleted                // Finished, results shown
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusInProgress:
		return "in-progress"
	case StatusCompleted:
		return "completed"
	}
	return "unknown"
}

// State is an immutable snapshot of a quiz session.
//
// Every transition returns a new State and leaves the receiver untouched.
// A rejected transition returns the receiver itself together with an error
// wrapping ErrInvalidTransition.
type State struct {
	QuizID  string
	Status  Status
	Quiz    *Quiz
	Current int
	Err     error

	// answers maps question ID to selected option index. Shared between
	// states until a transition copies it.
	answers map[string]int
}

// Loading returns the initial state for a quiz that is being fetched.
func Loading(quizID string) State {
	return State{QuizID: quizID, Status: StatusLoading}
}

// Failed returns the terminal error state for a load attempt.
func Failed(quizID string, err error) State {
	return State{QuizID: quizID, Status: StatusError, Err: err}
}

// Start builds an in-progress state for a loaded quiz. A quiz with no
// questions yields an error state and a *LoadError wrapping ErrNotFound.
func Start(q *Quiz) (State, error) {
	id := ""
	if q != nil {
		id = q.ID
	}
	if err := q.Validate(); err != nil {
		lerr := &LoadError{QuizID: id, Err: err}
		return Failed(id, lerr), lerr
	}
	return State{
		QuizID:  id,
		Status:  StatusInProgress,
		Quiz:    q,
		Current: 0,
	}, nil
}

// Answer records optionIndex for questionID, replacing any previous answer.
func (s State) Answer(questionID string, optionIndex int) (State, error) {
	if s.Status != StatusInProgress {
		return s, rejectf("answer while %s", s.Status)
	}
	i := s.Quiz.Index(questionID)
	if i < 0 {
		return s, rejectf("unknown question %q", questionID)
	}
	if !s.Quiz.Questions[i].ValidOption(optionIndex) {
		return s, rejectf("option %d out of range for question %q", optionIndex, questionID)
	}
	if prev, ok := s.answers[questionID]; ok && prev == optionIndex {
		return s, nil
	}
	next := s
	next.answers = cloneAnswers(s.answers)
	next.answers[questionID] = optionIndex
	return next, nil
}

// ClearAnswer removes the answer for questionID. Clearing an unanswered
// question is a no-op.
func (s State) ClearAnswer(questionID string) (State, error) {
	if s.Status != StatusInProgress {
		return s, rejectf("clear while %s", s.Status)
	}
	if s.Quiz.Index(questionID) < 0 {
		return s, rejectf("unknown question %q", questionID)
	}
	if _, ok := s.answers[questionID]; !ok {
		return s, nil
	}
	next := s
	next.answers = cloneAnswers(s.answers)
	delete(next.answers, questionID)
	return next, nil
}

// Advance moves to the next question. On the last question it completes
// the session instead.
func (s State) Advance() (State, error) {
	if s.Status != StatusInProgress {
		return s, rejectf("advance while %s", s.Status)
	}
	next := s
	if s.Current < s.Quiz.Len()-1 {
		next.Current++
		return next, nil
	}
	next.Status = StatusCompleted
	return next, nil
}

// Retreat moves to the previous question. At the first question it is a
// no-op.
func (s State) Retreat() (State, error) {
	if s.Status != StatusInProgress {
		return s, rejectf("retreat while %s", s.Status)
	}
	if s.Current == 0 {
		return s, nil
	}
	next := s
	next.Current--
	return next, nil
}

// JumpTo moves directly to the question at index.
func (s State) JumpTo(index int) (State, error) {
	if s.Status != StatusInProgress {
		return s, rejectf("jump while %s", s.Status)
	}
	if index < 0 || index >= s.Quiz.Len() {
		return s, rejectf("jump to %d outside [0, %d)", index, s.Quiz.Len())
	}
	next := s
	next.Current = index
	return next, nil
}

// Restart clears all answers and returns to the first question of the same
// quiz.
func (s State) Restart() (State, error) {
	if s.Status != StatusInProgress && s.Status != StatusCompleted {
		return s, rejectf("restart while %s", s.Status)
	}
	return State{
		QuizID:  s.QuizID,
		Status:  StatusInProgress,
		Quiz:    s.Quiz,
		Current: 0,
	}, nil
}

// CurrentQuestion returns the question under the cursor.
func (s State) CurrentQuestion() (Question, bool) {
	if s.Quiz == nil || s.Current < 0 || s.Current >= s.Quiz.Len() {
		return Question{}, false
	}
	return s.Quiz.Questions[s.Current], true
}

// IsLast reports whether the cursor is on the final question.
func (s State) IsLast() bool {
	return s.Quiz != nil && s.Current == s.Quiz.Len()-1
}

// Selected returns the recorded option for questionID.
func (s State) Selected(questionID string) (int, bool) {
	i, ok := s.answers[questionID]
	return i, ok
}

// AnsweredCount returns the number of recorded answers.
func (s State) AnsweredCount() int {
	return len(s.answers)
}

// Answers returns the recorded answers in question order.
func (s State) Answers() []Answer {
	if s.Quiz == nil {
		return nil
	}
	out := make([]Answer, 0, len(s.answers))
	for _, q := range s.Quiz.Questions {
		if sel, ok := s.answers[q.ID]; ok {
			out = append(out, Answer{QuestionID: q.ID, Selected: sel})
		}
	}
	return out
}

func cloneAnswers(m map[string]int) map[string]int {
	if m == nil {
		return make(map[string]int)
	}
	return maps.Clone(m)
}
