package quiz

// ResultItem is the per-question row of a finished quiz.
type ResultItem struct {
	Index    int
	Question Question
	Selected int // -1 when unanswered
	Answered bool
	Correct  bool
}

// SelectedOption returns the text of the chosen option, or "" if unanswered.
func (r ResultItem) SelectedOption() string {
	if !r.Answered || !r.Question.ValidOption(r.Selected) {
		return ""
	}
	return r.Question.Options[r.Selected]
}

// Results holds what the results view renders.
type Results struct {
	QuizID   string
	Title    string
	Score    int
	Total    int
	Answered int
	Items    []ResultItem
}

// Percent returns the score as a percentage of total questions.
func (r *Results) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}

// Verdict returns a short message for the score band.
func (r *Results) Verdict() string {
	return Verdict(r.Score, r.Total)
}

// BuildResults creates Results from a session state. It works in any state
// that has a quiz, though callers normally use it once Completed.
func BuildResults(s State) *Results {
	res := &Results{
		QuizID:   s.QuizID,
		Score:    s.Score(),
		Total:    s.Quiz.Len(),
		Answered: s.AnsweredCount(),
	}
	if s.Quiz == nil {
		return res
	}
	res.Title = s.Quiz.Title
	res.Items = make([]ResultItem, 0, len(s.Quiz.Questions))
	for i, q := range s.Quiz.Questions {
		item := ResultItem{Index: i, Question: q, Selected: -1}
		if sel, ok := s.Selected(q.ID); ok {
			item.Selected = sel
			item.Answered = true
			item.Correct = sel == q.CorrectIndex
		}
		res.Items = append(res.Items, item)
	}
	return res
}

// Verdict bands a score: perfect, better than half, or anything else.
func Verdict(score, total int) string {
	switch {
	case total > 0 && score == total:
		return "Perfect score! Outstanding work"
	case float64(score) > float64(total)*0.5:
		return "Great job! Keep the momentum going"
	default:
		return "Review the answers and try again"
	}
}
