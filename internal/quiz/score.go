package quiz

// Score counts recorded answers that match the correct option. It is
// recomputed from the answers on every call.
func (s State) Score() int {
	if s.Quiz == nil {
		return 0
	}
	score := 0
	for _, q := range s.Quiz.Questions {
		if sel, ok := s.answers[q.ID]; ok && sel == q.CorrectIndex {
			score++
		}
	}
	return score
}

// ProgressPercentage returns the share of answered questions in [0, 100].
// It does not depend on the cursor position. A quiz without questions
// reports 0.
func (s State) ProgressPercentage() float64 {
	n := s.Quiz.Len()
	if n == 0 {
		return 0
	}
	return float64(len(s.answers)) / float64(n) * 100
}
