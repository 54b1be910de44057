package exam

import "context"

// QuestionResult is one row of the per-question breakdown on the results
// view. Answered=false means the question was skipped.
type QuestionResult struct {
	QuestionID  string       `json:"question_id"`
	Prompt      string       `json:"prompt"`
	Type        QuestionType `json:"type"`
	Marks       int          `json:"marks"`
	Answered    bool         `json:"answered"`
	Submitted   string       `json:"submitted,omitempty"`
	Correct     bool         `json:"correct"`
	Explanation string       `json:"explanation,omitempty"`
}

type AttemptResult struct {
	Attempt        Attempt          `json:"attempt"`
	TestTitle      string           `json:"test_title"`
	TotalMarks     int              `json:"total_marks"`
	TotalQuestions int              `json:"total_questions"`
	CorrectCount   int              `json:"correct_count"`
	Skipped        int              `json:"skipped"` // derived, never stored
	Questions      []QuestionResult `json:"questions"`
}

// Results reconstructs the results view for a committed attempt from its
// frozen answer rows and the test's current questions.
func (s *Service) Results(ctx context.Context, attemptID string) (AttemptResult, error) {
	a, err := s.store.GetAttempt(ctx, attemptID)
	if err != nil {
		return AttemptResult{}, err
	}
	t, err := s.store.GetTestAdmin(ctx, a.TestID)
	if err != nil {
		return AttemptResult{}, err
	}

	byQuestion := make(map[string]Answer, len(a.Answers))
	for _, ans := range a.Answers {
		byQuestion[ans.QuestionID] = ans
	}

	res := AttemptResult{
		Attempt:        a,
		TestTitle:      t.Title,
		TotalMarks:     t.TotalMarks,
		TotalQuestions: len(t.Questions),
		Questions:      make([]QuestionResult, 0, len(t.Questions)),
	}
	for _, q := range t.Questions {
		qr := QuestionResult{
			QuestionID:  q.ID,
			Prompt:      q.Prompt,
			Type:        q.Type,
			Marks:       q.Marks,
			Explanation: q.Explanation,
		}
		if ans, ok := byQuestion[q.ID]; ok {
			qr.Answered = true
			qr.Submitted = ans.SubmittedValue
			qr.Correct = ans.IsCorrect
			if ans.IsCorrect {
				res.CorrectCount++
			}
		}
		res.Questions = append(res.Questions, qr)
	}
	res.Skipped = res.TotalQuestions - len(a.Answers)
	return res, nil
}
