package exam

// QuestionType discriminates the question variants. Grading switches on it
// exhaustively; anything outside the known set is scored by the fallback
// equality rule.
type QuestionType string

const (
	TypeMCQ       QuestionType = "MCQ"
	TypeTrueFalse QuestionType = "TRUE_FALSE"
	TypeFIB       QuestionType = "FIB"
	TypeMatching  QuestionType = "MATCHING"
)

func (t QuestionType) Valid() bool {
	switch t {
	case TypeMCQ, TypeTrueFalse, TypeFIB, TypeMatching:
		return true
	}
	return false
}

type Option struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id,omitempty"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct,omitempty"`
	MatchText  string `json:"match_text,omitempty"` // MATCHING pairs only
}

type Question struct {
	ID            string       `json:"id"`
	TestID        string       `json:"test_id,omitempty"`
	Prompt        string       `json:"prompt"`
	Type          QuestionType `json:"type"`
	Marks         int          `json:"marks"` // awarded only when fully correct
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Explanation   string       `json:"explanation,omitempty"`
	Options       []Option     `json:"options,omitempty"`
}

type Test struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	TotalMarks      int        `json:"total_marks"`
	Questions       []Question `json:"questions,omitempty"`
	CreatedAt       int64      `json:"created_at,omitempty"`
}

// Answer is one graded response row. Rows exist only for questions the
// student actually answered; skipped questions leave no row and are
// derived as totalQuestions - len(answers).
type Answer struct {
	ID             string `json:"id"`
	AttemptID      string `json:"attempt_id,omitempty"`
	QuestionID     string `json:"question_id"`
	SubmittedValue string `json:"submitted_value"`
	IsCorrect      bool   `json:"is_correct"`
}

// Attempt is one scored submission. Created once, never mutated.
type Attempt struct {
	ID        string   `json:"id"`
	StudentID string   `json:"student_id"`
	TestID    string   `json:"test_id"`
	Score     int      `json:"score"`
	Accuracy  float64  `json:"accuracy"` // percent of questions correct
	CreatedAt int64    `json:"created_at"`
	Answers   []Answer `json:"answers,omitempty"`
}
