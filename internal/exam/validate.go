package exam

import "fmt"

// ValidateTest checks a test before it is stored. Scoring itself never
// validates: it grades whatever snapshot exists at submission time.
func ValidateTest(t Test) error {
	if t.ID == "" {
		return fmt.Errorf("missing test id")
	}
	if t.Title == "" {
		return fmt.Errorf("missing title")
	}
	if t.DurationMinutes <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if t.TotalMarks <= 0 {
		return fmt.Errorf("total marks must be positive")
	}
	if len(t.Questions) == 0 {
		return fmt.Errorf("need at least one question")
	}
	for i, q := range t.Questions {
		if q.ID == "" {
			return fmt.Errorf("question %d: missing id", i)
		}
		if q.Prompt == "" {
			return fmt.Errorf("question %d: missing prompt", i)
		}
		if !q.Type.Valid() {
			return fmt.Errorf("question %d: unknown type %q", i, q.Type)
		}
		if q.Marks <= 0 {
			return fmt.Errorf("question %d: marks must be positive", i)
		}
		switch q.Type {
		case TypeMCQ, TypeTrueFalse:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %d: choice questions need at least two options", i)
			}
		case TypeFIB:
			if q.CorrectAnswer == "" {
				return fmt.Errorf("question %d: fill-in-the-blank needs a correct answer", i)
			}
		}
		for j, o := range q.Options {
			if o.ID == "" {
				return fmt.Errorf("question %d: option %d: missing id", i, j)
			}
		}
	}
	return nil
}
