package grading

// Q is the minimal view of a question needed to decide correctness.
// Keep this in sync with whatever fields the store loads.
type Q struct {
	Type          string
	CorrectAnswer string
	Options       []Option
}

type Option struct {
	ID        string
	IsCorrect bool
}

// Strategy decides whether a submitted value answers q correctly.
// Strategies never fail: a malformed or unmatched submission is simply
// incorrect.
type Strategy interface {
	Correct(q Q, submitted string) bool
}

// Grader routes by question type to the right Strategy. Unknown types fall
// back to plain equality against the stored correct answer.
type Grader struct {
	strategies map[string]Strategy
	fallback   Strategy
}

// NewGrader installs the built-in strategies.
func NewGrader() *Grader {
	return &Grader{
		strategies: map[string]Strategy{
			"MCQ":        optionStrategy{},
			"TRUE_FALSE": optionStrategy{},
			"FIB":        textStrategy{},
			"MATCHING":   exactStrategy{},
		},
		fallback: exactStrategy{},
	}
}

func (g *Grader) Correct(q Q, submitted string) bool {
	if s, ok := g.strategies[q.Type]; ok {
		return s.Correct(q, submitted)
	}
	return g.fallback.Correct(q, submitted)
}

// optionStrategy treats the submission as an option id. An id that matches
// no loaded option is wrong, not an error.
type optionStrategy struct{}

func (optionStrategy) Correct(q Q, submitted string) bool {
	for _, o := range q.Options {
		if o.ID == submitted {
			return o.IsCorrect
		}
	}
	return false
}

// textStrategy compares free text ignoring case and surrounding whitespace.
type textStrategy struct{}

func (textStrategy) Correct(q Q, submitted string) bool {
	return fold(submitted) == fold(q.CorrectAnswer)
}

type exactStrategy struct{}

func (exactStrategy) Correct(q Q, submitted string) bool {
	return submitted == q.CorrectAnswer
}
