package exam

import "context"

type AttemptListOpts struct {
	TestID    string // filter by test
	StudentID string // filter by student
	Limit     int
	Offset    int
}

// Store is the persistence contract the scoring service depends on.
// CreateAttempt must persist the attempt together with its full answer
// batch as one atomic unit; a half-written attempt must never be visible.
type Store interface {
	PutTest(ctx context.Context, t Test) error
	GetTest(ctx context.Context, id string) (Test, error)      // student-safe (no answer keys)
	GetTestAdmin(ctx context.Context, id string) (Test, error) // full test, for scoring
	CreateAttempt(ctx context.Context, a Attempt) (Attempt, error)
	GetAttempt(ctx context.Context, id string) (Attempt, error) // with its answers, in creation order
	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error)
}
