package exam

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/examstack/examstack/internal/grading"
)

// Identity resolves the request-scoped credential to a stable caller id.
// The service calls it exactly once per submission.
type Identity interface {
	Resolve(ctx context.Context) (string, error)
}

// Notifier is told about committed submissions so cached dashboard views
// can be refreshed. Delivery is best-effort; scoring does not depend on it.
type Notifier interface {
	AttemptSubmitted(ctx context.Context, studentID, attemptID string) error
}

// Service is the authoritative scoring and submission engine. Correctness
// is always recomputed from stored question/option data; a client-asserted
// correctness flag is never part of its input.
type Service struct {
	store  Store
	grader *grading.Grader
	notify Notifier // optional
	log    *slog.Logger
}

func NewService(store Store, grader *grading.Grader, notify Notifier, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, grader: grader, notify: notify, log: log}
}

// Submit scores answers against the test's current question snapshot and
// persists one attempt with its answer batch atomically, returning the new
// attempt id. Answer map entries for unknown question ids are ignored;
// questions absent from the map are skipped and leave no answer row.
//
// Each call creates a new attempt: scoring is deterministic for a fixed
// snapshot and answer map, but submission is not idempotent.
func (s *Service) Submit(ctx context.Context, testID string, ident Identity, answers map[string]string) (string, error) {
	studentID, err := ident.Resolve(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve caller: %w", err)
	}
	if studentID == "" {
		return "", ErrUnauthorized
	}

	t, err := s.store.GetTestAdmin(ctx, testID)
	if err != nil {
		return "", err
	}

	score := 0
	correct := 0
	batch := make([]Answer, 0, len(answers))
	for _, q := range t.Questions {
		submitted, answered := answers[q.ID]
		if !answered {
			continue
		}
		ok := s.grader.Correct(gradingView(q), submitted)
		if ok {
			score += q.Marks
			correct++
		}
		batch = append(batch, Answer{
			ID:             uuid.NewString(),
			QuestionID:     q.ID,
			SubmittedValue: submitted,
			IsCorrect:      ok,
		})
	}

	accuracy := 0.0
	if n := len(t.Questions); n > 0 {
		accuracy = float64(correct) / float64(n) * 100
	}

	created, err := s.store.CreateAttempt(ctx, Attempt{
		ID:        uuid.NewString(),
		StudentID: studentID,
		TestID:    t.ID,
		Score:     score,
		Accuracy:  accuracy,
		CreatedAt: time.Now().Unix(),
		Answers:   batch,
	})
	if err != nil {
		return "", fmt.Errorf("persist attempt: %w", err)
	}

	if s.notify != nil {
		if err := s.notify.AttemptSubmitted(ctx, studentID, created.ID); err != nil {
			s.log.Warn("dashboard refresh not recorded",
				"student_id", studentID, "attempt_id", created.ID, "err", err)
		}
	}

	s.log.Info("attempt submitted",
		"attempt_id", created.ID, "test_id", t.ID, "student_id", studentID,
		"score", score, "accuracy", accuracy, "answered", len(batch))
	return created.ID, nil
}

func gradingView(q Question) grading.Q {
	gq := grading.Q{
		Type:          string(q.Type),
		CorrectAnswer: q.CorrectAnswer,
	}
	for _, o := range q.Options {
		gq.Options = append(gq.Options, grading.Option{ID: o.ID, IsCorrect: o.IsCorrect})
	}
	return gq
}
