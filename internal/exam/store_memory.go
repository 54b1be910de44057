package exam

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu       sync.RWMutex
	tests    map[string]Test
	attempts map[string]Attempt
}

// NewInMemoryStore returns a Store backed by process memory. Used in dev
// mode and in tests; the transactional contract holds trivially because
// writes happen under one lock.
func NewInMemoryStore() Store {
	return &memoryStore{
		tests:    map[string]Test{},
		attempts: map[string]Attempt{},
	}
}

func (m *memoryStore) PutTest(_ context.Context, t Test) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tests[t.ID] = cloneTest(t)
	return nil
}

func (m *memoryStore) GetTest(ctx context.Context, id string) (Test, error) {
	t, err := m.GetTestAdmin(ctx, id)
	if err != nil {
		return Test{}, err
	}
	stripAnswerKeys(&t)
	return t, nil
}

func (m *memoryStore) GetTestAdmin(_ context.Context, id string) (Test, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tests[id]
	if !ok {
		return Test{}, ErrTestNotFound
	}
	return cloneTest(t), nil
}

func (m *memoryStore) CreateAttempt(_ context.Context, a Attempt) (Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tests[a.TestID]; !ok {
		return Attempt{}, ErrTestNotFound
	}
	for i := range a.Answers {
		a.Answers[i].AttemptID = a.ID
	}
	m.attempts[a.ID] = a
	return a, nil
}

func (m *memoryStore) GetAttempt(_ context.Context, id string) (Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.attempts[id]
	if !ok {
		return Attempt{}, ErrAttemptNotFound
	}
	return a, nil
}

func (m *memoryStore) ListAttempts(_ context.Context, opts AttemptListOpts) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Attempt, 0)
	for _, a := range m.attempts {
		if opts.TestID != "" && a.TestID != opts.TestID {
			continue
		}
		if opts.StudentID != "" && a.StudentID != opts.StudentID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func cloneTest(t Test) Test {
	qs := make([]Question, len(t.Questions))
	copy(qs, t.Questions)
	for i := range qs {
		opts := make([]Option, len(qs[i].Options))
		copy(opts, qs[i].Options)
		qs[i].Options = opts
	}
	t.Questions = qs
	return t
}

// stripAnswerKeys hides correctness data when serving a test to students.
func stripAnswerKeys(t *Test) {
	for i := range t.Questions {
		t.Questions[i].CorrectAnswer = ""
		t.Questions[i].Explanation = ""
		for j := range t.Questions[i].Options {
			t.Questions[i].Options[j].IsCorrect = false
		}
	}
}
