package exam

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examstack/examstack/internal/grading"
)

type staticIdentity string

func (s staticIdentity) Resolve(context.Context) (string, error) {
	if s == "" {
		return "", ErrUnauthorized
	}
	return string(s), nil
}

type recordingNotifier struct {
	students []string
	attempts []string
	err      error
}

func (n *recordingNotifier) AttemptSubmitted(_ context.Context, studentID, attemptID string) error {
	n.students = append(n.students, studentID)
	n.attempts = append(n.attempts, attemptID)
	return n.err
}

func mcq(id, correctOpt string, marks int) Question {
	return Question{
		ID:     id,
		Prompt: "prompt " + id,
		Type:   TypeMCQ,
		Marks:  marks,
		Options: []Option{
			{ID: correctOpt, Text: "right", IsCorrect: true},
			{ID: id + "-wrong", Text: "wrong"},
		},
	}
}

func fourMCQTest() Test {
	return Test{
		ID:              "t1",
		Title:           "Basics",
		DurationMinutes: 30,
		TotalMarks:      4,
		Questions: []Question{
			mcq("q1", "q1-right", 1),
			mcq("q2", "q2-right", 1),
			mcq("q3", "q3-right", 1),
			mcq("q4", "q4-right", 1),
		},
	}
}

func newTestService(t *testing.T, tests ...Test) (*Service, Store, *recordingNotifier) {
	t.Helper()
	store := NewInMemoryStore()
	for _, tt := range tests {
		require.NoError(t, store.PutTest(context.Background(), tt))
	}
	notify := &recordingNotifier{}
	return NewService(store, grading.NewGrader(), notify, nil), store, notify
}

func TestSubmit_EndToEnd(t *testing.T) {
	// 4 MCQ questions, 1 mark each: 3 answered correctly, 1 skipped.
	svc, store, notify := newTestService(t, fourMCQTest())

	id, err := svc.Submit(context.Background(), "t1", staticIdentity("stu-1"), map[string]string{
		"q1": "q1-right",
		"q2": "q2-right",
		"q3": "q3-right",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	a, err := store.GetAttempt(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "stu-1", a.StudentID)
	assert.Equal(t, "t1", a.TestID)
	assert.Equal(t, 3, a.Score)
	assert.InDelta(t, 75.0, a.Accuracy, 1e-9)
	assert.Len(t, a.Answers, 3)

	res, err := svc.Results(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalQuestions)
	assert.Equal(t, 3, res.CorrectCount)
	assert.Equal(t, 1, res.Skipped)

	require.Len(t, notify.attempts, 1)
	assert.Equal(t, id, notify.attempts[0])
	assert.Equal(t, []string{"stu-1"}, notify.students)
}

func TestSubmit_Unauthorized(t *testing.T) {
	svc, store, notify := newTestService(t, fourMCQTest())

	_, err := svc.Submit(context.Background(), "t1", staticIdentity(""), map[string]string{"q1": "q1-right"})
	require.ErrorIs(t, err, ErrUnauthorized)

	// no side effects
	list, err := store.ListAttempts(context.Background(), AttemptListOpts{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, notify.attempts)
}

func TestSubmit_TestNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), "missing", staticIdentity("stu-1"), nil)
	assert.ErrorIs(t, err, ErrTestNotFound)
}

func TestSubmit_UnknownQuestionIDsIgnored(t *testing.T) {
	svc, store, _ := newTestService(t, fourMCQTest())

	id, err := svc.Submit(context.Background(), "t1", staticIdentity("stu-1"), map[string]string{
		"q1":       "q1-right",
		"ghost-q":  "whatever",
		"other-q9": "o1",
	})
	require.NoError(t, err)

	a, err := store.GetAttempt(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Score)
	assert.Len(t, a.Answers, 1, "unknown ids must not produce answer rows")
}

func TestSubmit_EmptyAnswerMap(t *testing.T) {
	svc, store, _ := newTestService(t, fourMCQTest())

	id, err := svc.Submit(context.Background(), "t1", staticIdentity("stu-1"), map[string]string{})
	require.NoError(t, err)

	a, err := store.GetAttempt(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Score)
	assert.Zero(t, a.Accuracy)
	assert.Empty(t, a.Answers)
}

func TestSubmit_WrongAnswersStillGetAnswerRows(t *testing.T) {
	svc, store, _ := newTestService(t, fourMCQTest())

	id, err := svc.Submit(context.Background(), "t1", staticIdentity("stu-1"), map[string]string{
		"q1": "q1-wrong",
		"q2": "q2-right",
	})
	require.NoError(t, err)

	a, err := store.GetAttempt(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Score)
	assert.InDelta(t, 25.0, a.Accuracy, 1e-9)
	require.Len(t, a.Answers, 2)

	byQ := map[string]Answer{}
	for _, ans := range a.Answers {
		byQ[ans.QuestionID] = ans
	}
	assert.False(t, byQ["q1"].IsCorrect)
	assert.True(t, byQ["q2"].IsCorrect)
}

func TestSubmit_MixedTypesAndMarks(t *testing.T) {
	tt := Test{
		ID:              "t2",
		Title:           "Mixed",
		DurationMinutes: 45,
		TotalMarks:      10,
		Questions: []Question{
			mcq("q1", "q1-right", 2),
			{
				ID: "q2", Prompt: "Water?", Type: TypeFIB, Marks: 3,
				CorrectAnswer: "H2O",
			},
			{
				ID: "q3", Prompt: "Pair up", Type: TypeMatching, Marks: 5,
				CorrectAnswer: "a-1,b-2",
			},
		},
	}
	svc, store, _ := newTestService(t, tt)

	id, err := svc.Submit(context.Background(), "t2", staticIdentity("stu-1"), map[string]string{
		"q1": "q1-right",
		"q2": " h2o ",
		"q3": "a-2,b-1",
	})
	require.NoError(t, err)

	a, err := store.GetAttempt(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 5, a.Score) // 2 + 3, matching wrong
	assert.InDelta(t, 100.0*2/3, a.Accuracy, 1e-9)
	assert.GreaterOrEqual(t, a.Score, 0)
	assert.LessOrEqual(t, a.Score, tt.TotalMarks)
}

func TestSubmit_DeterministicScoringNewAttemptEachCall(t *testing.T) {
	svc, store, _ := newTestService(t, fourMCQTest())
	answers := map[string]string{"q1": "q1-right", "q2": "q2-wrong"}

	id1, err := svc.Submit(context.Background(), "t1", staticIdentity("stu-1"), answers)
	require.NoError(t, err)
	id2, err := svc.Submit(context.Background(), "t1", staticIdentity("stu-1"), answers)
	require.NoError(t, err)
	require.NotEqual(t, id1, id2, "each submission creates a new attempt")

	a1, err := store.GetAttempt(context.Background(), id1)
	require.NoError(t, err)
	a2, err := store.GetAttempt(context.Background(), id2)
	require.NoError(t, err)
	assert.Equal(t, a1.Score, a2.Score)
	assert.Equal(t, a1.Accuracy, a2.Accuracy)

	list, err := store.ListAttempts(context.Background(), AttemptListOpts{StudentID: "stu-1", TestID: "t1"})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSubmit_NotifierFailureDoesNotFailSubmission(t *testing.T) {
	store := NewInMemoryStore()
	require.NoError(t, store.PutTest(context.Background(), fourMCQTest()))
	notify := &recordingNotifier{err: errors.New("event log down")}
	svc := NewService(store, grading.NewGrader(), notify, nil)

	id, err := svc.Submit(context.Background(), "t1", staticIdentity("stu-1"), map[string]string{"q1": "q1-right"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestResults_AttemptNotFound(t *testing.T) {
	svc, _, _ := newTestService(t, fourMCQTest())

	_, err := svc.Results(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

func TestGetTest_StripsAnswerKeys(t *testing.T) {
	store := NewInMemoryStore()
	tt := fourMCQTest()
	tt.Questions[0].CorrectAnswer = "leak"
	require.NoError(t, store.PutTest(context.Background(), tt))

	got, err := store.GetTest(context.Background(), "t1")
	require.NoError(t, err)
	for _, q := range got.Questions {
		assert.Empty(t, q.CorrectAnswer)
		for _, o := range q.Options {
			assert.False(t, o.IsCorrect)
		}
	}

	// the scoring path still sees the full data
	full, err := store.GetTestAdmin(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, full.Questions[0].Options[0].IsCorrect)
}
