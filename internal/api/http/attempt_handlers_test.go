package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examstack/examstack/internal/exam"
	"github.com/examstack/examstack/internal/grading"
	"github.com/examstack/examstack/internal/rbac"
)

func seedTest() exam.Test {
	return exam.Test{
		ID:              "t1",
		Title:           "Basics",
		DurationMinutes: 10,
		TotalMarks:      2,
		Questions: []exam.Question{
			{
				ID: "q1", Prompt: "1+1?", Type: exam.TypeMCQ, Marks: 1,
				Options: []exam.Option{
					{ID: "o1", Text: "2", IsCorrect: true},
					{ID: "o2", Text: "3"},
				},
			},
			{
				ID: "q2", Prompt: "Water?", Type: exam.TypeFIB, Marks: 1,
				CorrectAnswer: "H2O",
			},
		},
	}
}

// identityMiddleware stands in for the JWT middleware in tests.
func identityMiddleware(sub, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := rbac.WithSubject(r.Context(), sub)
			ctx = rbac.WithRole(ctx, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(t *testing.T, sub, role string) (chi.Router, exam.Store) {
	t.Helper()
	store := exam.NewInMemoryStore()
	require.NoError(t, store.PutTest(context.Background(), seedTest()))
	svc := exam.NewService(store, grading.NewGrader(), nil, nil)

	r := chi.NewRouter()
	r.Use(identityMiddleware(sub, role))
	r.Post("/tests/{testID}/submit", SubmitAttemptHandler(svc))
	r.Get("/tests/{testID}", GetTestHandler(store))
	r.Get("/attempts/{attemptID}", GetAttemptResultsHandler(svc))
	r.Get("/attempts", ListAttemptsHandler(store))
	return r, store
}

func doReq(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitAndResults(t *testing.T) {
	r, _ := newRouter(t, "stu-1", "student")

	w := doReq(r, http.MethodPost, "/tests/t1/submit",
		`{"answers":{"q1":"o1","q2":" h2o "}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	attemptID := created["attempt_id"]
	require.NotEmpty(t, attemptID)

	w = doReq(r, http.MethodGet, "/attempts/"+attemptID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var res exam.AttemptResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Attempt.Score)
	assert.InDelta(t, 100.0, res.Attempt.Accuracy, 1e-9)
	assert.Equal(t, 0, res.Skipped)
	assert.Len(t, res.Questions, 2)
}

func TestSubmit_UnknownTest(t *testing.T) {
	r, _ := newRouter(t, "stu-1", "student")

	w := doReq(r, http.MethodPost, "/tests/ghost/submit", `{"answers":{}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmit_NoIdentity(t *testing.T) {
	r, _ := newRouter(t, "", "")

	w := doReq(r, http.MethodPost, "/tests/t1/submit", `{"answers":{}}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubmit_ClientCorrectnessFlagIsIgnored(t *testing.T) {
	r, _ := newRouter(t, "stu-1", "student")

	// extra fields in the payload (e.g. an asserted is_correct) do not
	// reach scoring; the wrong option still scores zero
	w := doReq(r, http.MethodPost, "/tests/t1/submit",
		`{"answers":{"q1":"o2"},"is_correct":true,"score":99}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	res := doReq(r, http.MethodGet, "/attempts/"+created["attempt_id"], "")
	var out exam.AttemptResult
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &out))
	assert.Equal(t, 0, out.Attempt.Score)
}

func TestResults_OtherStudentForbidden(t *testing.T) {
	r, store := newRouter(t, "stu-1", "student")

	w := doReq(r, http.MethodPost, "/tests/t1/submit", `{"answers":{"q1":"o1"}}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	other := chi.NewRouter()
	other.Use(identityMiddleware("stu-2", "student"))
	svc := exam.NewService(store, grading.NewGrader(), nil, nil)
	other.Get("/attempts/{attemptID}", GetAttemptResultsHandler(svc))

	res := doReq(other, http.MethodGet, "/attempts/"+created["attempt_id"], "")
	assert.Equal(t, http.StatusForbidden, res.Code)
}

func TestListAttempts_StudentScopedToSelf(t *testing.T) {
	r, store := newRouter(t, "stu-1", "student")

	// seed an attempt belonging to someone else directly in the store
	_, err := store.CreateAttempt(context.Background(), exam.Attempt{
		ID: "a-other", StudentID: "stu-2", TestID: "t1",
	})
	require.NoError(t, err)

	w := doReq(r, http.MethodPost, "/tests/t1/submit", `{"answers":{"q1":"o1"}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	res := doReq(r, http.MethodGet, "/attempts?student_id=stu-2", "")
	require.Equal(t, http.StatusOK, res.Code)

	var list []exam.Attempt
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.Len(t, list, 1, "the student_id filter must be overridden for students")
	assert.Equal(t, "stu-1", list[0].StudentID)
}

func TestGetTest_NoAnswerKeysInPayload(t *testing.T) {
	r, _ := newRouter(t, "stu-1", "student")

	w := doReq(r, http.MethodGet, "/tests/t1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "is_correct")
	assert.NotContains(t, w.Body.String(), "correct_answer")
}
