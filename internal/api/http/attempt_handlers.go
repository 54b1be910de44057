package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/examstack/examstack/internal/exam"
	"github.com/examstack/examstack/internal/rbac"
)

// POST /tests/{testID}/submit  { "answers": { questionID: submittedValue } }
// The payload carries only submitted values. Correctness is recomputed
// server-side; a client-asserted flag has no field to land in.
func SubmitAttemptHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		testID := chi.URLParam(r, "testID")
		var req struct {
			Answers map[string]string `json:"answers"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		attemptID, err := svc.Submit(r.Context(), testID, contextIdentity{}, req.Answers)
		switch {
		case errors.Is(err, exam.ErrUnauthorized):
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		case errors.Is(err, exam.ErrTestNotFound):
			http.Error(w, "test not found", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, "submission failed, please retry", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"attempt_id": attemptID})
	}
}

// GET /attempts/{attemptID} — results view: score, accuracy, per-question
// breakdown. Students may only read their own attempts.
func GetAttemptResultsHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		res, err := svc.Results(r.Context(), id)
		if errors.Is(err, exam.ErrAttemptNotFound) {
			http.Error(w, "attempt not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		role := rbac.RoleFromContext(r.Context())
		sub := rbac.SubjectFromContext(r.Context())
		if role != "admin" && res.Attempt.StudentID != sub {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// GET /attempts?test_id=...&student_id=...&limit=50&offset=0
// Students are forced onto their own attempts; admins may use any filter.
func ListAttemptsHandler(store exam.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		sub := rbac.SubjectFromContext(r.Context())
		if role == "" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		studentID := strings.TrimSpace(r.URL.Query().Get("student_id"))
		if role != "admin" {
			studentID = sub
		}

		list, err := store.ListAttempts(r.Context(), exam.AttemptListOpts{
			TestID:    strings.TrimSpace(r.URL.Query().Get("test_id")),
			StudentID: studentID,
			Limit:     parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:    parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
