package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/examstack/examstack/internal/exam"
	"github.com/examstack/examstack/internal/rbac"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// contextIdentity resolves the caller from the subject the JWT middleware
// attached to the request context.
type contextIdentity struct{}

func (contextIdentity) Resolve(ctx context.Context) (string, error) {
	sub := rbac.SubjectFromContext(ctx)
	if sub == "" {
		return "", exam.ErrUnauthorized
	}
	return sub, nil
}
