package dashboard

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Log records submission events keyed by student so cached dashboard views
// can be rebuilt lazily. Appends are at-least-once and best-effort: a lost
// event only delays a dashboard refresh, it never affects scoring.
type Log struct{ db *sql.DB }

func NewLog(db *sql.DB) *Log { return &Log{db: db} }

func (l *Log) AttemptSubmitted(ctx context.Context, studentID, attemptID string) error {
	data, _ := json.Marshal(map[string]string{"attempt_id": attemptID})
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		"AttemptSubmitted", studentID, string(data), time.Now().Unix())
	return err
}
