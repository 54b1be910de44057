package exam

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// PutTest replaces the test and its question/option rows in one
// transaction. Attempts referencing the test are left untouched.
func (s *SQLStore) PutTest(ctx context.Context, t Test) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	createdAt := t.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().Unix()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO tests (id, title, duration_minutes, total_marks, created_at)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title,
		   duration_minutes=EXCLUDED.duration_minutes, total_marks=EXCLUDED.total_marks`,
		t.ID, t.Title, t.DurationMinutes, t.TotalMarks, createdAt); err != nil {
		return fmt.Errorf("upsert test: %w", err)
	}
	// options go with their questions via ON DELETE CASCADE
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE test_id=$1`, t.ID); err != nil {
		return fmt.Errorf("clear questions: %w", err)
	}
	for i, q := range t.Questions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (id, test_id, prompt, qtype, marks, correct_answer, explanation, position)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			q.ID, t.ID, q.Prompt, string(q.Type), q.Marks, q.CorrectAnswer, q.Explanation, i); err != nil {
			return fmt.Errorf("insert question %s: %w", q.ID, err)
		}
		for j, o := range q.Options {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO options (id, question_id, text, is_correct, match_text, position)
				 VALUES ($1,$2,$3,$4,$5,$6)`,
				o.ID, q.ID, o.Text, o.IsCorrect, o.MatchText, j); err != nil {
				return fmt.Errorf("insert option %s: %w", o.ID, err)
			}
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetTest(ctx context.Context, id string) (Test, error) {
	t, err := s.GetTestAdmin(ctx, id)
	if err != nil {
		return Test{}, err
	}
	stripAnswerKeys(&t)
	return t, nil
}

func (s *SQLStore) GetTestAdmin(ctx context.Context, id string) (Test, error) {
	var t Test
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, duration_minutes, total_marks, created_at FROM tests WHERE id=$1`, id).
		Scan(&t.ID, &t.Title, &t.DurationMinutes, &t.TotalMarks, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Test{}, ErrTestNotFound
	}
	if err != nil {
		return Test{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, prompt, qtype, marks, correct_answer, explanation
		 FROM questions WHERE test_id=$1 ORDER BY position`, id)
	if err != nil {
		return Test{}, err
	}
	defer rows.Close()
	for rows.Next() {
		q := Question{TestID: t.ID}
		var qtype string
		if err := rows.Scan(&q.ID, &q.Prompt, &qtype, &q.Marks, &q.CorrectAnswer, &q.Explanation); err != nil {
			return Test{}, err
		}
		q.Type = QuestionType(qtype)
		t.Questions = append(t.Questions, q)
	}
	if err := rows.Err(); err != nil {
		return Test{}, err
	}

	for i := range t.Questions {
		opts, err := s.loadOptions(ctx, t.Questions[i].ID)
		if err != nil {
			return Test{}, err
		}
		t.Questions[i].Options = opts
	}
	return t, nil
}

func (s *SQLStore) loadOptions(ctx context.Context, questionID string) ([]Option, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, is_correct, match_text FROM options
		 WHERE question_id=$1 ORDER BY position`, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Option
	for rows.Next() {
		o := Option{QuestionID: questionID}
		if err := rows.Scan(&o.ID, &o.Text, &o.IsCorrect, &o.MatchText); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// CreateAttempt writes the attempt row and its full answer batch in one
// transaction. Concurrent readers never observe a partial attempt.
func (s *SQLStore) CreateAttempt(ctx context.Context, a Attempt) (Attempt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Attempt{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO attempts (id, student_id, test_id, score, accuracy, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.StudentID, a.TestID, a.Score, a.Accuracy, a.CreatedAt); err != nil {
		return Attempt{}, fmt.Errorf("insert attempt: %w", err)
	}
	for i := range a.Answers {
		a.Answers[i].AttemptID = a.ID
		ans := a.Answers[i]
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO answers (id, attempt_id, question_id, submitted_value, is_correct, position)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			ans.ID, ans.AttemptID, ans.QuestionID, ans.SubmittedValue, ans.IsCorrect, i); err != nil {
			return Attempt{}, fmt.Errorf("insert answer for %s: %w", ans.QuestionID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	var a Attempt
	err := s.db.QueryRowContext(ctx,
		`SELECT id, student_id, test_id, score, accuracy, created_at FROM attempts WHERE id=$1`, id).
		Scan(&a.ID, &a.StudentID, &a.TestID, &a.Score, &a.Accuracy, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Attempt{}, ErrAttemptNotFound
	}
	if err != nil {
		return Attempt{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question_id, submitted_value, is_correct FROM answers
		 WHERE attempt_id=$1 ORDER BY position`, id)
	if err != nil {
		return Attempt{}, err
	}
	defer rows.Close()
	for rows.Next() {
		ans := Answer{AttemptID: a.ID}
		if err := rows.Scan(&ans.ID, &ans.QuestionID, &ans.SubmittedValue, &ans.IsCorrect); err != nil {
			return Attempt{}, err
		}
		a.Answers = append(a.Answers, ans)
	}
	return a, rows.Err()
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	query := `SELECT id, student_id, test_id, score, accuracy, created_at FROM attempts`
	args := []any{}
	where := ""
	add := func(cond string, v any) {
		args = append(args, v)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(cond, len(args))
	}
	if opts.TestID != "" {
		add("test_id=$%d", opts.TestID)
	}
	if opts.StudentID != "" {
		add("student_id=$%d", opts.StudentID)
	}
	query += where + " ORDER BY created_at DESC"
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]Attempt, 0)
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.StudentID, &a.TestID, &a.Score, &a.Accuracy, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
