package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EnsureAdmin creates the configured admin account if no row with that
// username exists yet. passHash must already be a bcrypt hash.
func EnsureAdmin(ctx context.Context, db *sql.DB, username, passHash string) error {
	var exists int
	err := db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE username=$1`, username).Scan(&exists)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, role, created_at)
		 VALUES ($1,$2,$3,'admin',$4)`,
		uuid.NewString(), username, passHash, time.Now().Unix())
	return err
}
