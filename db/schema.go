// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// Open opens the SQLite database file at path with foreign keys enforced
// and a busy timeout so concurrent writers wait for the lock.
func Open(path string) (*sql.DB, error) {
	// Path escaped so '?' and '#' stay part of the file name
	dsn := (&url.URL{
		Scheme:   "file",
		Path:     path,
		RawQuery: "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)",
	}).String()
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// GrantAdmins sets the admin flag on every existing user named in names.
// Names without a matching user are skipped.
func GrantAdmins(ctx context.Context, q Querier, names []string) (int64, error) {
	var granted int64
	for _, name := range names {
		res, err := q.ExecContext(ctx, `UPDATE users SET admin = 1 WHERE name = ? AND admin = 0`, name)
		if err != nil {
			return granted, fmt.Errorf("failed to grant admin to %q: %w", name, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return granted, fmt.Errorf("failed to grant admin to %q: %w", name, err)
		}
		granted += n
	}
	return granted, nil
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    expert INTEGER NOT NULL DEFAULT 0 CHECK (expert IN (0, 1)),
    admin INTEGER NOT NULL DEFAULT 0 CHECK (admin IN (0, 1))
);

-- Questions
CREATE TABLE IF NOT EXISTS questions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question_text TEXT NOT NULL,
    answer_text TEXT,
    status TEXT NOT NULL DEFAULT 'unanswered' CHECK (status IN ('unanswered', 'answered')),
    asked_by_id INTEGER NOT NULL REFERENCES users(id),
    expert_id INTEGER NOT NULL REFERENCES users(id),
    CHECK ((status = 'answered') = (answer_text IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_questions_status ON questions(status);
CREATE INDEX IF NOT EXISTS idx_questions_expert_status ON questions(expert_id, status);

-- Sessions
CREATE TABLE IF NOT EXISTS sessions (
    token TEXT PRIMARY KEY,
    user_name TEXT NOT NULL,
    expires_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at);
`
