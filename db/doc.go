// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the SQLite store: opening it, creating the schema and
handing out request-scoped connections.

# Opening

Open uses the CGO-free modernc.org/sqlite driver with foreign keys enforced
and a 5s busy timeout:

	conn, err := db.Open(cfg.DatabasePath)
	if err := db.CreateSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

Safe to call CreateSchema multiple times - uses IF NOT EXISTS for all tables
and indexes.

# Tables

  - users: id, name (unique), password (bcrypt hash), expert, admin
  - questions: id, question_text, answer_text, status, asked_by_id, expert_id
  - sessions: token, user_name, expires_at (unix seconds)

expert and admin are CHECKed to 0 or 1. questions.status is 'unanswered' or
'answered' and a table CHECK keeps it in step with answer_text being set.

# Relationships

	users 1──* questions (asked_by_id)
	users 1──* questions (expert_id)

# Request-scoped connections

WithConnection wraps a handler so that the first call to Conn during the
request acquires a *sql.Conn from the pool; later calls reuse it, and the
connection is released when the handler returns:

	mux.HandleFunc("GET /", db.WithConnection(pool, handler))

	func handler(w http.ResponseWriter, r *http.Request) {
		conn, err := db.Conn(r.Context())
		...
	}

Scope does the same for code that is not an HTTP handler.
*/
package db
