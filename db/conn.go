// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

var ErrNoConnection = errors.New("no request-scoped connection")

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx used by the
// application.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scopeKey struct{}

// scope holds at most one connection, acquired on first use.
type scope struct {
	mu   sync.Mutex
	pool *sql.DB
	conn *sql.Conn
}

func (s *scope) get(ctx context.Context) (*sql.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := s.pool.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	s.conn = conn
	return conn, nil
}

func (s *scope) release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Scope binds a lazily acquired connection to ctx. The returned release
// function returns the connection to the pool and must always be called.
func Scope(ctx context.Context, pool *sql.DB) (context.Context, func() error) {
	s := &scope{pool: pool}
	return context.WithValue(ctx, scopeKey{}, s), s.release
}

// Conn returns the connection bound to ctx, opening it on first use.
// Later calls within the same scope return the same connection.
func Conn(ctx context.Context) (*sql.Conn, error) {
	s, ok := ctx.Value(scopeKey{}).(*scope)
	if !ok {
		return nil, ErrNoConnection
	}
	return s.get(ctx)
}

// WithConnection gives each request its own connection scope and releases
// the connection when the handler returns, including on panic.
func WithConnection(pool *sql.DB, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, release := Scope(r.Context(), pool)
		defer func() {
			if err := release(); err != nil {
				slog.Error("failed to release connection", "error", err, "path", r.URL.Path)
			}
		}()

		next(w, r.WithContext(ctx))
	}
}
