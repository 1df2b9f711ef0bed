// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielhkuo/ask-expert/db"
	"github.com/danielhkuo/ask-expert/models"
)

// CookieName is the name of the session cookie.
const CookieName = "session"

// Sessions stores login sessions server-side, keyed by a signed cookie.
type Sessions struct {
	secret string
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration, secure bool) *Sessions {
	return &Sessions{secret: secret, ttl: ttl, secure: secure, now: time.Now}
}

// Start records a session for name and sets the session cookie.
// Expired sessions are pruned on the way.
func (s *Sessions) Start(ctx context.Context, q db.Querier, w http.ResponseWriter, name string) error {
	now := s.now()
	expires := now.Add(s.ttl)

	if _, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now.Unix()); err != nil {
		return fmt.Errorf("failed to prune sessions: %w", err)
	}

	token := NewSessionToken()
	_, err := q.ExecContext(ctx, `
		INSERT INTO sessions (token, user_name, expires_at)
		VALUES (?, ?, ?)
	`, token, name, expires.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    SignToken(token, s.secret),
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// UserName returns the user name stored in the request's session.
// It returns ErrInvalidSession when there is no valid, unexpired session.
func (s *Sessions) UserName(ctx context.Context, q db.Querier, r *http.Request) (string, error) {
	token, err := s.token(r)
	if err != nil {
		return "", err
	}

	var name string
	err = q.QueryRowContext(ctx, `
		SELECT user_name FROM sessions
		WHERE token = ? AND expires_at > ?
	`, token, s.now().Unix()).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to query session: %w", err)
	}
	return name, nil
}

// End deletes the request's session, if any, and expires the cookie.
func (s *Sessions) End(ctx context.Context, q db.Querier, w http.ResponseWriter, r *http.Request) error {
	if token, err := s.token(r); err == nil {
		if _, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// CurrentUser resolves the logged-in user. It returns nil, nil when there
// is no session or the session names a user that no longer exists.
func (s *Sessions) CurrentUser(ctx context.Context, q db.Querier, r *http.Request) (*models.User, error) {
	name, err := s.UserName(ctx, q, r)
	if errors.Is(err, ErrInvalidSession) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user, err := LookupUser(ctx, q, name)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Sessions) token(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrInvalidSession
	}
	return VerifyToken(cookie.Value, s.secret)
}

// LookupUser fetches a user by name.
func LookupUser(ctx context.Context, q db.Querier, name string) (*models.User, error) {
	var u models.User
	err := q.QueryRowContext(ctx, `
		SELECT id, name, password, expert, admin
		FROM users
		WHERE name = ?
	`, name).Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Expert, &u.Admin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}
