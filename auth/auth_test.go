// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/ask-expert/db"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	return conn
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "hunter2" || strings.Contains(hash, "hunter2") {
		t.Error("HashPassword() leaked the plaintext")
	}
	if !CheckPassword(hash, "hunter2") {
		t.Error("CheckPassword() rejected the correct password")
	}
	if CheckPassword(hash, "hunter3") {
		t.Error("CheckPassword() accepted a wrong password")
	}
	if CheckPassword("not-a-hash", "hunter2") {
		t.Error("CheckPassword() accepted a malformed hash")
	}

	// Salted: same input, different hash
	hash2, _ := HashPassword("hunter2")
	if hash == hash2 {
		t.Error("HashPassword() is not salted")
	}
}

func TestHashPassword_Length(t *testing.T) {
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Errorf("HashPassword() rejected a %d-byte password: %v", MaxPasswordBytes, err)
	}
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("HashPassword() error = %v, want %v", err, ErrPasswordTooLong)
	}
}

func TestNewSessionToken(t *testing.T) {
	t1 := NewSessionToken()
	t2 := NewSessionToken()
	if t1 == "" || t1 == t2 {
		t.Errorf("NewSessionToken() produced %q and %q", t1, t2)
	}
}

func TestVerifyToken(t *testing.T) {
	secret := "test-secret"
	token := NewSessionToken()
	valid := SignToken(token, secret)

	if strings.Contains(valid, "=") {
		t.Error("SignToken() contains padding characters")
	}

	tests := []struct {
		name    string
		value   string
		secret  string
		wantErr bool
	}{
		{"valid", valid, secret, false},
		{"wrong secret", valid, "other-secret", true},
		{"tampered token", "x" + valid, secret, true},
		{"tampered signature", valid + "x", secret, true},
		{"unsigned", token, secret, true},
		{"trailing dot", token + ".", secret, true},
		{"empty", "", secret, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyToken(tt.value, tt.secret)
			if (err != nil) != tt.wantErr {
				t.Fatalf("VerifyToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidSession) {
				t.Errorf("VerifyToken() error = %v, want %v", err, ErrInvalidSession)
			}
			if !tt.wantErr && got != token {
				t.Errorf("VerifyToken() = %q, want %q", got, token)
			}
		})
	}
}

// requestWith builds a request carrying the cookies set on w.
func requestWith(w *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestSessions_Lifecycle(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	sessions := NewSessions("secret", time.Hour, true)

	hash, _ := HashPassword("pw")
	if _, err := conn.Exec(`INSERT INTO users (name, password, expert) VALUES ('alice', ?, 1)`, hash); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	w := httptest.NewRecorder()
	if err := sessions.Start(ctx, conn, w, "alice"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("Expected one %q cookie, got %v", CookieName, cookies)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Error("Session cookie should be HttpOnly and Secure")
	}

	req := requestWith(w)
	name, err := sessions.UserName(ctx, conn, req)
	if err != nil || name != "alice" {
		t.Fatalf("UserName() = %q, %v", name, err)
	}

	user, err := sessions.CurrentUser(ctx, conn, req)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if user == nil || user.Name != "alice" || !user.Expert || user.Admin {
		t.Fatalf("CurrentUser() = %+v", user)
	}

	// Sessions are stored server-side, so a new Sessions value with the
	// same secret (a restarted process) still recognises the cookie
	restarted := NewSessions("secret", time.Hour, true)
	if name, err := restarted.UserName(ctx, conn, req); err != nil || name != "alice" {
		t.Errorf("Session did not survive restart: %q, %v", name, err)
	}

	out := httptest.NewRecorder()
	if err := sessions.End(ctx, conn, out, req); err != nil {
		t.Fatalf("End() error = %v", err)
	}
	cleared := out.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Errorf("End() should expire the cookie, got %v", cleared)
	}

	if _, err := sessions.UserName(ctx, conn, req); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("UserName() after End = %v, want ErrInvalidSession", err)
	}
}

func TestSessions_CurrentUserAbsent(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	sessions := NewSessions("secret", time.Hour, false)

	t.Run("no cookie", func(t *testing.T) {
		user, err := sessions.CurrentUser(ctx, conn, httptest.NewRequest("GET", "/", nil))
		if err != nil || user != nil {
			t.Errorf("CurrentUser() = %v, %v; want nil, nil", user, err)
		}
	})

	t.Run("forged cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: SignToken("guess", "wrong")})
		user, err := sessions.CurrentUser(ctx, conn, req)
		if err != nil || user != nil {
			t.Errorf("CurrentUser() = %v, %v; want nil, nil", user, err)
		}
	})

	t.Run("user no longer exists", func(t *testing.T) {
		w := httptest.NewRecorder()
		if err := sessions.Start(ctx, conn, w, "ghost"); err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		user, err := sessions.CurrentUser(ctx, conn, requestWith(w))
		if err != nil || user != nil {
			t.Errorf("CurrentUser() = %v, %v; want nil, nil", user, err)
		}
	})
}

func TestSessions_Expiry(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()
	sessions := NewSessions("secret", time.Minute, false)

	now := time.Now()
	sessions.now = func() time.Time { return now }

	w := httptest.NewRecorder()
	if err := sessions.Start(ctx, conn, w, "alice"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	req := requestWith(w)

	if _, err := sessions.UserName(ctx, conn, req); err != nil {
		t.Fatalf("Fresh session rejected: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := sessions.UserName(ctx, conn, req); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("Expired session accepted: %v", err)
	}

	// The next Start prunes the expired row
	if err := sessions.Start(ctx, conn, httptest.NewRecorder(), "bob"); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	var count int
	conn.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	if count != 1 {
		t.Errorf("Expected expired session pruned, %d rows remain", count)
	}
}

func TestLookupUser(t *testing.T) {
	conn := setupTestDB(t)
	ctx := context.Background()

	if _, err := conn.Exec(`INSERT INTO users (name, password, admin) VALUES ('root', 'h', 1)`); err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}

	user, err := LookupUser(ctx, conn, "root")
	if err != nil {
		t.Fatalf("LookupUser() error = %v", err)
	}
	if user.Name != "root" || !user.Admin || user.Expert || user.PasswordHash != "h" {
		t.Errorf("LookupUser() = %+v", user)
	}

	if _, err := LookupUser(ctx, conn, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("LookupUser() error = %v, want ErrUserNotFound", err)
	}
}
