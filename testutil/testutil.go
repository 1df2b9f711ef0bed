// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/ask-expert/auth"
	"github.com/danielhkuo/ask-expert/cliparse"
	"github.com/danielhkuo/ask-expert/db"
	"github.com/danielhkuo/ask-expert/models"
)

// TestPassword is the password given to every fixture user
const TestPassword = "password123"

// SetupTestDB creates a fresh SQLite database file with the full schema.
// It is closed and removed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          5000,
		DatabasePath:  "test.db",
		SessionSecret: "test-session-secret",
		SessionTTL:    time.Hour,
	}
}

// GetTestSessions returns the session store matching GetTestConfig
func GetTestSessions() *auth.Sessions {
	cfg := GetTestConfig()
	return auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)
}

// CreateTestUser inserts a user with TestPassword and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, name string, expert, admin bool) int64 {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	res, err := conn.Exec(`
		INSERT INTO users (name, password, expert, admin)
		VALUES (?, ?, ?, ?)
	`, name, hash, expert, admin)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	id, _ := res.LastInsertId()
	return id
}

// CreateTestQuestion inserts a question and returns its ID.
// An empty answer leaves the question unanswered.
func CreateTestQuestion(t *testing.T, conn *sql.DB, text string, askedBy, expertID int64, answer string) int64 {
	t.Helper()

	status := models.StatusUnanswered
	var answerText *string
	if answer != "" {
		status = models.StatusAnswered
		answerText = &answer
	}

	res, err := conn.Exec(`
		INSERT INTO questions (question_text, answer_text, status, asked_by_id, expert_id)
		VALUES (?, ?, ?, ?, ?)
	`, text, answerText, string(status), askedBy, expertID)
	if err != nil {
		t.Fatalf("Failed to create test question: %v", err)
	}

	id, _ := res.LastInsertId()
	return id
}

// GetQuestion reads a question row directly
func GetQuestion(t *testing.T, conn *sql.DB, id int64) models.Question {
	t.Helper()

	var q models.Question
	err := conn.QueryRow(`
		SELECT id, question_text, answer_text, status, asked_by_id, expert_id
		FROM questions WHERE id = ?
	`, id).Scan(&q.ID, &q.Text, &q.Answer, &q.Status, &q.AskedBy, &q.ExpertID)
	if err != nil {
		t.Fatalf("Failed to read question %d: %v", id, err)
	}
	return q
}

// LoginAs starts a session for name and returns its cookie
func LoginAs(t *testing.T, conn *sql.DB, sessions *auth.Sessions, name string) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	if err := sessions.Start(context.Background(), conn, w, name); err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatal("No session cookie set")
	return nil
}

// MakeRequest creates an HTTP test request. A non-nil form is sent as a
// url-encoded body; a non-nil cookie is attached.
func MakeRequest(method, path string, form url.Values, cookie *http.Cookie) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	if cookie != nil {
		req.AddCookie(cookie)
	}

	return req
}

// Serve runs handler inside a connection scope, as the router does
func Serve(conn *sql.DB, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	db.WithConnection(conn, handler)(w, req)
	return w
}

// SessionCookie returns the session cookie set on a response, or nil
func SessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName && c.MaxAge >= 0 {
			return c
		}
	}
	return nil
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertRedirect checks for a 303 to the expected location
func AssertRedirect(t *testing.T, w *httptest.ResponseRecorder, location string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Errorf("Expected redirect 303, got %d. Body: %s", w.Code, w.Body.String())
		return
	}
	if got := w.Header().Get("Location"); got != location {
		t.Errorf("Expected redirect to %q, got %q", location, got)
	}
}

// AssertBodyContains checks the response body for each substring
func AssertBodyContains(t *testing.T, w *httptest.ResponseRecorder, subs ...string) {
	t.Helper()
	body := w.Body.String()
	for _, s := range subs {
		if !strings.Contains(body, s) {
			t.Errorf("Expected body to contain %q. Body: %s", s, body)
		}
	}
}
