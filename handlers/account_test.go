// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/danielhkuo/ask-expert/testutil"
)

func TestRegister(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	cfg.AdminUsers = []string{"root"}
	sessions := testutil.GetTestSessions()
	handler := NewAccountHandler(sessions, cfg)

	existingID := testutil.CreateTestUser(t, conn, "taken", false, false)
	var originalHash string
	conn.QueryRow(`SELECT password FROM users WHERE id = ?`, existingID).Scan(&originalHash)

	tests := []struct {
		name        string
		form        url.Values
		wantError   string
		wantAdmin   bool
		wantSession bool
	}{
		{
			name:        "new user",
			form:        url.Values{"name": {"alice"}, "password": {"s3cret"}},
			wantSession: true,
		},
		{
			name:        "configured admin",
			form:        url.Values{"name": {"root"}, "password": {"s3cret"}},
			wantAdmin:   true,
			wantSession: true,
		},
		{
			name:      "duplicate name",
			form:      url.Values{"name": {"taken"}, "password": {"other"}},
			wantError: ErrMsgUserExists,
		},
		{
			name:      "missing password",
			form:      url.Values{"name": {"bob"}},
			wantError: ErrMsgCredentialsNeeded,
		},
		{
			name:      "password too long",
			form:      url.Values{"name": {"longpw"}, "password": {strings.Repeat("p", 100)}},
			wantError: ErrMsgPasswordTooLong,
		},
		{
			name:      "blank name",
			form:      url.Values{"name": {"   "}, "password": {"pw"}},
			wantError: ErrMsgCredentialsNeeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/register", tt.form, nil)
			w := testutil.Serve(conn, handler.Register, req)

			if tt.wantError != "" {
				testutil.AssertStatus(t, w, http.StatusOK)
				testutil.AssertBodyContains(t, w, tt.wantError)
				if testutil.SessionCookie(w) != nil {
					t.Error("Failed registration should not set a session")
				}
				return
			}

			testutil.AssertRedirect(t, w, "/")
			if tt.wantSession && testutil.SessionCookie(w) == nil {
				t.Error("Expected a session cookie")
			}

			name := tt.form.Get("name")
			var hash string
			var expert, admin bool
			err := conn.QueryRow(`SELECT password, expert, admin FROM users WHERE name = ?`, name).Scan(&hash, &expert, &admin)
			if err != nil {
				t.Fatalf("User not created: %v", err)
			}
			if hash == tt.form.Get("password") {
				t.Error("Password stored in plaintext")
			}
			if expert {
				t.Error("New users must not be experts")
			}
			if admin != tt.wantAdmin {
				t.Errorf("Expected admin=%v, got %v", tt.wantAdmin, admin)
			}
		})
	}

	// The duplicate attempt left exactly one row with the original hash
	var count int
	var hash string
	conn.QueryRow(`SELECT COUNT(*) FROM users WHERE name = 'longpw'`).Scan(&count)
	if count != 0 {
		t.Error("Rejected long password still created a user")
	}
	conn.QueryRow(`SELECT COUNT(*) FROM users WHERE name = 'taken'`).Scan(&count)
	conn.QueryRow(`SELECT password FROM users WHERE name = 'taken'`).Scan(&hash)
	if count != 1 {
		t.Errorf("Expected 1 row for 'taken', got %d", count)
	}
	if hash != originalHash {
		t.Error("Duplicate registration changed the original password hash")
	}
}

func TestRegister_SessionResolvesToNewUser(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	sessions := testutil.GetTestSessions()
	handler := NewAccountHandler(sessions, testutil.GetTestConfig())

	form := url.Values{"name": {"alice"}, "password": {"pw"}}
	w := testutil.Serve(conn, handler.Register, testutil.MakeRequest("POST", "/register", form, nil))
	testutil.AssertRedirect(t, w, "/")

	req := testutil.MakeRequest("GET", "/", nil, testutil.SessionCookie(w))
	name, err := sessions.UserName(context.Background(), conn, req)
	if err != nil || name != "alice" {
		t.Errorf("Expected session for alice, got %q, %v", name, err)
	}
}

func TestLogin(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	sessions := testutil.GetTestSessions()
	handler := NewAccountHandler(sessions, testutil.GetTestConfig())

	testutil.CreateTestUser(t, conn, "alice", false, false)

	tests := []struct {
		name      string
		form      url.Values
		wantError string
	}{
		{"correct password", url.Values{"name": {"alice"}, "password": {testutil.TestPassword}}, ""},
		{"wrong password", url.Values{"name": {"alice"}, "password": {"wrong"}}, ErrMsgPasswordIncorrect},
		{"empty password", url.Values{"name": {"alice"}, "password": {""}}, ErrMsgPasswordIncorrect},
		{"unknown user", url.Values{"name": {"mallory"}, "password": {testutil.TestPassword}}, ErrMsgUsernameIncorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/login", tt.form, nil)
			w := testutil.Serve(conn, handler.Login, req)

			if tt.wantError != "" {
				testutil.AssertStatus(t, w, http.StatusOK)
				testutil.AssertBodyContains(t, w, tt.wantError)
				if testutil.SessionCookie(w) != nil {
					t.Error("Failed login must not establish a session")
				}
				return
			}

			testutil.AssertRedirect(t, w, "/")
			cookie := testutil.SessionCookie(w)
			if cookie == nil {
				t.Fatal("Expected a session cookie")
			}
			name, err := sessions.UserName(context.Background(), conn, testutil.MakeRequest("GET", "/", nil, cookie))
			if err != nil || name != "alice" {
				t.Errorf("Expected session for alice, got %q, %v", name, err)
			}
		})
	}

	var sessionsCount int
	conn.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&sessionsCount)
	if sessionsCount != 1 {
		t.Errorf("Expected exactly one session from the successful login, got %d", sessionsCount)
	}
}

func TestLogout(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	sessions := testutil.GetTestSessions()
	handler := NewAccountHandler(sessions, testutil.GetTestConfig())

	testutil.CreateTestUser(t, conn, "alice", false, false)
	cookie := testutil.LoginAs(t, conn, sessions, "alice")

	w := testutil.Serve(conn, handler.Logout, testutil.MakeRequest("GET", "/logout", nil, cookie))
	testutil.AssertRedirect(t, w, "/")

	var count int
	conn.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count)
	if count != 0 {
		t.Errorf("Expected session row deleted, %d remain", count)
	}

	// The old cookie no longer identifies anyone
	user, err := sessions.CurrentUser(context.Background(), conn, testutil.MakeRequest("GET", "/", nil, cookie))
	if err != nil || user != nil {
		t.Errorf("Expected no user after logout, got %v, %v", user, err)
	}

	// Logging out without a session is harmless
	w = testutil.Serve(conn, handler.Logout, testutil.MakeRequest("GET", "/logout", nil, nil))
	testutil.AssertRedirect(t, w, "/")
}

func TestAccountForms(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	sessions := testutil.GetTestSessions()
	handler := NewAccountHandler(sessions, testutil.GetTestConfig())

	testutil.CreateTestUser(t, conn, "alice", false, false)
	cookie := testutil.LoginAs(t, conn, sessions, "alice")

	w := testutil.Serve(conn, handler.RegisterForm, testutil.MakeRequest("GET", "/register", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, `action="/register"`)

	w = testutil.Serve(conn, handler.LoginForm, testutil.MakeRequest("GET", "/login", nil, cookie))
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertBodyContains(t, w, `action="/login"`, "alice")
}
