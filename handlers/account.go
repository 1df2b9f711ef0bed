// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/ask-expert/auth"
	"github.com/danielhkuo/ask-expert/cliparse"
	"github.com/danielhkuo/ask-expert/db"
	"github.com/danielhkuo/ask-expert/middleware"
	"github.com/danielhkuo/ask-expert/models"
	"github.com/danielhkuo/ask-expert/views"
)

// Form errors shown inline
const (
	ErrMsgUserExists        = "User already exists!"
	ErrMsgCredentialsNeeded = "Name and password are required!"
	ErrMsgUsernameIncorrect = "The username is incorrect!"
	ErrMsgPasswordIncorrect = "The password is incorrect!"
	ErrMsgPasswordTooLong   = "Password must be at most 72 bytes!"
)

type AccountHandler struct {
	sessions *auth.Sessions
	cfg      cliparse.Config
}

func NewAccountHandler(sessions *auth.Sessions, cfg cliparse.Config) *AccountHandler {
	return &AccountHandler{sessions: sessions, cfg: cfg}
}

// RegisterForm handles GET /register
func (h *AccountHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	_, user, ok := begin(w, r, h.sessions)
	if !ok {
		return
	}
	views.Render(w, http.StatusOK, views.Register, models.AuthPage{User: user})
}

// Register handles POST /register
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := middleware.ParseForm(w, r); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest)
		return
	}

	conn, user, ok := begin(w, r, h.sessions)
	if !ok {
		return
	}
	ctx := r.Context()

	name := strings.TrimSpace(r.PostFormValue("name"))
	password := r.PostFormValue("password")
	if name == "" || password == "" {
		views.Render(w, http.StatusOK, views.Register, models.AuthPage{User: user, Error: ErrMsgCredentialsNeeded})
		return
	}

	// Check for an existing user first for the friendly error; the UNIQUE
	// constraint below catches the concurrent case
	_, err := auth.LookupUser(ctx, conn, name)
	if err == nil {
		views.Render(w, http.StatusOK, views.Register, models.AuthPage{User: user, Error: ErrMsgUserExists})
		return
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		middleware.ServerError(w, r, "failed to query user", err)
		return
	}

	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		views.Render(w, http.StatusOK, views.Register, models.AuthPage{User: user, Error: ErrMsgPasswordTooLong})
		return
	}
	if err != nil {
		middleware.ServerError(w, r, "failed to hash password", err)
		return
	}

	admin := h.cfg.IsAdminName(name)
	_, err = conn.ExecContext(ctx, `
		INSERT INTO users (name, password, expert, admin)
		VALUES (?, ?, ?, ?)
	`, name, hash, false, admin)
	if db.IsUniqueViolation(err) {
		views.Render(w, http.StatusOK, views.Register, models.AuthPage{User: user, Error: ErrMsgUserExists})
		return
	}
	if err != nil {
		middleware.ServerError(w, r, "failed to insert user", err)
		return
	}

	if err := h.sessions.Start(ctx, conn, w, name); err != nil {
		middleware.ServerError(w, r, "failed to start session", err)
		return
	}

	slog.Info("user registered", "name", name, "admin", admin)
	middleware.RecordAuthEvent(middleware.AuthRegister)

	middleware.Redirect(w, r, "/")
}

// LoginForm handles GET /login
func (h *AccountHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	_, user, ok := begin(w, r, h.sessions)
	if !ok {
		return
	}
	views.Render(w, http.StatusOK, views.Login, models.AuthPage{User: user})
}

// Login handles POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := middleware.ParseForm(w, r); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest)
		return
	}

	conn, user, ok := begin(w, r, h.sessions)
	if !ok {
		return
	}
	ctx := r.Context()

	name := strings.TrimSpace(r.PostFormValue("name"))
	password := r.PostFormValue("password")

	found, err := auth.LookupUser(ctx, conn, name)
	if errors.Is(err, auth.ErrUserNotFound) {
		middleware.RecordAuthEvent(middleware.AuthLoginFailed)
		views.Render(w, http.StatusOK, views.Login, models.AuthPage{User: user, Error: ErrMsgUsernameIncorrect})
		return
	}
	if err != nil {
		middleware.ServerError(w, r, "failed to query user", err)
		return
	}

	if !auth.CheckPassword(found.PasswordHash, password) {
		slog.Info("login rejected", "name", name)
		middleware.RecordAuthEvent(middleware.AuthLoginFailed)
		views.Render(w, http.StatusOK, views.Login, models.AuthPage{User: user, Error: ErrMsgPasswordIncorrect})
		return
	}

	if err := h.sessions.Start(ctx, conn, w, found.Name); err != nil {
		middleware.ServerError(w, r, "failed to start session", err)
		return
	}

	slog.Info("user logged in", "user_id", found.ID)
	middleware.RecordAuthEvent(middleware.AuthLoginOK)

	middleware.Redirect(w, r, "/")
}

// Logout handles GET /logout
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	conn, err := db.Conn(r.Context())
	if err != nil {
		middleware.ServerError(w, r, "failed to get connection", err)
		return
	}

	if err := h.sessions.End(r.Context(), conn, w, r); err != nil {
		middleware.ServerError(w, r, "failed to end session", err)
		return
	}
	middleware.RecordAuthEvent(middleware.AuthLogout)

	middleware.Redirect(w, r, "/")
}
