// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ask-expert/auth"
	"github.com/danielhkuo/ask-expert/middleware"
	"github.com/danielhkuo/ask-expert/models"
	"github.com/danielhkuo/ask-expert/views"
)

type AdminHandler struct {
	sessions *auth.Sessions
}

func NewAdminHandler(sessions *auth.Sessions) *AdminHandler {
	return &AdminHandler{sessions: sessions}
}

// Users handles GET /users
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	conn, user, ok := begin(w, r, h.sessions)
	if !ok || !requireAdmin(w, r, user) {
		return
	}

	rows, err := conn.QueryContext(r.Context(), `
		SELECT id, name, expert, admin
		FROM users
		ORDER BY id
	`)
	if err != nil {
		middleware.ServerError(w, r, "failed to query users", err)
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Expert, &u.Admin); err != nil {
			middleware.ServerError(w, r, "failed to scan user", err)
			return
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		middleware.ServerError(w, r, "failed to iterate users", err)
		return
	}

	views.Render(w, http.StatusOK, views.Users, models.UsersPage{User: user, Users: users})
}

// Promote handles GET /promote/{user_id}
// Toggles the target's expert flag
func (h *AdminHandler) Promote(w http.ResponseWriter, r *http.Request) {
	conn, user, ok := begin(w, r, h.sessions)
	if !ok || !requireAdmin(w, r, user) {
		return
	}

	targetID, ok := pathID(r, "user_id")
	if !ok {
		views.RenderNotFound(w, user)
		return
	}

	// Toggle the expert flag in place
	res, err := conn.ExecContext(r.Context(), `
		UPDATE users SET expert = 1 - expert WHERE id = ?
	`, targetID)
	if err != nil {
		middleware.ServerError(w, r, "failed to toggle expert", err)
		return
	}
	n, err := res.RowsAffected()
	if err != nil {
		middleware.ServerError(w, r, "failed to toggle expert", err)
		return
	}
	if n == 0 {
		views.RenderNotFound(w, user)
		return
	}

	slog.Info("expert flag toggled", "user_id", targetID, "by", user.ID)

	middleware.Redirect(w, r, "/users")
}
