// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/danielhkuo/ask-expert/auth"
	"github.com/danielhkuo/ask-expert/db"
	"github.com/danielhkuo/ask-expert/middleware"
	"github.com/danielhkuo/ask-expert/models"
)

// begin fetches the request's connection and current user. On a store
// failure it writes a 500 and returns ok=false.
func begin(w http.ResponseWriter, r *http.Request, sessions *auth.Sessions) (*sql.Conn, *models.User, bool) {
	conn, err := db.Conn(r.Context())
	if err != nil {
		middleware.ServerError(w, r, "failed to get connection", err)
		return nil, nil, false
	}

	user, err := sessions.CurrentUser(r.Context(), conn, r)
	if err != nil {
		middleware.ServerError(w, r, "failed to resolve current user", err)
		return nil, nil, false
	}
	return conn, user, true
}

// requireUser redirects anonymous visitors to the login page
func requireUser(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	if user == nil {
		middleware.Redirect(w, r, "/login")
		return false
	}
	return true
}

// requireExpert lets only experts through; others go home
func requireExpert(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	if !requireUser(w, r, user) {
		return false
	}
	if !user.Expert {
		middleware.Redirect(w, r, "/")
		return false
	}
	return true
}

// requireAdmin lets only admins through; others go home
func requireAdmin(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	if !requireUser(w, r, user) {
		return false
	}
	if !user.Admin {
		middleware.Redirect(w, r, "/")
		return false
	}
	return true
}

// pathID parses a positive integer path parameter
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
