// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/ask-expert/auth"
	"github.com/danielhkuo/ask-expert/cliparse"
	"github.com/danielhkuo/ask-expert/db"
	"github.com/danielhkuo/ask-expert/handlers"
	"github.com/danielhkuo/ask-expert/middleware"
)

func NewRouter(pool *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)

	// Initialize handlers
	accountHandler := handlers.NewAccountHandler(sessions, cfg)
	questionHandler := handlers.NewQuestionHandler(sessions, cfg)
	adminHandler := handlers.NewAdminHandler(sessions)

	// Every page gets request logging and its own connection scope
	page := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(db.WithConnection(pool, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Public pages
	mux.HandleFunc("GET /{$}", page(questionHandler.Index))
	mux.HandleFunc("GET /question/{id}", page(questionHandler.Question))

	// Accounts
	mux.HandleFunc("GET /register", page(accountHandler.RegisterForm))
	mux.HandleFunc("POST /register", page(accountHandler.Register))
	mux.HandleFunc("GET /login", page(accountHandler.LoginForm))
	mux.HandleFunc("POST /login", page(accountHandler.Login))
	mux.HandleFunc("GET /logout", page(accountHandler.Logout))

	// Asking (any logged-in user)
	mux.HandleFunc("GET /ask", page(questionHandler.AskForm))
	mux.HandleFunc("POST /ask", page(questionHandler.Ask))

	// Answering (experts)
	mux.HandleFunc("GET /unanswered", page(questionHandler.Unanswered))
	mux.HandleFunc("GET /answer/{id}", page(questionHandler.AnswerForm))
	mux.HandleFunc("POST /answer/{id}", page(questionHandler.Answer))

	// Administration (admins)
	mux.HandleFunc("GET /users", page(adminHandler.Users))
	mux.HandleFunc("GET /promote/{user_id}", page(adminHandler.Promote))

	return mux
}
