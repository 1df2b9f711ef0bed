// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes using Go 1.22+ enhanced routing.

# Creating the Router

	mux := router.NewRouter(pool, cfg)
	server := http.Server{Handler: mux, Addr: ":5000"}

NewRouter builds the session store from cfg and wires every page through
middleware.WithLogging and db.WithConnection, so each request logs once and
holds at most one database connection.

# Routes

Public:

	GET  /                   Answered questions
	GET  /question/{id}      One question and its answer
	GET  /register           Registration form
	POST /register           Create account, log in
	GET  /login              Login form
	POST /login              Log in
	GET  /logout             Log out

Logged-in users:

	GET  /ask                Pick an expert
	POST /ask                Ask a question

Experts:

	GET  /unanswered         Questions waiting for the current expert
	GET  /answer/{id}        Answer form
	POST /answer/{id}        Save an answer

Admins:

	GET  /users              All users and their roles
	GET  /promote/{user_id}  Toggle a user's expert flag

Operations:

	GET  /health             Returns "OK"
	GET  /metrics            Prometheus metrics

Anonymous visitors hitting a protected route are redirected to /login;
logged-in users without the role are redirected to /. Unknown paths are
404 and wrong methods on known paths are 405.
*/
package router
