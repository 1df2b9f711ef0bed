// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Ask an Expert site.

# Handler Types

Each handler is a struct with session and config dependencies:

  - AccountHandler: Registration, login and logout
  - QuestionHandler: Listing, asking and answering questions
  - AdminHandler: User list and expert promotion

Handlers are created via constructor functions:

	questionHandler := handlers.NewQuestionHandler(sessions, cfg)

Handlers take their database connection from the request context, so they
must run inside db.WithConnection.

# Access

	anyone    GET /, GET /question/{id}, /register, /login, /logout
	logged in GET|POST /ask
	expert    GET /unanswered, GET|POST /answer/{id}
	admin     GET /users, GET /promote/{user_id}

Anonymous visitors are sent to /login; logged-in users without the role are
sent to /. All redirects are 303 See Other.

# Questions

A question is addressed to one expert and is either unanswered or answered.
By default only that expert may answer it; Config.OpenAnswering lets any
expert answer any question.

Missing questions and users render the 404 page.
*/
package handlers
