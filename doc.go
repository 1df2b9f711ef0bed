// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Ask an Expert server.

Ask an Expert is a small question-and-answer site. Users register and ask
questions addressed to experts, experts answer the questions waiting for
them, and admins decide who is an expert.

# Starting the Server

The server reads a .env file if present, then environment variables, then
CLI flags:

	SESSION_SECRET=change-me go run .

Or with flags:

	go run . -p 5000 -d qa_app.db -session-secret change-me

# Configuration

Required settings:

  - SESSION_SECRET (-session-secret): Secret for signing session cookies

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_PATH (-d): SQLite file (default: qa_app.db)
  - SESSION_TTL (-session-ttl): Session lifetime (default: 744h)
  - SECURE_COOKIES (-secure-cookies): Mark cookies Secure (default: false)
  - OPEN_ANSWERING (-open-answering): Let any expert answer any question (default: false)
  - ADMIN_USERS (-admins): Comma-separated names granted admin
  - LOG_LEVEL (-log-level): debug, info, warn or error (default: info)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, questions, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, metrics, redirect and error helpers
  - views: Embedded HTML templates
  - models: Domain and page types
  - auth: Passwords and sessions
  - db: SQLite store and request-scoped connections
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
