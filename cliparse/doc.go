// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabasePath: SQLite database file (default: qa_app.db)
  - SessionSecret: Secret for session cookie signatures (required)
  - SessionTTL: Lifetime of a login session (default: 744h)
  - SecureCookies: Send the session cookie only over HTTPS
  - OpenAnswering: Allow any expert to answer any question
  - AdminUsers: User names that receive the admin flag
  - LogLevel: Minimum slog level (default: info)

# CLI Flags

	-p                Server port
	-d                Database file
	-session-secret   Session signing secret
	-session-ttl      Session lifetime (Go duration)
	-secure-cookies   Secure session cookies
	-open-answering   Disable the assigned-expert check on answers
	-admins           Comma-separated admin user names
	-log-level        debug, info, warn or error

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_PATH  → -d
	SESSION_SECRET → -session-secret
	SESSION_TTL    → -session-ttl
	SECURE_COOKIES → -secure-cookies
	OPEN_ANSWERING → -open-answering
	ADMIN_USERS    → -admins
	LOG_LEVEL      → -log-level

CLI flags take precedence over environment variables. main loads a .env
file into the environment before ParseFlags runs.

# Validation

ParseFlags returns an error if SESSION_SECRET is missing or a numeric,
duration, boolean or level value does not parse.
*/
package cliparse
