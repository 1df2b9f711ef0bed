// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, session cookies and current-user
resolution.

# Passwords

Passwords are hashed with bcrypt and never stored or compared in plaintext:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(hash, password)

# Session Tokens

A session token is a random UUID. The cookie carries the token plus an
HMAC-SHA256 signature keyed by the configured session secret:

	value := auth.SignToken(token, secret)   // "<token>.<sig>"
	token, err := auth.VerifyToken(value, secret)

Verification uses constant-time comparison.

# Sessions

Sessions are rows in the sessions table holding the user name and an expiry.
Because both the rows and the secret outlive the process, logins survive a
restart.

	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)

	sessions.Start(ctx, conn, w, "alice")      // login / register
	user, err := sessions.CurrentUser(ctx, conn, r)
	sessions.End(ctx, conn, w, r)              // logout

CurrentUser returns nil without an error when the request has no valid
session or the session's user no longer exists.

# Errors

  - ErrInvalidSession: missing, forged or expired session
  - ErrUserNotFound: LookupUser found no user with that name
*/
package auth
