// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Logging

WithLogging wraps a handler and logs each completed request with method,
path, status and duration, using log/slog:

	mux.HandleFunc("GET /users", middleware.WithLogging(handler))

# Metrics

WithLogging also records Prometheus metrics, labelled by method, matched
route pattern and status code:

  - qa_http_requests_total
  - qa_http_request_duration_seconds

Handlers count authentication outcomes with RecordAuthEvent, exported as
qa_auth_events_total{event}. Collectors are registered with the default
registry and served by the router at /metrics.

# Response Helpers

  - Redirect: 303 See Other to a path
  - ErrorResponse: plain-text status page
  - ServerError: logs the cause, answers a generic 500
  - ParseForm: parses a form body capped at 64 KiB

# Client IP

GetClientIP checks X-Forwarded-For, then X-Real-IP, then RemoteAddr.
*/
package middleware
