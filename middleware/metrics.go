// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Auth event labels
const (
	AuthLoginOK     = "login_ok"
	AuthLoginFailed = "login_failed"
	AuthRegister    = "register"
	AuthLogout      = "logout"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

var (
	requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qa",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"})

	requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "qa",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "route", "status"})

	authEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "qa",
		Subsystem: "auth",
		Name:      "events_total",
		Help:      "Logins, failed logins, registrations and logouts",
	}, []string{"event"})
)

func init() {
	prometheus.MustRegister(requestTotal, requestLatency, authEvents)
}

func observeRequest(method, route string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	requestTotal.WithLabelValues(method, route, code).Inc()
	requestLatency.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

// RecordAuthEvent counts one authentication event
func RecordAuthEvent(event string) {
	authEvents.WithLabelValues(event).Inc()
}
