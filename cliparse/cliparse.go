// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = 5000
	defaultDatabasePath = "qa_app.db"
	defaultSessionTTL   = 31 * 24 * time.Hour
)

type Config struct {
	Port          int
	DatabasePath  string
	SessionSecret string
	SessionTTL    time.Duration
	SecureCookies bool
	OpenAnswering bool
	AdminUsers    []string
	LogLevel      slog.Level
}

// IsAdminName reports whether name is listed in AdminUsers.
func (c Config) IsAdminName(name string) bool {
	for _, admin := range c.AdminUsers {
		if admin == name {
			return true
		}
	}
	return false
}

// ParseFlags validates flags and falls back to environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var admins, logLevel string

	fs := flag.NewFlagSet("ask-expert", flag.ContinueOnError)

	// Network and storage
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabasePath, "d", "", "SQLite database file")

	// Sessions (prefer env for the secret, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", 0, "Session lifetime")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", false, "Mark session cookies Secure")

	// Policy
	fs.BoolVar(&cfg.OpenAnswering, "open-answering", false, "Let any expert answer any question")
	fs.StringVar(&admins, "admins", "", "Comma-separated user names granted admin")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = defaultPort
		}
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = os.Getenv("DATABASE_PATH")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.SessionTTL == 0 {
		if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
			ttl, err := time.ParseDuration(ttlStr)
			if err != nil {
				return Config{}, fmt.Errorf("invalid SESSION_TTL: %w", err)
			}
			cfg.SessionTTL = ttl
		} else {
			cfg.SessionTTL = defaultSessionTTL
		}
	}
	if cfg.SessionTTL < 0 {
		return Config{}, errors.New("session TTL must be positive")
	}

	if !set["secure-cookies"] {
		v, err := envBool("SECURE_COOKIES")
		if err != nil {
			return Config{}, err
		}
		cfg.SecureCookies = v
	}
	if !set["open-answering"] {
		v, err := envBool("OPEN_ANSWERING")
		if err != nil {
			return Config{}, err
		}
		cfg.OpenAnswering = v
	}

	if !set["admins"] {
		admins = os.Getenv("ADMIN_USERS")
	}
	cfg.AdminUsers = parseNames(admins)

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if logLevel != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
			return Config{}, fmt.Errorf("invalid log level: %w", err)
		}
	}

	return cfg, nil
}

func envBool(key string) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func parseNames(raw string) []string {
	var names []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
