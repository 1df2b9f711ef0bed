// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package views

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/ask-expert/models"
)

// Page names
const (
	Home       = "home"
	Register   = "register"
	Login      = "login"
	Question   = "question"
	Answer     = "answer"
	Ask        = "ask"
	Unanswered = "unanswered"
	Users      = "users"
	NotFound   = "notfound"
)

//go:embed templates/*.html
var files embed.FS

var pages = mustParse(Home, Register, Login, Question, Answer, Ask, Unanswered, Users, NotFound)

func mustParse(names ...string) map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(names))
	for _, name := range names {
		parsed[name] = template.Must(template.New(name).ParseFS(files,
			"templates/layout.html",
			"templates/"+name+".html",
		))
	}
	return parsed
}

// Render executes page with data and writes it with the given status.
// Output is buffered so a template failure becomes a clean 500.
func Render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := pages[page]
	if !ok {
		slog.Error("unknown page", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.Error("failed to render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write page", "page", page, "error", err)
	}
}

// RenderNotFound writes the 404 page.
func RenderNotFound(w http.ResponseWriter, user *models.User) {
	Render(w, http.StatusNotFound, NotFound, struct{ User *models.User }{user})
}
