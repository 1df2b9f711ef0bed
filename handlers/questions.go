// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/ask-expert/auth"
	"github.com/danielhkuo/ask-expert/cliparse"
	"github.com/danielhkuo/ask-expert/db"
	"github.com/danielhkuo/ask-expert/middleware"
	"github.com/danielhkuo/ask-expert/models"
	"github.com/danielhkuo/ask-expert/views"
)

// Form errors shown inline
const (
	ErrMsgAnswerRequired   = "Answer text is required!"
	ErrMsgQuestionRequired = "Question text is required!"
	ErrMsgChooseExpert     = "Please choose an expert!"
)

type QuestionHandler struct {
	sessions *auth.Sessions
	cfg      cliparse.Config
}

func NewQuestionHandler(sessions *auth.Sessions, cfg cliparse.Config) *QuestionHandler {
	return &QuestionHandler{sessions: sessions, cfg: cfg}
}

// Index handles GET /
// Lists answered questions with asker and expert names
func (h *QuestionHandler) Index(w http.ResponseWriter, r *http.Request) {
	conn, user, ok := begin(w, r, h.sessions)
	if !ok {
		return
	}

	// Left joins keep questions whose users have gone missing
	rows, err := conn.QueryContext(r.Context(), `
		SELECT q.id, q.question_text, askers.name, experts.name
		FROM questions q
		LEFT JOIN users AS askers ON askers.id = q.asked_by_id
		LEFT JOIN users AS experts ON experts.id = q.expert_id
		WHERE q.status = ?
		ORDER BY q.id
	`, string(models.StatusAnswered))
	if err != nil {
		middleware.ServerError(w, r, "failed to query answered questions", err)
		return
	}
	defer rows.Close()

	answered := []models.QuestionSummary{}
	for rows.Next() {
		var q models.QuestionSummary
		if err := rows.Scan(&q.ID, &q.Text, &q.Asker, &q.Expert); err != nil {
			middleware.ServerError(w, r, "failed to scan question", err)
			return
		}
		answered = append(answered, q)
	}
	if err := rows.Err(); err != nil {
		middleware.ServerError(w, r, "failed to iterate questions", err)
		return
	}

	views.Render(w, http.StatusOK, views.Home, models.HomePage{User: user, Answered: answered})
}

// Question handles GET /question/{id}
func (h *QuestionHandler) Question(w http.ResponseWriter, r *http.Request) {
	conn, user, ok := begin(w, r, h.sessions)
	if !ok {
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		views.RenderNotFound(w, user)
		return
	}

	var q models.QuestionDetail
	err := conn.QueryRowContext(r.Context(), `
		SELECT q.id, q.question_text, q.answer_text, q.status, askers.name, experts.name
		FROM questions q
		LEFT JOIN users AS askers ON askers.id = q.asked_by_id
		LEFT JOIN users AS experts ON experts.id = q.expert_id
		WHERE q.id = ?
	`, id).Scan(&q.ID, &q.Text, &q.Answer, &q.Status, &q.Asker, &q.Expert)
	if errors.Is(err, sql.ErrNoRows) {
		views.RenderNotFound(w, user)
		return
	}
	if err != nil {
		middleware.ServerError(w, r, "failed to query question", err)
		return
	}

	views.Render(w, http.StatusOK, views.Question, models.QuestionPage{User: user, Question: q})
}

// AnswerForm handles GET /answer/{id}
func (h *QuestionHandler) AnswerForm(w http.ResponseWriter, r *http.Request) {
	conn, user, ok := begin(w, r, h.sessions)
	if !ok || !requireExpert(w, r, user) {
		return
	}

	q, ok := h.answerable(w, r, conn, user)
	if !ok {
		return
	}

	views.Render(w, http.StatusOK, views.Answer, models.AnswerPage{User: user, Question: q})
}

// Answer handles POST /answer/{id}
func (h *QuestionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	if err := middleware.ParseForm(w, r); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest)
		return
	}

	conn, user, ok := begin(w, r, h.sessions)
	if !ok || !requireExpert(w, r, user) {
		return
	}

	q, ok := h.answerable(w, r, conn, user)
	if !ok {
		return
	}

	answer := strings.TrimSpace(r.PostFormValue("answer"))
	if answer == "" {
		views.Render(w, http.StatusOK, views.Answer, models.AnswerPage{User: user, Question: q, Error: ErrMsgAnswerRequired})
		return
	}

	_, err := conn.ExecContext(r.Context(), `
		UPDATE questions
		SET answer_text = ?, status = ?
		WHERE id = ?
	`, answer, string(models.StatusAnswered), q.ID)
	if err != nil {
		middleware.ServerError(w, r, "failed to save answer", err)
		return
	}

	slog.Info("question answered", "question_id", q.ID, "expert_id", user.ID, "replaced", q.Answered())

	middleware.Redirect(w, r, "/unanswered")
}

// answerable loads the question named in the path and checks that user may
// answer it. Unless OpenAnswering is set, only the assigned expert may.
// It writes the response itself when returning false.
func (h *QuestionHandler) answerable(w http.ResponseWriter, r *http.Request, conn *sql.Conn, user *models.User) (models.Question, bool) {
	id, ok := pathID(r, "id")
	if !ok {
		views.RenderNotFound(w, user)
		return models.Question{}, false
	}

	q, err := loadQuestion(r.Context(), conn, id)
	if errors.Is(err, sql.ErrNoRows) {
		views.RenderNotFound(w, user)
		return models.Question{}, false
	}
	if err != nil {
		middleware.ServerError(w, r, "failed to query question", err)
		return models.Question{}, false
	}

	if !h.cfg.OpenAnswering && q.ExpertID != user.ID {
		slog.Warn("answer by unassigned expert refused", "question_id", q.ID, "expert_id", user.ID)
		middleware.Redirect(w, r, "/unanswered")
		return models.Question{}, false
	}
	return q, true
}

func loadQuestion(ctx context.Context, q db.Querier, id int64) (models.Question, error) {
	var out models.Question
	err := q.QueryRowContext(ctx, `
		SELECT id, question_text, answer_text, status, asked_by_id, expert_id
		FROM questions
		WHERE id = ?
	`, id).Scan(&out.ID, &out.Text, &out.Answer, &out.Status, &out.AskedBy, &out.ExpertID)
	if err != nil {
		return out, err
	}
	if !out.Status.Valid() {
		return out, fmt.Errorf("question %d has unknown status %q", id, out.Status)
	}
	return out, nil
}

// AskForm handles GET /ask
func (h *QuestionHandler) AskForm(w http.ResponseWriter, r *http.Request) {
	conn, user, ok := begin(w, r, h.sessions)
	if !ok || !requireUser(w, r, user) {
		return
	}
	h.renderAsk(w, r, conn, user, "")
}

// Ask handles POST /ask
func (h *QuestionHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if err := middleware.ParseForm(w, r); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest)
		return
	}

	conn, user, ok := begin(w, r, h.sessions)
	if !ok || !requireUser(w, r, user) {
		return
	}
	ctx := r.Context()

	text := strings.TrimSpace(r.PostFormValue("question"))
	if text == "" {
		h.renderAsk(w, r, conn, user, ErrMsgQuestionRequired)
		return
	}

	// The addressee must be an expert at the time of asking
	expertID, err := strconv.ParseInt(r.PostFormValue("expert"), 10, 64)
	if err != nil {
		h.renderAsk(w, r, conn, user, ErrMsgChooseExpert)
		return
	}
	var found int64
	err = conn.QueryRowContext(ctx, `SELECT id FROM users WHERE id = ? AND expert = 1`, expertID).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		h.renderAsk(w, r, conn, user, ErrMsgChooseExpert)
		return
	}
	if err != nil {
		middleware.ServerError(w, r, "failed to query expert", err)
		return
	}

	res, err := conn.ExecContext(ctx, `
		INSERT INTO questions (question_text, status, asked_by_id, expert_id)
		VALUES (?, ?, ?, ?)
	`, text, string(models.StatusUnanswered), user.ID, expertID)
	if err != nil {
		middleware.ServerError(w, r, "failed to insert question", err)
		return
	}

	questionID, _ := res.LastInsertId()
	slog.Info("question asked", "question_id", questionID, "asked_by", user.ID, "expert_id", expertID)

	middleware.Redirect(w, r, "/")
}

func (h *QuestionHandler) renderAsk(w http.ResponseWriter, r *http.Request, conn *sql.Conn, user *models.User, errMsg string) {
	rows, err := conn.QueryContext(r.Context(), `
		SELECT id, name, expert, admin
		FROM users
		WHERE expert = 1
		ORDER BY name
	`)
	if err != nil {
		middleware.ServerError(w, r, "failed to query experts", err)
		return
	}
	defer rows.Close()

	experts := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Expert, &u.Admin); err != nil {
			middleware.ServerError(w, r, "failed to scan expert", err)
			return
		}
		experts = append(experts, u)
	}
	if err := rows.Err(); err != nil {
		middleware.ServerError(w, r, "failed to iterate experts", err)
		return
	}

	views.Render(w, http.StatusOK, views.Ask, models.AskPage{User: user, Experts: experts, Error: errMsg})
}

// Unanswered handles GET /unanswered
// Lists questions addressed to the current expert that have no answer yet
func (h *QuestionHandler) Unanswered(w http.ResponseWriter, r *http.Request) {
	conn, user, ok := begin(w, r, h.sessions)
	if !ok || !requireExpert(w, r, user) {
		return
	}

	rows, err := conn.QueryContext(r.Context(), `
		SELECT q.id, q.question_text, u.name
		FROM questions q
		JOIN users u ON u.id = q.asked_by_id
		WHERE q.status = ? AND q.expert_id = ?
		ORDER BY q.id
	`, string(models.StatusUnanswered), user.ID)
	if err != nil {
		middleware.ServerError(w, r, "failed to query unanswered questions", err)
		return
	}
	defer rows.Close()

	pending := []models.PendingQuestion{}
	for rows.Next() {
		var q models.PendingQuestion
		if err := rows.Scan(&q.ID, &q.Text, &q.Asker); err != nil {
			middleware.ServerError(w, r, "failed to scan question", err)
			return
		}
		pending = append(pending, q)
	}
	if err := rows.Err(); err != nil {
		middleware.ServerError(w, r, "failed to iterate questions", err)
		return
	}

	views.Render(w, http.StatusOK, views.Unanswered, models.UnansweredPage{User: user, Questions: pending})
}
