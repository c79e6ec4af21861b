// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/julekalender/content"
	"github.com/danielhkuo/julekalender/middleware"
	"github.com/danielhkuo/julekalender/models"
)

// LibraryHandler serves the reference material next to the calendar:
// definitions and answers.
type LibraryHandler struct {
	repo *content.Repo
	now  func() time.Time
}

func NewLibraryHandler(repo *content.Repo) *LibraryHandler {
	return &LibraryHandler{repo: repo, now: time.Now}
}

// GetDefinitions handles GET /definitions
func (h *LibraryHandler) GetDefinitions(w http.ResponseWriter, r *http.Request) {
	defs, err := h.repo.Definitions(r.Context())
	if err != nil {
		slog.Error("failed to load definitions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DefinitionsResponse{
		Groups: groupDefinitions(defs),
	})
}

// GetAnswers handles GET /answers
func (h *LibraryHandler) GetAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := h.repo.Answers(r.Context())
	if err != nil {
		slog.Error("failed to load answers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.now()
	resp := models.AnswersResponse{Answers: make([]models.AnswerSummary, 0, len(answers))}
	for _, a := range answers {
		resp.Answers = append(resp.Answers, models.AnswerSummary{
			Answer:     a,
			UpdatedAgo: humanize.RelTime(a.UpdatedAt, now, "ago", "from now"),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
