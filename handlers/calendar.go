// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/julekalender/cliparse"
	"github.com/danielhkuo/julekalender/content"
	"github.com/danielhkuo/julekalender/middleware"
	"github.com/danielhkuo/julekalender/models"
)

type CalendarHandler struct {
	repo *content.Repo
	cfg  cliparse.Config
	now  func() time.Time
}

func NewCalendarHandler(repo *content.Repo, cfg cliparse.Config) *CalendarHandler {
	return &CalendarHandler{repo: repo, cfg: cfg, now: time.Now}
}

// GetCalendar handles GET /calendar
func (h *CalendarHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	cal, err := h.repo.PrimaryCalendar(r.Context())
	if errors.Is(err, content.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No calendar published yet")
		return
	}
	if err != nil {
		slog.Error("failed to load calendar", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, buildCalendarResponse(cal, h.cfg.Location(), h.now()))
}

// GetDay handles GET /days/{slug}
func (h *CalendarHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	day, err := h.repo.DayBySlug(r.Context(), slug)
	if errors.Is(err, content.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Day not found")
		return
	}
	if err != nil {
		slog.Error("failed to load day", "slug", slug, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.DayResponse{Day: day, Available: true}

	// Availability and navigation come from the calendar the day is shown in
	cal, err := h.repo.PrimaryCalendar(r.Context())
	switch {
	case err == nil:
		loc := h.cfg.Location()
		start, hasStart := parseStartDate(cal.StartDate, loc)
		resp.Available = dayAvailable(day, start, hasStart, h.now(), loc)
		resp.Previous, resp.Next = neighbours(cal.Days, day.Slug)
	case !errors.Is(err, content.ErrNotFound):
		slog.Error("failed to load calendar", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
