// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/danielhkuo/julekalender/content"
	"github.com/danielhkuo/julekalender/live"
	"github.com/danielhkuo/julekalender/middleware"
	"github.com/danielhkuo/julekalender/models"
	"github.com/danielhkuo/julekalender/progress"
)

type UserHandler struct {
	repo   *content.Repo
	syncer *progress.Syncer
	hub    *live.Hub
}

func NewUserHandler(repo *content.Repo, syncer *progress.Syncer, hub *live.Hub) *UserHandler {
	return &UserHandler{repo: repo, syncer: syncer, hub: hub}
}

// ValidEmail reports whether s is a bare email address
func ValidEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && addr.Name == ""
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if strings.TrimSpace(req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	email := strings.TrimSpace(req.Email)
	if !ValidEmail(email) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	// New users start with every day, ordered by day number
	items, err := h.repo.SeedItems(r.Context())
	if err != nil {
		slog.Error("failed to load days for seeding", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}
	seed := progress.Seed(items)

	user, err := h.repo.CreateUser(r.Context(), req.Name, email, seed)
	if errors.Is(err, content.ErrEmailTaken) {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
		return
	}
	if err != nil {
		slog.Error("failed to create user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	slog.Info("user created", "user_id", user.ID, "days", len(seed))

	middleware.JSONResponse(w, http.StatusCreated, models.CreateUserResponse{
		User:     user,
		Statuses: seed,
	})
}

// GetUser handles GET /users/{email}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}

// GetProgress handles GET /users/{email}/progress
// Reconciles the stored status list against the calendar before answering.
func (h *UserHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}

	list, err := h.syncer.Sync(r.Context(), user.ID)
	if err != nil {
		writeSyncError(w, user.ID, err)
		return
	}

	h.respondProgress(w, r.Context(), user, list)
}

// ToggleTask handles POST /users/{email}/tasks/{dayID}/toggle
func (h *UserHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	dayID := r.PathValue("dayID")
	if dayID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dayID is required")
		return
	}

	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}

	list, err := h.syncer.Toggle(r.Context(), user.ID, dayID)
	if errors.Is(err, progress.ErrReadOnly) {
		// silent no-op, answer with the current state
		list, err = h.syncer.Sync(r.Context(), user.ID)
	}
	if err != nil {
		writeSyncError(w, user.ID, err)
		return
	}

	h.respondProgress(w, r.Context(), user, list)
}

// Live handles GET /users/{email}/live
func (h *UserHandler) Live(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r)
	if !ok {
		return
	}

	// registered first so no replacement slips past the initial list
	sub := h.hub.Subscribe(user.ID)
	defer h.hub.Unsubscribe(sub)

	if _, err := h.syncer.Snapshot(r.Context(), user.ID, sub.Send); err != nil {
		writeSyncError(w, user.ID, err)
		return
	}

	h.hub.Serve(w, r, sub)
}

func (h *UserHandler) lookupUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	email := r.PathValue("email")
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return models.User{}, false
	}

	user, err := h.repo.UserByEmail(r.Context(), email)
	if errors.Is(err, content.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return models.User{}, false
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.User{}, false
	}
	return user, true
}

func (h *UserHandler) respondProgress(w http.ResponseWriter, ctx context.Context, user models.User, list progress.StatusList) {
	days, err := h.repo.AllDays(ctx)
	if err != nil {
		slog.Error("failed to load days", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	byID := make(map[string]models.CalendarDay, len(days))
	for _, day := range days {
		byID[day.ID] = day
	}

	middleware.JSONResponse(w, http.StatusOK, buildProgress(user, list, byID, h.syncer.ReadOnly()))
}

// writeSyncError maps Syncer failures to HTTP responses
func writeSyncError(w http.ResponseWriter, userID string, err error) {
	var fetchErr *progress.FetchError
	switch {
	case errors.As(err, &fetchErr):
		slog.Error("calendar fetch failed", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load the calendar right now, please try again")
	case errors.Is(err, progress.ErrDuplicateItems):
		middleware.ErrorResponse(w, http.StatusBadGateway, "The calendar lists the same day more than once")
	case errors.Is(err, progress.ErrSuperseded):
		middleware.ErrorResponse(w, http.StatusConflict, "Superseded by a newer request")
	case errors.Is(err, content.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
	default:
		slog.Error("status sync failed", "user_id", userID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update progress")
	}
}
