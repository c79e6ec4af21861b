// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/julekalender/cliparse"
	"github.com/danielhkuo/julekalender/content"
	"github.com/danielhkuo/julekalender/handlers"
	"github.com/danielhkuo/julekalender/live"
	"github.com/danielhkuo/julekalender/middleware"
	"github.com/danielhkuo/julekalender/progress"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, hub *live.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	repo := content.NewRepo(db)
	syncer := progress.NewSyncer(repo, repo, progress.Options{
		ReadOnly:  cfg.ReadOnly,
		OnReplace: hub.Publish,
	})

	// Initialize handlers
	calendarHandler := handlers.NewCalendarHandler(repo, cfg)
	libraryHandler := handlers.NewLibraryHandler(repo)
	userHandler := handlers.NewUserHandler(repo, syncer, hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Calendar content (public)
	mux.HandleFunc("GET /calendar", middleware.WithLogging(calendarHandler.GetCalendar))
	mux.HandleFunc("GET /days/{slug}", middleware.WithLogging(calendarHandler.GetDay))
	mux.HandleFunc("GET /definitions", middleware.WithLogging(libraryHandler.GetDefinitions))
	mux.HandleFunc("GET /answers", middleware.WithLogging(libraryHandler.GetAnswers))

	// Users and progress
	mux.HandleFunc("POST /users", middleware.WithLogging(userHandler.CreateUser))
	mux.HandleFunc("GET /users/{email}", middleware.WithLogging(userHandler.GetUser))
	mux.HandleFunc("GET /users/{email}/progress", middleware.WithLogging(userHandler.GetProgress))
	mux.HandleFunc("POST /users/{email}/tasks/{dayID}/toggle", middleware.WithLogging(userHandler.ToggleTask))
	mux.HandleFunc("GET /users/{email}/live", middleware.WithLogging(userHandler.Live))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("julekalender API v1"))
	})

	return mux
}
