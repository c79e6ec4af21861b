// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the julekalender API.

# Handler Types

Each handler is a struct built from the content repository:

  - CalendarHandler: Calendar overview and day pages
  - LibraryHandler: Definitions and answers
  - UserHandler: Registration, progress, toggles and the live stream

Handlers are created via constructor functions:

	calendarHandler := handlers.NewCalendarHandler(repo, cfg)
	userHandler := handlers.NewUserHandler(repo, syncer, hub)

# Calendar

	GET /calendar     → GetCalendar (groups, countdown, availability)
	GET /days/{slug}  → GetDay (full day plus previous/next)

A day is available once the calendar's start date plus day_number - 1 has
been reached in the configured timezone. Break days are always available,
and so is every day of a calendar without a start date.

# Progress

Every progress read goes through the Syncer, so a user's stored status
list is brought in line with the calendar before it is shown:

	GET  /users/{email}/progress            → GetProgress
	POST /users/{email}/tasks/{dayID}/toggle → ToggleTask
	GET  /users/{email}/live                → Live (websocket)

Sync failures map to statuses as follows: an unreadable calendar or one
with duplicate days is 502, a request overtaken by a newer one is 409.
In read-only mode toggles answer 200 with the unchanged progress.

# View Helpers

The response shaping lives next to the handlers and has no database
access: calendar_view.go, definitions_view.go and progress_view.go.
*/
package handlers
