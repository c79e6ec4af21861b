// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the julekalender command: the API server behind a
24 day Christmas calendar of tech and design activities, plus the tools to
load its content and keep user progress in step with it.

# Commands

	julekalender serve  [config flags]
	julekalender import [config flags] [-watch] FILE
	julekalender sync   [config flags]

serve runs the HTTP API. import loads categories, days, the calendar,
definitions, answers and users from a YAML, TOML or JSON file; with -watch
it re-imports whenever the file changes. sync reconciles every stored
user's status list against the current calendar.

# Configuration

Every command takes the same configuration flags, falling back to the
environment and an optional .env file:

  - DATABASE_URL (-d): connection string, required
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): server port (default: 3318)
  - READ_ONLY (-read-only): turn task toggles into no-ops
  - CALENDAR_TIMEZONE (-tz): timezone deciding when days open (default: Europe/Oslo)
  - LOG_FILE (-log-file), LOG_FORMAT (-log-format): logging output

For example:

	DATABASE_URL=file:julekalender.db julekalender serve
	julekalender import -d file:julekalender.db -watch content.yaml

# Architecture

  - progress: status list reconciliation and the per-user Syncer
  - content: database access for calendar content and users
  - handlers: HTTP request handlers (calendar, library, users)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - live: websocket fan-out of status list replacements
  - importer: content file loading, validation and watching
  - models: Request/response and document types
  - db: Connection setup and schema creation
  - cliparse: Configuration parsing
  - logging: slog setup with optional log rotation

See package documentation for each component.
*/
package main
