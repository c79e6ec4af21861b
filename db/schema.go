// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is portable between PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Day categories
CREATE TABLE IF NOT EXISTS day_category (
    id TEXT PRIMARY KEY,
    identifier TEXT,
    title TEXT NOT NULL,
    description TEXT
);

-- Calendar days (canonical items)
CREATE TABLE IF NOT EXISTS calendar_day (
    id TEXT PRIMARY KEY,
    day_number INTEGER NOT NULL CHECK (day_number >= 1 AND day_number <= 24),
    title TEXT NOT NULL,
    description TEXT,
    slug TEXT NOT NULL UNIQUE,
    category_id TEXT REFERENCES day_category(id) ON DELETE SET NULL,
    is_break BOOLEAN NOT NULL DEFAULT FALSE,
    intro TEXT,
    break_content TEXT,
    tech_activity TEXT,
    design_activity TEXT,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_calendar_day_number ON calendar_day(day_number);

-- Calendars
CREATE TABLE IF NOT EXISTS christmas_calendar (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    start_date TEXT,
    intro TEXT,
    order_rank TEXT NOT NULL DEFAULT ''
);

-- Ordered day references; duplicates are representable on purpose
CREATE TABLE IF NOT EXISTS calendar_day_link (
    calendar_id TEXT NOT NULL REFERENCES christmas_calendar(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    day_id TEXT NOT NULL REFERENCES calendar_day(id) ON DELETE CASCADE,
    PRIMARY KEY (calendar_id, position)
);

CREATE INDEX IF NOT EXISTS idx_calendar_day_link_day ON calendar_day_link(day_id);

-- Definitions
CREATE TABLE IF NOT EXISTS definition (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT
);

-- Answers
CREATE TABLE IF NOT EXISTS answer (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT,
    content TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Users; the status list is replaced as a whole
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    task_completion_status TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
