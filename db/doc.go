// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open selects the driver from Config.DatabaseType:

  - sqlite: modernc.org/sqlite (pure Go, default, used by the tests)
  - postgres: github.com/lib/pq

	conn, err := db.Open(ctx, cfg)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - day_category: Groups of days (bronze, silver, gold)
  - calendar_day: One task per advent day
  - christmas_calendar: Calendar with start date and intro
  - calendar_day_link: Ordered day references of a calendar
  - definition: Glossary terms
  - answer: Published answers
  - app_user: Participants and their task completion status

# Relationships

	day_category 1──* calendar_day
	christmas_calendar 1──* calendar_day_link *──1 calendar_day

The task completion status is stored on app_user as one JSON array and is
always replaced as a whole.
*/
package db
