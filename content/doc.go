// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package content provides SQL access to calendar content and users.

Repo works against both PostgreSQL and SQLite; queries use $N placeholders,
which both drivers accept.

# Calendar

The primary calendar is the christmas_calendar row with the lowest
order_rank. Its days are stored in calendar_day_link by position, and that
ordering is the canonical list the progress package reconciles against:

	repo := content.NewRepo(conn)
	items, err := repo.CanonicalItems(ctx) // []progress.Item, Rank = position

# Users

Each app_user row holds its status list as a JSON array in
task_completion_status. LoadStatuses and ReplaceStatuses implement
progress.Store; the list is always replaced as a whole.

# Import

The Upsert methods are used by the importer inside WithTx so a content file
is applied in a single transaction.

# Errors

	ErrNotFound   - no matching row
	ErrEmailTaken - CreateUser with an email that already exists
*/
package content
