// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package content

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/julekalender/models"
	"github.com/danielhkuo/julekalender/progress"
)

// Upserts used by the content importer. ON CONFLICT ... DO UPDATE is
// understood by both PostgreSQL and SQLite.

func (r *Repo) UpsertCategory(ctx context.Context, c models.Category) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO day_category (id, identifier, title, description)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			identifier = excluded.identifier,
			title = excluded.title,
			description = excluded.description
	`, c.ID, c.Identifier, c.Title, c.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert category %s: %w", c.ID, err)
	}
	return nil
}

func (r *Repo) UpsertDay(ctx context.Context, day models.CalendarDay) error {
	tech, err := encodeActivity(day.TechActivity)
	if err != nil {
		return err
	}
	design, err := encodeActivity(day.DesignActivity)
	if err != nil {
		return err
	}

	var categoryID sql.NullString
	if day.Category != nil {
		categoryID = sql.NullString{String: day.Category.ID, Valid: true}
	}

	_, err = r.q.ExecContext(ctx, `
		INSERT INTO calendar_day (id, day_number, title, description, slug, category_id, is_break,
		                          intro, break_content, tech_activity, design_activity, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			day_number = excluded.day_number,
			title = excluded.title,
			description = excluded.description,
			slug = excluded.slug,
			category_id = excluded.category_id,
			is_break = excluded.is_break,
			intro = excluded.intro,
			break_content = excluded.break_content,
			tech_activity = excluded.tech_activity,
			design_activity = excluded.design_activity,
			updated_at = excluded.updated_at
	`, day.ID, day.DayNumber, day.Title, day.Description, day.Slug, categoryID, day.IsBreak,
		nullJSON(day.Intro), nullJSON(day.BreakContent), tech, design, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert day %s: %w", day.ID, err)
	}
	return nil
}

// UpsertCalendar writes the calendar row and replaces its day links with
// dayIDs in order.
func (r *Repo) UpsertCalendar(ctx context.Context, cal models.Calendar, orderRank string, dayIDs []string) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO christmas_calendar (id, title, description, start_date, intro, order_rank)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			start_date = excluded.start_date,
			intro = excluded.intro,
			order_rank = excluded.order_rank
	`, cal.ID, cal.Title, cal.Description, cal.StartDate, nullJSON(cal.Intro), orderRank)
	if err != nil {
		return fmt.Errorf("failed to upsert calendar %s: %w", cal.ID, err)
	}

	if _, err := r.q.ExecContext(ctx, `DELETE FROM calendar_day_link WHERE calendar_id = $1`, cal.ID); err != nil {
		return fmt.Errorf("failed to clear calendar days: %w", err)
	}

	for i, dayID := range dayIDs {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO calendar_day_link (calendar_id, position, day_id)
			VALUES ($1, $2, $3)
		`, cal.ID, i, dayID)
		if err != nil {
			return fmt.Errorf("failed to link day %s: %w", dayID, err)
		}
	}
	return nil
}

func (r *Repo) UpsertDefinition(ctx context.Context, def models.Definition) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO definition (id, title, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description
	`, def.ID, def.Title, def.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert definition %s: %w", def.ID, err)
	}
	return nil
}

func (r *Repo) UpsertAnswer(ctx context.Context, a models.Answer) error {
	updated := a.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO answer (id, title, description, content, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			content = excluded.content,
			updated_at = excluded.updated_at
	`, a.ID, a.Title, a.Description, string(a.Content), updated)
	if err != nil {
		return fmt.Errorf("failed to upsert answer %s: %w", a.ID, err)
	}
	return nil
}

// UpsertUser creates the user with seed as its status list, or renames an
// existing user with the same email. Existing progress is never replaced.
func (r *Repo) UpsertUser(ctx context.Context, name, email string, seed progress.StatusList) error {
	data, err := encodeStatuses(seed)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO app_user (id, name, email, task_completion_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at
	`, uuid.NewString(), name, NormalizeEmail(email), data, now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", email, err)
	}
	return nil
}
