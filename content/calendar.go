// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/julekalender/models"
	"github.com/danielhkuo/julekalender/progress"
)

// The primary calendar is the one with the lowest order_rank.
const primaryCalendarID = `SELECT id FROM christmas_calendar ORDER BY order_rank, id LIMIT 1`

const daySelect = `
	SELECT d.id, d.day_number, d.title, d.description, d.slug, d.is_break,
	       d.intro, d.break_content, d.tech_activity, d.design_activity, d.updated_at,
	       c.id, c.identifier, c.title, c.description
	FROM calendar_day d
	LEFT JOIN day_category c ON c.id = d.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDay(row rowScanner) (models.CalendarDay, error) {
	var (
		day                                       models.CalendarDay
		description, intro, breakContent          sql.NullString
		tech, design                              sql.NullString
		catID, catIdentifier, catTitle, catDetail sql.NullString
	)

	err := row.Scan(
		&day.ID, &day.DayNumber, &day.Title, &description, &day.Slug, &day.IsBreak,
		&intro, &breakContent, &tech, &design, &day.UpdatedAt,
		&catID, &catIdentifier, &catTitle, &catDetail,
	)
	if err != nil {
		return day, err
	}

	day.Description = description.String
	day.Intro = rawJSON(intro)
	day.BreakContent = rawJSON(breakContent)

	if day.TechActivity, err = decodeActivity(tech); err != nil {
		return day, fmt.Errorf("day %s: %w", day.ID, err)
	}
	if day.DesignActivity, err = decodeActivity(design); err != nil {
		return day, fmt.Errorf("day %s: %w", day.ID, err)
	}

	if catID.Valid {
		day.Category = &models.Category{
			ID:          catID.String,
			Identifier:  catIdentifier.String,
			Title:       catTitle.String,
			Description: catDetail.String,
		}
	}

	return day, nil
}

func (r *Repo) queryDays(ctx context.Context, query string, args ...any) ([]models.CalendarDay, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := []models.CalendarDay{}
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// CanonicalItems returns the day references of the primary calendar in
// calendar order. No calendar yields an empty list.
func (r *Repo) CanonicalItems(ctx context.Context) ([]progress.Item, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT day_id, position
		FROM calendar_day_link
		WHERE calendar_id = (`+primaryCalendarID+`)
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar days: %w", err)
	}
	defer rows.Close()

	items := []progress.Item{}
	for rows.Next() {
		var item progress.Item
		if err := rows.Scan(&item.ID, &item.Rank); err != nil {
			return nil, fmt.Errorf("failed to scan calendar day: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// PrimaryCalendar loads the primary calendar with its days in calendar order.
func (r *Repo) PrimaryCalendar(ctx context.Context) (models.Calendar, error) {
	var (
		cal                             models.Calendar
		description, startDate, introJS sql.NullString
	)

	err := r.q.QueryRowContext(ctx, `
		SELECT id, title, description, start_date, intro
		FROM christmas_calendar
		WHERE id = (`+primaryCalendarID+`)
	`).Scan(&cal.ID, &cal.Title, &description, &startDate, &introJS)
	if errors.Is(err, sql.ErrNoRows) {
		return cal, ErrNotFound
	}
	if err != nil {
		return cal, fmt.Errorf("failed to query calendar: %w", err)
	}

	cal.Description = description.String
	cal.StartDate = startDate.String
	cal.Intro = rawJSON(introJS)

	cal.Days, err = r.queryDays(ctx, daySelect+`
		JOIN calendar_day_link l ON l.day_id = d.id
		WHERE l.calendar_id = $1
		ORDER BY l.position
	`, cal.ID)
	if err != nil {
		return cal, fmt.Errorf("failed to query calendar days: %w", err)
	}

	return cal, nil
}

// DayBySlug loads a single day document.
func (r *Repo) DayBySlug(ctx context.Context, slug string) (models.CalendarDay, error) {
	day, err := scanDay(r.q.QueryRowContext(ctx, daySelect+` WHERE d.slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return day, ErrNotFound
	}
	if err != nil {
		return day, fmt.Errorf("failed to query day: %w", err)
	}
	return day, nil
}

// AllDays returns every calendar day ordered by day number.
func (r *Repo) AllDays(ctx context.Context) ([]models.CalendarDay, error) {
	days, err := r.queryDays(ctx, daySelect+` ORDER BY d.day_number, d.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query days: %w", err)
	}
	return days, nil
}

// SeedItems lists every calendar day ordered by day number, the order a
// new user's status list starts out in.
func (r *Repo) SeedItems(ctx context.Context) ([]progress.Item, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM calendar_day ORDER BY day_number, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query days: %w", err)
	}
	defer rows.Close()

	items := []progress.Item{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		items = append(items, progress.Item{ID: id, Rank: len(items)})
	}
	return items, rows.Err()
}

// DayIDs returns the set of stored day IDs.
func (r *Repo) DayIDs(ctx context.Context) (map[string]bool, error) {
	return r.idSet(ctx, `SELECT id FROM calendar_day`)
}

// CategoryIDs returns the set of stored category IDs.
func (r *Repo) CategoryIDs(ctx context.Context) (map[string]bool, error) {
	return r.idSet(ctx, `SELECT id FROM day_category`)
}

func (r *Repo) idSet(ctx context.Context, query string) (map[string]bool, error) {
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	ids := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
