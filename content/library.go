// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package content

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/danielhkuo/julekalender/models"
)

// Definitions returns all definitions. Ordering for display is done by the
// caller since it depends on collation.
func (r *Repo) Definitions(ctx context.Context) ([]models.Definition, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, title, description FROM definition ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query definitions: %w", err)
	}
	defer rows.Close()

	defs := []models.Definition{}
	for rows.Next() {
		var (
			def         models.Definition
			description sql.NullString
		)
		if err := rows.Scan(&def.ID, &def.Title, &description); err != nil {
			return nil, fmt.Errorf("failed to scan definition: %w", err)
		}
		def.Description = description.String
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// Answers returns all answers, most recently updated first.
func (r *Repo) Answers(ctx context.Context) ([]models.Answer, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, title, description, content, updated_at
		FROM answer
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	answers := []models.Answer{}
	for rows.Next() {
		var (
			a           models.Answer
			description sql.NullString
			body        sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.Title, &description, &body, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		a.Description = description.String
		a.Content = rawJSON(body)
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
