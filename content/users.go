// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/julekalender/models"
	"github.com/danielhkuo/julekalender/progress"
)

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a user with the given initial status list.
func (r *Repo) CreateUser(ctx context.Context, name, email string, statuses progress.StatusList) (models.User, error) {
	user := models.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		CreatedAt: time.Now().UTC(),
	}

	data, err := encodeStatuses(statuses)
	if err != nil {
		return models.User{}, err
	}

	res, err := r.q.ExecContext(ctx, `
		INSERT INTO app_user (id, name, email, task_completion_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
	`, user.ID, user.Name, user.Email, data, user.CreatedAt, user.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	} else if n == 0 {
		return models.User{}, ErrEmailTaken
	}

	return user, nil
}

// UserByEmail looks up a user by (normalized) email.
func (r *Repo) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := r.q.QueryRowContext(ctx, `
		SELECT id, name, email, created_at
		FROM app_user
		WHERE email = $1
	`, NormalizeEmail(email)).Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return user, ErrNotFound
	}
	if err != nil {
		return user, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// UserIDs lists every user id, oldest first.
func (r *Repo) UserIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM app_user ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LoadStatuses returns the persisted status list of a user.
func (r *Repo) LoadStatuses(ctx context.Context, userID string) (progress.StatusList, error) {
	var data sql.NullString
	err := r.q.QueryRowContext(ctx, `
		SELECT task_completion_status FROM app_user WHERE id = $1
	`, userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query status list: %w", err)
	}

	if !data.Valid || data.String == "" {
		return progress.StatusList{}, nil
	}

	var list progress.StatusList
	if err := json.Unmarshal([]byte(data.String), &list); err != nil {
		return nil, fmt.Errorf("invalid status list for user %s: %w", userID, err)
	}
	return list, nil
}

// ReplaceStatuses overwrites the whole status list of a user.
func (r *Repo) ReplaceStatuses(ctx context.Context, userID string, list progress.StatusList) error {
	data, err := encodeStatuses(list)
	if err != nil {
		return err
	}

	res, err := r.q.ExecContext(ctx, `
		UPDATE app_user
		SET task_completion_status = $1, updated_at = $2
		WHERE id = $3
	`, data, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update status list: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update status list: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func encodeStatuses(list progress.StatusList) (string, error) {
	if list == nil {
		list = progress.StatusList{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode status list: %w", err)
	}
	return string(data), nil
}
