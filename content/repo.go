// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package content

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/julekalender/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo runs the content and user queries. It implements progress.Source
// and progress.Store.
type Repo struct {
	db *sql.DB
	q  querier
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, q: db}
}

// WithTx runs fn with a Repo bound to a single transaction. The
// transaction is committed when fn returns nil and rolled back otherwise.
func (r *Repo) WithTx(ctx context.Context, fn func(tx *Repo) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(&Repo{db: r.db, q: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func rawJSON(s sql.NullString) json.RawMessage {
	if !s.Valid || s.String == "" {
		return nil
	}
	return json.RawMessage(s.String)
}

func nullJSON(raw json.RawMessage) sql.NullString {
	if len(raw) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

func decodeActivity(s sql.NullString) (*models.Activity, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var a models.Activity
	if err := json.Unmarshal([]byte(s.String), &a); err != nil {
		return nil, fmt.Errorf("invalid activity document: %w", err)
	}
	return &a, nil
}

func encodeActivity(a *models.Activity) (sql.NullString, error) {
	if a == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode activity: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
