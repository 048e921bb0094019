package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository wraps the local client database.
type Repository struct {
	DB *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// Session entry operations

// GetEntry returns the value stored under key. ok is false when the key is absent.
func (r *Repository) GetEntry(ctx context.Context, key string) (value string, ok bool, err error) {
	err = r.DB.QueryRowContext(ctx, `SELECT value FROM session_entries WHERE key=?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetEntries writes all entries in one transaction.
func (r *Repository) SetEntries(ctx context.Context, entries map[string]string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO session_entries (key, value, updated_at) VALUES (?, ?, ?)
			  ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`
	now := time.Now()
	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, query, key, value, now); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// DeleteEntries removes the given keys. Missing keys are ignored.
func (r *Repository) DeleteEntries(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := r.DB.ExecContext(ctx, `DELETE FROM session_entries WHERE key=?`, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	return nil
}

// Activity operations

// Activity is one mutation issued from this client.
type Activity struct {
	ID        int
	Actor     string
	Role      string
	Action    string
	Entity    string
	EntityID  string
	Details   string
	CreatedAt time.Time
}

func (r *Repository) RecordActivity(ctx context.Context, a *Activity) error {
	query := `INSERT INTO activity (actor, role, action, entity, entity_id, details)
			  VALUES (?, ?, ?, ?, ?, ?)`
	result, err := r.DB.ExecContext(ctx, query, a.Actor, a.Role, a.Action, a.Entity, a.EntityID, a.Details)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	a.ID = int(id)
	return nil
}

// ListActivity returns the most recent entries for actor, newest first.
// An empty actor lists everyone.
func (r *Repository) ListActivity(ctx context.Context, actor string, limit int) ([]*Activity, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, actor, role, action, entity, entity_id, details, created_at
			  FROM activity WHERE (? = '' OR actor = ?) ORDER BY id DESC LIMIT ?`
	rows, err := r.DB.QueryContext(ctx, query, actor, actor, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*Activity{}
	for rows.Next() {
		a := &Activity{}
		var entityID, details sql.NullString
		if err := rows.Scan(&a.ID, &a.Actor, &a.Role, &a.Action, &a.Entity, &entityID, &details, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.EntityID = entityID.String
		a.Details = details.String
		out = append(out, a)
	}
	return out, rows.Err()
}
