package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thenoetrevino/tado/internal/models"
)

// withTx executes a function within a database transaction.
// It automatically handles begin, rollback on error, and commit on success.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullStringToPtr converts sql.NullString to *string.
// Empty strings collapse to nil so callers see one canonical absence.
func nullStringToPtr(ns sql.NullString) *string {
	if ns.Valid && ns.String != "" {
		val := ns.String
		return &val
	}
	return nil
}

// ptrToNullString converts *string to sql.NullString.
// Both nil and empty strings map to NULL.
func ptrToNullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullTimeToPtr converts sql.NullTime to *time.Time
func nullTimeToPtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

// ptrToNullTime converts *time.Time to sql.NullTime
func ptrToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// encodeDue serializes the due payload to its TEXT column form
func encodeDue(due *models.Due) (sql.NullString, error) {
	if due == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(due)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode due payload: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// decodeDue deserializes the TEXT column form of the due payload
func decodeDue(raw sql.NullString) (*models.Due, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	due := &models.Due{}
	if err := json.Unmarshal([]byte(raw.String), due); err != nil {
		return nil, fmt.Errorf("failed to decode due payload: %w", err)
	}
	return due, nil
}
