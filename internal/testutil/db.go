// Package testutil provides shared helpers for package tests
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SetupTestDB creates an in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// In-memory databases vanish when their only connection closes
	db.SetMaxOpenConns(1)

	_, err = db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON")
	if err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db
}

// createTestSchema creates the complete database schema for testing
func createTestSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		parent_id TEXT,
		child_order INTEGER NOT NULL DEFAULT 0,
		is_archived INTEGER NOT NULL DEFAULT 0,
		is_favorite INTEGER NOT NULL DEFAULT 0,
		view_style TEXT NOT NULL DEFAULT 'list',
		icon_style TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (parent_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS sections (
		id TEXT PRIMARY KEY,
		project_id TEXT NOT NULL,
		name TEXT NOT NULL,
		section_order INTEGER NOT NULL DEFAULT 0,
		is_archived INTEGER NOT NULL DEFAULT 0,
		collapsed INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		content TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		checked INTEGER NOT NULL DEFAULT 0,
		pinned INTEGER NOT NULL DEFAULT 0,
		priority INTEGER NOT NULL DEFAULT 0,
		project_id TEXT,
		section_id TEXT,
		parent_id TEXT,
		due TEXT,
		added_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		completed_at TIMESTAMP,
		child_order INTEGER NOT NULL DEFAULT 0,
		day_order INTEGER NOT NULL DEFAULT 0,
		is_deleted INTEGER NOT NULL DEFAULT 0,
		collapsed INTEGER NOT NULL DEFAULT 0,
		extra_data TEXT NOT NULL DEFAULT '',
		item_type TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
		FOREIGN KEY (section_id) REFERENCES sections(id) ON DELETE CASCADE,
		FOREIGN KEY (parent_id) REFERENCES items(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS labels (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL DEFAULT '',
		item_order INTEGER NOT NULL DEFAULT 0,
		is_favorite INTEGER NOT NULL DEFAULT 0,
		is_deleted INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS item_labels (
		item_id TEXT NOT NULL,
		label_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (item_id, label_id),
		FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE,
		FOREIGN KEY (label_id) REFERENCES labels(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		type TEXT NOT NULL,
		due TEXT,
		minute_offset INTEGER NOT NULL DEFAULT 0,
		notify_uid TEXT NOT NULL DEFAULT '',
		service TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS attachments (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL,
		file_name TEXT NOT NULL,
		file_type TEXT NOT NULL DEFAULT '',
		file_size INTEGER NOT NULL DEFAULT 0,
		file_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (item_id, file_name),
		FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_items_project ON items(project_id);
	CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);
	CREATE INDEX IF NOT EXISTS idx_sections_project ON sections(project_id);
	`

	_, err := db.ExecContext(context.Background(), schema)
	return err
}

// CreateTestProject creates a test project and returns its ID
func CreateTestProject(t *testing.T, db *sql.DB, name string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO projects (id, name) VALUES (?, ?)", id, name)
	if err != nil {
		t.Fatalf("Failed to create test project: %v", err)
	}
	return id
}

// CreateTestSection creates a test section and returns its ID
func CreateTestSection(t *testing.T, db *sql.DB, projectID, name string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO sections (id, project_id, name) VALUES (?, ?, ?)",
		id, projectID, name)
	if err != nil {
		t.Fatalf("Failed to create test section: %v", err)
	}
	return id
}

// CreateTestItem creates a test item and returns its ID. Pass an empty
// projectID for an inbox item.
func CreateTestItem(t *testing.T, db *sql.DB, projectID, content string) string {
	t.Helper()
	id := uuid.NewString()
	var project any
	if projectID != "" {
		project = projectID
	}
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO items (id, content, project_id, added_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, content, project, time.Now().UTC(), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return id
}

// CreateTestSubItem creates a test item under a parent and returns its ID
func CreateTestSubItem(t *testing.T, db *sql.DB, parentID, content string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO items (id, content, parent_id, added_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, content, parentID, time.Now().UTC(), time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test sub-item: %v", err)
	}
	return id
}

// CreateTestLabel creates a test label and returns its ID
func CreateTestLabel(t *testing.T, db *sql.DB, name, color string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		"INSERT INTO labels (id, name, color) VALUES (?, ?, ?)", id, name, color)
	if err != nil {
		t.Fatalf("Failed to create test label: %v", err)
	}
	return id
}
