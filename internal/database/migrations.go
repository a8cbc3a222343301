package database

import (
	"context"
	"database/sql"
)

// runMigrations creates the database schema. All statements are idempotent
// so the full set runs on every startup.
func runMigrations(ctx context.Context, db *sql.DB) error {
	schema := `
	-- Projects table (top-level organizational unit, may be nested)
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

	-- Sections belong to exactly one project
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

	-- Items table. NULL project_id means the item lives in the inbox.
	-- Deleting a project or section cascades to its items.
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

	-- Labels table. Names are globally unique.
	CREATE TABLE IF NOT EXISTS labels (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL DEFAULT '',
		item_order INTEGER NOT NULL DEFAULT 0,
		is_favorite INTEGER NOT NULL DEFAULT 0,
		is_deleted INTEGER NOT NULL DEFAULT 0
	);

	-- Item-labels join table with creation timestamp
	CREATE TABLE IF NOT EXISTS item_labels (
		item_id TEXT NOT NULL,
		label_id TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (item_id, label_id),
		FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE,
		FOREIGN KEY (label_id) REFERENCES labels(id) ON DELETE CASCADE
	);

	-- Reminders table
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

	-- Attachments table. File names are unique per item.
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

	-- Indexes for the hot filter paths
	CREATE INDEX IF NOT EXISTS idx_items_project ON items(project_id);
	CREATE INDEX IF NOT EXISTS idx_items_section ON items(section_id);
	CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);
	CREATE INDEX IF NOT EXISTS idx_items_checked ON items(checked);
	CREATE INDEX IF NOT EXISTS idx_items_pinned ON items(pinned);
	CREATE INDEX IF NOT EXISTS idx_sections_project ON sections(project_id);
	CREATE INDEX IF NOT EXISTS idx_item_labels_label ON item_labels(label_id);
	CREATE INDEX IF NOT EXISTS idx_reminders_item ON reminders(item_id);
	CREATE INDEX IF NOT EXISTS idx_attachments_item ON attachments(item_id);
	`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return err
	}

	// Canonical inbox representation is NULL. Older exports stored empty
	// strings, so fold them into NULL on startup.
	_, err := db.ExecContext(ctx, `
		UPDATE items SET project_id = NULL WHERE project_id = '';
	`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		UPDATE items SET section_id = NULL WHERE section_id = '';
	`)
	return err
}
