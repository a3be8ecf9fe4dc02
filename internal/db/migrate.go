package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list re-runs safely on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		template_id TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','closed','archived')),
		archived_at TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS suppliers (
		id         TEXT PRIMARY KEY,
		code       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		rank       TEXT NOT NULL DEFAULT '',
		part_ranks TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		supplier_id TEXT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
		created_at  TEXT NOT NULL,
		UNIQUE(project_id, supplier_id)
	)`,

	`CREATE TABLE IF NOT EXISTS project_milestones (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		key        TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		date       TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY(project_id, key)
	)`,

	`CREATE TABLE IF NOT EXISTS rules (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL DEFAULT '',
		operator   TEXT NOT NULL CHECK(operator IN ('all','any')),
		enabled    INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS rule_clauses (
		id          TEXT PRIMARY KEY,
		rule_id     TEXT NOT NULL REFERENCES rules(id) ON DELETE CASCADE,
		order_index INTEGER NOT NULL DEFAULT 0,
		subject     TEXT NOT NULL CHECK(subject IN ('supplier_rank','part_rank')),
		comparator  TEXT NOT NULL
		            CHECK(comparator IN ('eq','neq','in','not_in','gte','lte')),
		value       TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS activities (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		template_id TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		rule_id     TEXT REFERENCES rules(id) ON DELETE SET NULL,
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS schedule_items (
		id               TEXT PRIMARY KEY,
		activity_id      TEXT NOT NULL REFERENCES activities(id) ON DELETE CASCADE,
		template_id      TEXT NOT NULL DEFAULT '',
		name             TEXT NOT NULL,
		kind             TEXT NOT NULL CHECK(kind IN ('milestone','task')),
		order_index      INTEGER NOT NULL DEFAULT 0,
		anchor_type      TEXT NOT NULL
		                 CHECK(anchor_type IN ('fixed_date','schedule_item','completion','project_milestone')),
		anchor_ref_id    TEXT NOT NULL DEFAULT '',
		offset_days      INTEGER NOT NULL DEFAULT 0,
		fixed_date       TEXT,
		milestone_key    TEXT NOT NULL DEFAULT '',
		override_enabled INTEGER NOT NULL DEFAULT 0,
		override_date    TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS instances (
		id            TEXT PRIMARY KEY,
		assignment_id TEXT NOT NULL REFERENCES assignments(id) ON DELETE CASCADE,
		supplier_id   TEXT NOT NULL REFERENCES suppliers(id) ON DELETE CASCADE,
		item_id       TEXT NOT NULL REFERENCES schedule_items(id) ON DELETE CASCADE,
		status        TEXT NOT NULL DEFAULT 'open'
		              CHECK(status IN ('open','in_progress','complete','cancelled')),
		locked        INTEGER NOT NULL DEFAULT 0,
		overridden    INTEGER NOT NULL DEFAULT 0,
		planned_date  TEXT,
		actual_date   TEXT,
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		UNIQUE(assignment_id, item_id)
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_activity ON schedule_items(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_instances_assignment ON instances(assignment_id)`,
	`CREATE INDEX IF NOT EXISTS idx_instances_item ON instances(item_id)`,
}
