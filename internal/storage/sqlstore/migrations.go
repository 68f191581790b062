package sqlstore

import "database/sql"

// schema is valid for both SQLite and PostgreSQL. Timestamps are Unix
// nanoseconds so ordering by them is stable for rapid writes.
// group_members must come after accountability_groups for its foreign key.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    email_key TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    activity TEXT NOT NULL,
    target INTEGER NOT NULL,
    unit TEXT NOT NULL,
    frequency TEXT NOT NULL,
    deadline TEXT NOT NULL,
    description TEXT NOT NULL,
    is_active BOOLEAN NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS accountability_groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_members (
    group_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    member_id TEXT NOT NULL,
    name TEXT NOT NULL,
    current_goal TEXT NOT NULL,
    progress_current INTEGER NOT NULL,
    progress_target INTEGER NOT NULL,
    progress_percentage INTEGER NOT NULL,
    status TEXT NOT NULL,
    PRIMARY KEY (group_id, position),
    FOREIGN KEY (group_id) REFERENCES accountability_groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS progress_entries (
    id TEXT PRIMARY KEY,
    goal_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    entry_date TEXT NOT NULL,
    completed INTEGER NOT NULL,
    target INTEGER NOT NULL,
    percentage INTEGER NOT NULL,
    comment TEXT NOT NULL,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS hecovacky (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL,
    to_user_id TEXT NOT NULL,
    sender_name TEXT NOT NULL,
    message TEXT NOT NULL,
    kind TEXT NOT NULL,
    sent_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_group_members_group_id ON group_members(group_id);
CREATE INDEX IF NOT EXISTS idx_progress_entries_goal_id ON progress_entries(goal_id);
CREATE INDEX IF NOT EXISTS idx_hecovacky_group_id ON hecovacky(group_id);
`

// postgresSchema adds what SQLite provides implicitly: a monotonic insertion
// sequence on hecovacky, which SQLite exposes as rowid.
const postgresSchema = `
ALTER TABLE hecovacky ADD COLUMN IF NOT EXISTS seq BIGSERIAL;
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB, dialect Dialect) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	if dialect == Postgres {
		if _, err := db.Exec(postgresSchema); err != nil {
			return err
		}
	}
	return nil
}
