package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schedules (
	id                   TEXT PRIMARY KEY,
	title                TEXT NOT NULL,
	description          TEXT NOT NULL DEFAULT '',
	category             TEXT NOT NULL DEFAULT 'Other',
	priority             TEXT NOT NULL DEFAULT 'Medium',
	date                 TEXT NOT NULL,
	start_time           TEXT NOT NULL,
	end_time             TEXT NOT NULL,
	completed            INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	started              INTEGER NOT NULL DEFAULT 0 CHECK(started IN (0, 1)),
	missed_notified      INTEGER NOT NULL DEFAULT 0,
	auto_block_triggered INTEGER NOT NULL DEFAULT 0,
	auto_blocked         INTEGER NOT NULL DEFAULT 0,
	created_at           DATETIME NOT NULL,
	updated_at           DATETIME NOT NULL,
	started_at           DATETIME,
	completed_at         DATETIME
);

CREATE TABLE IF NOT EXISTS notifications (
	id          TEXT PRIMARY KEY,
	schedule_id TEXT NOT NULL,
	title       TEXT NOT NULL,
	kind        TEXT NOT NULL,
	severity    TEXT NOT NULL DEFAULT 'info',
	message     TEXT NOT NULL DEFAULT '',
	time_diff   REAL NOT NULL DEFAULT 0,
	read        INTEGER NOT NULL DEFAULT 0,
	created_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_schedules_date ON schedules(date);
CREATE INDEX IF NOT EXISTS idx_schedules_completed ON schedules(completed);
CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_schedule ON notifications(schedule_id);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
