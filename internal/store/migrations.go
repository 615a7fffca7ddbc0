package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// Times are stored as Unix milliseconds so due-time comparisons happen
// on integers.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS reminders (
	id           TEXT PRIMARY KEY,
	identifier   TEXT NOT NULL UNIQUE,
	title        TEXT NOT NULL,
	subtitle     TEXT NOT NULL DEFAULT '',
	sound        TEXT NOT NULL DEFAULT '',
	fire_at      INTEGER NOT NULL,
	repeats      INTEGER NOT NULL DEFAULT 0 CHECK(repeats IN (0, 1)),
	delivered_at INTEGER,
	created_at   INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reminders_fire_at ON reminders(fire_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reminders_pending
	ON reminders(delivered_at, fire_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
