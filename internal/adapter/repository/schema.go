package repository

// Schema statements are idempotent so the store can apply them on every
// open. Tags are stored as a JSON array in a text column; scheduling
// records live in their own table keyed by item and are destroyed with it.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id TEXT PRIMARY KEY,
    front TEXT NOT NULL,
    back TEXT NOT NULL,
    phonetic TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS scheduling_records (
    item_id TEXT PRIMARY KEY REFERENCES items(id) ON DELETE CASCADE,
    due_at TIMESTAMP NOT NULL,
    interval_days REAL NOT NULL DEFAULT 0,
    ease_factor REAL NOT NULL DEFAULT 2.5,
    repetitions INTEGER NOT NULL DEFAULT 0,
    lapses INTEGER NOT NULL DEFAULT 0,
    last_reviewed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_scheduling_records_due_at ON scheduling_records(due_at);
CREATE INDEX IF NOT EXISTS idx_items_front ON items(front);
`
