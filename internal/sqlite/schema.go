package sqlite

// Schema DDL. Statements are idempotent so an existing database keeps its
// records across runs.
const (
	createKV = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createKVHistory = `CREATE TABLE IF NOT EXISTS kv_history (
    history_id TEXT PRIMARY KEY,
    key TEXT NOT NULL,
    operation TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	idxKVHistoryKey = `CREATE INDEX IF NOT EXISTS idx_kv_history_key ON kv_history(key);`
)

// schemaDDL lists all statements executed on Attach, in order.
var schemaDDL = []string{
	createKV,
	createKVHistory,
	idxKVHistoryKey,
}

// History operations recorded in kv_history.
const (
	opSet    = "set"
	opDelete = "delete"
)
