package sqlite

// timeLayout is fixed-width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Schema DDL. Statements are idempotent so Attach can run them on an
// existing database.
const (
	createMatches = `CREATE TABLE IF NOT EXISTS matches (
    match_id TEXT PRIMARY KEY,
    home_name TEXT NOT NULL,
    away_name TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	// AUTOINCREMENT keeps ids of deleted rows from being reused, so the
	// highest id is always the most recent append.
	createActions = `CREATE TABLE IF NOT EXISTS actions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    match_id TEXT NOT NULL,
    set_num INTEGER NOT NULL,
    timestamp TEXT NOT NULL,
    score_before TEXT NOT NULL,
    position TEXT NOT NULL,
    player_name TEXT NOT NULL,
    action_code TEXT NOT NULL,
    boundary TEXT NOT NULL DEFAULT ''
);`
)

// Index DDL.
const (
	idxActionsMatch   = `CREATE INDEX IF NOT EXISTS idx_actions_match ON actions(match_id, id);`
	idxMatchesCreated = `CREATE INDEX IF NOT EXISTS idx_matches_created ON matches(created_at);`
)

// schemaDDL lists every statement Attach executes, tables first.
var schemaDDL = []string{
	createMatches,
	createActions,
	idxActionsMatch,
	idxMatchesCreated,
}
