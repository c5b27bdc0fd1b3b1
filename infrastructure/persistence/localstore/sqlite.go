package localstore

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens the durable local surface and creates its schema. The
// store keeps one row per owner key holding the JSON-encoded collection,
// plus the monotonic usage counters.
func OpenSQLite(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS record_collections (
	owner_key TEXT PRIMARY KEY,
	payload TEXT NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS usage_counters (
	owner_key TEXT PRIMARY KEY,
	ai_scans_used INTEGER NOT NULL DEFAULT 0
);
`)
	return err
}
