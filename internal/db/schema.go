package db

import (
	"database/sql"
)

const schemaSQL = `
-- Local settings (nickname, peer id)
CREATE TABLE IF NOT EXISTS meshchat_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

-- Favorite peers
CREATE TABLE IF NOT EXISTS meshchat_favorites (
  peer_id TEXT PRIMARY KEY,
  nickname TEXT,                       -- last known nickname when faved
  faved_at INTEGER NOT NULL            -- unix ms
);

CREATE INDEX IF NOT EXISTS idx_meshchat_favorites_faved ON meshchat_favorites(faved_at);
`

const defaultConfigSQL = `
INSERT OR IGNORE INTO meshchat_config (key, value) VALUES ('schema_version', '1');
`

// DBTX represents shared methods across sql.DB and sql.Tx.
type DBTX interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// InitSchema initializes the meshchat schema.
func InitSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if err := initSchemaWith(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func initSchemaWith(db DBTX) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return err
	}
	if _, err := db.Exec(defaultConfigSQL); err != nil {
		return err
	}
	return nil
}

// SchemaExists reports whether the meshchat schema is present.
func SchemaExists(db *sql.DB) (bool, error) {
	row := db.QueryRow(`
		SELECT name FROM sqlite_master
		WHERE type='table' AND name='meshchat_favorites'
	`)
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return name != "", nil
}
