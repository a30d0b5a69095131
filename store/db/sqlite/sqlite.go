// Package sqlite implements store.Driver on modernc.org/sqlite. It is the
// default backend and the one used by tests.
package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	// Pure-Go sqlite driver.
	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

// NewDB opens (or creates) the sqlite database at dsn.
func NewDB(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// sqlite only supports one writer at a time.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, errors.Wrap(err, "enable foreign keys")
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversation (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			title      TEXT NOT NULL DEFAULT '',
			messages   TEXT NOT NULL DEFAULT '[]',
			updated_ts BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversation_user ON conversation(user_id)`,
		`CREATE TABLE IF NOT EXISTS profile (
			id         TEXT PRIMARY KEY,
			full_name  TEXT NOT NULL DEFAULT '',
			allergies  TEXT NOT NULL DEFAULT '[]',
			updated_ts BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS recipe (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_favorite INTEGER NOT NULL DEFAULT 0,
			created_ts  BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pantry_item (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			quantity    REAL NOT NULL,
			unit        TEXT NOT NULL,
			category    TEXT NOT NULL DEFAULT '',
			expiry_date TEXT NOT NULL DEFAULT '',
			created_ts  BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meal_plan (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			date       TEXT NOT NULL,
			meal_type  TEXT NOT NULL,
			meal_name  TEXT NOT NULL,
			recipe_id  TEXT NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS grocery_list (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			name       TEXT NOT NULL,
			created_ts BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS grocery_item (
			id         TEXT PRIMARY KEY,
			list_id    TEXT NOT NULL REFERENCES grocery_list(id) ON DELETE CASCADE,
			name       TEXT NOT NULL,
			quantity   REAL NOT NULL DEFAULT 1,
			unit       TEXT NOT NULL DEFAULT 'item',
			category   TEXT NOT NULL DEFAULT '',
			is_checked INTEGER NOT NULL DEFAULT 0,
			created_ts BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_grocery_item_list ON grocery_item(list_id)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}
