// Package mysql implements store.Driver on go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	_ "github.com/go-sql-driver/mysql"
)

type DB struct {
	db *sql.DB
}

// NewDB opens a connection pool for the given DSN
// (e.g. "user:pass@tcp(localhost:3306)/forkful?parseTime=true").
func NewDB(dsn string) (*DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS conversation (
			id         VARCHAR(64) NOT NULL PRIMARY KEY,
			user_id    VARCHAR(64) NOT NULL,
			title      TEXT NOT NULL,
			messages   LONGTEXT NOT NULL,
			updated_ts BIGINT NOT NULL DEFAULT 0,
			INDEX idx_conversation_user (user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS profile (
			id         VARCHAR(64) NOT NULL PRIMARY KEY,
			full_name  VARCHAR(256) NOT NULL DEFAULT '',
			allergies  TEXT NOT NULL,
			updated_ts BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS recipe (
			id          VARCHAR(64) NOT NULL PRIMARY KEY,
			user_id     VARCHAR(64) NOT NULL,
			title       VARCHAR(512) NOT NULL,
			description TEXT NOT NULL,
			is_favorite TINYINT(1) NOT NULL DEFAULT 0,
			created_ts  BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pantry_item (
			id          VARCHAR(64) NOT NULL PRIMARY KEY,
			user_id     VARCHAR(64) NOT NULL,
			name        VARCHAR(512) NOT NULL,
			quantity    DOUBLE NOT NULL,
			unit        VARCHAR(64) NOT NULL,
			category    VARCHAR(64) NOT NULL DEFAULT '',
			expiry_date VARCHAR(10) NOT NULL DEFAULT '',
			created_ts  BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS meal_plan (
			id         VARCHAR(64) NOT NULL PRIMARY KEY,
			user_id    VARCHAR(64) NOT NULL,
			date       VARCHAR(10) NOT NULL,
			meal_type  VARCHAR(16) NOT NULL,
			meal_name  VARCHAR(512) NOT NULL,
			recipe_id  VARCHAR(64) NOT NULL DEFAULT '',
			created_ts BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS grocery_list (
			id         VARCHAR(64) NOT NULL PRIMARY KEY,
			user_id    VARCHAR(64) NOT NULL,
			name       VARCHAR(512) NOT NULL,
			created_ts BIGINT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS grocery_item (
			id         VARCHAR(64) NOT NULL PRIMARY KEY,
			list_id    VARCHAR(64) NOT NULL,
			name       VARCHAR(512) NOT NULL,
			quantity   DOUBLE NOT NULL DEFAULT 1,
			unit       VARCHAR(64) NOT NULL DEFAULT 'item',
			category   VARCHAR(64) NOT NULL DEFAULT '',
			is_checked TINYINT(1) NOT NULL DEFAULT 0,
			created_ts BIGINT NOT NULL,
			INDEX idx_grocery_item_list (list_id),
			CONSTRAINT fk_grocery_item_list FOREIGN KEY (list_id) REFERENCES grocery_list(id) ON DELETE CASCADE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}
