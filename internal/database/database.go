package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/omriShneor/calendrix/internal/database/migrations"
)

// WAL lets readers run beside a commit; the busy timeout makes concurrent commits queue
const pragmas = "_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000"

// DB is the sqlite store for committed bookings and, without redis, conversations
type DB struct {
	*sql.DB
	path string
}

// New opens the database at path and brings its schema up to date
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// every connection to :memory: is its own database
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{DB: db, path: path}, nil
}

func dsn(path string) string {
	if strings.Contains(path, "?") {
		return path + "&" + pragmas
	}
	return path + "?" + pragmas
}

// Path is where the database lives
func (d *DB) Path() string {
	return d.path
}

func (d *DB) Close() error {
	return d.DB.Close()
}
