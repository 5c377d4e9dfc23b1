package db

import (
	"database/sql"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

var (
	Client *sql.DB
)

const SCHEMA = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	username TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	avatar_url TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_users_email ON users(email);
CREATE INDEX IF NOT EXISTS ix_users_username ON users(username);

CREATE TABLE IF NOT EXISTS posts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	content TEXT NOT NULL,
	image_url TEXT,
	owner_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_posts_owner_id ON posts(owner_id);
CREATE INDEX IF NOT EXISTS ix_posts_created_at ON posts(created_at);
`

// Connect opens the SQLite DB at dsn (a file path or "file:" URI) and
// creates any missing tables.
func Connect(dsn string) error {
	var err error
	Client, err = sql.Open("sqlite3", WithPragmas(dsn))
	if err != nil {
		return err
	}

	if err = Client.Ping(); err != nil {
		return err
	}
	log.Print("DB connection verified")

	if err = CreateSchema(Client); err != nil {
		return err
	}

	return nil
}

func CreateSchema(client *sql.DB) error {
	_, err := client.Exec(SCHEMA)
	return err
}

// Appends the connection params every connection needs.
// "sqlite:///./app.db" style URLs are accepted too.
func WithPragmas(dsn string) string {
	dsn = strings.TrimPrefix(dsn, "sqlite:///")
	dsn = strings.TrimPrefix(dsn, "sqlite://")

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return dsn + sep + "_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
}
