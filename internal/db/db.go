package db

import (
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// Connect opens the SQLite connection pool at the given path and returns a
// pointer to the sqlx.DB instance.
func Connect(dbPath string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Initialize enables foreign keys and creates the library schema if it does
// not exist. It also seeds the default branch so a fresh database can accept
// signups that name a branch.
func Initialize(pool *sqlx.DB) error {
	if _, err := pool.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS branches (
			name TEXT PRIMARY KEY,
			address TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			phone_no TEXT NOT NULL DEFAULT '',
			date_signup DATETIME NOT NULL,
			branch_name TEXT REFERENCES branches(name)
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			card_no TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL UNIQUE REFERENCES users(user_id)
		);`,
		`CREATE TABLE IF NOT EXISTS books (
			book_id INTEGER PRIMARY KEY AUTOINCREMENT,
			isbn TEXT NOT NULL,
			title TEXT NOT NULL,
			author TEXT NOT NULL,
			available_copies INTEGER NOT NULL DEFAULT 0 CHECK (available_copies >= 0),
			branch_name TEXT NOT NULL REFERENCES branches(name),
			lost_cost REAL NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS issues (
			issue_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(user_id),
			book_id INTEGER NOT NULL REFERENCES books(book_id),
			branch_name TEXT NOT NULL,
			issue_date DATETIME NOT NULL,
			due_date DATETIME NOT NULL,
			return_date DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS fines (
			fine_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(user_id),
			issue_id INTEGER NOT NULL REFERENCES issues(issue_id),
			amount REAL NOT NULL,
			assessed_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS fine_payments (
			payment_id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(user_id),
			amount REAL NOT NULL,
			paid_at DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(user_id),
			message TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL
		);`,
	}

	for _, stmt := range schema {
		if _, err := pool.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	// A fresh database needs at least one branch before signup can reference one.
	if _, err := pool.Exec(`INSERT OR IGNORE INTO branches (name, address) VALUES ('Central', '1 Library Way')`); err != nil {
		return fmt.Errorf("failed to seed default branch: %w", err)
	}

	return nil
}
