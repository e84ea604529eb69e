package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=hindsight sslmode=disable"
func NewDB(connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Migrate creates the schema if it does not exist yet
func (db *DB) Migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS purchases (
			id UUID PRIMARY KEY,
			user_name TEXT NOT NULL,
			product_name TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			purchase_date DATE NOT NULL,
			fiat_amount NUMERIC NOT NULL,
			currency TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS btc_usd_rates (
			date DATE PRIMARY KEY,
			price NUMERIC NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fx_rates (
			base TEXT NOT NULL,
			quote TEXT NOT NULL,
			date DATE NOT NULL,
			rate NUMERIC NOT NULL,
			PRIMARY KEY (base, quote, date)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
