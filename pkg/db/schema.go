// Package db provides SQLite database management for conversion history and metadata.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Conversion history table
-- Tracks which statement transactions have been booked to ledger files
CREATE TABLE IF NOT EXISTS conversion_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    txn_ref TEXT NOT NULL,             -- transaction reference from the statement
    txn_type TEXT NOT NULL,            -- processor transaction type
    issue_date TEXT NOT NULL,          -- YYYY-MM-DD
    amount TEXT NOT NULL,              -- gross amount, decimal string
    currency TEXT NOT NULL,            -- currency code
    ledger_file TEXT NOT NULL,         -- path to the ledger file written
    converted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(txn_ref)
);

CREATE INDEX IF NOT EXISTS idx_conversion_history_ref
    ON conversion_history(txn_ref);

CREATE INDEX IF NOT EXISTS idx_conversion_history_date
    ON conversion_history(issue_date);

-- Run metadata table
-- Stores key-value metadata about conversion runs
CREATE TABLE IF NOT EXISTS run_metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema initializes the database schema.
// It creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
