package db

import (
	"database/sql"
	"fmt"
	"time"
)

// ConversionRecord represents one booked statement transaction.
type ConversionRecord struct {
	ID          int64
	TxnRef      string
	TxnType     string
	IssueDate   string
	Amount      string // decimal string
	Currency    string
	LedgerFile  string
	ConvertedAt time.Time
}

// ConversionHistory manages conversion history operations. It is the
// duplicate-import guard: a transaction reference recorded here is never
// booked again by a later run.
type ConversionHistory struct {
	conn *Connection
}

// NewConversionHistory creates a new ConversionHistory instance.
func NewConversionHistory(conn *Connection) *ConversionHistory {
	return &ConversionHistory{conn: conn}
}

// Record records a conversion. If the reference already exists, the row
// is refreshed.
func (h *ConversionHistory) Record(record ConversionRecord) error {
	query := `
		INSERT INTO conversion_history (txn_ref, txn_type, issue_date, amount, currency, ledger_file)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(txn_ref) DO UPDATE SET
			txn_type = excluded.txn_type,
			issue_date = excluded.issue_date,
			amount = excluded.amount,
			currency = excluded.currency,
			ledger_file = excluded.ledger_file,
			converted_at = CURRENT_TIMESTAMP
	`

	_, err := h.conn.Exec(query,
		record.TxnRef,
		record.TxnType,
		record.IssueDate,
		record.Amount,
		record.Currency,
		record.LedgerFile,
	)

	if err != nil {
		return fmt.Errorf("failed to record conversion: %w", err)
	}

	return nil
}

// IsConverted checks if a transaction reference has been booked.
func (h *ConversionHistory) IsConverted(txnRef string) (bool, error) {
	query := `SELECT COUNT(*) FROM conversion_history WHERE txn_ref = ?`

	var count int
	err := h.conn.QueryRow(query, txnRef).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check if converted: %w", err)
	}

	return count > 0, nil
}

// ConvertedRefs retrieves all booked transaction references, for bulk
// filtering before a run.
func (h *ConversionHistory) ConvertedRefs() (map[string]bool, error) {
	query := `SELECT txn_ref FROM conversion_history`

	rows, err := h.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get converted refs: %w", err)
	}
	defer rows.Close()

	refs := make(map[string]bool)
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("failed to scan transaction ref: %w", err)
		}
		refs[ref] = true
	}

	return refs, nil
}

// Delete deletes a conversion record.
// Use case: force re-booking of a specific transaction.
func (h *ConversionHistory) Delete(txnRef string) (bool, error) {
	result, err := h.conn.Exec(`DELETE FROM conversion_history WHERE txn_ref = ?`, txnRef)
	if err != nil {
		return false, fmt.Errorf("failed to delete conversion record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows > 0, nil
}

// Stats represents conversion statistics.
type Stats struct {
	TotalTransactions int
	LastRun           sql.NullString
}

// GetStats retrieves conversion statistics.
func (h *ConversionHistory) GetStats() (*Stats, error) {
	var stats Stats

	err := h.conn.QueryRow(`SELECT COUNT(*) FROM conversion_history`).Scan(&stats.TotalTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction count: %w", err)
	}

	err = h.conn.QueryRow(`SELECT MAX(converted_at) FROM conversion_history`).Scan(&stats.LastRun)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last run time: %w", err)
	}

	return &stats, nil
}

// GetMetadata retrieves a metadata value.
func (h *ConversionHistory) GetMetadata(key string) (string, error) {
	query := `SELECT value FROM run_metadata WHERE key = ?`

	var value string
	err := h.conn.QueryRow(query, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get metadata: %w", err)
	}

	return value, nil
}

// SetMetadata sets a metadata value.
func (h *ConversionHistory) SetMetadata(key, value string) error {
	query := `
		INSERT INTO run_metadata (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := h.conn.Exec(query, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata: %w", err)
	}

	return nil
}
