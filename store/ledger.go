package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Reservation is one audit row. Reservations never decrement stock;
// the ledger only records that a pickup was confirmed.
type Reservation struct {
	ID           string
	Code         string
	UserID       string
	MedicationID string
	Quantity     int
	CreatedAt    time.Time
}

// Ledger is the SQLite-backed reservation audit trail.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens (or creates) the reservation database in dataDir.
func OpenLedger(dataDir string) (*Ledger, error) {
	dbPath := filepath.Join(dataDir, "reservations.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ledger := &Ledger{db: db}

	if err := ledger.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return ledger, nil
}

func (l *Ledger) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL,
		user_id TEXT NOT NULL,
		medication_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_reservations_user ON reservations(user_id);
	`

	_, err := l.db.Exec(schema)
	if err != nil {
		return err
	}

	if err := l.migrateSchema(); err != nil {
		return fmt.Errorf("schema migration failed: %w", err)
	}

	return nil
}

// migrateSchema adds missing columns to existing databases
func (l *Ledger) migrateSchema() error {
	// Ledgers created before confirmation codes lack the code column
	hasCode, err := l.columnExists("reservations", "code")
	if err != nil {
		return fmt.Errorf("failed to check for code column: %w", err)
	}

	switch {
	case !hasCode:
		_, err := l.db.Exec(`ALTER TABLE reservations ADD COLUMN code TEXT DEFAULT ''`)
		if err != nil {
			return fmt.Errorf("failed to add code column: %w", err)
		}
	}

	return nil
}

// columnExists checks if a column exists in a table using PRAGMA table_info
func (l *Ledger) columnExists(tableName, columnName string) (bool, error) {
	query := fmt.Sprintf("PRAGMA table_info(%s)", tableName)
	rows, err := l.db.Query(query)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name string
		var dataType string
		var notNull int
		var defaultValue interface{}
		var pk int

		err := rows.Scan(&cid, &name, &dataType, &notNull, &defaultValue, &pk)
		if err != nil {
			return false, err
		}

		switch {
		case name == columnName:
			return true, nil
		}
	}

	return false, rows.Err()
}

// Record appends one reservation row.
func (l *Ledger) Record(ctx context.Context, r Reservation) error {
	query := `
	INSERT INTO reservations (id, code, user_id, medication_id, quantity, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := l.db.ExecContext(ctx, query,
		r.ID,
		r.Code,
		r.UserID,
		r.MedicationID,
		r.Quantity,
		r.CreatedAt,
	)

	return err
}

// Recent returns the latest reservations, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Reservation, error) {
	query := `
	SELECT id, code, user_id, medication_id, quantity, created_at
	FROM reservations
	ORDER BY created_at DESC
	LIMIT ?
	`

	rows, err := l.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var r Reservation
		err := rows.Scan(&r.ID, &r.Code, &r.UserID, &r.MedicationID, &r.Quantity, &r.CreatedAt)
		if err != nil {
			continue
		}
		out = append(out, r)
	}

	return out, nil
}

// Count reports the total number of recorded reservations.
func (l *Ledger) Count(ctx context.Context) (int, error) {
	var n int
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}
