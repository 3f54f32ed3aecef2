package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/alphapulse/alphapulse/models"
)

// DB persists emitted signals. Persistence is an optional collaborator:
// the monitor works identically without it.
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters.
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New opens a connection and ensures the schema exists.
func New(params ConnectionParams) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS signals (
			id TEXT PRIMARY KEY,
			symbol TEXT NOT NULL,
			signal_type TEXT NOT NULL,
			direction TEXT NOT NULL,
			strength TEXT NOT NULL,
			confidence DOUBLE PRECISION NOT NULL,
			timeframe TEXT NOT NULL,
			value DOUBLE PRECISION,
			emitted_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating signals table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_signals_symbol_time ON signals (symbol, emitted_at DESC)`)
	if err != nil {
		return fmt.Errorf("creating signals index: %w", err)
	}
	return nil
}

// SaveSignal inserts one emitted signal.
func (db *DB) SaveSignal(sig models.Signal) error {
	_, err := db.Exec(`
		INSERT INTO signals (id, symbol, signal_type, direction, strength, confidence, timeframe, value, emitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, sig.ID, sig.Symbol, string(sig.Type), string(sig.Direction), string(sig.Strength),
		sig.Confidence, sig.Timeframe, sig.Value, sig.Timestamp)
	if err != nil {
		return fmt.Errorf("saving signal: %w", err)
	}
	return nil
}

// RecentSignals returns up to limit signals for a symbol since the given
// time, newest first.
func (db *DB) RecentSignals(symbol string, since time.Time, limit int) ([]models.Signal, error) {
	rows, err := db.Query(`
		SELECT id, symbol, signal_type, direction, strength, confidence, timeframe, value, emitted_at
		FROM signals
		WHERE symbol = $1 AND emitted_at >= $2
		ORDER BY emitted_at DESC
		LIMIT $3
	`, symbol, since, limit)
	if err != nil {
		return nil, fmt.Errorf("querying signals: %w", err)
	}
	defer rows.Close()

	var sigs []models.Signal
	for rows.Next() {
		var sig models.Signal
		var sigType, direction, strength string
		if err := rows.Scan(&sig.ID, &sig.Symbol, &sigType, &direction, &strength,
			&sig.Confidence, &sig.Timeframe, &sig.Value, &sig.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning signal: %w", err)
		}
		sig.Type = models.SignalType(sigType)
		sig.Direction = models.Direction(direction)
		sig.Strength = models.Strength(strength)
		sigs = append(sigs, sig)
	}
	return sigs, rows.Err()
}
