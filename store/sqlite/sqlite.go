/*
Package sqlite provides a SQLite-backed override.Store.

PURPOSE:
  Persists the loan override table (transaction id -> corrected amount)
  across process restarts. The collaborator contract requires partial
  updates: a single-key set or delete must not rewrite the whole table,
  which is exactly what row-level upsert/delete gives us.

SCHEMA:
  loan_overrides:
    transaction_id TEXT PRIMARY KEY
    amount         TEXT  (decimal string, no float storage)
    updated_at     TEXT

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

MIGRATION:
  Schema is auto-migrated on New(). The table is a single-table correction
  map; a versioned migration tool would be overkill here.

USAGE:
  store, err := sqlite.New("./data/overrides.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  reconciler := override.NewReconciler(store)

SEE ALSO:
  - override/reconciler.go: Store interface and apply/prune logic
  - override/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/cashflow-engine/ledger"
)

// Store implements override.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS loan_overrides (
		transaction_id TEXT PRIMARY KEY,
		amount TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// OVERRIDE.STORE IMPLEMENTATION
// =============================================================================

func (s *Store) Get(ctx context.Context, id ledger.TransactionID) (decimal.Decimal, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT amount FROM loan_overrides WHERE transaction_id = ?`, string(id),
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to read override: %w", err)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt override amount for %s: %w", id, err)
	}
	return amount, true, nil
}

func (s *Store) Set(ctx context.Context, id ledger.TransactionID, amount decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO loan_overrides (transaction_id, amount, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(transaction_id) DO UPDATE SET
			amount = excluded.amount,
			updated_at = excluded.updated_at`,
		string(id), amount.String(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to set override: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id ledger.TransactionID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM loan_overrides WHERE transaction_id = ?`, string(id),
	)
	if err != nil {
		return fmt.Errorf("failed to delete override: %w", err)
	}
	return nil
}

func (s *Store) All(ctx context.Context) (map[ledger.TransactionID]decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT transaction_id, amount FROM loan_overrides`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load overrides: %w", err)
	}
	defer rows.Close()

	result := make(map[ledger.TransactionID]decimal.Decimal)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("corrupt override amount for %s: %w", id, err)
		}
		result[ledger.TransactionID(id)] = amount
	}
	return result, rows.Err()
}
