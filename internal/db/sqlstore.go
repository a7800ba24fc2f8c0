package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tordrt/pharmaseed/internal/pharmacy"
	"github.com/tordrt/pharmaseed/internal/schema"
)

// sqlDialect captures what differs between the database/sql engines
type sqlDialect struct {
	engine       string
	inventoryDDL string
	movementsDDL []string
	quote        func(ident string) string
	resetTable   func(ctx context.Context, tx *sqlx.Tx, table string) error
	columns      func(ctx context.Context, db *sqlx.DB, table string) ([]schema.Column, error)
}

// SQLStore provisions the inventory schema through database/sql.
// It backs the SQLite and MySQL engines.
type SQLStore struct {
	db      *sqlx.DB
	dialect sqlDialect
}

// Engine implements Store
func (s *SQLStore) Engine() string {
	return s.dialect.engine
}

// Close closes the database connection
func (s *SQLStore) Close(_ context.Context) error {
	return s.db.Close()
}

// GetDB returns the underlying database handle
func (s *SQLStore) GetDB() *sqlx.DB {
	return s.db
}

// CreateTables implements Store
func (s *SQLStore) CreateTables(ctx context.Context, branches []pharmacy.Branch) error {
	tables, err := branchTables(branches)
	if err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range tables {
			ddl := fmt.Sprintf(s.dialect.inventoryDDL, s.dialect.quote(table))
			if _, err := tx.ExecContext(ctx, ddl); err != nil {
				return fmt.Errorf("failed to create table %s: %w", table, err)
			}
		}

		for _, ddl := range s.dialect.movementsDDL {
			if _, err := tx.ExecContext(ctx, ddl); err != nil {
				return fmt.Errorf("failed to create table %s: %w", pharmacy.MovementsTable, err)
			}
		}

		return nil
	})
}

// SeedInventory implements Store
func (s *SQLStore) SeedInventory(ctx context.Context, branches []pharmacy.Branch, drugs []pharmacy.Drug) error {
	tables, err := branchTables(branches)
	if err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range tables {
			if err := s.dialect.resetTable(ctx, tx, table); err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}

		// sqlx rejects a batch insert of zero rows
		if len(drugs) == 0 {
			return nil
		}

		for _, table := range tables {
			query := fmt.Sprintf(
				"INSERT INTO %s (drug_name, current_stock) VALUES (:drug_name, :current_stock)",
				s.dialect.quote(table),
			)

			res, err := tx.NamedExecContext(ctx, query, drugs)
			if err != nil {
				return fmt.Errorf("failed to insert into table %s: %w", table, err)
			}
			if n, err := res.RowsAffected(); err == nil && int(n) != len(drugs) {
				return fmt.Errorf("failed to insert into table %s: inserted %d of %d rows", table, n, len(drugs))
			}
		}

		return nil
	})
}

// Columns implements Store
func (s *SQLStore) Columns(ctx context.Context, table string) ([]schema.Column, error) {
	return s.dialect.columns(ctx, s.db, table)
}

// Inventory implements Store
func (s *SQLStore) Inventory(ctx context.Context, branch pharmacy.Branch) ([]pharmacy.InventoryRecord, error) {
	table, err := branchTable(branch)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT id, drug_name, current_stock, created_at, last_updated FROM %s ORDER BY id",
		s.dialect.quote(table),
	)

	var records []pharmacy.InventoryRecord
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}
	return records, nil
}

func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
