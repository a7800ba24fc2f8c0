package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/tordrt/pharmaseed/internal/pharmacy"
	"github.com/tordrt/pharmaseed/internal/schema"
)

const postgresInventoryDDL = `
	CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		drug_name VARCHAR(100) NOT NULL,
		current_stock INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

const postgresMovementsDDL = `
	CREATE TABLE IF NOT EXISTS stock_movements (
		id SERIAL PRIMARY KEY,
		branch VARCHAR(50) NOT NULL,
		drug_id INTEGER NOT NULL,
		movement_type VARCHAR(10) NOT NULL,
		quantity INTEGER NOT NULL,
		movement_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

const postgresMovementsIndexDDL = `
	CREATE INDEX IF NOT EXISTS idx_stock_movements_branch_drug
		ON stock_movements (branch, drug_id)
`

var seedColumns = []string{"drug_name", "current_stock"}

// PostgresStore provisions the inventory schema over a single pgx connection
type PostgresStore struct {
	conn *pgx.Conn
}

// NewPostgresStore connects to PostgreSQL and verifies the connection
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{conn: conn}, nil
}

// Engine implements Store
func (s *PostgresStore) Engine() string {
	return "postgres"
}

// Close closes the database connection
func (s *PostgresStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// GetConnection returns the underlying connection
func (s *PostgresStore) GetConnection() *pgx.Conn {
	return s.conn
}

// CreateTables implements Store
func (s *PostgresStore) CreateTables(ctx context.Context, branches []pharmacy.Branch) error {
	tables, err := branchTables(branches)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		for _, table := range tables {
			ddl := fmt.Sprintf(postgresInventoryDDL, pgx.Identifier{table}.Sanitize())
			if _, err := tx.Exec(ctx, ddl); err != nil {
				return fmt.Errorf("failed to create table %s: %w", table, err)
			}
		}

		if _, err := tx.Exec(ctx, postgresMovementsDDL); err != nil {
			return fmt.Errorf("failed to create table %s: %w", pharmacy.MovementsTable, err)
		}
		if _, err := tx.Exec(ctx, postgresMovementsIndexDDL); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", pharmacy.MovementsTable, err)
		}

		return nil
	})
}

// SeedInventory implements Store. All branches are truncated before any
// insert, and the whole seed commits or rolls back as one transaction.
func (s *PostgresStore) SeedInventory(ctx context.Context, branches []pharmacy.Branch, drugs []pharmacy.Drug) error {
	tables, err := branchTables(branches)
	if err != nil {
		return err
	}

	rows := lo.Map(drugs, func(d pharmacy.Drug, _ int) []any {
		return []any{d.Name, d.InitialStock}
	})

	return pgx.BeginFunc(ctx, s.conn, func(tx pgx.Tx) error {
		for _, table := range tables {
			stmt := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", pgx.Identifier{table}.Sanitize())
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}

		for _, table := range tables {
			n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, seedColumns, pgx.CopyFromRows(rows))
			if err != nil {
				return fmt.Errorf("failed to insert into table %s: %w", table, err)
			}
			if int(n) != len(rows) {
				return fmt.Errorf("failed to insert into table %s: copied %d of %d rows", table, n, len(rows))
			}
		}

		return nil
	})
}

// Columns implements Store
func (s *PostgresStore) Columns(ctx context.Context, table string) ([]schema.Column, error) {
	query := `
		SELECT
			column_name,
			data_type,
			character_maximum_length,
			is_nullable,
			column_default
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position
	`

	rows, err := s.conn.Query(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		var dataType, nullable string
		var charMaxLength *int
		var defaultVal *string

		if err := rows.Scan(&col.Name, &dataType, &charMaxLength, &nullable, &defaultVal); err != nil {
			return nil, err
		}

		col.Type = normalizePostgresType(dataType, charMaxLength)
		col.Nullable = (nullable == "YES")
		col.DefaultValue = defaultVal

		columns = append(columns, col)
	}

	return columns, rows.Err()
}

// Inventory implements Store
func (s *PostgresStore) Inventory(ctx context.Context, branch pharmacy.Branch) ([]pharmacy.InventoryRecord, error) {
	table, err := branchTable(branch)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"SELECT id, drug_name, current_stock, created_at, last_updated FROM %s ORDER BY id",
		pgx.Identifier{table}.Sanitize(),
	)

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", table, err)
	}

	return pgx.CollectRows(rows, pgx.RowToStructByName[pharmacy.InventoryRecord])
}

// normalizePostgresType maps verbose SQL type names to the names used in DDL
func normalizePostgresType(dataType string, charMaxLength *int) string {
	switch dataType {
	case "timestamp with time zone":
		return "timestamptz"
	case "timestamp without time zone":
		return "timestamp"
	case "character varying":
		if charMaxLength != nil {
			return fmt.Sprintf("varchar(%d)", *charMaxLength)
		}
		return "varchar"
	default:
		return dataType
	}
}
