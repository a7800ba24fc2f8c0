package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/tordrt/pharmaseed/internal/schema"
)

const sqliteInventoryDDL = `
	CREATE TABLE IF NOT EXISTS %s (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		drug_name VARCHAR(100) NOT NULL,
		current_stock INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

var sqliteMovementsDDL = []string{`
	CREATE TABLE IF NOT EXISTS stock_movements (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		branch VARCHAR(50) NOT NULL,
		drug_id INTEGER NOT NULL,
		movement_type VARCHAR(10) NOT NULL,
		quantity INTEGER NOT NULL,
		movement_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`, `
	CREATE INDEX IF NOT EXISTS idx_stock_movements_branch_drug
		ON stock_movements (branch, drug_id)`,
}

var sqliteDialect = sqlDialect{
	engine:       "sqlite",
	inventoryDDL: sqliteInventoryDDL,
	movementsDDL: sqliteMovementsDDL,
	quote:        quoteDouble,
	resetTable:   sqliteResetTable,
	columns:      sqliteColumns,
}

// NewSQLiteStore opens the SQLite database at path
func NewSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: ":memory:" databases are per connection, and the
	// provisioner never needs more.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLStore{db: db, dialect: sqliteDialect}, nil
}

// sqliteResetTable empties table and rewinds its AUTOINCREMENT counter
func sqliteResetTable(ctx context.Context, tx *sqlx.Tx, table string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+quoteDouble(table)); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, "DELETE FROM sqlite_sequence WHERE name = ?", table)
	return err
}

type sqliteColumn struct {
	Name    string         `db:"name"`
	Type    string         `db:"type"`
	NotNull int            `db:"notnull"`
	Default sql.NullString `db:"dflt_value"`
}

func sqliteColumns(ctx context.Context, db *sqlx.DB, table string) ([]schema.Column, error) {
	query := `SELECT name, type, "notnull", dflt_value FROM pragma_table_info(?) ORDER BY cid`

	var rows []sqliteColumn
	if err := db.SelectContext(ctx, &rows, query, table); err != nil {
		return nil, err
	}

	columns := make([]schema.Column, 0, len(rows))
	for _, r := range rows {
		col := schema.Column{
			Name:     r.Name,
			Type:     strings.ToLower(r.Type),
			Nullable: r.NotNull == 0,
		}
		if r.Default.Valid {
			col.DefaultValue = &r.Default.String
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func quoteDouble(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
