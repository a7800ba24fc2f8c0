package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/tordrt/pharmaseed/internal/schema"
)

const mysqlInventoryDDL = `
	CREATE TABLE IF NOT EXISTS %s (
		id INT AUTO_INCREMENT PRIMARY KEY,
		drug_name VARCHAR(100) NOT NULL,
		current_stock INT NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_updated TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
`

// MySQL has no CREATE INDEX IF NOT EXISTS, so the index is declared inline
var mysqlMovementsDDL = []string{`
	CREATE TABLE IF NOT EXISTS stock_movements (
		id INT AUTO_INCREMENT PRIMARY KEY,
		branch VARCHAR(50) NOT NULL,
		drug_id INT NOT NULL,
		movement_type VARCHAR(10) NOT NULL,
		quantity INT NOT NULL,
		movement_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_stock_movements_branch_drug (branch, drug_id)
	)`,
}

var mysqlDialect = sqlDialect{
	engine:       "mysql",
	inventoryDDL: mysqlInventoryDDL,
	movementsDDL: mysqlMovementsDDL,
	quote:        quoteBacktick,
	resetTable:   mysqlResetTable,
	columns:      mysqlColumns,
}

// NewMySQLStore connects to MySQL using a go-sql-driver DSN
// (user:pass@tcp(host:port)/database). parseTime is always enabled so
// timestamps scan into time.Time.
func NewMySQLStore(ctx context.Context, dsn string) (*SQLStore, error) {
	dsn, err := normalizeMySQLDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLStore{db: db, dialect: mysqlDialect}, nil
}

func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	if cfg.DBName == "" {
		return "", fmt.Errorf("invalid MySQL DSN: no database name")
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// mysqlResetTable truncates table, which also resets AUTO_INCREMENT.
// TRUNCATE commits the surrounding transaction implicitly.
func mysqlResetTable(ctx context.Context, tx *sqlx.Tx, table string) error {
	_, err := tx.ExecContext(ctx, "TRUNCATE TABLE "+quoteBacktick(table))
	return err
}

type mysqlColumn struct {
	Name     string         `db:"name"`
	Type     string         `db:"type"`
	Nullable string         `db:"nullable"`
	Default  sql.NullString `db:"dflt"`
}

func mysqlColumns(ctx context.Context, db *sqlx.DB, table string) ([]schema.Column, error) {
	query := `
		SELECT
			column_name AS name,
			column_type AS type,
			is_nullable AS nullable,
			column_default AS dflt
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position
	`

	var rows []mysqlColumn
	if err := db.SelectContext(ctx, &rows, query, table); err != nil {
		return nil, err
	}

	columns := make([]schema.Column, 0, len(rows))
	for _, r := range rows {
		col := schema.Column{
			Name:     r.Name,
			Type:     strings.ToLower(r.Type),
			Nullable: r.Nullable == "YES",
		}
		if r.Default.Valid {
			col.DefaultValue = &r.Default.String
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func quoteBacktick(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}
