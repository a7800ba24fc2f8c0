package db

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/tordrt/pharmaseed/internal/pharmacy"
	"github.com/tordrt/pharmaseed/internal/schema"
)

// Store provisions and reads back the inventory schema on one database engine
type Store interface {
	// CreateTables ensures the inventory table of every branch and the shared
	// movement table exist. It is safe to call repeatedly.
	CreateTables(ctx context.Context, branches []pharmacy.Branch) error

	// SeedInventory empties the inventory table of every branch, restarts its
	// id sequence at 1 and inserts drugs in order.
	SeedInventory(ctx context.Context, branches []pharmacy.Branch, drugs []pharmacy.Drug) error

	// Columns returns the columns of table in declaration order.
	// A table that does not exist has no columns.
	Columns(ctx context.Context, table string) ([]schema.Column, error)

	// Inventory returns the rows of a branch table ordered by id
	Inventory(ctx context.Context, branch pharmacy.Branch) ([]pharmacy.InventoryRecord, error)

	// Engine names the database engine, e.g. "postgres"
	Engine() string

	Close(ctx context.Context) error
}

// branchTable resolves the fixed table name of a branch
func branchTable(b pharmacy.Branch) (string, error) {
	if !b.Valid() {
		return "", fmt.Errorf("%w: %q", pharmacy.ErrUnknownBranch, string(b))
	}
	return b.Table(), nil
}

// branchTables resolves every branch once, keeping the first occurrence
func branchTables(branches []pharmacy.Branch) ([]string, error) {
	unique := lo.Uniq(branches)
	tables := make([]string, 0, len(unique))
	for _, b := range unique {
		table, err := branchTable(b)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, nil
}
