package pharmaseed

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tordrt/pharmaseed/internal/db"
	"github.com/tordrt/pharmaseed/internal/log"
	"github.com/tordrt/pharmaseed/internal/pharmacy"
	"github.com/tordrt/pharmaseed/internal/schema"
)

// MigrateStore creates the inventory and movement tables on an open store
func MigrateStore(ctx context.Context, store db.Store, opts *Options) error {
	o := opts.resolve()

	if err := store.CreateTables(ctx, o.Branches); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	log.FromContext(ctx).WithField("branches", len(o.Branches)).Info("Tables created successfully")
	return nil
}

// SeedStore resets every selected branch table and inserts the catalog
func SeedStore(ctx context.Context, store db.Store, opts *Options) error {
	o := opts.resolve()

	if err := store.SeedInventory(ctx, o.Branches, o.Drugs); err != nil {
		return fmt.Errorf("failed to seed data: %w", err)
	}

	log.FromContext(ctx).WithFields(logrus.Fields{
		"branches": len(o.Branches),
		"rows":     len(o.Drugs),
	}).Info("Data seeded successfully")
	return nil
}

// VerifyStore checks that every selected branch table and stock_movements
// exist with the expected columns and that each branch holds exactly the
// catalog, ids 1..N in catalog order.
func VerifyStore(ctx context.Context, store db.Store, opts *Options) (*Report, error) {
	o := opts.resolve()
	report := &Report{Engine: store.Engine()}

	for _, branch := range o.Branches {
		table, problems, err := verifyBranch(ctx, store, branch, o.Drugs)
		if err != nil {
			return report, err
		}
		report.Tables = append(report.Tables, table)
		report.Problems = append(report.Problems, problems...)
	}

	cols, err := store.Columns(ctx, pharmacy.MovementsTable)
	if err != nil {
		return report, fmt.Errorf("failed to read columns of %s: %w", pharmacy.MovementsTable, err)
	}
	report.Tables = append(report.Tables, schema.Table{Name: pharmacy.MovementsTable, Columns: cols})
	report.Problems = append(report.Problems, columnProblems(pharmacy.MovementsTable, cols, schema.MovementColumns)...)

	logger := log.FromContext(ctx).WithField("problems", len(report.Problems))
	if report.OK() {
		logger.Info("Schema verified successfully")
	} else {
		logger.Warn("Schema verification found problems")
	}

	return report, nil
}

func verifyBranch(ctx context.Context, store db.Store, branch pharmacy.Branch, drugs []pharmacy.Drug) (schema.Table, []string, error) {
	table := schema.Table{Name: branch.Table()}

	cols, err := store.Columns(ctx, table.Name)
	if err != nil {
		return table, nil, fmt.Errorf("failed to read columns of %s: %w", table.Name, err)
	}
	table.Columns = cols

	problems := columnProblems(table.Name, cols, schema.InventoryColumns)
	if len(cols) == 0 {
		return table, problems, nil
	}

	records, err := store.Inventory(ctx, branch)
	if err != nil {
		return table, problems, err
	}
	rows := len(records)
	table.Rows = &rows

	return table, append(problems, inventoryProblems(table.Name, records, drugs)...), nil
}

func columnProblems(table string, cols []schema.Column, want []string) []string {
	if len(cols) == 0 {
		return []string{fmt.Sprintf("%s: table does not exist", table)}
	}
	if missing := schema.MissingColumns(cols, want); len(missing) > 0 {
		return []string{fmt.Sprintf("%s: missing columns %v", table, missing)}
	}
	return nil
}

// inventoryProblems compares the rows of one table with the catalog.
// Only the first mismatching row is reported.
func inventoryProblems(table string, records []pharmacy.InventoryRecord, drugs []pharmacy.Drug) []string {
	var problems []string
	if len(records) != len(drugs) {
		problems = append(problems, fmt.Sprintf("%s: expected %d rows, found %d", table, len(drugs), len(records)))
	}

	for i := 0; i < len(records) && i < len(drugs); i++ {
		rec, want := records[i], drugs[i]
		if rec.ID != int64(i+1) || rec.DrugName != want.Name || rec.CurrentStock != want.InitialStock {
			problems = append(problems, fmt.Sprintf(
				"%s: row %d is (id=%d, %s, %d), expected (id=%d, %s, %d)",
				table, i+1, rec.ID, rec.DrugName, rec.CurrentStock, i+1, want.Name, want.InitialStock,
			))
			break
		}
	}

	return problems
}
