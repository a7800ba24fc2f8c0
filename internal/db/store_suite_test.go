package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/pharmaseed/internal/pharmacy"
	"github.com/tordrt/pharmaseed/internal/schema"
)

// rawAccess lets the shared suite write rows behind the store's back
type rawAccess struct {
	// insert adds one row to table and returns its id
	insert func(ctx context.Context, table, name string, stock int) (int64, error)
	// setStock overwrites current_stock of one row
	setStock func(ctx context.Context, table string, id int64, stock int) error
	// recordMovement appends one row to stock_movements
	recordMovement func(ctx context.Context, m pharmacy.StockMovement) error
	// movements returns the rows of stock_movements ordered by id
	movements func(ctx context.Context) ([]pharmacy.StockMovement, error)
}

func sqlxAccess(s *SQLStore) rawAccess {
	return rawAccess{
		insert: func(ctx context.Context, table, name string, stock int) (int64, error) {
			query := fmt.Sprintf("INSERT INTO %s (drug_name, current_stock) VALUES (?, ?)", s.dialect.quote(table))
			res, err := s.GetDB().ExecContext(ctx, query, name, stock)
			if err != nil {
				return 0, err
			}
			return res.LastInsertId()
		},
		setStock: func(ctx context.Context, table string, id int64, stock int) error {
			query := fmt.Sprintf("UPDATE %s SET current_stock = ? WHERE id = ?", s.dialect.quote(table))
			_, err := s.GetDB().ExecContext(ctx, query, stock, id)
			return err
		},
		recordMovement: func(ctx context.Context, m pharmacy.StockMovement) error {
			_, err := s.GetDB().NamedExecContext(ctx, `
				INSERT INTO stock_movements (branch, drug_id, movement_type, quantity)
				VALUES (:branch, :drug_id, :movement_type, :quantity)`, m)
			return err
		},
		movements: func(ctx context.Context) ([]pharmacy.StockMovement, error) {
			var rows []pharmacy.StockMovement
			err := s.GetDB().SelectContext(ctx, &rows, `
				SELECT id, branch, drug_id, movement_type, quantity, movement_date
				FROM stock_movements ORDER BY id`)
			return rows, err
		},
	}
}

// runStoreSuite checks the provisioning guarantees every engine must meet.
// The store must point at an empty database.
func runStoreSuite(t *testing.T, store Store, raw rawAccess) {
	ctx := context.Background()
	branches := pharmacy.Branches()
	drugs := pharmacy.Catalog()

	t.Run("create tables is idempotent", func(t *testing.T) {
		require.NoError(t, store.CreateTables(ctx, branches))
		require.NoError(t, store.CreateTables(ctx, branches))

		for _, b := range branches {
			cols, err := store.Columns(ctx, b.Table())
			require.NoError(t, err)
			assert.Empty(t, schema.MissingColumns(cols, schema.InventoryColumns), b.Table())
			assert.Len(t, cols, len(schema.InventoryColumns), b.Table())
		}

		cols, err := store.Columns(ctx, pharmacy.MovementsTable)
		require.NoError(t, err)
		assert.Empty(t, schema.MissingColumns(cols, schema.MovementColumns))
	})

	t.Run("columns of a missing table are empty", func(t *testing.T) {
		cols, err := store.Columns(ctx, "inventory_nowhere")
		require.NoError(t, err)
		assert.Empty(t, cols)
	})

	t.Run("seed fills every branch with the catalog", func(t *testing.T) {
		require.NoError(t, store.SeedInventory(ctx, branches, drugs))

		for _, b := range branches {
			assertSeeded(t, store, b, drugs)
		}
	})

	t.Run("reseed does not accumulate rows", func(t *testing.T) {
		require.NoError(t, store.SeedInventory(ctx, branches, drugs))
		require.NoError(t, store.SeedInventory(ctx, branches, drugs))

		for _, b := range branches {
			assertSeeded(t, store, b, drugs)
		}
	})

	t.Run("next id after seeding follows the catalog", func(t *testing.T) {
		require.NoError(t, store.SeedInventory(ctx, branches, drugs))

		for _, b := range branches {
			id, err := raw.insert(ctx, b.Table(), "Cetirizine", 10)
			require.NoError(t, err)
			assert.Equal(t, int64(len(drugs)+1), id, b.Table())
		}

		// Reseeding removes the extra rows and rewinds the sequence again
		require.NoError(t, store.SeedInventory(ctx, branches, drugs))
		for _, b := range branches {
			assertSeeded(t, store, b, drugs)
		}
	})

	t.Run("duplicate branches are seeded once", func(t *testing.T) {
		kovaiTwice := []pharmacy.Branch{pharmacy.Kovai, pharmacy.Kovai}

		require.NoError(t, store.CreateTables(ctx, kovaiTwice))
		require.NoError(t, store.SeedInventory(ctx, kovaiTwice, drugs))

		assertSeeded(t, store, pharmacy.Kovai, drugs)
	})

	t.Run("stock_movements keeps its rows across reseeding", func(t *testing.T) {
		recorded := pharmacy.StockMovement{
			Branch:       pharmacy.Kovai,
			DrugID:       1,
			MovementType: pharmacy.MovementOut,
			Quantity:     5,
		}
		require.NoError(t, raw.recordMovement(ctx, recorded))

		require.NoError(t, store.SeedInventory(ctx, branches, drugs))

		rows, err := raw.movements(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(1), rows[0].ID)
		assert.Equal(t, pharmacy.Kovai, rows[0].Branch)
		assert.Equal(t, int64(1), rows[0].DrugID)
		assert.Equal(t, pharmacy.MovementOut, rows[0].MovementType)
		assert.Equal(t, 5, rows[0].Quantity)
		assert.False(t, rows[0].MovementDate.IsZero())
	})

	t.Run("amoxicillin in kovai", func(t *testing.T) {
		records, err := store.Inventory(ctx, pharmacy.Kovai)
		require.NoError(t, err)

		var found []pharmacy.InventoryRecord
		for _, r := range records {
			if r.DrugName == "Amoxicillin" {
				found = append(found, r)
			}
		}
		require.Len(t, found, 1)
		assert.Equal(t, 100, found[0].CurrentStock)
		assert.False(t, found[0].CreatedAt.IsZero())
		assert.False(t, found[0].LastUpdated.IsZero())
	})

	t.Run("branches are isolated", func(t *testing.T) {
		require.NoError(t, store.SeedInventory(ctx, branches, drugs))
		require.NoError(t, raw.setStock(ctx, pharmacy.Erode.Table(), 1, 7))

		erode, err := store.Inventory(ctx, pharmacy.Erode)
		require.NoError(t, err)
		assert.Equal(t, 7, erode[0].CurrentStock)

		for _, b := range []pharmacy.Branch{pharmacy.Namakkal, pharmacy.Kovai, pharmacy.Salem} {
			assertSeeded(t, store, b, drugs)
		}
	})

	t.Run("seeding a subset leaves other branches alone", func(t *testing.T) {
		require.NoError(t, store.SeedInventory(ctx, branches, drugs))
		_, err := raw.insert(ctx, pharmacy.Salem.Table(), "Cetirizine", 10)
		require.NoError(t, err)

		require.NoError(t, store.SeedInventory(ctx, []pharmacy.Branch{pharmacy.Kovai}, drugs[:5]))

		kovai, err := store.Inventory(ctx, pharmacy.Kovai)
		require.NoError(t, err)
		assert.Len(t, kovai, 5)

		salem, err := store.Inventory(ctx, pharmacy.Salem)
		require.NoError(t, err)
		assert.Len(t, salem, len(drugs)+1)
	})

	t.Run("empty catalog empties the tables", func(t *testing.T) {
		require.NoError(t, store.SeedInventory(ctx, branches, nil))

		for _, b := range branches {
			records, err := store.Inventory(ctx, b)
			require.NoError(t, err)
			assert.Empty(t, records, b.Table())
		}
	})

	t.Run("unknown branch is rejected", func(t *testing.T) {
		err := store.CreateTables(ctx, []pharmacy.Branch{"madurai"})
		assert.ErrorIs(t, err, pharmacy.ErrUnknownBranch)

		err = store.SeedInventory(ctx, []pharmacy.Branch{pharmacy.Kovai, "madurai"}, drugs)
		assert.ErrorIs(t, err, pharmacy.ErrUnknownBranch)

		_, err = store.Inventory(ctx, "madurai")
		assert.ErrorIs(t, err, pharmacy.ErrUnknownBranch)
	})
}

func assertSeeded(t *testing.T, store Store, branch pharmacy.Branch, drugs []pharmacy.Drug) {
	t.Helper()

	records, err := store.Inventory(context.Background(), branch)
	require.NoError(t, err)
	require.Len(t, records, len(drugs), branch.Table())

	for i, r := range records {
		assert.Equal(t, int64(i+1), r.ID, "%s row %d", branch.Table(), i)
		assert.Equal(t, drugs[i].Name, r.DrugName, "%s row %d", branch.Table(), i)
		assert.Equal(t, drugs[i].InitialStock, r.CurrentStock, "%s row %d", branch.Table(), i)
	}
}
