package pharmacy

import "time"

// Movement types recorded in stock_movements
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// InventoryRecord is one row of a branch inventory table
type InventoryRecord struct {
	ID           int64     `db:"id"`
	DrugName     string    `db:"drug_name"`
	CurrentStock int       `db:"current_stock"`
	CreatedAt    time.Time `db:"created_at"`
	LastUpdated  time.Time `db:"last_updated"`
}

// StockMovement is one row of the shared movement log.
// Rows are written by the inventory application, never by the provisioner.
type StockMovement struct {
	ID           int64     `db:"id"`
	Branch       Branch    `db:"branch"`
	DrugID       int64     `db:"drug_id"`
	MovementType string    `db:"movement_type"`
	Quantity     int       `db:"quantity"`
	MovementDate time.Time `db:"movement_date"`
}
