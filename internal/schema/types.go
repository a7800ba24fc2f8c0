package schema

// Report describes the provisioned schema as read back from a database
type Report struct {
	Engine   string
	Tables   []Table
	Problems []string
}

// OK reports whether verification found no problems
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// Table represents a provisioned table as read back from the database
type Table struct {
	Name    string
	Columns []Column
	// Rows is nil when the table was not counted
	Rows *int
}

// Column represents a table column
type Column struct {
	Name         string
	Type         string
	Nullable     bool
	DefaultValue *string
}

// InventoryColumns lists the columns of every branch inventory table in declaration order
var InventoryColumns = []string{"id", "drug_name", "current_stock", "created_at", "last_updated"}

// MovementColumns lists the columns of stock_movements in declaration order
var MovementColumns = []string{"id", "branch", "drug_id", "movement_type", "quantity", "movement_date"}

// MissingColumns returns the names in want that are absent from cols
func MissingColumns(cols []Column, want []string) []string {
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c.Name] = true
	}

	var missing []string
	for _, name := range want {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
