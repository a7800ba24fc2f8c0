// Package pharmacy holds the domain vocabulary of the inventory schema:
// branches, the seed catalog and the row types stored per branch.
package pharmacy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// ErrUnknownBranch is returned when a name does not match any branch
var ErrUnknownBranch = errors.New("unknown branch")

// Branch identifies a pharmacy site
type Branch string

const (
	Namakkal Branch = "namakkal"
	Erode    Branch = "erode"
	Kovai    Branch = "kovai"
	Salem    Branch = "salem"
)

// MovementsTable is the shared stock movement log
const MovementsTable = "stock_movements"

var branchTables = map[Branch]string{
	Namakkal: "inventory_namakkal",
	Erode:    "inventory_erode",
	Kovai:    "inventory_kovai",
	Salem:    "inventory_salem",
}

// Branches returns every branch in seeding order
func Branches() []Branch {
	return []Branch{Namakkal, Erode, Kovai, Salem}
}

// Valid reports whether b is one of the known branches
func (b Branch) Valid() bool {
	_, ok := branchTables[b]
	return ok
}

// Table returns the inventory table of the branch, or "" for an unknown branch.
func (b Branch) Table() string {
	return branchTables[b]
}

func (b Branch) String() string {
	return string(b)
}

// ParseBranch resolves a branch name, ignoring case and surrounding spaces
func ParseBranch(name string) (Branch, error) {
	b := Branch(strings.ToLower(strings.TrimSpace(name)))
	if !b.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBranch, name)
	}
	return b, nil
}

// ParseBranches parses a comma-separated branch list.
// An empty list selects all branches; duplicates are dropped.
func ParseBranches(list string) ([]Branch, error) {
	if strings.TrimSpace(list) == "" {
		return Branches(), nil
	}

	var branches []Branch
	for _, name := range strings.Split(list, ",") {
		b, err := ParseBranch(name)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}

	return lo.Uniq(branches), nil
}
