package domain

import (
	"fmt"
	"strings"
	"time"
)

// FloorLocation is the pseudo-location used when an order is kept on the
// warehouse floor instead of a drawer slot. It has no capacity and no
// slot numbering.
const FloorLocation = "Floor"

const (
	defaultDrawerRows    = 1
	defaultDrawerColumns = 5
)

// StorageDrawer is a physical storage unit subdivided into numbered slots
// addressed "<Name>-01" .. "<Name>-<capacity>".
type StorageDrawer struct {
	ID        string
	Name      string
	Capacity  int
	Rows      int
	Columns   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveCapacity returns the configured capacity, deriving it from
// rows*columns when absent. Missing dimensions fall back to 1 row of 5
// columns, the canonical default.
func (d StorageDrawer) EffectiveCapacity() int {
	if d.Capacity > 0 {
		return d.Capacity
	}
	rows := d.Rows
	if rows <= 0 {
		rows = defaultDrawerRows
	}
	columns := d.Columns
	if columns <= 0 {
		columns = defaultDrawerColumns
	}
	return rows * columns
}

// SlotAddress formats the canonical slot identifier for a drawer position.
// Positions are 1-based and zero-padded to two digits.
func SlotAddress(drawer string, position int) string {
	return fmt.Sprintf("%s-%02d", drawer, position)
}

// SlotDrawer extracts the drawer name from a slot address. It returns
// false for the floor pseudo-location and for strings that are not slot
// addresses.
func SlotDrawer(location string) (string, bool) {
	if location == "" || location == FloorLocation {
		return "", false
	}
	i := strings.LastIndex(location, "-")
	if i <= 0 || i == len(location)-1 {
		return "", false
	}
	return location[:i], true
}
