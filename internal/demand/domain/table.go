package demand

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Column is one building's hourly demand aligned to the table index.
// Values must be treated as read-only.
type Column struct {
	BuildingID string
	Name       string
	Values     []float64
}

// Total is the annual sum of one column.
type Total struct {
	BuildingID   string
	Name         string
	AnnualDemand float64
}

// Table collects hourly demand per building keyed by the shared index.
// Invariants:
// 1) Every column has exactly one value per index timestamp.
// 2) Building ids are unique; insertion order is preserved.
type Table struct {
	index   HourlyIndex
	columns []Column
	byID    map[string]int
}

// NewTable creates an empty table over index.
func NewTable(index HourlyIndex) (*Table, error) {
	if len(index) == 0 {
		return nil, ErrEmptyIndex
	}
	return &Table{
		index: index,
		byID:  make(map[string]int),
	}, nil
}

// Add appends a column. values is copied.
func (t *Table) Add(buildingID, name string, values []float64) error {
	if buildingID == "" {
		return ErrEmptyBuildingID
	}
	if len(values) != len(t.index) {
		return fmt.Errorf("%w: %s has %d values, index has %d", ErrLengthMismatch, buildingID, len(values), len(t.index))
	}
	if _, exists := t.byID[buildingID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBuilding, buildingID)
	}

	copied := make([]float64, len(values))
	copy(copied, values)
	t.byID[buildingID] = len(t.columns)
	t.columns = append(t.columns, Column{BuildingID: buildingID, Name: name, Values: copied})
	return nil
}

// Index returns the shared hourly index.
func (t *Table) Index() HourlyIndex { return t.index }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.index) }

// Columns returns the columns in insertion order.
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Column looks a column up by building id.
func (t *Table) Column(buildingID string) (Column, bool) {
	i, ok := t.byID[buildingID]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Row returns the timestamp and the values of all columns at row i.
func (t *Table) Row(i int) (time.Time, []float64) {
	values := make([]float64, len(t.columns))
	for c, col := range t.columns {
		values[c] = col.Values[i]
	}
	return t.index[i], values
}

// Totals returns the annual sum per column.
func (t *Table) Totals() []Total {
	totals := make([]Total, 0, len(t.columns))
	for _, col := range t.columns {
		totals = append(totals, Total{
			BuildingID:   col.BuildingID,
			Name:         col.Name,
			AnnualDemand: floats.Sum(col.Values),
		})
	}
	return totals
}

// Peak returns the maximum hourly value of a column and its timestamp.
func (t *Table) Peak(buildingID string) (time.Time, float64, error) {
	col, ok := t.Column(buildingID)
	if !ok {
		return time.Time{}, 0, fmt.Errorf("%w: %s", ErrBuildingNotFound, buildingID)
	}
	i := floats.MaxIdx(col.Values)
	return t.index[i], col.Values[i], nil
}

// Equal reports whether both tables share index, columns and values.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.index) != len(other.index) || len(t.columns) != len(other.columns) {
		return false
	}
	for i := range t.index {
		if !t.index[i].Equal(other.index[i]) {
			return false
		}
	}
	for i, col := range t.columns {
		o := other.columns[i]
		if col.BuildingID != o.BuildingID || col.Name != o.Name {
			return false
		}
		if !floats.Equal(col.Values, o.Values) {
			return false
		}
	}
	return true
}
