package models

import (
	"errors"
	"fmt"
	"strings"
)

// HeaderRows is the number of rows above the first item in the worksheet.
const HeaderRows = 1

// FieldCount is the number of columns an inventory row occupies.
const FieldCount = 4

// Header is the expected first row of the inventory worksheet.
var Header = []string{"Name", "Type", "Quantity", "Unit"}

var (
	// ErrMissingHeader indicates the worksheet returned no rows at all.
	ErrMissingHeader = errors.New("inventory worksheet has no header row")

	// ErrInvalidHeader indicates the header row does not match Header.
	ErrInvalidHeader = errors.New("inventory worksheet header is invalid")

	// ErrRowOutOfRange indicates a data row has fewer than FieldCount columns.
	ErrRowOutOfRange = errors.New("inventory row is missing columns")
)

// Item is one inventory line. Index is positional and 1-based.
type Item struct {
	Index    int
	Name     string
	Type     string
	Quantity string
	Unit     string
}

// StoreRow returns the worksheet row holding the item.
func (i Item) StoreRow() int {
	return StoreRow(i.Index)
}

// Values returns the item fields in column order.
func (i Item) Values() []string {
	return []string{i.Name, i.Type, i.Quantity, i.Unit}
}

// StoreRow converts a 1-based item index into a 1-based worksheet row.
func StoreRow(index int) int {
	return index + HeaderRows
}

// RowError reports a data row that could not be mapped.
type RowError struct {
	Row     int
	Columns int
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d has %d columns, want %d", e.Row, e.Columns, FieldCount)
}

func (e *RowError) Unwrap() error {
	return ErrRowOutOfRange
}

// MapRows converts a raw worksheet grid, header first, into items.
func MapRows(grid [][]string) ([]Item, error) {
	if len(grid) == 0 {
		return nil, ErrMissingHeader
	}
	if err := checkHeader(grid[0]); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(grid)-1)
	for i, row := range grid[1:] {
		if len(row) < FieldCount {
			return nil, &RowError{Row: StoreRow(i + 1), Columns: len(row)}
		}
		items = append(items, Item{
			Index:    i + 1,
			Name:     row[0],
			Type:     row[1],
			Quantity: row[2],
			Unit:     row[3],
		})
	}

	return items, nil
}

func checkHeader(row []string) error {
	if len(row) < FieldCount {
		return fmt.Errorf("%w: got %d columns, want %d", ErrInvalidHeader, len(row), FieldCount)
	}
	for col, want := range Header {
		got := strings.ToLower(strings.TrimSpace(row[col]))
		if got != strings.ToLower(want) {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrInvalidHeader, col+1, row[col], want)
		}
	}
	return nil
}
