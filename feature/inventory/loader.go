package inventory

import (
	"errors"
	"fmt"
	"strings"

	"license-auditor/core/reconcile"
	"license-auditor/core/utils"
)

var (
	// ErrUnsupportedRow is returned for a data row with fewer than three cells.
	ErrUnsupportedRow = errors.New("unsupported row format")
	// ErrInvalidObjectID is returned when an object id is not numeric.
	ErrInvalidObjectID = errors.New("object id is not a number")
)

const minCells = 3

// Inventory is the normalized content of one sheet.
type Inventory struct {
	// Sheet is the name of the sheet the objects were read from.
	Sheet string `json:"sheet"`

	// Objects holds the objects in sheet order.
	Objects []reconcile.InventoryObject `json:"objects"`
}

// Load selects a sheet and converts its rows into inventory objects.
// The first row is a header and is discarded. Columns are type, id and name;
// further columns are ignored.
func Load(src Source, pick SheetPicker) (*Inventory, error) {
	sheet, err := SelectSheet(src.SheetNames(), pick)
	if err != nil {
		return nil, err
	}

	rows, err := src.Rows(sheet)
	if err != nil {
		return nil, err
	}

	inv := &Inventory{
		Sheet:   sheet,
		Objects: make([]reconcile.InventoryObject, 0, len(rows)),
	}
	if len(rows) == 0 {
		return inv, nil
	}

	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlank(row) {
			continue
		}

		obj, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, rowNum, err)
		}
		inv.Objects = append(inv.Objects, obj)
	}

	return inv, nil
}

// LoadFile opens an export, loads it and closes it again.
func LoadFile(path string, pick SheetPicker) (*Inventory, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return Load(src, pick)
}

func parseRow(row []any) (reconcile.InventoryObject, error) {
	if len(row) < minCells {
		return reconcile.InventoryObject{}, fmt.Errorf("%w: expected at least %d cells, got %d", ErrUnsupportedRow, minCells, len(row))
	}

	objectType, err := reconcile.ParseObjectType(utils.ToString(row[0]))
	if err != nil {
		return reconcile.InventoryObject{}, err
	}

	id, err := objectID(row[1])
	if err != nil {
		return reconcile.InventoryObject{}, err
	}

	return reconcile.InventoryObject{
		ObjectType: objectType,
		ID:         id,
		Name:       utils.ToString(row[2]),
	}, nil
}

// objectID accepts integer cells as-is and truncates floating point cells.
// Text cells are rejected even when they look numeric.
func objectID(cell any) (int64, error) {
	switch v := cell.(type) {
	case Number:
		id, err := utils.ToInt64(string(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidObjectID, string(v))
		}
		return id, nil
	case int64, int, float64:
		id, err := utils.ToInt64(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidObjectID, cell)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidObjectID, utils.ToString(cell))
	}
}

func isBlank(row []any) bool {
	for _, cell := range row {
		if strings.TrimSpace(utils.ToString(cell)) != "" {
			return false
		}
	}
	return true
}
