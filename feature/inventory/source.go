package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for inventory files that are neither xlsx nor csv.
var ErrUnsupportedFormat = errors.New("unsupported inventory format")

// Source is a tabular export made of one or more named sheets.
// Cells are Number or string values; in-memory sources may also use int64
// and float64.
type Source interface {
	// SheetNames lists the sheets in workbook order.
	SheetNames() []string
	// Rows returns every row of a sheet, header included.
	Rows(sheet string) ([][]any, error)
	// Close releases the underlying file.
	Close() error
}

// Open opens an inventory export based on its file extension.
func Open(path string) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return OpenXLSX(path)
	case ".csv":
		return OpenCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Read reads an uploaded export. The format is chosen from the file name.
func Read(name string, r io.Reader) (Source, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	case ".csv":
		return ReadCSV(strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// XLSXSource reads sheets from an Excel workbook.
type XLSXSource struct {
	file *excelize.File
}

// OpenXLSX opens a workbook from disk.
func OpenXLSX(path string) (*XLSXSource, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the objects file: %w", err)
	}
	return &XLSXSource{file: f}, nil
}

// ReadXLSX reads a workbook from a stream, e.g. an uploaded file.
func ReadXLSX(r io.Reader) (*XLSXSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not read the objects workbook: %w", err)
	}
	return &XLSXSource{file: f}, nil
}

// SheetNames lists the workbook sheets.
func (s *XLSXSource) SheetNames() []string {
	return s.file.GetSheetList()
}

// Rows returns the cells of a sheet. Number and unset (default numeric) cells
// become Number, every other cell keeps its text. Rows are padded to the
// sheet width since trailing empty cells are not stored.
func (s *XLSXSource) Rows(sheet string) ([][]any, error) {
	rows, err := s.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, value := range row {
			cell, err := s.cell(sheet, i, j, value)
			if err != nil {
				return nil, err
			}
			cells[j] = cell
		}
		out[i] = cells
	}
	return padRows(out), nil
}

func (s *XLSXSource) cell(sheet string, row, col int, value string) (any, error) {
	if value == "" {
		return value, nil
	}
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	cellType, err := s.file.GetCellType(sheet, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell %s of sheet %q: %w", name, sheet, err)
	}
	switch cellType {
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return Number(value), nil
	default:
		return value, nil
	}
}

// Close closes the workbook.
func (s *XLSXSource) Close() error {
	return s.file.Close()
}

// Number is a numeric cell in its stored text form. Keeping the text leaves
// names like "007" untouched; ids are converted by the loader.
type Number string

// textCell types a cell of an untyped format: numeric text becomes Number.
func textCell(value string) any {
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		return Number(value)
	}
	return value
}

// padRows extends every row with empty cells up to the widest row.
func padRows(rows [][]any) [][]any {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row
	}
	return rows
}

// CSVSource exposes a comma separated export as a single sheet.
type CSVSource struct {
	name string
	rows [][]any
}

// OpenCSV reads a csv export from disk. The sheet is named after the file.
func OpenCSV(path string) (*CSVSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read the objects file: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ReadCSV(name, f)
}

// ReadCSV reads a csv export from a stream.
func ReadCSV(name string, r io.Reader) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", name, err)
	}

	rows := make([][]any, len(records))
	for i, record := range records {
		cells := make([]any, len(record))
		for j, value := range record {
			cells[j] = textCell(value)
		}
		rows[i] = cells
	}
	return &CSVSource{name: name, rows: padRows(rows)}, nil
}

// SheetNames returns the single sheet name.
func (s *CSVSource) SheetNames() []string {
	return []string{s.name}
}

// Rows returns the records of the export.
func (s *CSVSource) Rows(sheet string) ([][]any, error) {
	if sheet != s.name {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}
	return s.rows, nil
}

// Close is a no-op, the file is read eagerly.
func (s *CSVSource) Close() error {
	return nil
}
