// Package sheet loads, reshapes and saves the translation table.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// DefaultSourceColumn is the header of the column holding source text
const DefaultSourceColumn = "Original"

var (
	// ErrInputNotFound is returned when the input workbook does not exist
	ErrInputNotFound = errors.New("input file not found")
	// ErrMissingColumn is returned when the source column is absent
	ErrMissingColumn = errors.New("required column missing")
)

// Table is an ordered set of rows with a fixed column schema. Rows hold the
// displayed text of every cell; cells loaded from a workbook also keep their
// typed value and style so that Save writes them back unchanged.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
	cells [][]cellValue
}

// cellValue is the workbook representation of a loaded value; a nil value means
// the text in Rows is written as a string
type cellValue struct {
	value interface{}
	style *excelize.Style
}

// NewTable creates a table from a header and rows; short rows are padded
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([][]string, len(rows)),
		cells:   make([][]cellValue, len(rows)),
	}
	for i, row := range rows {
		t.Rows[i] = pad(row, len(columns))
		t.cells[i] = make([]cellValue, len(columns))
	}
	t.reindex()
	return t
}

func pad[T any](row []T, width int) []T {
	out := make([]T, width)
	copy(out, row)
	return out
}

// unnamed is the header given to columns without a name
func unnamed(i int) string {
	return fmt.Sprintf("Unnamed: %d", i)
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, seen := t.index[c]; !seen {
			t.index[c] = i
		}
	}
}

// Load reads the first worksheet of an xlsx file. The first row is the header
// and must contain sourceColumn. Cells beyond the header, or under an empty
// header cell, land in columns named "Unnamed: N" with N the zero based
// column index.
func Load(path, sourceColumn string) (*Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %q (sheet %q is empty)", ErrMissingColumn, sourceColumn, sheetName)
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := pad(rows[0], width)
	for i, name := range header {
		if name == "" {
			header[i] = unnamed(i)
		}
	}

	t := NewTable(header, rows[1:])
	if !t.HasColumn(sourceColumn) {
		return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, sourceColumn, path)
	}

	if err := t.loadCells(f, sheetName); err != nil {
		return nil, err
	}

	return t, nil
}

// loadCells records the typed value and style of every data cell
func (t *Table) loadCells(f *excelize.File, sheetName string) error {
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}

	styles := make(map[int]*excelize.Style)
	for r := range t.Rows {
		if r+1 >= len(raw) {
			break
		}
		for c, rawValue := range raw[r+1] {
			if c >= len(t.Columns) {
				break
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}

			styleID, err := f.GetCellStyle(sheetName, name)
			if err != nil {
				return fmt.Errorf("failed to read style of %s: %w", name, err)
			}
			if styleID != 0 {
				style, ok := styles[styleID]
				if !ok {
					if style, err = f.GetStyle(styleID); err != nil {
						return fmt.Errorf("failed to read style of %s: %w", name, err)
					}
					styles[styleID] = style
				}
				t.cells[r][c].style = style
			}

			if rawValue == "" {
				continue
			}
			kind, err := f.GetCellType(sheetName, name)
			if err != nil {
				return fmt.Errorf("failed to read type of %s: %w", name, err)
			}
			t.cells[r][c].value = typedValue(kind, rawValue)
		}
	}
	return nil
}

// typedValue converts a raw cell value to what Save writes back; strings stay
// nil so the text column is used
func typedValue(kind excelize.CellType, raw string) interface{} {
	switch kind {
	case excelize.CellTypeBool:
		return raw == "1" || raw == "TRUE" || raw == "true"
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	return nil
}

// HasColumn reports whether the header contains name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns all values of a column
func (t *Table) Column(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}

	values := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		values[r] = row[i]
	}
	return values, nil
}

// EnsureColumns appends any missing columns. It must run before cells are
// written concurrently; afterwards the schema is fixed.
func (t *Table) EnsureColumns(names []string) {
	added := false
	for _, name := range names {
		if t.HasColumn(name) {
			continue
		}
		t.Columns = append(t.Columns, name)
		t.index[name] = len(t.Columns) - 1
		added = true
	}
	if !added {
		return
	}
	for r, row := range t.Rows {
		t.Rows[r] = pad(row, len(t.Columns))
		t.cells[r] = pad(t.cells[r], len(t.Columns))
	}
}

// Get returns a cell value
func (t *Table) Get(row int, column string) (string, error) {
	i, err := t.cell(row, column)
	if err != nil {
		return "", err
	}
	return t.Rows[row][i], nil
}

// Set writes a cell value as text, keeping the cell style. Distinct cells may
// be set from different goroutines.
func (t *Table) Set(row int, column, value string) error {
	i, err := t.cell(row, column)
	if err != nil {
		return err
	}
	t.Rows[row][i] = value
	t.cells[row][i].value = nil
	return nil
}

func (t *Table) cell(row int, column string) (int, error) {
	if row < 0 || row >= len(t.Rows) {
		return 0, fmt.Errorf("row %d out of range (0..%d)", row, len(t.Rows)-1)
	}
	i, ok := t.index[column]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMissingColumn, column)
	}
	return i, nil
}

// Reorder puts the source column first, then languages in the given order,
// then every other column in its original relative order
func (t *Table) Reorder(source string, languages []string) {
	order := make([]int, 0, len(t.Columns))
	used := make(map[int]bool, len(t.Columns))

	take := func(name string) {
		if i, ok := t.index[name]; ok && !used[i] {
			order = append(order, i)
			used[i] = true
		}
	}

	take(source)
	for _, l := range languages {
		take(l)
	}
	for i := range t.Columns {
		if !used[i] {
			order = append(order, i)
			used[i] = true
		}
	}

	columns := make([]string, len(order))
	for j, i := range order {
		columns[j] = t.Columns[i]
	}
	for r, row := range t.Rows {
		reordered := make([]string, len(order))
		cells := make([]cellValue, len(order))
		for j, i := range order {
			reordered[j] = row[i]
			cells[j] = t.cells[r][i]
		}
		t.Rows[r] = reordered
		t.cells[r] = cells
	}

	t.Columns = columns
	t.reindex()
}

// Save writes the table to a new single-sheet xlsx file. Loaded numbers,
// booleans and dates keep their type and number format.
func (t *Table) Save(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := f.GetSheetName(0)
	header := make([]interface{}, len(t.Columns))
	for i, name := range t.Columns {
		header[i] = name
	}
	if err := writeRow(f, sheetName, 1, header); err != nil {
		return err
	}

	styles := make(map[*excelize.Style]int)
	for r, row := range t.Rows {
		values := make([]interface{}, len(row))
		for c, text := range row {
			values[c] = text
			if v := t.cells[r][c].value; v != nil {
				values[c] = v
			}
		}
		if err := writeRow(f, sheetName, r+2, values); err != nil {
			return err
		}
		if err := t.writeStyles(f, sheetName, r, styles); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (t *Table) writeStyles(f *excelize.File, sheetName string, r int, styles map[*excelize.Style]int) error {
	for c, cl := range t.cells[r] {
		if cl.style == nil {
			continue
		}
		id, ok := styles[cl.style]
		if !ok {
			var err error
			if id, err = f.NewStyle(cl.style); err != nil {
				return fmt.Errorf("failed to copy cell style: %w", err)
			}
			styles[cl.style] = id
		}
		name, err := excelize.CoordinatesToCellName(c+1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, name, name, id); err != nil {
			return fmt.Errorf("failed to style %s: %w", name, err)
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheetName string, rowNum int, row []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
