package sheet

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"codeberg.org/snonux/sheetxlate/internal/testutil"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.xlsx")
	testutil.WriteWorkbook(t, path, [][]string{
		{"ID", "Original", "Notes"},
		{"1", "Install the driver before rebooting.", "boot"},
		{"2", "Open the cover"},
		{"3", "", "blank"},
	})

	table, err := Load(path, DefaultSourceColumn)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(table.Columns, []string{"ID", "Original", "Notes"}) {
		t.Errorf("Columns = %v", table.Columns)
	}
	if table.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", table.Len())
	}

	sources, err := table.Column("Original")
	if err != nil {
		t.Fatalf("Column() error = %v", err)
	}
	want := []string{"Install the driver before rebooting.", "Open the cover", ""}
	if !reflect.DeepEqual(sources, want) {
		t.Errorf("Column(Original) = %q, want %q", sources, want)
	}

	// Short rows are padded to the header width
	if notes, _ := table.Get(1, "Notes"); notes != "" {
		t.Errorf("Get(1, Notes) = %q, want empty", notes)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.xlsx"), DefaultSourceColumn); !errors.Is(err, ErrInputNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrInputNotFound", err)
	}

	path := filepath.Join(dir, "nocol.xlsx")
	testutil.WriteWorkbook(t, path, [][]string{
		{"Source", "Notes"},
		{"text", "n"},
	})
	if _, err := Load(path, DefaultSourceColumn); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Load(no column) error = %v, want ErrMissingColumn", err)
	}

	empty := filepath.Join(dir, "empty.xlsx")
	testutil.WriteWorkbook(t, empty, nil)
	if _, err := Load(empty, DefaultSourceColumn); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Load(empty) error = %v, want ErrMissingColumn", err)
	}
}

func TestEnsureColumnsAndSet(t *testing.T) {
	table := NewTable([]string{"Original", "French"}, [][]string{{"a", "existing"}, {"b"}})

	table.EnsureColumns([]string{"French", "German", "Arabic"})
	if !reflect.DeepEqual(table.Columns, []string{"Original", "French", "German", "Arabic"}) {
		t.Fatalf("Columns = %v", table.Columns)
	}
	for r, row := range table.Rows {
		if len(row) != 4 {
			t.Errorf("row %d width = %d, want 4", r, len(row))
		}
	}

	if v, _ := table.Get(0, "French"); v != "existing" {
		t.Errorf("existing value lost, got %q", v)
	}

	if err := table.Set(1, "German", "b-de"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, _ := table.Get(1, "German"); v != "b-de" {
		t.Errorf("Get(1, German) = %q", v)
	}

	if err := table.Set(5, "German", "x"); err == nil {
		t.Error("Expected error for out of range row")
	}
	if err := table.Set(0, "Klingon", "x"); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Set(unknown column) error = %v, want ErrMissingColumn", err)
	}
}

func TestReorder(t *testing.T) {
	table := NewTable(
		[]string{"ID", "German", "Original", "Notes", "French"},
		[][]string{
			{"1", "de1", "src1", "n1", "fr1"},
			{"2", "de2", "src2", "n2", "fr2"},
		},
	)

	table.Reorder("Original", []string{"French", "German"})

	wantCols := []string{"Original", "French", "German", "ID", "Notes"}
	if !reflect.DeepEqual(table.Columns, wantCols) {
		t.Errorf("Columns = %v, want %v", table.Columns, wantCols)
	}
	wantRow := []string{"src2", "fr2", "de2", "2", "n2"}
	if !reflect.DeepEqual(table.Rows[1], wantRow) {
		t.Errorf("Rows[1] = %v, want %v", table.Rows[1], wantRow)
	}

	// Lookups follow the new order
	if v, _ := table.Get(0, "Notes"); v != "n1" {
		t.Errorf("Get(0, Notes) = %q after reorder", v)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	table := NewTable(
		[]string{"Original", "Arabic"},
		[][]string{
			{"Install the driver before rebooting.", "قم بتثبيت برنامج التشغيل قبل إعادة التشغيل"},
			{"Broken", "ERROR"},
		},
	)

	if err := table.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rows := testutil.ReadWorkbook(t, path)
	want := [][]string{
		{"Original", "Arabic"},
		{"Install the driver before rebooting.", "قم بتثبيت برنامج التشغيل قبل إعادة التشغيل"},
		{"Broken", "ERROR"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("saved rows = %v, want %v", rows, want)
	}
}

// writeTypedWorkbook builds a sheet with a number, a date, a boolean and a
// cell beyond the header
func writeTypedWorkbook(t *testing.T, path string) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	cells := map[string]interface{}{
		"A1": "Original", "B1": "Amount", "C1": "Due", "D1": "Done",
		"A2": "Open the cover",
		"B2": 1234567.891,
		"C2": time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		"D2": true,
		"E2": "extra",
	}
	for name, v := range cells {
		if err := f.SetCellValue(sheet, name, v); err != nil {
			t.Fatalf("Failed to set %s: %v", name, err)
		}
	}

	amount, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		t.Fatalf("Failed to create style: %v", err)
	}
	if err := f.SetCellStyle(sheet, "B2", "B2", amount); err != nil {
		t.Fatalf("Failed to style B2: %v", err)
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook %s: %v", path, err)
	}
}

func TestLoad_UnnamedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.xlsx")
	testutil.WriteWorkbook(t, path, [][]string{
		{"Original", "", "Notes"},
		{"a", "mid", "n", "tail"},
	})

	table, err := Load(path, DefaultSourceColumn)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"Original", "Unnamed: 1", "Notes", "Unnamed: 3"}
	if !reflect.DeepEqual(table.Columns, want) {
		t.Fatalf("Columns = %v, want %v", table.Columns, want)
	}
	if v, _ := table.Get(0, "Unnamed: 3"); v != "tail" {
		t.Errorf("Get(0, Unnamed: 3) = %q, want tail", v)
	}
}

func TestSave_PreservesTypedCells(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "source.xlsx")
	out := filepath.Join(dir, "out.xlsx")
	writeTypedWorkbook(t, src)

	table, err := Load(src, DefaultSourceColumn)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	table.EnsureColumns([]string{"French"})
	if err := table.Set(0, "French", "Ouvrir le couvercle"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	table.Reorder(DefaultSourceColumn, []string{"French"})
	if err := table.Save(out); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	srcFile, err := excelize.OpenFile(src)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", src, err)
	}
	defer srcFile.Close()
	outFile, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", out, err)
	}
	defer outFile.Close()

	srcSheet := srcFile.GetSheetName(0)
	outSheet := outFile.GetSheetName(0)

	header, err := outFile.GetRows(outSheet)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	wantHeader := []string{"Original", "French", "Amount", "Due", "Done", "Unnamed: 4"}
	if !reflect.DeepEqual(header[0], wantHeader) {
		t.Fatalf("header = %v, want %v", header[0], wantHeader)
	}

	// Original columns moved one to the right behind French
	moved := map[string]string{"B2": "C2", "C2": "D2", "D2": "E2", "E2": "F2"}
	for from, to := range moved {
		want, _ := srcFile.GetCellValue(srcSheet, from)
		got, _ := outFile.GetCellValue(outSheet, to)
		if got != want {
			t.Errorf("%s = %q, want %q (from %s)", to, got, want, from)
		}
	}

	for name, want := range map[string]excelize.CellType{
		"C2": excelize.CellTypeUnset,
		"E2": excelize.CellTypeBool,
		"B2": excelize.CellTypeSharedString,
	} {
		got, err := outFile.GetCellType(outSheet, name)
		if err != nil {
			t.Fatalf("GetCellType(%s) error = %v", name, err)
		}
		if got != want {
			t.Errorf("GetCellType(%s) = %v, want %v", name, got, want)
		}
	}

	raw, _ := outFile.GetCellValue(outSheet, "C2", excelize.Options{RawCellValue: true})
	if raw != "1234567.891" {
		t.Errorf("raw C2 = %q, want 1234567.891", raw)
	}

	for _, name := range []string{"C2", "D2"} {
		style, err := outFile.GetCellStyle(outSheet, name)
		if err != nil || style == 0 {
			t.Errorf("GetCellStyle(%s) = %d, %v; want a number format", name, style, err)
		}
	}
}
