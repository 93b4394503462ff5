package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"salesdash/internal/core"
)

func TestDecodeCSV(t *testing.T) {
	data := "Order Date,Sales\n2023-01-01,10.5\n2023-01-02,20\n"
	table, err := Decode(strings.NewReader(data), "csv")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(table.Columns) != 2 || table.Columns[0] != "Order Date" {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 2 || table.Rows[1][1] != "20" {
		t.Fatalf("rows = %v", table.Rows)
	}
}

func TestDecodeCSVRaggedRows(t *testing.T) {
	data := "a,b,c\n1,2\n1,2,3,4\n"
	table, err := Decode(strings.NewReader(data), "csv")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, row := range table.Rows {
		if len(row) != 3 {
			t.Fatalf("row %d not aligned to header: %v", i, row)
		}
	}
}

func TestDecodeCSVEmptyFile(t *testing.T) {
	if _, err := Decode(strings.NewReader(""), "csv"); err == nil {
		t.Fatalf("expected error for missing header row")
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	for _, ext := range []string{"txt", "json", "pdf", ""} {
		_, err := Decode(strings.NewReader("x"), ext)
		if !errors.Is(err, core.ErrUnsupportedFileFormat) {
			t.Errorf("ext %q: expected ErrUnsupportedFileFormat, got %v", ext, err)
		}
	}
}

func TestDecodeExcel(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Order Date", "Sales", "Category"},
		{"2023-01-01", 10.5, "Furniture"},
		{"2023-01-02", 20, "Technology"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	table, err := Decode(&buf, "xlsx")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(table.Columns) != 3 || table.Columns[2] != "Category" {
		t.Fatalf("columns = %v", table.Columns)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0][2] != "Furniture" {
		t.Fatalf("rows = %v", table.Rows)
	}
}

func TestDecodeExcelGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("this is not a workbook"), "xlsx"); err == nil {
		t.Fatalf("expected error for corrupt workbook")
	}
}

func TestDecodeXLSGarbage(t *testing.T) {
	if _, err := Decode(strings.NewReader("this is not a BIFF workbook"), "xls"); err == nil {
		t.Fatalf("expected error for corrupt workbook")
	}
}

// A .xls extension must route to the BIFF reader: an OOXML zip handed to it
// is a decode error, not silently read as xlsx.
func TestDecodeXLSRejectsOOXMLContainer(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	if _, err := Decode(&buf, "xls"); err == nil {
		t.Fatalf("expected error for OOXML content with xls extension")
	}
}
