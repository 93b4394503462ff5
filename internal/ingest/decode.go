// Package ingest turns an uploaded spreadsheet into normalized sales records.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"salesdash/internal/core"
)

// Table is the raw decoded form of an uploaded file: a header row plus data rows.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Decode reads the uploaded blob according to its declared extension
// (csv, xls or xlsx). Anything else is ErrUnsupportedFileFormat.
func Decode(r io.Reader, ext string) (*Table, error) {
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case "csv":
		return decodeCSV(r)
	case "xls":
		return decodeXLS(r)
	case "xlsx":
		return decodeExcel(r)
	default:
		return nil, fmt.Errorf("%w: .%s", core.ErrUnsupportedFileFormat, ext)
	}
}

func decodeCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	table := &Table{Columns: header}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		table.Rows = append(table.Rows, padRow(row, len(header)))
	}
	return table, nil
}

func decodeExcel(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	// First sheet only, matching the upload contract
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}

	table := &Table{Columns: rows[0]}
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, padRow(row, len(rows[0])))
	}
	return table, nil
}

// decodeXLS reads legacy BIFF workbooks, which the OOXML reader cannot open.
func decodeXLS(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	// First sheet only, matching the upload contract
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	headerRow := sheet.Row(0)
	if headerRow == nil {
		return nil, fmt.Errorf("sheet %q has no header row", sheet.Name)
	}
	header := xlsCells(headerRow)

	table := &Table{Columns: header}
	for i := 1; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		table.Rows = append(table.Rows, padRow(xlsCells(row), len(header)))
	}
	return table, nil
}

// xlsCells reads a BIFF row from column zero so cell positions stay aligned
// with the header regardless of leading empty cells.
func xlsCells(row *xls.Row) []string {
	cells := make([]string, 0, row.LastCol())
	for i := 0; i < row.LastCol(); i++ {
		cells = append(cells, row.Col(i))
	}
	return cells
}

// padRow aligns a data row with the header width. Excel readers trim trailing
// empty cells and ragged CSVs are tolerated, so both can come up short.
func padRow(row []string, width int) []string {
	if len(row) == width {
		return row
	}
	if len(row) > width {
		return row[:width]
	}
	padded := make([]string, width)
	copy(padded, row)
	return padded
}
