package ingest

import (
	"errors"
	"strings"
	"testing"
)

func TestCanonicalizeColumn(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Order Date", "order_date"},
		{"  Sales ", "sales"},
		{"Sub-Category", "sub_category"},
		{"subcategory", "sub_category"},
		{"SUB-CATEGORY", "sub_category"},
		{"sub_category", "sub_category"},
		{"Order-Date", "order_date"},
		{"QUANTITY", "quantity"},
		{"Unknown Column", "unknown_column"},
		{"\ufeffOrder Date", "order_date"},
	}
	for _, tc := range cases {
		if got := CanonicalizeColumn(tc.in); got != tc.want {
			t.Errorf("CanonicalizeColumn(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func fullHeader() []string {
	return []string{"Order Date", "Sales", "Profit", "Category", "Region", "Sub-Category", "Quantity", "Discount"}
}

func TestNormalize(t *testing.T) {
	table := &Table{
		Columns: fullHeader(),
		Rows: [][]string{
			{"2023-01-01", "100.5", "20", "Furniture", "West", "Chairs", "3", "0.1"},
			{"2023-06-15", "50", "5", "Technology", "East", "Phones", "1", "0"},
		},
	}

	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(res.Records) != 2 || res.Dropped != 0 {
		t.Fatalf("got %d records, %d dropped", len(res.Records), res.Dropped)
	}

	r := res.Records[0]
	if r.OrderDate.Format("2006-01-02") != "2023-01-01" {
		t.Errorf("order date = %v", r.OrderDate)
	}
	if r.Sales != 100.5 || r.Profit != 20 || r.Quantity != 3 || r.Discount != 0.1 {
		t.Errorf("numeric fields wrong: %+v", r)
	}
	if r.Category != "Furniture" || r.Region != "West" || r.SubCategory != "Chairs" {
		t.Errorf("text fields wrong: %+v", r)
	}
}

func TestNormalizeDropsUnparseableDates(t *testing.T) {
	table := &Table{
		Columns: fullHeader(),
		Rows: [][]string{
			{"2023-01-01", "1", "1", "A", "W", "S", "1", "0"},
			{"not a date", "2", "1", "A", "W", "S", "1", "0"},
			{"", "3", "1", "A", "W", "S", "1", "0"},
			{"2023-02-01", "4", "1", "A", "W", "S", "1", "0"},
		},
	}

	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(res.Records) != 2 {
		t.Fatalf("expected 2 surviving records, got %d", len(res.Records))
	}
	if res.Dropped != 2 {
		t.Fatalf("expected 2 dropped rows, got %d", res.Dropped)
	}
}

func TestNormalizeMissingColumns(t *testing.T) {
	table := &Table{
		Columns: []string{"Order Date", "Sales", "Profit", "Category", "Region", "Sub-Category", "Quantity"},
		Rows: [][]string{
			{"2023-01-01", "1", "1", "A", "W", "S", "1"},
		},
	}

	_, err := Normalize(table)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if len(missing.Columns) != 1 || missing.Columns[0] != "discount" {
		t.Fatalf("expected [discount], got %v", missing.Columns)
	}
	if !strings.Contains(err.Error(), "discount") {
		t.Fatalf("error should name the column: %v", err)
	}
}

func TestNormalizeAliasEquivalence(t *testing.T) {
	row := []string{"2023-01-01", "1", "1", "A", "W", "Chairs", "1", "0"}

	hyphenated := &Table{Columns: fullHeader(), Rows: [][]string{row}}
	squashed := &Table{
		Columns: []string{"order_date", "sales", "profit", "category", "region", "subcategory", "quantity", "discount"},
		Rows:    [][]string{row},
	}

	a, err := Normalize(hyphenated)
	if err != nil {
		t.Fatalf("hyphenated: %v", err)
	}
	b, err := Normalize(squashed)
	if err != nil {
		t.Fatalf("squashed: %v", err)
	}
	if a.Records[0] != b.Records[0] {
		t.Fatalf("alias forms diverged:\n%+v\n%+v", a.Records[0], b.Records[0])
	}
}

func TestNormalizeBOMPrefixedCSV(t *testing.T) {
	data := "\ufeffOrder Date,Sales,Profit,Category,Region,Sub-Category,Quantity,Discount\n" +
		"2023-01-01,1,1,A,W,S,1,0\n"

	table, err := Decode(strings.NewReader(data), "csv")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("BOM-prefixed header should normalize: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
}

func TestNormalizeIgnoresExtraColumns(t *testing.T) {
	table := &Table{
		Columns: append(fullHeader(), "Row ID", "Customer Name"),
		Rows: [][]string{
			{"2023-01-01", "1", "1", "A", "W", "S", "1", "0", "42", "Someone"},
		},
	}
	res, err := Normalize(table)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Records))
	}
}

func TestNormalizeEmptyTable(t *testing.T) {
	res, err := Normalize(&Table{Columns: fullHeader()})
	if err != nil {
		t.Fatalf("empty table should normalize: %v", err)
	}
	if len(res.Records) != 0 || res.Dropped != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestParseNumericLeniency(t *testing.T) {
	if got := parseFloat("$1,234.50"); got != 1234.5 {
		t.Errorf("parseFloat currency = %v", got)
	}
	if got := parseFloat("garbage"); got != 0 {
		t.Errorf("parseFloat garbage = %v", got)
	}
	if got := parseInt("3.0"); got != 3 {
		t.Errorf("parseInt decimal = %v", got)
	}
	if got := parseInt(""); got != 0 {
		t.Errorf("parseInt empty = %v", got)
	}
}

func TestDeclaredExtension(t *testing.T) {
	cases := []struct{ in, want string }{
		{"sales.csv", "csv"},
		{"Q1 Report.XLSX", "xlsx"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailingdot.", ""},
	}
	for _, tc := range cases {
		if got := DeclaredExtension(tc.in); got != tc.want {
			t.Errorf("DeclaredExtension(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
