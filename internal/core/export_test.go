package core

import (
	"bytes"
	"strings"
	"testing"
)

func TestExportFilename(t *testing.T) {
	if got := ExportFilename("q1_sales"); got != "q1_sales_filtered.csv" {
		t.Fatalf("got %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	records := []SalesRecord{
		{
			OrderDate:   date(2023, 1, 1),
			Sales:       100.5,
			Profit:      20.25,
			Category:    "Furniture",
			Region:      "West",
			SubCategory: "Chairs",
			Quantity:    3,
			Discount:    0.1,
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "order_date,sales,profit,category,region,sub_category,quantity,discount" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if lines[1] != "2023-01-01,100.5,20.25,Furniture,West,Chairs,3,0.1" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "order_date,sales,profit,category,region,sub_category,quantity,discount" {
		t.Fatalf("expected header only, got %q", buf.String())
	}
}
