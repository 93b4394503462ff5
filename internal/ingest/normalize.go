package ingest

import (
	"sort"
	"strconv"
	"strings"

	"salesdash/internal/core"
)

// columnAliases maps known header synonyms onto canonical column names.
// Extend by adding entries.
var columnAliases = map[string]string{
	"sub-category": "sub_category",
	"subcategory":  "sub_category",
	"order-date":   "order_date",
	"orderdate":    "order_date",
}

// CanonicalizeColumn normalizes a spreadsheet header to its schema-matching
// form: trimmed, lowercased, spaces replaced with underscores, then resolved
// through the alias map.
func CanonicalizeColumn(name string) string {
	// Excel's "CSV UTF-8" export prefixes the first header cell with a BOM
	n := strings.TrimPrefix(name, "\ufeff")
	n = strings.ToLower(strings.TrimSpace(n))
	n = strings.ReplaceAll(n, " ", "_")
	if canonical, ok := columnAliases[n]; ok {
		return canonical
	}
	return n
}

// MissingColumnsError reports which required columns an upload lacks.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return "missing required columns: " + strings.Join(e.Columns, ", ")
}

// Result is the outcome of normalizing a decoded table.
type Result struct {
	Records []core.SalesRecord
	// Dropped counts rows excluded because their order date did not parse.
	Dropped int
}

// Normalize canonicalizes the table's columns, verifies the required schema
// and converts rows into sales records. Rows with an unparseable order date
// are dropped and counted; extra columns are ignored.
func Normalize(t *Table) (Result, error) {
	index := make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		canonical := CanonicalizeColumn(col)
		if _, seen := index[canonical]; !seen {
			index[canonical] = i
		}
	}

	var missing []string
	for _, col := range core.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Result{}, &MissingColumnsError{Columns: missing}
	}

	var res Result
	for _, row := range t.Rows {
		orderDate, err := core.ParseOrderDate(row[index["order_date"]])
		if err != nil {
			res.Dropped++
			continue
		}

		res.Records = append(res.Records, core.SalesRecord{
			OrderDate:   orderDate,
			Sales:       parseFloat(row[index["sales"]]),
			Profit:      parseFloat(row[index["profit"]]),
			Category:    strings.TrimSpace(row[index["category"]]),
			Region:      strings.TrimSpace(row[index["region"]]),
			SubCategory: strings.TrimSpace(row[index["sub_category"]]),
			Quantity:    parseInt(row[index["quantity"]]),
			Discount:    parseFloat(row[index["discount"]]),
		})
	}
	return res, nil
}

// parseFloat is deliberately lenient: there are no data-quality rules beyond
// column presence and date parseability, so bad numerics become zero.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Excel frequently renders integers as "3.0"
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// DeclaredExtension extracts the extension from an uploaded filename, without
// the dot. Used to route decoding; an empty result decodes as unsupported.
func DeclaredExtension(filename string) string {
	i := strings.LastIndex(filename, ".")
	if i < 0 || i == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[i+1:])
}
