package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ExportFilename names the downloadable CSV for a dataset's filtered view.
func ExportFilename(datasetName string) string {
	return datasetName + "_filtered.csv"
}

// WriteCSV writes the records as UTF-8 CSV with the canonical header row.
func WriteCSV(w io.Writer, records []SalesRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.OrderDate.Format(DateLayout),
			formatFloat(r.Sales),
			formatFloat(r.Profit),
			r.Category,
			r.Region,
			r.SubCategory,
			strconv.FormatInt(r.Quantity, 10),
			formatFloat(r.Discount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
