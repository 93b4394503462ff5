package core

import (
	"errors"
	"strings"
	"time"
)

// DateLayout is the canonical on-disk and on-wire representation of an order date.
const DateLayout = "2006-01-02"

type (
	// Dataset is one named, immutable batch of uploaded sales rows.
	Dataset struct {
		ID         int64
		Name       string
		UploadDate time.Time
	}

	// SalesRecord is one sales transaction row belonging to exactly one Dataset.
	SalesRecord struct {
		ID          int64
		DatasetID   int64
		OrderDate   time.Time
		Sales       float64
		Profit      float64
		Category    string
		Region      string
		SubCategory string
		Quantity    int64
		Discount    float64
	}
)

// Columns lists the canonical business columns of a sales record, in export order.
var Columns = []string{
	"order_date", "sales", "profit", "category",
	"region", "sub_category", "quantity", "discount",
}

var (
	ErrUnsupportedFileFormat = errors.New("unsupported file format")
	ErrDuplicateDatasetName  = errors.New("dataset name already exists")
	ErrDatasetNotFound       = errors.New("dataset not found")
	ErrEmptyDatasetName      = errors.New("empty dataset name")
)

// orderDateLayouts are the accepted spreadsheet date formats, tried in order.
var orderDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"01-02-2006",
	"Jan 2, 2006",
	"2-Jan-06",
}

// ParseOrderDate parses a spreadsheet cell into a calendar date.
// The time-of-day portion, if any, is truncated.
func ParseOrderDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format: " + s)
}

// ValidateDatasetName rejects names that cannot be used as a registry key.
func ValidateDatasetName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyDatasetName
	}
	if len(name) > 200 {
		return errors.New("dataset name too long (max 200 characters)")
	}
	return nil
}
