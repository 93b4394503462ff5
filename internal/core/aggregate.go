package core

import (
	"sort"
	"time"
)

// GroupTotal is an aggregated sales total for one categorical group.
type GroupTotal struct {
	Key        string
	TotalSales float64
}

// FilterByDateRange keeps records whose order date falls within [start, end],
// inclusive on both ends.
func FilterByDateRange(records []SalesRecord, start, end time.Time) []SalesRecord {
	filtered := make([]SalesRecord, 0, len(records))
	for _, r := range records {
		if r.OrderDate.Before(start) || r.OrderDate.After(end) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// TotalSalesByCategory groups records by category and sums sales.
// Groups with no rows are absent from the result.
func TotalSalesByCategory(records []SalesRecord) []GroupTotal {
	return sumSalesBy(records, func(r SalesRecord) string { return r.Category })
}

// TotalSalesByRegion groups records by region and sums sales.
func TotalSalesByRegion(records []SalesRecord) []GroupTotal {
	return sumSalesBy(records, func(r SalesRecord) string { return r.Region })
}

func sumSalesBy(records []SalesRecord, key func(SalesRecord) string) []GroupTotal {
	sums := make(map[string]float64)
	for _, r := range records {
		sums[key(r)] += r.Sales
	}

	totals := make([]GroupTotal, 0, len(sums))
	for k, v := range sums {
		totals = append(totals, GroupTotal{Key: k, TotalSales: v})
	}
	// Stable ordering for rendering and export
	sort.Slice(totals, func(i, j int) bool { return totals[i].Key < totals[j].Key })
	return totals
}
