package storage

import (
	"reflect"
	"testing"

	"salespipe/internal/report"
)

func TestTableShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cols     []string
		keyN     int
		hasLabel bool
		hasRank  bool
	}{
		{"global", []string{"cities"}, 0, false, false},
		{"one key", []string{"city", "revenue"}, 1, false, false},
		{"two keys", []string{"branch", "city", "transactions"}, 2, false, false},
		{"labeled", []string{"product_line", "avg_total", "label"}, 1, true, false},
		{"ranked", []string{"gender", "product_line", "transactions", "rank"}, 2, false, true},
		{"empty", nil, 0, false, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			keyN, hasLabel, hasRank := tableShape(tt.cols)
			if keyN != tt.keyN || hasLabel != tt.hasLabel || hasRank != tt.hasRank {
				t.Errorf("tableShape(%v) = (%d, %v, %v), want (%d, %v, %v)",
					tt.cols, keyN, hasLabel, hasRank, tt.keyN, tt.hasLabel, tt.hasRank)
			}
		})
	}
}

func TestResultRows(t *testing.T) {
	t.Parallel()

	tables := []report.Table{
		{
			Name: "distinct-cities", Section: "generic",
			Columns: []string{"cities"},
			Rows:    [][]any{{3.0}},
		},
		{
			Name: "revenue-by-city", Section: "sales",
			Columns: []string{"city", "revenue"},
			Rows: [][]any{
				{"Yangon", 100.5},
				{"Mandalay", 45.0},
			},
		},
		{
			Name: "product-line-good-bad", Section: "product",
			Columns: []string{"product_line", "avg_total", "label"},
			Rows:    [][]any{{"Health and beauty", 320.0, "Good"}},
		},
		{
			Name: "top-product-line-per-gender", Section: "product",
			Columns: []string{"gender", "product_line", "transactions", "rank"},
			Rows:    [][]any{{"Female", "Fashion accessories", 96.0, 1}},
		},
	}

	rows := ResultRows("run-1", "supermarket", tables)

	want := [][]any{
		{"run-1", "supermarket", "distinct-cities", "generic", 0, "", "", 3.0, "", int64(0)},
		{"run-1", "supermarket", "revenue-by-city", "sales", 0, "Yangon", "", 100.5, "", int64(0)},
		{"run-1", "supermarket", "revenue-by-city", "sales", 1, "Mandalay", "", 45.0, "", int64(0)},
		{"run-1", "supermarket", "product-line-good-bad", "product", 0, "Health and beauty", "", 320.0, "Good", int64(0)},
		{"run-1", "supermarket", "top-product-line-per-gender", "product", 0, "Female", "Fashion accessories", 96.0, "", int64(1)},
	}

	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if !reflect.DeepEqual(rows[i], want[i]) {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}

	for _, row := range rows {
		if len(row) != len(ResultColumns) {
			t.Errorf("row width %d does not match ResultColumns %d", len(row), len(ResultColumns))
		}
	}
}

func TestResultRows_Empty(t *testing.T) {
	t.Parallel()

	if rows := ResultRows("run-1", "job", nil); len(rows) != 0 {
		t.Errorf("rows = %v, want none", rows)
	}
	if rows := ResultRows("run-1", "job", []report.Table{{Name: "empty", Columns: []string{"city", "count"}}}); len(rows) != 0 {
		t.Errorf("rows = %v, want none for table without rows", rows)
	}
}
