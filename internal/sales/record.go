// Package sales defines the typed supermarket transaction record, its field
// registry (dimensions and measures), and the loader that turns parsed CSV
// rows into validated records.
package sales

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ClockTime is a time-of-day value as whole seconds since midnight
// [0, 86399]. Transactions carry a date and a clock separately; keeping the
// clock as an integer makes bucket comparisons exact.
type ClockTime int

// ParseClock parses "HH:MM:SS" (or "HH:MM") into a ClockTime. The whole
// input must be consumed: trailing characters after the seconds field are an
// error, not ignored.
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("clock %q: want HH:MM:SS", s)
	}

	vals := [3]int{} // seconds stay zero for HH:MM
	for i, p := range parts {
		if !allDigits(p) {
			return 0, fmt.Errorf("clock %q: want HH:MM:SS", s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("clock %q: want HH:MM:SS", s)
		}
		vals[i] = n
	}

	h, m, sec := vals[0], vals[1], vals[2]
	if h > 23 || m > 59 || sec > 59 {
		return 0, fmt.Errorf("clock %q: out of range", s)
	}
	return ClockTime(h*3600 + m*60 + sec), nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the clock back as HH:MM:SS.
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", int(c)/3600, int(c)/60%60, int(c)%60)
}

// Record is one sales transaction. Records are created by the loader,
// enriched once by the deriver, then treated as immutable by reports.
type Record struct {
	InvoiceID string

	// Dimensions.
	Branch       string
	City         string
	CustomerType string
	Gender       string
	ProductLine  string
	Payment      string

	// Measures. Money amounts are parsed through decimal to avoid binary
	// rounding on ingest; reports aggregate their float64 projection.
	UnitPrice      decimal.Decimal
	Quantity       int
	Tax            decimal.Decimal // VAT amount per transaction
	Total          decimal.Decimal
	COGS           decimal.Decimal
	GrossMarginPct float64
	GrossIncome    decimal.Decimal
	Rating         float64

	// Temporal.
	Date  time.Time
	Clock ClockTime

	// Derived by derive.Enrich; pure functions of Date/Clock.
	TimeOfDay string
	DayName   string
	Month     string
}

// DefaultHeaderMap maps the source CSV headers onto canonical field names.
// Matches the common supermarket-sales export header row.
var DefaultHeaderMap = map[string]string{
	"Invoice ID":              "invoice_id",
	"Branch":                  "branch",
	"City":                    "city",
	"Customer type":           "customer_type",
	"Gender":                  "gender",
	"Product line":            "product_line",
	"Unit price":              "unit_price",
	"Quantity":                "quantity",
	"Tax 5%":                  "vat",
	"Total":                   "total",
	"Date":                    "date",
	"Time":                    "time",
	"Payment":                 "payment_method",
	"cogs":                    "cogs",
	"gross margin percentage": "gross_margin_pct",
	"gross income":            "gross_income",
	"Rating":                  "rating",
}

// RequiredFields lists the canonical input fields every record must carry.
// The three derived fields are not input fields and are absent here.
var RequiredFields = []string{
	"invoice_id", "branch", "city", "customer_type", "gender", "product_line",
	"unit_price", "quantity", "vat", "total", "date", "time",
	"payment_method", "cogs", "gross_margin_pct", "gross_income", "rating",
}

// Columns is the canonical column order used when persisting enriched
// records to a storage backend.
var Columns = []string{
	"invoice_id", "branch", "city", "customer_type", "gender", "product_line",
	"unit_price", "quantity", "vat", "total", "date", "time",
	"payment_method", "cogs", "gross_margin_pct", "gross_income", "rating",
	"time_of_day", "day_name", "month",
}

// Row flattens the record into Columns order for storage CopyFrom.
func (r *Record) Row() []any {
	return []any{
		r.InvoiceID, r.Branch, r.City, r.CustomerType, r.Gender, r.ProductLine,
		r.UnitPrice.String(), r.Quantity, r.Tax.String(), r.Total.String(),
		r.Date.Format("2006-01-02"), r.Clock.String(),
		r.Payment, r.COGS.String(), r.GrossMarginPct, r.GrossIncome.String(),
		r.Rating, r.TimeOfDay, r.DayName, r.Month,
	}
}
