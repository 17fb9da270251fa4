package sales

// The field registry exposes record attributes by their canonical column
// names so report definitions stay declarative: a report names a dimension
// or measure, and compilation resolves (or rejects) it here.

// DimensionFn reads a categorical attribute from a record.
type DimensionFn func(*Record) string

// MeasureFn reads a numeric attribute from a record.
type MeasureFn func(*Record) float64

var dimensions = map[string]DimensionFn{
	"branch":         func(r *Record) string { return r.Branch },
	"city":           func(r *Record) string { return r.City },
	"customer_type":  func(r *Record) string { return r.CustomerType },
	"gender":         func(r *Record) string { return r.Gender },
	"product_line":   func(r *Record) string { return r.ProductLine },
	"payment_method": func(r *Record) string { return r.Payment },
	"invoice_id":     func(r *Record) string { return r.InvoiceID },
	"time_of_day":    func(r *Record) string { return r.TimeOfDay },
	"day_name":       func(r *Record) string { return r.DayName },
	"month":          func(r *Record) string { return r.Month },
}

var measures = map[string]MeasureFn{
	"unit_price":       func(r *Record) float64 { return r.UnitPrice.InexactFloat64() },
	"quantity":         func(r *Record) float64 { return float64(r.Quantity) },
	"vat":              func(r *Record) float64 { return r.Tax.InexactFloat64() },
	"total":            func(r *Record) float64 { return r.Total.InexactFloat64() },
	"cogs":             func(r *Record) float64 { return r.COGS.InexactFloat64() },
	"gross_margin_pct": func(r *Record) float64 { return r.GrossMarginPct },
	"gross_income":     func(r *Record) float64 { return r.GrossIncome.InexactFloat64() },
	"rating":           func(r *Record) float64 { return r.Rating },
}

// Dimension resolves a dimension accessor by canonical name.
func Dimension(name string) (DimensionFn, bool) {
	fn, ok := dimensions[name]
	return fn, ok
}

// Measure resolves a measure accessor by canonical name.
func Measure(name string) (MeasureFn, bool) {
	fn, ok := measures[name]
	return fn, ok
}
