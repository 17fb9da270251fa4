package sales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"salespipe/pkg/records"
)

// ValidationError describes a record rejected at load time. Line is the
// 1-based position of the record in the input batch.
type ValidationError struct {
	Line   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("record %d: field %q: %s", e.Line, e.Field, e.Reason)
	}
	return fmt.Sprintf("record %d: %s", e.Line, e.Reason)
}

// Load policies. The choice is explicit: strict fails the whole load on the
// first bad record; lenient rejects-and-reports through the sink and keeps
// going. There is no silent-drop mode.
const (
	PolicyStrict  = "strict"
	PolicyLenient = "lenient"
)

// Loader converts parsed rows into validated Records. It is the single
// ingestion point: everything downstream may assume non-null fields and
// unique invoice IDs.
type Loader struct {
	// Policy is PolicyStrict or PolicyLenient (default strict).
	Policy string

	// DateLayout optionally overrides the first date layout tried.
	DateLayout string

	// Reject, when set, receives every rejected record under the lenient
	// policy (and the failing record under strict, before the error returns).
	Reject func(*ValidationError, records.Record)
}

// dateLayouts tried in order after Loader.DateLayout. The source export
// writes M/D/YYYY; ISO is accepted for round-tripped data.
var dateLayouts = []string{"1/2/2006", "2006-01-02", "01-02-2006"}

// Load validates and types every row. Under the strict policy the first bad
// row aborts with its ValidationError; under lenient the row is reported and
// skipped. Duplicate invoice IDs are rejected whichever policy is active.
func (l *Loader) Load(in []records.Record) ([]*Record, error) {
	policy := l.Policy
	if policy == "" {
		policy = PolicyStrict
	}

	out := make([]*Record, 0, len(in))
	seen := make(map[string]int, len(in))

	for i, raw := range in {
		line := i + 1
		rec, verr := l.parseOne(raw)
		if verr == nil {
			if prev, dup := seen[rec.InvoiceID]; dup {
				verr = &ValidationError{Field: "invoice_id", Reason: fmt.Sprintf("duplicate of record %d", prev)}
			}
		}
		if verr != nil {
			verr.Line = line
			if l.Reject != nil {
				l.Reject(verr, raw)
			}
			if policy == PolicyStrict {
				return nil, verr
			}
			continue
		}
		seen[rec.InvoiceID] = line
		out = append(out, rec)
	}
	return out, nil
}

// parseOne types a single row. It returns a ValidationError without Line set;
// the caller fills it in.
func (l *Loader) parseOne(raw records.Record) (*Record, *ValidationError) {
	for _, f := range RequiredFields {
		if !raw.Has(f) {
			return nil, &ValidationError{Field: f, Reason: "required field missing"}
		}
	}

	rec := &Record{
		InvoiceID:    raw.String("invoice_id"),
		Branch:       raw.String("branch"),
		City:         raw.String("city"),
		CustomerType: raw.String("customer_type"),
		Gender:       raw.String("gender"),
		ProductLine:  raw.String("product_line"),
		Payment:      raw.String("payment_method"),
	}
	if rec.InvoiceID == "" {
		return nil, &ValidationError{Field: "invoice_id", Reason: "primary key must not be empty"}
	}

	var verr *ValidationError
	money := func(field string) decimal.Decimal {
		if verr != nil {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(raw.String(field))
		if err != nil {
			verr = &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a decimal amount", raw.String(field))}
		}
		return d
	}

	rec.UnitPrice = money("unit_price")
	rec.Tax = money("vat")
	rec.Total = money("total")
	rec.COGS = money("cogs")
	rec.GrossIncome = money("gross_income")
	if verr != nil {
		return nil, verr
	}

	qty, ok := raw.Int("quantity")
	if !ok {
		return nil, &ValidationError{Field: "quantity", Reason: fmt.Sprintf("%q is not an integer", raw.String("quantity"))}
	}
	rec.Quantity = qty

	if rec.GrossMarginPct, ok = raw.Float("gross_margin_pct"); !ok {
		return nil, &ValidationError{Field: "gross_margin_pct", Reason: "not a number"}
	}
	if rec.Rating, ok = raw.Float("rating"); !ok {
		return nil, &ValidationError{Field: "rating", Reason: "not a number"}
	}

	d, err := l.parseDate(raw.String("date"))
	if err != nil {
		return nil, &ValidationError{Field: "date", Reason: err.Error()}
	}
	rec.Date = d

	clock, err := ParseClock(raw.String("time"))
	if err != nil {
		return nil, &ValidationError{Field: "time", Reason: err.Error()}
	}
	rec.Clock = clock

	return rec, nil
}

// parseDate tries the configured layout first, then the known fallbacks.
func (l *Loader) parseDate(s string) (time.Time, error) {
	if l.DateLayout != "" {
		if t, err := time.Parse(l.DateLayout, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
