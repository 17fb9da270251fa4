package builtin

import "salespipe/pkg/records"

// Require removes any record missing a value for any of the given fields.
// The loader performs the authoritative required-field validation with
// reporting; Require is a cheap pre-filter for pipelines that want to shed
// obviously incomplete rows before typing.
type Require struct {
	Fields []string
}

// Apply returns a filtered slice containing only records that have all
// required fields present and non-empty.
func (r Require) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, rec := range in {
		ok := true
		for _, f := range r.Fields {
			v, exists := rec[f]
			if !exists || v == nil || v == "" {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out
}
