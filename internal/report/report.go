// Package report implements the declarative reporting engine: a report is a
// small descriptor (group keys, aggregate, optional filter, ranking,
// global comparison, sort and limit) compiled against the sales field
// registry and evaluated over the enriched record set.
//
// Descriptors are validated up front: a report naming an unknown dimension
// or measure fails with a ConfigurationError at compile time, before any
// data pass.
package report

import (
	"fmt"
	"strings"

	"salespipe/internal/sales"
)

// Aggregate kinds.
const (
	AggCount         = "count"
	AggCountDistinct = "count_distinct"
	AggSum           = "sum"
	AggAvg           = "avg"
	AggAvgRound2     = "avg_round2" // average rounded to 2 decimals
)

// Sort directions for the aggregate column.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Comparison modes against the global aggregate computed over the
// unfiltered full record set.
const (
	CompareLabel = "label" // append Good/Bad: Good iff group value strictly exceeds global
	CompareAbove = "above" // keep only groups whose value strictly exceeds global
)

// Condition is a pre-group filter on a dimension: record passes when its
// value is in (or, with Not, outside) the given set.
type Condition struct {
	Dim string
	In  []string
	Not bool
}

// Compare configures the global-comparison step. Agg/Of default to the
// report's own aggregate when empty, but may differ (e.g. per-branch sum of
// quantity compared against the global average quantity).
type Compare struct {
	Mode string
	Agg  string
	Of   string
}

// Definition is the declarative form of a report. The battery of shipped
// reports in suite.go is nothing but a slice of these.
type Definition struct {
	Name    string
	Section string

	// GroupBy lists 0..2 dimension keys. Zero keys yields a single global
	// row; a Rank report needs exactly 2 (partition key, ranked key).
	GroupBy []string

	// Agg and Of select the aggregate: Of names a measure for sum/avg and a
	// dimension for count_distinct, and is unused for count.
	Agg string
	Of  string

	// As optionally names the aggregate output column.
	As string

	// Where filters records before grouping.
	Where []Condition

	// Rank selects the top row per partition: partition = GroupBy[0], rows
	// ordered by aggregate descending, ties broken by first-seen input
	// order, rank 1 kept.
	Rank bool

	// CompareGlobal labels or filters groups against the global aggregate.
	CompareGlobal *Compare

	Sort  string
	Limit int
}

// ConfigurationError reports an invalid report definition. It is returned
// by Compile so malformed descriptors never reach the data pass.
type ConfigurationError struct {
	Report string
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("report %q: %s: %s", e.Report, e.Param, e.Reason)
}

// Report is a compiled, executable definition.
type Report struct {
	def    Definition
	keys   []sales.DimensionFn
	where  []condFn
	newAcc func() accum
	global *Compare       // resolved comparison (nil when absent)
	newGlb func() accum   // accumulator for the global side
	valCol string
}

type condFn func(*sales.Record) bool

// Def returns the definition this report was compiled from.
func (r *Report) Def() Definition { return r.def }

// Compile validates def against the sales field registry and returns an
// executable report. Every unknown name is a ConfigurationError.
func Compile(def Definition) (*Report, error) {
	bad := func(param, format string, a ...any) (*Report, error) {
		return nil, &ConfigurationError{Report: def.Name, Param: param, Reason: fmt.Sprintf(format, a...)}
	}

	if strings.TrimSpace(def.Name) == "" {
		return bad("name", "must not be empty")
	}
	if len(def.GroupBy) > 2 {
		return bad("group_by", "at most 2 keys supported, got %d", len(def.GroupBy))
	}

	r := &Report{def: def}

	for _, k := range def.GroupBy {
		fn, ok := sales.Dimension(k)
		if !ok {
			return bad("group_by", "unknown dimension %q", k)
		}
		r.keys = append(r.keys, fn)
	}

	newAcc, col, err := resolveAggregate(def.Name, def.Agg, def.Of)
	if err != nil {
		return nil, err
	}
	r.newAcc = newAcc
	r.valCol = col
	if def.As != "" {
		r.valCol = def.As
	}
	// "label" and "rank" are appended by comparison and ranking; an aggregate
	// column with either name would corrupt downstream shape decoding.
	if r.valCol == "label" || r.valCol == "rank" {
		return bad("as", "%q is a reserved column name", r.valCol)
	}

	for i, c := range def.Where {
		fn, ok := sales.Dimension(c.Dim)
		if !ok {
			return bad(fmt.Sprintf("where[%d]", i), "unknown dimension %q", c.Dim)
		}
		if len(c.In) == 0 {
			return bad(fmt.Sprintf("where[%d]", i), "empty value set for %q", c.Dim)
		}
		set := make(map[string]struct{}, len(c.In))
		for _, v := range c.In {
			set[v] = struct{}{}
		}
		not := c.Not
		r.where = append(r.where, func(rec *sales.Record) bool {
			_, in := set[fn(rec)]
			return in != not
		})
	}

	if def.Rank {
		if len(def.GroupBy) != 2 {
			return bad("rank", "rank-within-partition needs exactly 2 group keys, got %d", len(def.GroupBy))
		}
		if def.CompareGlobal != nil {
			return bad("rank", "rank and global comparison are mutually exclusive")
		}
	}

	if cg := def.CompareGlobal; cg != nil {
		if cg.Mode != CompareLabel && cg.Mode != CompareAbove {
			return bad("compare_global.mode", "unknown mode %q", cg.Mode)
		}
		agg, of := cg.Agg, cg.Of
		if agg == "" {
			agg, of = def.Agg, def.Of
		}
		newGlb, _, err := resolveAggregate(def.Name, agg, of)
		if err != nil {
			return nil, err
		}
		r.global = cg
		r.newGlb = newGlb
	}

	switch def.Sort {
	case "", SortAsc, SortDesc:
	default:
		return bad("sort", "unknown direction %q", def.Sort)
	}
	if def.Limit < 0 {
		return bad("limit", "must not be negative")
	}

	return r, nil
}

// resolveAggregate maps an aggregate kind + operand name onto an accumulator
// factory and a default output column name.
func resolveAggregate(report, agg, of string) (func() accum, string, error) {
	switch agg {
	case AggCount:
		return func() accum { return &countAcc{} }, "count", nil

	case AggCountDistinct:
		fn, ok := sales.Dimension(of)
		if !ok {
			return nil, "", &ConfigurationError{Report: report, Param: "of", Reason: fmt.Sprintf("unknown dimension %q for count_distinct", of)}
		}
		return func() accum { return &distinctAcc{dim: fn, seen: map[string]struct{}{}} }, "distinct_" + of, nil

	case AggSum, AggAvg, AggAvgRound2:
		fn, ok := sales.Measure(of)
		if !ok {
			return nil, "", &ConfigurationError{Report: report, Param: "of", Reason: fmt.Sprintf("unknown measure %q", of)}
		}
		switch agg {
		case AggSum:
			return func() accum { return &sumAcc{measure: fn} }, "sum_" + of, nil
		case AggAvg:
			return func() accum { return &avgAcc{measure: fn} }, "avg_" + of, nil
		default:
			return func() accum { return &avgAcc{measure: fn, round2: true} }, "avg_" + of, nil
		}

	default:
		return nil, "", &ConfigurationError{Report: report, Param: "agg", Reason: fmt.Sprintf("unknown aggregate %q", agg)}
	}
}

// CompileSuite compiles a set of definitions, failing on the first invalid
// one. Used at startup so configuration errors surface before the data pass.
func CompileSuite(defs []Definition) ([]*Report, error) {
	names := make(map[string]struct{}, len(defs))
	out := make([]*Report, 0, len(defs))
	for _, d := range defs {
		if _, dup := names[d.Name]; dup {
			return nil, &ConfigurationError{Report: d.Name, Param: "name", Reason: "duplicate report name"}
		}
		names[d.Name] = struct{}{}
		r, err := Compile(d)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
