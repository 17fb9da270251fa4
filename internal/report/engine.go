package report

import (
	"math"
	"sort"
	"strings"

	"salespipe/internal/sales"
)

// Table is one report's result: group key columns, the aggregate column,
// and optional rank/label columns appended by ranking or global comparison.
type Table struct {
	Name    string
	Section string
	Columns []string
	Rows    [][]any
}

// accum is a per-group aggregate accumulator. Groups exist only when at
// least one record matched, so value() never divides by zero.
type accum interface {
	add(*sales.Record)
	value() float64
}

type countAcc struct{ n int64 }

func (a *countAcc) add(*sales.Record) { a.n++ }
func (a *countAcc) value() float64    { return float64(a.n) }

type distinctAcc struct {
	dim  sales.DimensionFn
	seen map[string]struct{}
}

func (a *distinctAcc) add(r *sales.Record) { a.seen[a.dim(r)] = struct{}{} }
func (a *distinctAcc) value() float64      { return float64(len(a.seen)) }

type sumAcc struct {
	measure sales.MeasureFn
	sum     float64
}

func (a *sumAcc) add(r *sales.Record) { a.sum += a.measure(r) }
func (a *sumAcc) value() float64      { return a.sum }

type avgAcc struct {
	measure sales.MeasureFn
	sum     float64
	n       int64
	round2  bool
}

func (a *avgAcc) add(r *sales.Record) { a.sum += a.measure(r); a.n++ }

func (a *avgAcc) value() float64 {
	v := a.sum / float64(a.n)
	if a.round2 {
		v = math.Round(v*100) / 100
	}
	return v
}

// group is one partition of the record set sharing a group-by key, kept in
// first-seen input order for deterministic tie-breaks.
type group struct {
	parts []string
	acc   accum
}

// keySep joins composite keys; it cannot occur in dimension values.
const keySep = "\x1f"

// Evaluate runs the compiled report over the full record set and returns
// its result table. recs must be the complete, enriched set: pre-group
// filters apply only to the grouped side, while the global comparison
// aggregate is always computed over the unfiltered input, matching the
// correlated-subquery shape this engine replaces.
func (r *Report) Evaluate(recs []*sales.Record) Table {
	var (
		order  []string
		groups = map[string]*group{}
	)

	for _, rec := range recs {
		if !r.matches(rec) {
			continue
		}
		parts := make([]string, len(r.keys))
		for i, fn := range r.keys {
			parts[i] = fn(rec)
		}
		key := strings.Join(parts, keySep)
		g, ok := groups[key]
		if !ok {
			g = &group{parts: parts, acc: r.newAcc()}
			groups[key] = g
			order = append(order, key)
		}
		g.acc.add(rec)
	}

	rows := make([]*group, len(order))
	for i, k := range order {
		rows[i] = groups[k]
	}

	t := Table{Name: r.def.Name, Section: r.def.Section}
	t.Columns = append(t.Columns, r.def.GroupBy...)
	t.Columns = append(t.Columns, r.valCol)

	switch {
	case r.def.Rank:
		t.Columns = append(t.Columns, "rank")
		t.Rows = r.rankTopOne(rows)

	case r.global != nil:
		glb := r.globalValue(recs)
		if r.global.Mode == CompareLabel {
			t.Columns = append(t.Columns, "label")
		}
		t.Rows = r.compareRows(rows, glb)

	default:
		for _, g := range rows {
			t.Rows = append(t.Rows, groupRow(g))
		}
	}

	t.Rows = sortAndLimit(t.Rows, len(r.def.GroupBy), r.def.Sort, r.def.Limit)
	return t
}

func (r *Report) matches(rec *sales.Record) bool {
	for _, cond := range r.where {
		if !cond(rec) {
			return false
		}
	}
	return true
}

// globalValue computes the comparison aggregate once over the unfiltered
// full set and is then passed by value into every per-group comparison.
func (r *Report) globalValue(recs []*sales.Record) float64 {
	if len(recs) == 0 {
		return 0
	}
	acc := r.newGlb()
	for _, rec := range recs {
		acc.add(rec)
	}
	return acc.value()
}

// rankTopOne implements the row_number-over-partition idiom: stable-sort
// each partition's rows by aggregate descending and keep rank 1. Stability
// over first-seen order makes ties deterministic.
func (r *Report) rankTopOne(rows []*group) [][]any {
	var partOrder []string
	parts := map[string][]*group{}
	for _, g := range rows {
		p := g.parts[0]
		if _, ok := parts[p]; !ok {
			partOrder = append(partOrder, p)
		}
		parts[p] = append(parts[p], g)
	}

	var out [][]any
	for _, p := range partOrder {
		members := parts[p]
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].acc.value() > members[j].acc.value()
		})
		best := members[0]
		out = append(out, append(groupRow(best), 1))
	}
	return out
}

// compareRows labels (or filters) each group against the global aggregate.
// The threshold is exact: Good means strictly greater.
func (r *Report) compareRows(rows []*group, global float64) [][]any {
	var out [][]any
	for _, g := range rows {
		v := g.acc.value()
		switch r.global.Mode {
		case CompareLabel:
			label := "Bad"
			if v > global {
				label = "Good"
			}
			out = append(out, append(groupRow(g), label))
		case CompareAbove:
			if v > global {
				out = append(out, groupRow(g))
			}
		}
	}
	return out
}

func groupRow(g *group) []any {
	row := make([]any, 0, len(g.parts)+1)
	for _, p := range g.parts {
		row = append(row, p)
	}
	return append(row, g.acc.value())
}

// sortAndLimit orders rows by the aggregate column (stable, so first-seen
// order breaks ties) and truncates to limit when positive.
func sortAndLimit(rows [][]any, valIdx int, dir string, limit int) [][]any {
	if dir != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i][valIdx].(float64), rows[j][valIdx].(float64)
			if dir == SortAsc {
				return a < b
			}
			return a > b
		})
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
