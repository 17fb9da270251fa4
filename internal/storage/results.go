package storage

import (
	"fmt"

	"salespipe/internal/report"
)

// ResultRows flattens report tables into rows matching ResultColumns. Group
// keys land in key1/key2 (key2 empty for single-key reports), the aggregate
// in value, and the optional trailing label or rank column in label/row_rank.
func ResultRows(runID, job string, tables []report.Table) [][]any {
	var out [][]any
	for ti := range tables {
		t := &tables[ti]
		keyN, hasLabel, hasRank := tableShape(t.Columns)
		for pos, row := range t.Rows {
			var key1, key2, label string
			var rank int64
			if keyN > 0 {
				key1 = fmt.Sprintf("%v", row[0])
			}
			if keyN > 1 {
				key2 = fmt.Sprintf("%v", row[1])
			}
			value := toFloat(row[keyN])
			if hasLabel {
				label = fmt.Sprintf("%v", row[keyN+1])
			}
			if hasRank {
				rank = toInt(row[keyN+1])
			}
			out = append(out, []any{
				runID, job, t.Name, t.Section, pos,
				key1, key2, value, label, rank,
			})
		}
	}
	return out
}

// tableShape decodes a table's column layout: leading group keys, one
// aggregate value, then at most one trailing "label" or "rank" column.
func tableShape(cols []string) (keyN int, hasLabel, hasRank bool) {
	n := len(cols)
	if n == 0 {
		return 0, false, false
	}
	switch cols[n-1] {
	case "label":
		hasLabel = true
		n--
	case "rank":
		hasRank = true
		n--
	}
	return n - 1, hasLabel, hasRank
}

func toFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	}
	return 0
}

func toInt(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	}
	return 0
}
