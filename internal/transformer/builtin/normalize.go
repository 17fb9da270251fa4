// Package builtin contains simple, reusable transformers for the pipeline.
package builtin

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"salespipe/pkg/records"
)

// Normalize cleans string values in place: trims surrounding whitespace,
// collapses non-breaking spaces, and optionally folds diacritics so that
// dimension values group consistently regardless of source encoding.
type Normalize struct {
	FoldDiacritics bool
}

// foldDiacritics decomposes, strips combining marks, and recomposes.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func (n Normalize) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
			if n.FoldDiacritics {
				if folded, _, err := transform.String(foldDiacritics, s); err == nil {
					s = folded
				}
			}
			r[k] = s
		}
	}
	return in
}
