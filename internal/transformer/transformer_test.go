package transformer

import (
	"reflect"
	"testing"

	"salespipe/pkg/records"
)

type upper struct{ key string }

func (u upper) Apply(in []records.Record) []records.Record {
	for _, r := range in {
		if s, ok := r[u.key].(string); ok {
			up := make([]byte, len(s))
			for i := 0; i < len(s); i++ {
				c := s[i]
				if c >= 'a' && c <= 'z' {
					c -= 'a' - 'A'
				}
				up[i] = c
			}
			r[u.key] = string(up)
		}
	}
	return in
}

type dropEven struct{}

func (dropEven) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for i, r := range in {
		if i%2 == 0 {
			out = append(out, r)
		}
	}
	return out
}

func TestChain_AppliesInOrder(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"city": "yangon"},
		{"city": "mandalay"},
		{"city": "naypyitaw"},
	}

	// dropEven runs first, so the filter sees the original positions.
	out := Chain{dropEven{}, upper{key: "city"}}.Apply(in)

	want := []records.Record{
		{"city": "YANGON"},
		{"city": "NAYPYITAW"},
	}
	if !reflect.DeepEqual(out, want) {
		t.Fatalf("Apply = %v, want %v", out, want)
	}
}

func TestChain_Empty(t *testing.T) {
	t.Parallel()

	in := []records.Record{{"a": "b"}}
	out := Chain{}.Apply(in)
	if !reflect.DeepEqual(out, in) {
		t.Fatalf("empty chain changed input: %v", out)
	}
}
