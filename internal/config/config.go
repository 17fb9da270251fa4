// Package config defines the canonical, JSON-serializable configuration
// model for a salespipe run. It is intentionally small and explicit so that
// run files can be loaded from disk and passed through the program without
// additional glue code; decoding is performed by the standard library, with
// a light Options helper for typed access to parser-specific settings.
//
// Example (trimmed):
//
//	{
//	  "job":    "supermarket",
//	  "source": { "kind": "file", "file": { "path": "data/sales.csv" } },
//	  "parser": { "kind": "csv", "options": { "has_header": true } },
//	  "load":   { "policy": "lenient" },
//	  "reports":{ "workers": 4 },
//	  "storage":{ "kind": "sqlite", "db": { "dsn": "sales.db", "table": "sales" } }
//	}
package config

import "encoding/json"

// Pipeline describes one full run: where the sales CSV comes from, how it
// is parsed and loaded, which reports run, and where results go.
type Pipeline struct {
	// Job names the run; it labels metrics and sink rows.
	Job string `json:"job"`

	Source  Source  `json:"source"`
	Parser  Parser  `json:"parser"`
	Load    Load    `json:"load"`
	Reports Reports `json:"reports"`

	// Storage optionally persists enriched records and report results.
	// An empty kind disables the sink.
	Storage Storage `json:"storage"`
}

// Source identifies the data source.
type Source struct {
	// Kind selects the source implementation: "file" or "http".
	Kind string `json:"kind"`

	File SourceFile `json:"file"`
	HTTP SourceHTTP `json:"http"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	Path string `json:"path"`
}

// SourceHTTP holds configuration for the "http" source kind.
type SourceHTTP struct {
	URL string `json:"url"`
}

// Parser selects how the raw source becomes logical rows.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV, typical keys: has_header (bool), comma (string), trim_space
	// (bool), expected_fields (int), header_map (object).
	Options Options `json:"options"`
}

// Load configures the typed loader.
type Load struct {
	// Policy is "strict" (first bad record fails the load) or "lenient"
	// (bad records are rejected-and-reported). Empty means strict.
	Policy string `json:"policy"`

	// DateLayout optionally overrides the first date layout tried.
	DateLayout string `json:"date_layout"`

	// Dedup, when set, collapses duplicate invoice IDs ahead of the loader
	// instead of rejecting them; the value is the DeDup policy name.
	Dedup string `json:"dedup,omitempty"`

	// Prefilter drops rows missing required fields before the loader runs.
	// Useful with the strict policy on exports known to carry ragged rows.
	Prefilter bool `json:"prefilter,omitempty"`
}

// Reports selects and tunes the report battery.
type Reports struct {
	// Only, when non-empty, restricts the run to the named reports.
	Only []string `json:"only,omitempty"`

	// Skip names reports to leave out.
	Skip []string `json:"skip,omitempty"`

	// Workers bounds parallel report evaluation. Zero means a default.
	Workers int `json:"workers"`
}

// Storage selects the sink used to persist enriched records and results.
type Storage struct {
	// Kind selects the backend: "sqlite", "postgres", "mysql", or empty to
	// disable persistence.
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	// DSN is the backend connection string (path for sqlite).
	DSN string `json:"dsn"`

	// Table receives the enriched sales records.
	Table string `json:"table"`

	// ResultsTable receives flattened report rows; defaults to
	// Table + "_results" when empty.
	ResultsTable string `json:"results_table"`

	// AutoCreateTable creates both tables if missing.
	AutoCreateTable bool `json:"auto_create_table"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without a third-party configuration library. It performs only minimal
// coercion and returns the provided default when a key is absent or of an
// unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers decode as float64,
// so float64 is accepted and cast.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def. Useful for
// single-character settings such as a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// with string values. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON decodes a missing or null "options" object to a non-nil,
// empty Options map so call sites need no nil checks.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
