// Package probe inspects the head of a sales export and reports, per CSV
// column, the raw header, the canonical field name the loader would use, and
// a guessed value type. It is the engine behind cmd/salesprobe and the web
// UI's /api/probe route, and is meant for checking an unfamiliar export
// before wiring it into a pipeline config.
package probe

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"salespipe/internal/datasource/httpds"
	"salespipe/internal/sales"
)

// Options controls a single probe run. Exactly one of Path or URL must be
// set.
type Options struct {
	// Path is a local CSV file to sample.
	Path string

	// URL is a remote CSV to sample over HTTP(S).
	URL string

	// MaxBytes caps the sample size. Zero means DefaultMaxBytes.
	MaxBytes int

	// Delimiter is the CSV field separator. Zero means comma.
	Delimiter rune

	// Insecure disables TLS verification for URL fetches.
	Insecure bool

	// SampleRows caps how many data rows feed type inference.
	// Zero means DefaultSampleRows.
	SampleRows int
}

// DefaultMaxBytes is the sample cap when Options.MaxBytes is zero. 64 KiB is
// enough for a header row plus a few hundred sales records.
const DefaultMaxBytes = 64 * 1024

// DefaultSampleRows is the row cap when Options.SampleRows is zero.
const DefaultSampleRows = 50

// Column describes one probed CSV column.
type Column struct {
	// Header is the raw header cell after trimming.
	Header string `json:"header"`

	// Canonical is the field name the loader maps this header to. For
	// headers outside the known sales schema it is a normalized form of
	// the raw header.
	Canonical string `json:"canonical"`

	// Type is a coarse value type: text, int, float, decimal, date,
	// time or bool.
	Type string `json:"type"`

	// Known reports whether Canonical is part of the sales record schema.
	Known bool `json:"known"`
}

// Result is the outcome of probing one input.
type Result struct {
	// Input echoes the probed path or URL.
	Input string `json:"input"`

	// Columns lists one entry per CSV column, in file order.
	Columns []Column `json:"columns"`

	// Missing lists required sales fields no header maps to. A non-empty
	// Missing means the loader would reject every row of this file.
	Missing []string `json:"missing,omitempty"`
}

// Probe samples the input named by opt and analyzes its header row.
func Probe(ctx context.Context, opt Options) (Result, error) {
	if (opt.Path == "") == (opt.URL == "") {
		return Result{}, fmt.Errorf("probe: exactly one of Path or URL must be set")
	}

	maxBytes := opt.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	sample, input, err := fetchSample(ctx, opt, maxBytes)
	if err != nil {
		return Result{}, err
	}

	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = DefaultSampleRows
	}

	headers, rows, err := readSample(sample, delim, sampleRows)
	if err != nil {
		return Result{}, fmt.Errorf("probe %s: %w", input, err)
	}
	if len(headers) == 0 {
		return Result{}, fmt.Errorf("probe %s: no header row found", input)
	}

	res := Result{Input: input}
	mapped := map[string]bool{}
	for i, h := range headers {
		canonical, known := canonicalField(h)
		col := Column{
			Header:    h,
			Canonical: canonical,
			Known:     known,
			Type:      guessType(canonical, known, columnValues(rows, i)),
		}
		mapped[canonical] = true
		res.Columns = append(res.Columns, col)
	}
	for _, f := range sales.RequiredFields {
		if !mapped[f] {
			res.Missing = append(res.Missing, f)
		}
	}
	return res, nil
}

// RenderText formats a Result as one "header,canonical,type" line per
// column, followed by a MISSING line when required fields are absent.
func RenderText(res Result) string {
	var b strings.Builder
	for _, c := range res.Columns {
		mark := ""
		if !c.Known {
			mark = ",unknown"
		}
		fmt.Fprintf(&b, "%s,%s,%s%s\n", c.Header, c.Canonical, c.Type, mark)
	}
	if len(res.Missing) > 0 {
		fmt.Fprintf(&b, "MISSING,%s\n", strings.Join(res.Missing, ";"))
	}
	return b.String()
}

// DecodeDelimiter turns a human-friendly delimiter name into a rune.
// Recognized: "comma", "semicolon", "tab", "pipe", or a literal single
// character. Empty input means comma.
func DecodeDelimiter(s string) rune {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "comma":
		return ','
	case "semicolon":
		return ';'
	case "tab", "\\t":
		return '\t'
	case "pipe":
		return '|'
	}
	return []rune(s)[0]
}

func fetchSample(ctx context.Context, opt Options, maxBytes int) (data []byte, input string, err error) {
	if opt.URL != "" {
		client := httpds.NewClient(httpds.Config{InsecureSkipVerify: opt.Insecure})
		data, err = client.FetchFirstBytes(ctx, opt.URL, maxBytes)
		return data, opt.URL, err
	}

	f, err := os.Open(opt.Path)
	if err != nil {
		return nil, opt.Path, err
	}
	defer f.Close()
	data, err = io.ReadAll(io.LimitReader(f, int64(maxBytes)))
	return data, opt.Path, err
}

// readSample parses the sampled bytes as CSV. The final line is dropped when
// the sample ends mid-record, which is the common case for byte-capped reads.
func readSample(sample []byte, delim rune, maxRows int) (headers []string, rows [][]string, err error) {
	if i := bytes.LastIndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i+1]
	}

	r := csv.NewReader(bytes.NewReader(sample))
	r.Comma = delim
	r.FieldsPerRecord = -1

	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if first {
				return nil, nil, err
			}
			continue // tolerate ragged tail rows in a truncated sample
		}
		if first {
			first = false
			for _, h := range rec {
				headers = append(headers, strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
			}
			continue
		}
		if len(rec) != len(headers) {
			continue // misaligned row would skew type inference
		}
		rows = append(rows, rec)
		if len(rows) >= maxRows {
			break
		}
	}
	return headers, rows, nil
}

func columnValues(rows [][]string, idx int) []string {
	var vals []string
	for _, row := range rows {
		v := strings.TrimSpace(row[idx])
		if v != "" {
			vals = append(vals, v)
		}
	}
	return vals
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizedHeaderMap indexes the default header map by normalized key so
// probes match headers regardless of case or punctuation ("TAX 5%" still
// resolves to vat).
var normalizedHeaderMap = func() map[string]string {
	m := make(map[string]string, len(sales.DefaultHeaderMap))
	for k, v := range sales.DefaultHeaderMap {
		m[normalizeHeader(k)] = v
	}
	return m
}()

// canonicalField maps a raw header to the loader's canonical field name.
// Known headers go through the default header map; everything else is folded
// and normalized so the caller at least gets a usable identifier back.
func canonicalField(header string) (name string, known bool) {
	if v, ok := sales.DefaultHeaderMap[header]; ok {
		return v, true
	}

	folded, _, err := transform.String(foldDiacritics, header)
	if err != nil {
		folded = header
	}
	key := normalizeHeader(folded)

	if v, ok := normalizedHeaderMap[key]; ok {
		return v, true
	}
	// A folded header may already be canonical ("branch", "total", ...).
	for _, f := range sales.RequiredFields {
		if f == key {
			return key, true
		}
	}
	return key, false
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimRight(b.String(), "_")
}

// schemaTypes pins the types of the canonical sales fields so the probe does
// not depend on what a particular sample happens to contain.
var schemaTypes = map[string]string{
	"invoice_id":       "text",
	"branch":           "text",
	"city":             "text",
	"customer_type":    "text",
	"gender":           "text",
	"product_line":     "text",
	"payment_method":   "text",
	"unit_price":       "decimal",
	"quantity":         "int",
	"vat":              "decimal",
	"total":            "decimal",
	"cogs":             "decimal",
	"gross_margin_pct": "float",
	"gross_income":     "decimal",
	"rating":           "float",
	"date":             "date",
	"time":             "time",
}

func guessType(canonical string, known bool, vals []string) string {
	if known {
		if t, ok := schemaTypes[canonical]; ok {
			return t
		}
	}
	return inferType(vals)
}

// inferType guesses a column type from sampled values: every value must
// match for a non-text type to win, and the checks run from most to least
// specific.
func inferType(vals []string) string {
	if len(vals) == 0 {
		return "text"
	}
	switch {
	case allMatch(vals, isBool):
		return "bool"
	case allMatch(vals, isInt):
		return "int"
	case allMatch(vals, isFloat):
		return "float"
	case allMatch(vals, isDate):
		return "date"
	case allMatch(vals, isClock):
		return "time"
	}
	return "text"
}

func allMatch(vals []string, fn func(string) bool) bool {
	for _, v := range vals {
		if !fn(v) {
			return false
		}
	}
	return true
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "t", "f", "yes", "no", "y", "n":
		return true
	}
	return false
}

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

var probeDateLayouts = []string{"1/2/2006", "2006-01-02", "01-02-2006", "2006/01/02"}

func isDate(s string) bool {
	for _, layout := range probeDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isClock(s string) bool {
	_, err := sales.ParseClock(s)
	return err == nil
}
