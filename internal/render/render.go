// Package render writes finished report tables to an io.Writer in one of
// three formats: human-readable text, CSV, or JSON.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"salespipe/internal/report"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name from a flag or config value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatCSV, FormatJSON:
		return Format(s), nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("render: unknown format %q (want text, csv or json)", s)
}

// Write encodes tables to w in the given format.
func Write(w io.Writer, f Format, tables []report.Table) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, tables)
	case FormatJSON:
		return writeJSON(w, tables)
	default:
		return writeText(w, tables)
	}
}

// writeText prints each table under a "section/name" banner with aligned
// columns.
func writeText(w io.Writer, tables []report.Table) error {
	for i := range tables {
		t := &tables[i]
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "== %s/%s ==\n", t.Section, t.Name)
		if len(t.Rows) == 0 {
			fmt.Fprintln(w, "(no rows)")
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for j, c := range t.Columns {
			if j > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
		for _, row := range t.Rows {
			for j, v := range row {
				if j > 0 {
					fmt.Fprint(tw, "\t")
				}
				fmt.Fprintf(tw, "%v", v)
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// writeCSV emits each table as a comment line naming it, then a header row,
// then data rows. Values go through fmt so numeric types keep their natural
// formatting.
func writeCSV(w io.Writer, tables []report.Table) error {
	cw := csv.NewWriter(w)
	for i := range tables {
		t := &tables[i]
		if _, err := fmt.Fprintf(w, "# %s/%s\n", t.Section, t.Name); err != nil {
			return err
		}
		if err := cw.Write(t.Columns); err != nil {
			return err
		}
		rec := make([]string, len(t.Columns))
		for _, row := range t.Rows {
			for j, v := range row {
				rec[j] = fmt.Sprintf("%v", v)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, tables []report.Table) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tables)
}
