// Command salesprobe inspects the head of one or more sales CSV exports and
// prints, per column, the raw header, the canonical field name the pipeline
// loader would use, and a guessed value type. Use it to check an unfamiliar
// export before writing a pipeline config for it.
//
// Examples:
//
//	salesprobe -file data/supermarket_sales.csv
//	salesprobe -url https://example.com/sales.csv -bytes 32768 -json
//	salesprobe -list exports.txt
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"salespipe/internal/datasource/file"
	"salespipe/internal/probe"
)

func main() {
	var (
		filePath  string
		url       string
		listPath  string
		maxBytes  int
		delimiter string
		asJSON    bool
		insecure  bool
		timeout   time.Duration
	)

	flag.StringVar(&filePath, "file", "", "local CSV file to probe")
	flag.StringVar(&url, "url", "", "remote CSV URL to probe")
	flag.StringVar(&listPath, "list", "", "text file listing files/URLs to probe, one per line")
	flag.IntVar(&maxBytes, "bytes", 0, "max sample size in bytes (default 64KiB)")
	flag.StringVar(&delimiter, "delimiter", "", "field delimiter: comma, semicolon, tab, pipe or a literal character")
	flag.BoolVar(&asJSON, "json", false, "emit JSON instead of CSV lines")
	flag.BoolVar(&insecure, "insecure", false, "skip TLS verification for URL probes")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall probe timeout")

	flag.Parse()

	inputs, err := collectInputs(filePath, url, listPath)
	if err != nil {
		fatalf("%v", err)
	}
	if len(inputs) == 0 {
		fatalf("nothing to probe: pass -file, -url or -list")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var results []probe.Result
	for _, in := range inputs {
		opt := probe.Options{
			MaxBytes:  maxBytes,
			Delimiter: probe.DecodeDelimiter(delimiter),
			Insecure:  insecure,
		}
		if isURL(in) {
			opt.URL = in
		} else {
			opt.Path = in
		}

		res, err := probe.Probe(ctx, opt)
		if err != nil {
			fatalf("probe %s: %v", in, err)
		}
		results = append(results, res)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fatalf("encode: %v", err)
		}
		return
	}

	for _, res := range results {
		if len(results) > 1 {
			fmt.Printf("# %s\n", res.Input)
		}
		fmt.Print(probe.RenderText(res))
	}
}

// collectInputs merges the single-input flags with the optional list file.
func collectInputs(filePath, url, listPath string) ([]string, error) {
	var inputs []string
	if filePath != "" {
		inputs = append(inputs, filePath)
	}
	if url != "" {
		inputs = append(inputs, url)
	}
	if listPath != "" {
		listed, err := file.ReadList(listPath)
		if err != nil {
			return nil, fmt.Errorf("read list %s: %w", listPath, err)
		}
		inputs = append(inputs, listed...)
	}
	return inputs, nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
