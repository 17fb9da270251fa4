package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleCSV = `Invoice ID,Branch,City,Customer type,Gender,Product line,Unit price,Quantity,Tax 5%,Total,Date,Time,Payment,cogs,gross margin percentage,gross income,Rating
750-67-8428,A,Yangon,Member,Female,Health and beauty,74.69,7,26.1415,548.9715,1/5/2019,13:08,Ewallet,522.83,4.761904762,26.1415,9.1
226-31-3081,C,Naypyitaw,Normal,Female,Electronic accessories,15.28,5,3.82,80.22,3/8/2019,10:29,Cash,76.4,4.761904762,3.82,9.6
`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProbe_LocalFile(t *testing.T) {
	t.Parallel()

	path := writeSample(t, sampleCSV)
	res, err := Probe(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	if res.Input != path {
		t.Errorf("Input = %q, want %q", res.Input, path)
	}
	if len(res.Columns) != 17 {
		t.Fatalf("got %d columns, want 17", len(res.Columns))
	}
	if len(res.Missing) != 0 {
		t.Errorf("Missing = %v, want none for a full export", res.Missing)
	}

	byHeader := map[string]Column{}
	for _, c := range res.Columns {
		byHeader[c.Header] = c
	}

	tests := []struct {
		header, canonical, typ string
	}{
		{"Invoice ID", "invoice_id", "text"},
		{"Tax 5%", "vat", "decimal"},
		{"Quantity", "quantity", "int"},
		{"Date", "date", "date"},
		{"Time", "time", "time"},
		{"Rating", "rating", "float"},
		{"gross margin percentage", "gross_margin_pct", "float"},
	}
	for _, tt := range tests {
		c, ok := byHeader[tt.header]
		if !ok {
			t.Errorf("column %q missing", tt.header)
			continue
		}
		if c.Canonical != tt.canonical || c.Type != tt.typ || !c.Known {
			t.Errorf("%q = {canonical:%q type:%q known:%v}, want {%q %q true}",
				tt.header, c.Canonical, c.Type, c.Known, tt.canonical, tt.typ)
		}
	}
}

func TestProbe_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "Invoice ID,City\nx,Yangon\n")
	res, err := Probe(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	missing := map[string]bool{}
	for _, f := range res.Missing {
		missing[f] = true
	}
	for _, want := range []string{"branch", "total", "date", "time", "rating"} {
		if !missing[want] {
			t.Errorf("Missing lacks %q: %v", want, res.Missing)
		}
	}
	if missing["invoice_id"] || missing["city"] {
		t.Errorf("mapped fields reported missing: %v", res.Missing)
	}
}

func TestProbe_UnknownColumn(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "Invoice ID,Store Manager\nx,Alice\n")
	res, err := Probe(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	c := res.Columns[1]
	if c.Known {
		t.Errorf("Store Manager marked known")
	}
	if c.Canonical != "store_manager" {
		t.Errorf("Canonical = %q, want store_manager", c.Canonical)
	}
	if c.Type != "text" {
		t.Errorf("Type = %q, want text", c.Type)
	}
}

func TestProbe_NormalizedAndFoldedHeaders(t *testing.T) {
	t.Parallel()

	// Shouty, punctuated and accented variants still resolve to known fields.
	path := writeSample(t, "TAX 5%,Unit Price,Ratíng\n26.14,74.69,9.1\n")
	res, err := Probe(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}

	want := []string{"vat", "unit_price", "rating"}
	for i, c := range res.Columns {
		if c.Canonical != want[i] || !c.Known {
			t.Errorf("column %q = {%q known:%v}, want {%q known:true}", c.Header, c.Canonical, c.Known, want[i])
		}
	}
}

func TestProbe_RemoteURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	res, err := Probe(context.Background(), Options{URL: srv.URL})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if res.Input != srv.URL {
		t.Errorf("Input = %q, want %q", res.Input, srv.URL)
	}
	if len(res.Columns) != 17 {
		t.Errorf("got %d columns, want 17", len(res.Columns))
	}
}

func TestProbe_InputValidation(t *testing.T) {
	t.Parallel()

	if _, err := Probe(context.Background(), Options{}); err == nil {
		t.Error("Probe accepted neither Path nor URL")
	}
	if _, err := Probe(context.Background(), Options{Path: "x", URL: "y"}); err == nil {
		t.Error("Probe accepted both Path and URL")
	}
}

func TestProbe_SemicolonDelimiter(t *testing.T) {
	t.Parallel()

	path := writeSample(t, "Invoice ID;Quantity\nx;7\n")
	res, err := Probe(context.Background(), Options{Path: path, Delimiter: ';'})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(res.Columns) != 2 || res.Columns[1].Canonical != "quantity" {
		t.Errorf("columns = %+v", res.Columns)
	}
}

func TestRenderText(t *testing.T) {
	t.Parallel()

	res := Result{
		Columns: []Column{
			{Header: "Invoice ID", Canonical: "invoice_id", Type: "text", Known: true},
			{Header: "Store Manager", Canonical: "store_manager", Type: "text"},
		},
		Missing: []string{"total", "date"},
	}

	got := RenderText(res)
	want := "Invoice ID,invoice_id,text\nStore Manager,store_manager,text,unknown\nMISSING,total;date\n"
	if got != want {
		t.Errorf("RenderText = %q, want %q", got, want)
	}
}

func TestDecodeDelimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want rune
	}{
		{"", ','},
		{"comma", ','},
		{"Semicolon", ';'},
		{"tab", '\t'},
		{"pipe", '|'},
		{";", ';'},
		{"|", '|'},
	}
	for _, tt := range tests {
		if got := DecodeDelimiter(tt.in); got != tt.want {
			t.Errorf("DecodeDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Tax 5%", "tax_5"},
		{"gross margin percentage", "gross_margin_percentage"},
		{"  Unit  Price  ", "unit_price"},
		{"Rating", "rating"},
		{"a-b_c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := normalizeHeader(tt.in); got != tt.want {
			t.Errorf("normalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInferType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vals []string
		want string
	}{
		{"ints", []string{"1", "42", "-3"}, "int"},
		{"floats", []string{"1.5", "42"}, "float"},
		{"mixed text", []string{"1", "abc"}, "text"},
		{"bools", []string{"true", "no", "Y"}, "bool"},
		{"dates", []string{"1/5/2019", "2019-03-30"}, "date"},
		{"times", []string{"13:08", "10:29:00"}, "time"},
		{"empty", nil, "text"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := inferType(tt.vals); got != tt.want {
				t.Errorf("inferType(%v) = %q, want %q", tt.vals, got, tt.want)
			}
		})
	}
}
