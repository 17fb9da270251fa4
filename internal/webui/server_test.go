package webui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salespipe/internal/report"
)

func testServer() *Server {
	tables := []report.Table{
		{
			Name: "revenue-by-city", Section: "sales",
			Columns: []string{"city", "revenue"},
			Rows: [][]any{
				{"Yangon", 100.5},
				{"Mandalay", 45.0},
			},
		},
		{
			Name: "distinct-cities", Section: "generic",
			Columns: []string{"cities"},
			Rows:    [][]any{{3.0}},
		},
		{
			Name: "empty-report", Section: "generic",
			Columns: []string{"city", "count"},
		},
	}
	return NewServer(Config{Addr: ":0", Job: "supermarket"}, tables, nil)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandleIndex(t *testing.T) {
	t.Parallel()

	rec := get(t, testServer().Handler(), "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"supermarket",
		"revenue-by-city",
		"Yangon",
		"<h2>generic</h2>",
		"<h2>sales</h2>",
		"no rows", // empty table shows its empty state
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if strings.Index(body, "<h2>generic</h2>") > strings.Index(body, "<h2>sales</h2>") {
		t.Error("sections not sorted")
	}
}

func TestHandleIndex_UnknownPath(t *testing.T) {
	t.Parallel()

	rec := get(t, testServer().Handler(), "/nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleListReports(t *testing.T) {
	t.Parallel()

	rec := get(t, testServer().Handler(), "/api/reports")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var entries []struct {
		Name    string `json:"name"`
		Section string `json:"section"`
		Rows    int    `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Name != "revenue-by-city" || entries[0].Rows != 2 {
		t.Errorf("entries[0] = %+v", entries[0])
	}
}

func TestHandleReport(t *testing.T) {
	t.Parallel()

	rec := get(t, testServer().Handler(), "/api/report?name=revenue-by-city")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var table report.Table
	if err := json.Unmarshal(rec.Body.Bytes(), &table); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if table.Name != "revenue-by-city" || len(table.Rows) != 2 {
		t.Errorf("table = %+v", table)
	}
}

func TestHandleReport_Unknown(t *testing.T) {
	t.Parallel()

	rec := get(t, testServer().Handler(), "/api/report?name=nope")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleProbe(t *testing.T) {
	t.Parallel()

	csvSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Invoice ID,Quantity\nx,7\n"))
	}))
	defer csvSrv.Close()

	rec := get(t, testServer().Handler(), "/api/probe?mode=json&url="+csvSrv.URL)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var res struct {
		Columns []struct {
			Canonical string `json:"canonical"`
		} `json:"columns"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Columns) != 2 || res.Columns[1].Canonical != "quantity" {
		t.Errorf("columns = %+v", res.Columns)
	}
}

func TestHandleProbe_MissingURL(t *testing.T) {
	t.Parallel()

	rec := get(t, testServer().Handler(), "/api/probe")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleProbe_TextMode(t *testing.T) {
	t.Parallel()

	csvSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Invoice ID\nx\n"))
	}))
	defer csvSrv.Close()

	rec := get(t, testServer().Handler(), "/api/probe?url="+csvSrv.URL)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "invoice_id") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
