// Package webui exposes a minimal HTTP server that renders a finished
// pipeline run: an HTML page listing every report table grouped by section,
// plus JSON endpoints for scripts.
//
// Routes:
//
//	GET /                → HTML index with all report tables
//	GET /api/reports     → JSON list of report names and sections
//	GET /api/report?name → JSON dump of one report table
//	GET /api/probe?url   → column analysis of a remote CSV export
package webui

import (
	_ "embed"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"salespipe/internal/probe"
	"salespipe/internal/report"
)

// Config controls server startup.
type Config struct {
	Addr string
	Job  string
}

// Server wraps http.Server for convenience. It serves a fixed snapshot of
// tables computed before startup; there is no mutation after NewServer.
type Server struct {
	cfg     Config
	mux     *http.ServeMux
	tmpl    *template.Template
	log     *zap.Logger
	tables  []report.Table
	byName  map[string]*report.Table
	section map[string][]*report.Table
}

// NewServer constructs a Server over the given report tables.
func NewServer(cfg Config, tables []report.Table, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
		// Parse the embedded template at construction time.
		tmpl:    template.Must(template.New("index").Parse(indexHTML)),
		log:     log,
		tables:  tables,
		byName:  make(map[string]*report.Table, len(tables)),
		section: map[string][]*report.Table{},
	}
	for i := range tables {
		t := &tables[i]
		s.byName[t.Name] = t
		s.section[t.Section] = append(s.section[t.Section], t)
	}
	s.routes()
	return s
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log.Info("web ui listening", zap.String("addr", s.cfg.Addr), zap.Int("reports", len(s.tables)))
	return http.ListenAndServe(s.cfg.Addr, s.mux)
}

// Handler returns the route mux, mainly for tests.
func (s *Server) Handler() http.Handler { return s.mux }

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/api/reports", s.handleListReports)
	s.mux.HandleFunc("/api/report", s.handleReport)
	s.mux.HandleFunc("/api/probe", s.handleProbe)
}

type sectionView struct {
	Name   string
	Tables []*report.Table
}

// handleIndex renders every table, grouped by section.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	names := make([]string, 0, len(s.section))
	for name := range s.section {
		names = append(names, name)
	}
	sort.Strings(names)

	data := struct {
		Job      string
		Sections []sectionView
	}{Job: s.cfg.Job}
	for _, name := range names {
		data.Sections = append(data.Sections, sectionView{Name: name, Tables: s.section[name]})
	}

	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error("template render failed", zap.Error(err))
	}
}

// handleListReports returns the available report names.
func (s *Server) handleListReports(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		Name    string `json:"name"`
		Section string `json:"section"`
		Rows    int    `json:"rows"`
	}
	out := make([]entry, 0, len(s.tables))
	for i := range s.tables {
		t := &s.tables[i]
		out = append(out, entry{Name: t.Name, Section: t.Section, Rows: len(t.Rows)})
	}
	writeJSON(w, out)
}

// handleReport returns one table as JSON, selected by ?name=.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	t, ok := s.byName[name]
	if !ok {
		http.Error(w, "unknown report: "+name, http.StatusNotFound)
		return
	}
	writeJSON(w, t)
}

// handleProbe samples a remote CSV and returns its column analysis. Query
// parameters: url (required), bytes, delimiter, mode ("json" or text).
func (s *Server) handleProbe(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	url := strings.TrimSpace(q.Get("url"))
	if url == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}
	nbytes, _ := strconv.Atoi(strings.TrimSpace(q.Get("bytes")))

	opt := probe.Options{
		URL:       url,
		MaxBytes:  nbytes,
		Delimiter: probe.DecodeDelimiter(q.Get("delimiter")),
	}
	res, err := probe.Probe(r.Context(), opt)
	if err != nil {
		http.Error(w, "probe failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	if q.Get("mode") == "json" {
		writeJSON(w, res)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, probe.RenderText(res))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// indexHTML is an embedded, minimal page with vanilla styling.
//
//go:embed index.tmpl.html
var indexHTML string
