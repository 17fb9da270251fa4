package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"salespipe/internal/config"
	"salespipe/internal/datasource"
	"salespipe/internal/datasource/file"
	"salespipe/internal/datasource/httpds"
	"salespipe/internal/derive"
	"salespipe/internal/metrics"
	csvparser "salespipe/internal/parser/csv"
	"salespipe/internal/render"
	"salespipe/internal/report"
	"salespipe/internal/sales"
	"salespipe/internal/storage"
	"salespipe/internal/transformer"
	"salespipe/internal/transformer/builtin"
	"salespipe/internal/webui"
	"salespipe/pkg/records"
)

// runOptions carries flag-level settings that are not part of the pipeline
// config file.
type runOptions struct {
	Format    render.Format
	Serve     bool
	ServeAddr string
	Out       io.Writer
}

// run executes one full pipeline: parse → transform → load → derive →
// report → render, with optional persistence and web UI.
func run(ctx context.Context, logger *zap.Logger, p config.Pipeline, opt runOptions) error {
	runID := uuid.NewString()
	logger = logger.With(zap.String("job", p.Job), zap.String("run_id", runID))

	// Parse.
	start := time.Now()
	raw, skipped, err := parseSource(ctx, logger, p)
	metrics.RecordStep(p.Job, "parse", err, time.Since(start))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	metrics.RecordRows(p.Job, "parsed", int64(len(raw)))
	metrics.RecordRows(p.Job, "parse_errors", int64(skipped))
	logger.Debug("parsed", zap.Int("rows", len(raw)), zap.Int("skipped", skipped))

	// Transform.
	start = time.Now()
	rows := buildChain(p.Load).Apply(raw)
	metrics.RecordStep(p.Job, "transform", nil, time.Since(start))
	if dropped := len(raw) - len(rows); dropped > 0 {
		metrics.RecordRows(p.Job, "rejected", int64(dropped))
		logger.Debug("transform dropped rows", zap.Int("dropped", dropped))
	}

	// Load.
	start = time.Now()
	var rejected int64
	loader := &sales.Loader{
		Policy:     p.Load.Policy,
		DateLayout: p.Load.DateLayout,
		Reject: func(verr *sales.ValidationError, _ records.Record) {
			rejected++
			logger.Warn("record rejected",
				zap.Int("line", verr.Line),
				zap.String("field", verr.Field),
				zap.String("reason", verr.Reason))
		},
	}
	recs, err := loader.Load(rows)
	metrics.RecordStep(p.Job, "load", err, time.Since(start))
	metrics.RecordRows(p.Job, "rejected", rejected)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	metrics.RecordRows(p.Job, "loaded", int64(len(recs)))

	// Derive. Every record gets time_of_day, day_name and month before any
	// report sees the set.
	start = time.Now()
	derive.Enrich(recs)
	metrics.RecordStep(p.Job, "derive", nil, time.Since(start))

	// Report.
	reports, err := report.CompileSuite(report.Suite)
	if err != nil {
		return fmt.Errorf("compile reports: %w", err)
	}
	reports = filterReports(reports, p.Reports.Only, p.Reports.Skip)

	tables, err := report.RunAll(ctx, p.Job, reports, recs, p.Reports.Workers)
	if err != nil {
		return fmt.Errorf("run reports: %w", err)
	}
	metrics.RecordReports(p.Job, int64(len(tables)))

	if err := render.Write(opt.Out, opt.Format, tables); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if p.Storage.Kind != "" {
		start = time.Now()
		err := persist(ctx, logger, p, runID, recs, tables)
		metrics.RecordStep(p.Job, "sink", err, time.Since(start))
		if err != nil {
			return fmt.Errorf("sink: %w", err)
		}
	}

	logger.Info("run complete",
		zap.String("records", humanize.Comma(int64(len(recs)))),
		zap.String("rejected", humanize.Comma(rejected)),
		zap.Int("reports", len(tables)))

	if opt.Serve {
		srv := webui.NewServer(webui.Config{Addr: opt.ServeAddr, Job: p.Job}, tables, logger)
		return srv.ListenAndServe()
	}
	return nil
}

// openSource builds the datasource named by the config.
func openSource(src config.Source) (datasource.Source, error) {
	switch src.Kind {
	case "file":
		return file.NewLocal(src.File.Path), nil
	case "http":
		return httpds.NewRemote(nil, src.HTTP.URL), nil
	}
	return nil, fmt.Errorf("unknown source kind %q", src.Kind)
}

// parseSource opens the configured source and parses it into raw records.
func parseSource(ctx context.Context, logger *zap.Logger, p config.Pipeline) ([]records.Record, int, error) {
	src, err := openSource(p.Source)
	if err != nil {
		return nil, 0, err
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	opts := p.Parser.Options
	headerMap := opts.StringMap("header_map")
	if len(headerMap) == 0 {
		headerMap = sales.DefaultHeaderMap
	}
	parser := csvparser.NewParser(csvparser.Options{
		HasHeader:      opts.Bool("has_header", true),
		Comma:          opts.Rune("comma", ','),
		TrimSpace:      opts.Bool("trim_space", true),
		ExpectedFields: opts.Int("expected_fields", 0),
		HeaderMap:      headerMap,
		OnSkip: func(line int, reason string) {
			logger.Warn("row skipped", zap.Int("line", line), zap.String("reason", reason))
		},
	})
	return parser.Parse(rc)
}

// buildChain assembles the pre-load transformer chain from the load config.
func buildChain(l config.Load) transformer.Chain {
	chain := transformer.Chain{
		builtin.Normalize{FoldDiacritics: true},
	}
	if l.Prefilter {
		chain = append(chain, builtin.Require{Fields: sales.RequiredFields})
	}
	if l.Dedup != "" {
		chain = append(chain, builtin.DeDup{
			Keys:         []string{"invoice_id"},
			Policy:       l.Dedup,
			PreferFields: []string{"total", "date", "time"},
		})
	}
	return chain
}

// filterReports applies reports.only / reports.skip from the config. Order
// of the battery is preserved.
func filterReports(reports []*report.Report, only, skip []string) []*report.Report {
	if len(only) == 0 && len(skip) == 0 {
		return reports
	}
	onlySet := map[string]bool{}
	for _, n := range only {
		onlySet[n] = true
	}
	skipSet := map[string]bool{}
	for _, n := range skip {
		skipSet[n] = true
	}

	var out []*report.Report
	for _, r := range reports {
		name := r.Def().Name
		if len(only) > 0 && !onlySet[name] {
			continue
		}
		if skipSet[name] {
			continue
		}
		out = append(out, r)
	}
	return out
}

// persist writes enriched records and flattened report rows through the
// configured storage backend.
func persist(ctx context.Context, logger *zap.Logger, p config.Pipeline, runID string, recs []*sales.Record, tables []report.Table) error {
	cfg := storage.Config{
		Kind:         p.Storage.Kind,
		DSN:          p.Storage.DB.DSN,
		Table:        p.Storage.DB.Table,
		ResultsTable: p.Storage.DB.ResultsTable,
		AutoCreate:   p.Storage.DB.AutoCreateTable,
	}
	if cfg.ResultsTable == "" {
		cfg.ResultsTable = cfg.Table + "_results"
	}

	repo, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := storage.EnsureTables(ctx, repo, cfg); err != nil {
		return err
	}

	recRows := make([][]any, len(recs))
	for i, r := range recs {
		recRows[i] = r.Row()
	}
	n, err := repo.CopyFrom(ctx, cfg.Table, sales.Columns, recRows)
	if err != nil {
		return fmt.Errorf("copy records: %w", err)
	}
	logger.Debug("records persisted", zap.Int64("rows", n), zap.String("table", cfg.Table))

	resRows := storage.ResultRows(runID, p.Job, tables)
	n, err = repo.CopyFrom(ctx, cfg.ResultsTable, storage.ResultColumns, resRows)
	if err != nil {
		return fmt.Errorf("copy results: %w", err)
	}
	logger.Debug("results persisted", zap.Int64("rows", n), zap.String("table", cfg.ResultsTable))
	return nil
}
