package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"salespipe/internal/config"
	"salespipe/internal/metrics"
	"salespipe/internal/metrics/datadog"
	"salespipe/internal/metrics/prompush"
	"salespipe/internal/render"
	"salespipe/internal/report"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "salespipe/internal/storage/all"
)

// main is the entry point for the salespipe binary. It loads the pipeline
// config, optionally initializes a metrics backend, and executes the run.
func main() {
	var (
		cfgPath           string
		formatFlg         string
		metricsBackendFlg string
		pushGatewayURLFlg string
		statsdAddrFlg     string
		serveAddr         string
		validate          bool
		serve             bool
		verbose           bool
	)

	flag.StringVar(&cfgPath, "config", "configs/supermarket.json", "pipeline config JSON path")
	flag.StringVar(&formatFlg, "format", "text", "report output format: text, csv or json")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "none", "metrics backend to use (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.StringVar(&statsdAddrFlg, "statsd-addr", "", "statsd address for the datadog backend (overrides env STATSD_ADDR)")
	flag.BoolVar(&serve, "serve", false, "serve report tables over HTTP after the run")
	flag.StringVar(&serveAddr, "addr", ":8080", "listen address for -serve")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&verbose, "v", false, "enable verbose logs")

	flag.Parse()

	// Local overrides for DSNs, gateway URLs and the like. Missing file is
	// fine.
	_ = godotenv.Load()

	logger := buildLogger(verbose)
	defer logger.Sync() //nolint:errcheck

	f, err := os.Open(cfgPath)
	if err != nil {
		fatalf("open config: %v", err)
	}
	defer f.Close()

	var p config.Pipeline
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		fatalf("decode config: %v", err)
	}

	// Validate pipeline config against the known report battery.
	names := make([]string, 0, len(report.Suite))
	for _, d := range report.Suite {
		names = append(names, d.Name)
	}
	issues := config.ValidatePipeline(p, names)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		logger.Error("configuration is invalid", zap.String("path", cfgPath))
		os.Exit(1)
	}

	// If validate flag is set, only validate the configuration and exit
	if validate {
		logger.Info("configuration is valid", zap.String("path", cfgPath))
		return
	}

	format, err := render.ParseFormat(formatFlg)
	if err != nil {
		fatalf("%v", err)
	}

	setupMetrics(logger, p.Job, metricsBackendFlg, pushGatewayURLFlg, statsdAddrFlg)
	defer func() {
		if err := metrics.Flush(); err != nil {
			logger.Warn("metrics flush failed", zap.Error(err))
		}
	}()

	ctx := context.Background()
	start := time.Now()

	logger.Debug("pipeline configured",
		zap.String("source", p.Source.Kind),
		zap.String("parser", p.Parser.Kind),
		zap.String("storage", p.Storage.Kind))

	opt := runOptions{
		Format:    format,
		Serve:     serve,
		ServeAddr: serveAddr,
		Out:       os.Stdout,
	}
	if err := run(ctx, logger, p, opt); err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}

	logger.Debug("completed", zap.Duration("elapsed", time.Since(start).Truncate(time.Millisecond)))
}

// setupMetrics picks the metrics backend: flag → env → default (none).
func setupMetrics(logger *zap.Logger, job, backendName, gwURL, statsdAddr string) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	if job == "" {
		job = "salespipe_job"
	}

	switch backendName {
	case "pushgateway":
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(job, gwURL)
		if err != nil {
			logger.Warn("pushgateway init failed; metrics disabled", zap.Error(err))
			return
		}
		logger.Info("metrics enabled", zap.String("backend", backendName), zap.String("url", gwURL), zap.String("job", job))
		metrics.SetBackend(b)

	case "datadog":
		if statsdAddr == "" {
			statsdAddr = os.Getenv("STATSD_ADDR")
		}
		if statsdAddr == "" {
			statsdAddr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: statsdAddr, Namespace: "salespipe", GlobalTags: []string{"job:" + job}})
		if err != nil {
			logger.Warn("datadog init failed; metrics disabled", zap.Error(err))
			return
		}
		logger.Info("metrics enabled", zap.String("backend", backendName), zap.String("addr", statsdAddr), zap.String("job", job))
		metrics.SetBackend(b)

	case "", "none":
		logger.Debug("metrics disabled", zap.String("backend", backendName))

	default:
		logger.Warn("unknown metrics backend; metrics disabled", zap.String("backend", backendName))
	}
}

func buildLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fatalf("init logger: %v", err)
	}
	return logger
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
