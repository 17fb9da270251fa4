package storage

import (
	"context"
	"fmt"
)

// The two sink tables share a portable DDL dialect: VARCHAR with explicit
// lengths for keys (MySQL cannot index bare TEXT), DOUBLE PRECISION for
// measures, INTEGER for counts. SQLite accepts all of these as-is.

// salesDDL creates the enriched records table. Money columns are stored as
// text to preserve the decimal representation carried through the loader.
func salesDDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	invoice_id       VARCHAR(32) PRIMARY KEY,
	branch           VARCHAR(16) NOT NULL,
	city             VARCHAR(64) NOT NULL,
	customer_type    VARCHAR(16) NOT NULL,
	gender           VARCHAR(16) NOT NULL,
	product_line     VARCHAR(64) NOT NULL,
	unit_price       VARCHAR(32) NOT NULL,
	quantity         INTEGER NOT NULL,
	vat              VARCHAR(32) NOT NULL,
	total            VARCHAR(32) NOT NULL,
	date             VARCHAR(10) NOT NULL,
	time             VARCHAR(8) NOT NULL,
	payment_method   VARCHAR(32) NOT NULL,
	cogs             VARCHAR(32) NOT NULL,
	gross_margin_pct DOUBLE PRECISION NOT NULL,
	gross_income     VARCHAR(32) NOT NULL,
	rating           DOUBLE PRECISION NOT NULL,
	time_of_day      VARCHAR(9) NOT NULL,
	day_name         VARCHAR(9) NOT NULL,
	month            VARCHAR(9) NOT NULL
)`, table)
}

// ResultColumns is the flattened report-row column order used by CopyFrom
// into the results table.
var ResultColumns = []string{
	"run_id", "job", "report", "section", "position",
	"key1", "key2", "value", "label", "row_rank",
}

// resultsDDL creates the report results table. key2, label and row_rank are
// empty/zero for reports that do not produce them. The rank column is named
// row_rank because RANK is reserved in MySQL 8.
func resultsDDL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	run_id   VARCHAR(36) NOT NULL,
	job      VARCHAR(64) NOT NULL,
	report   VARCHAR(64) NOT NULL,
	section  VARCHAR(16) NOT NULL,
	position INTEGER NOT NULL,
	key1     VARCHAR(64) NOT NULL,
	key2     VARCHAR(64) NOT NULL,
	value    DOUBLE PRECISION NOT NULL,
	label    VARCHAR(16) NOT NULL,
	row_rank INTEGER NOT NULL
)`, table)
}

// EnsureTables creates the configured sink tables when AutoCreate is set.
func EnsureTables(ctx context.Context, repo Repository, cfg Config) error {
	if !cfg.AutoCreate {
		return nil
	}
	if err := repo.Exec(ctx, salesDDL(cfg.Table)); err != nil {
		return fmt.Errorf("create %s: %w", cfg.Table, err)
	}
	if err := repo.Exec(ctx, resultsDDL(cfg.ResultsTable)); err != nil {
		return fmt.Errorf("create %s: %w", cfg.ResultsTable, err)
	}
	return nil
}
