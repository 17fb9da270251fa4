package report

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"salespipe/internal/metrics"
	"salespipe/internal/sales"
)

// RunAll evaluates every compiled report over the enriched record set.
// Reports are independent and read-only, so they fan out across workers;
// the result slice keeps the input order regardless of completion order.
//
// The record set must be fully enriched before this is called: RunAll is
// the read side of the enrichment barrier and never mutates records.
func RunAll(ctx context.Context, job string, reports []*Report, recs []*sales.Record, workers int) ([]Table, error) {
	if workers <= 0 {
		workers = 4
	}

	tables := make([]Table, len(reports))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, r := range reports {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			tables[i] = r.Evaluate(recs)
			metrics.RecordStep(job, "report:"+r.def.Name, nil, time.Since(start))
			metrics.RecordRows(job, "result_rows", int64(len(tables[i].Rows)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}
