package report

import (
	"context"
	"testing"
)

func TestRunAll_KeepsReportOrder(t *testing.T) {
	t.Parallel()

	reports, err := CompileSuite([]Definition{
		{Name: "first", GroupBy: []string{"city"}, Agg: AggCount},
		{Name: "second", GroupBy: []string{"branch"}, Agg: AggCount},
		{Name: "third", Agg: AggCountDistinct, Of: "gender"},
	})
	if err != nil {
		t.Fatalf("CompileSuite: %v", err)
	}

	in := recs(
		tx{city: "Yangon", branch: "A", gender: "Female"},
		tx{city: "Mandalay", branch: "B", gender: "Male"},
	)

	tables, err := RunAll(context.Background(), "test", reports, in, 2)
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(tables) != 3 {
		t.Fatalf("got %d tables, want 3", len(tables))
	}
	for i, want := range []string{"first", "second", "third"} {
		if tables[i].Name != want {
			t.Errorf("tables[%d].Name = %q, want %q", i, tables[i].Name, want)
		}
	}
}

func TestRunAll_DefaultWorkerCount(t *testing.T) {
	t.Parallel()

	reports, err := CompileSuite(Suite)
	if err != nil {
		t.Fatalf("CompileSuite: %v", err)
	}

	// workers <= 0 falls back to a sane pool size rather than deadlocking.
	tables, err := RunAll(context.Background(), "test", reports, nil, 0)
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(tables) != len(reports) {
		t.Fatalf("got %d tables, want %d", len(tables), len(reports))
	}
}

func TestRunAll_CanceledContext(t *testing.T) {
	t.Parallel()

	reports, err := CompileSuite([]Definition{{Name: "r", Agg: AggCount}})
	if err != nil {
		t.Fatalf("CompileSuite: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RunAll(ctx, "test", reports, nil, 1); err == nil {
		t.Fatal("RunAll succeeded on canceled context")
	}
}
