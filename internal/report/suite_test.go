package report

import "testing"

func TestSuite_Compiles(t *testing.T) {
	t.Parallel()

	reports, err := CompileSuite(Suite)
	if err != nil {
		t.Fatalf("CompileSuite(Suite): %v", err)
	}
	if len(reports) != len(Suite) {
		t.Fatalf("compiled %d reports, want %d", len(reports), len(Suite))
	}
}

func TestSuite_SectionCounts(t *testing.T) {
	t.Parallel()

	if len(Suite) != 28 {
		t.Fatalf("Suite has %d reports, want 28", len(Suite))
	}

	counts := map[string]int{}
	for _, d := range Suite {
		counts[d.Section]++
	}
	want := map[string]int{"generic": 2, "product": 12, "sales": 4, "customer": 10}
	for section, n := range want {
		if counts[section] != n {
			t.Errorf("section %q has %d reports, want %d", section, counts[section], n)
		}
	}
	if len(counts) != len(want) {
		t.Errorf("sections = %v, want exactly %v", counts, want)
	}
}

func TestSuite_CoreReportsPresent(t *testing.T) {
	t.Parallel()

	byName := map[string]Definition{}
	for _, d := range Suite {
		byName[d.Name] = d
	}

	for _, name := range []string{
		"distinct-cities",
		"branch-cities",
		"best-selling-product-line",
		"revenue-by-month",
		"product-line-good-bad",
		"branches-above-average-quantity",
		"top-product-line-per-gender",
		"weekday-sales-per-time-of-day",
		"gender-distribution-per-branch",
		"best-rated-day-per-branch",
	} {
		if _, ok := byName[name]; !ok {
			t.Errorf("report %q missing from suite", name)
		}
	}

	// The weekday report must really exclude weekends.
	wd := byName["weekday-sales-per-time-of-day"]
	if len(wd.Where) != 1 || !wd.Where[0].Not {
		t.Errorf("weekday-sales-per-time-of-day filter = %+v, want negated weekend set", wd.Where)
	}

	// Ranked reports carry partition + ranked key.
	for _, name := range []string{
		"top-product-line-per-gender",
		"best-rated-time-of-day-per-branch",
		"best-rated-day-per-branch",
	} {
		if d := byName[name]; !d.Rank || len(d.GroupBy) != 2 {
			t.Errorf("%s: Rank=%v GroupBy=%v, want ranked with 2 keys", name, d.Rank, d.GroupBy)
		}
	}
}
