package report

// Suite is the shipped battery of reports over the enriched sales table.
// Each entry is pure configuration; the engine needs no per-report code.
//
// Sections mirror the business question areas: generic shape of the data,
// product performance, sales patterns, and customer behavior.
var Suite = []Definition{
	// --- generic ---
	{
		Name: "distinct-cities", Section: "generic",
		Agg: AggCountDistinct, Of: "city", As: "cities",
	},
	{
		Name: "branch-cities", Section: "generic",
		GroupBy: []string{"branch", "city"},
		Agg:     AggCount, As: "transactions",
	},

	// --- product ---
	{
		Name: "distinct-product-lines", Section: "product",
		Agg: AggCountDistinct, Of: "product_line", As: "product_lines",
	},
	{
		Name: "top-payment-method", Section: "product",
		GroupBy: []string{"payment_method"},
		Agg:     AggCount, As: "payments",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "best-selling-product-line", Section: "product",
		GroupBy: []string{"product_line"},
		Agg:     AggSum, Of: "quantity",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "revenue-by-month", Section: "product",
		GroupBy: []string{"month"},
		Agg:     AggSum, Of: "total", As: "revenue",
		Sort: SortDesc,
	},
	{
		Name: "largest-cogs-month", Section: "product",
		GroupBy: []string{"month"},
		Agg:     AggSum, Of: "cogs",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "largest-revenue-product-line", Section: "product",
		GroupBy: []string{"product_line"},
		Agg:     AggSum, Of: "total", As: "revenue",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "largest-revenue-city", Section: "product",
		GroupBy: []string{"city"},
		Agg:     AggSum, Of: "total", As: "revenue",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "largest-vat-product-line", Section: "product",
		GroupBy: []string{"product_line"},
		Agg:     AggAvg, Of: "vat",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "product-line-good-bad", Section: "product",
		GroupBy: []string{"product_line"},
		Agg:     AggAvg, Of: "total",
		CompareGlobal: &Compare{Mode: CompareLabel},
	},
	{
		Name: "branches-above-average-quantity", Section: "product",
		GroupBy: []string{"branch"},
		Agg:     AggSum, Of: "quantity",
		CompareGlobal: &Compare{Mode: CompareAbove, Agg: AggAvg, Of: "quantity"},
	},
	{
		Name: "top-product-line-per-gender", Section: "product",
		GroupBy: []string{"gender", "product_line"},
		Agg:     AggCount, As: "transactions",
		Rank: true,
	},
	{
		Name: "avg-rating-per-product-line", Section: "product",
		GroupBy: []string{"product_line"},
		Agg:     AggAvgRound2, Of: "rating",
		Sort: SortDesc,
	},

	// --- sales ---
	{
		Name: "weekday-sales-per-time-of-day", Section: "sales",
		GroupBy: []string{"time_of_day"},
		Agg:     AggCount, As: "sales",
		Where: []Condition{{Dim: "day_name", In: []string{"Saturday", "Sunday"}, Not: true}},
		Sort:  SortDesc,
	},
	{
		Name: "top-revenue-customer-type", Section: "sales",
		GroupBy: []string{"customer_type"},
		Agg:     AggSum, Of: "total", As: "revenue",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "largest-vat-city", Section: "sales",
		GroupBy: []string{"city"},
		Agg:     AggAvg, Of: "vat",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "largest-vat-customer-type", Section: "sales",
		GroupBy: []string{"customer_type"},
		Agg:     AggAvg, Of: "vat",
		Sort: SortDesc, Limit: 1,
	},
	// --- customer ---
	{
		Name: "distinct-customer-types", Section: "customer",
		Agg: AggCountDistinct, Of: "customer_type", As: "customer_types",
	},
	{
		Name: "distinct-payment-methods", Section: "customer",
		Agg: AggCountDistinct, Of: "payment_method", As: "payment_methods",
	},
	{
		Name: "top-customer-type", Section: "customer",
		GroupBy: []string{"customer_type"},
		Agg:     AggCount, As: "customers",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "top-buying-customer-type", Section: "customer",
		GroupBy: []string{"customer_type"},
		Agg:     AggSum, Of: "quantity",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "gender-distribution", Section: "customer",
		GroupBy: []string{"gender"},
		Agg:     AggCount, As: "customers",
		Sort: SortDesc,
	},
	{
		Name: "gender-distribution-per-branch", Section: "customer",
		GroupBy: []string{"branch", "gender"},
		Agg:     AggCount, As: "customers",
	},
	{
		Name: "ratings-by-time-of-day", Section: "customer",
		GroupBy: []string{"time_of_day"},
		Agg:     AggAvgRound2, Of: "rating",
		Sort: SortDesc,
	},
	{
		Name: "best-rated-time-of-day-per-branch", Section: "customer",
		GroupBy: []string{"branch", "time_of_day"},
		Agg:     AggAvg, Of: "rating",
		Rank: true,
	},
	{
		Name: "best-rated-day", Section: "customer",
		GroupBy: []string{"day_name"},
		Agg:     AggAvgRound2, Of: "rating",
		Sort: SortDesc, Limit: 1,
	},
	{
		Name: "best-rated-day-per-branch", Section: "customer",
		GroupBy: []string{"branch", "day_name"},
		Agg:     AggAvg, Of: "rating",
		Rank: true,
	},
}
