package ratecard

// Commission slabs are percentages inclusive of 18% GST.

var standardCommission = Schedule{
	{Lower: 0, Upper: 300, Value: 0},
	{Lower: 300, Upper: 500, Value: 1.5},
	{Lower: 500, Upper: 1000, Value: 12},
	{Lower: 1000, Upper: 2000, Value: 16},
	{Lower: 2000, Upper: Unbounded, Value: 20},
}

var shirtCommission = Schedule{
	{Lower: 0, Upper: 600, Value: 0},
	{Lower: 600, Upper: 800, Value: 2},
	{Lower: 800, Upper: Unbounded, Value: 15},
}

var kurtaCommission = Schedule{
	{Lower: 0, Upper: 600, Value: 0},
	{Lower: 600, Upper: 750, Value: 2},
	{Lower: 750, Upper: Unbounded, Value: 15},
}

// BuiltinCommission returns the built-in commission table. Each call returns a
// fresh copy so callers cannot mutate process-wide configuration.
func BuiltinCommission() Table {
	return Table{
		DefaultBrand: {
			Wildcard: clone(standardCommission),
		},
		string(BrandCBColebrook): {
			Wildcard: clone(standardCommission),
			string(ArticleTrousers): {
				{Lower: 0, Upper: 600, Value: 0},
				{Lower: 600, Upper: 800, Value: 6},
				{Lower: 800, Upper: Unbounded, Value: 15},
			},
			string(ArticleShirts): clone(shirtCommission),
		},
		string(BrandIndoprimo): {
			Wildcard: clone(standardCommission),
			string(ArticleDresses): {
				{Lower: 0, Upper: 800, Value: 4},
				{Lower: 800, Upper: 1000, Value: 18},
				{Lower: 1000, Upper: 2000, Value: 16},
				{Lower: 2000, Upper: Unbounded, Value: 17},
			},
			string(ArticleShirts): clone(shirtCommission),
		},
		string(BrandDeelmo): {
			Wildcard:              clone(standardCommission),
			string(ArticleKurtas): clone(kurtaCommission),
			string(ArticleShirts): clone(shirtCommission),
		},
		string(BrandBellstone): {
			Wildcard:              clone(standardCommission),
			string(ArticleKurtas): clone(kurtaCommission),
			string(ArticleShirts): clone(shirtCommission),
		},
	}
}

// Fixed fees are base amounts exclusive of GST.

var standardFixedFee = Schedule{
	{Lower: 0, Upper: 1000, Value: 27},
	{Lower: 1000, Upper: 2000, Value: 45},
	{Lower: 2000, Upper: Unbounded, Value: 61},
}

var shirtFixedFee = Schedule{
	{Lower: 0, Upper: 300, Value: 4},
	{Lower: 300, Upper: 400, Value: 5},
	{Lower: 400, Upper: 500, Value: 6},
	{Lower: 500, Upper: 600, Value: 7},
	{Lower: 600, Upper: 1000, Value: 27},
	{Lower: 1000, Upper: 2000, Value: 45},
	{Lower: 2000, Upper: Unbounded, Value: 61},
}

var kurtaFixedFee = Schedule{
	{Lower: 0, Upper: 400, Value: 0},
	{Lower: 400, Upper: 500, Value: 4},
	{Lower: 500, Upper: 600, Value: 9},
	{Lower: 600, Upper: 1000, Value: 27},
	{Lower: 1000, Upper: 2000, Value: 45},
	{Lower: 2000, Upper: Unbounded, Value: 61},
}

// BuiltinFixedFee returns the built-in fixed-fee table. Brands only list the
// articles they negotiated; everything else falls through to default/ALL.
func BuiltinFixedFee() Table {
	return Table{
		DefaultBrand: {
			Wildcard: clone(standardFixedFee),
		},
		string(BrandCBColebrook): {
			string(ArticleTrousers): {
				{Lower: 0, Upper: 500, Value: 0},
				{Lower: 500, Upper: 600, Value: 3},
				{Lower: 600, Upper: 1000, Value: 27},
				{Lower: 1000, Upper: 2000, Value: 45},
				{Lower: 2000, Upper: Unbounded, Value: 61},
			},
			string(ArticleShirts): clone(shirtFixedFee),
		},
		string(BrandIndoprimo): {
			string(ArticleShirts): clone(shirtFixedFee),
			string(ArticleDresses): {
				{Lower: 0, Upper: 400, Value: 0},
				{Lower: 400, Upper: 500, Value: 0},
				{Lower: 500, Upper: 600, Value: 3},
				{Lower: 600, Upper: 1000, Value: 27},
				{Lower: 1000, Upper: 2000, Value: 45},
				{Lower: 2000, Upper: Unbounded, Value: 61},
			},
		},
		string(BrandDeelmo): {
			string(ArticleKurtas): clone(kurtaFixedFee),
			string(ArticleShirts): clone(shirtFixedFee),
		},
		string(BrandBellstone): {
			string(ArticleKurtas): clone(kurtaFixedFee),
			string(ArticleShirts): clone(shirtFixedFee),
		},
	}
}

// BuiltinFreeItemCommission is the brand-independent commission table for the
// free-items category. Its intervals are closed.
func BuiltinFreeItemCommission() Schedule {
	return Schedule{
		{Lower: 0, Upper: 499, Value: 9},
		{Lower: 500, Upper: Unbounded, Value: 18},
	}
}

func clone(s Schedule) Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}
