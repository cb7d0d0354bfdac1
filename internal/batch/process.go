package batch

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/ratecard"
)

// Options configures a batch run.
type Options struct {
	Marketplace    pricing.Marketplace
	Buffers        pricing.Buffers
	BuffersEnabled bool
	// Overrides is the rate-card snapshot in effect for the whole run.
	Overrides *ratecard.OverrideTable
	// Workers caps concurrent row pricing; zero means GOMAXPROCS.
	Workers int
}

// Result is a priced row.
type Result struct {
	Row
	Target    float64               `json:"target"`
	Markup    float64               `json:"markup"`
	Amounts   pricing.BufferAmounts `json:"bufferAmounts"`
	Level     ratecard.Level        `json:"level,omitempty"`
	Breakdown pricing.Breakdown     `json:"breakdown"`
	Profit    float64               `json:"profit"`
	ROI       float64               `json:"roi"`
}

// Process prices every row toward its cost-plus-buffers settlement target.
// Results keep the input order. Marketplaces without a pricing model yield no
// results.
func Process(ctx context.Context, calc *pricing.Calculator, rows []Row, opts Options) ([]Result, error) {
	marketplace := opts.Marketplace
	if marketplace == "" {
		marketplace = pricing.Myntra
	}
	if marketplace != pricing.Myntra && marketplace != pricing.AJIO {
		return nil, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(rows))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, row := range rows {
		i, row := i, row
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = priceRow(calc, row, marketplace, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func priceRow(calc *pricing.Calculator, row Row, marketplace pricing.Marketplace, opts Options) Result {
	res := Result{
		Row:     row,
		Target:  pricing.TargetFromCost(row.Cost, opts.Buffers, opts.BuffersEnabled),
		Amounts: opts.Buffers.Amounts(row.Cost),
	}
	if opts.BuffersEnabled {
		res.Markup = row.Cost * opts.Buffers.Total() / 100
	}

	switch marketplace {
	case pricing.AJIO:
		res.Breakdown = pricing.Alternate(res.Target, pricing.DefaultAJIOMarginPercent, pricing.DefaultAJIOTradeDiscountPercent)
	default:
		res.Level = ratecard.Level2
		if spec, ok := ratecard.SpecFor(row.ArticleType); ok {
			res.Level = spec.DefaultLevel
		}
		pctx := pricing.Context{
			Marketplace: marketplace,
			Brand:       row.Brand,
			ArticleType: row.ArticleType,
			Level:       res.Level,
			Overrides:   opts.Overrides,
		}
		res.Breakdown = calc.Forward(calc.Solve(res.Target, pctx), pctx)
	}

	res.Profit, res.ROI = pricing.Profit(res.Breakdown.Settlement, row.Cost)
	return res
}
