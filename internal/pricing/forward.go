package pricing

import "github.com/Simplici0/payout/internal/ratecard"

// Calculator evaluates the standard slab-commission marketplace and inverts it.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	resolver *ratecard.Resolver
}

func NewCalculator(resolver *ratecard.Resolver) *Calculator {
	if resolver == nil {
		resolver = ratecard.NewResolver()
	}
	return &Calculator{resolver: resolver}
}

// Forward computes the settlement breakdown for selling price price under the
// standard slab model. The result is always labelled Myntra; use Evaluate to
// dispatch on the context's marketplace.
//
// The commission slab is chosen by customer price (price plus logistics fee)
// while the fixed-fee slab is chosen by price itself.
func (c *Calculator) Forward(price float64, ctx Context) Breakdown {
	overrides := ctx.overrides()

	logisticsFee := LogisticsFee(price, ctx.Level)
	customerPrice := price + logisticsFee

	commissionRate := c.resolver.Commission(customerPrice, ctx.ArticleType, ctx.Brand, overrides)
	commission := price * commissionRate / 100
	fixedFee := c.resolver.FixedFee(price, ctx.ArticleType, ctx.Brand, overrides)

	reverseFee := ReverseLogisticsFee(price, ctx.Level, ctx.Reverse)

	taxableValue := price / (1 + ProductGSTRate)
	tcs := taxableValue * TCSRate
	tds := taxableValue * TDSRate
	fixedFeeGST := fixedFee * GSTRate
	reverseFeeGST := reverseFee * GSTRate

	settlement := price - commission - fixedFee - fixedFeeGST - tcs - tds - reverseFee - reverseFeeGST

	b := Breakdown{
		Marketplace:    Myntra,
		SellingPrice:   price,
		CustomerPrice:  customerPrice,
		CommissionRate: commissionRate,
		Commission:     commission,
		FixedFee:       fixedFee,
		FixedFeeGST:    fixedFeeGST,
		LogisticsFee:   logisticsFee,
		ReverseFee:     reverseFee,
		ReverseFeeGST:  reverseFeeGST,
		GSTOnFees:      fixedFeeGST + reverseFeeGST,
		TaxableValue:   taxableValue,
		TCS:            tcs,
		TDS:            tds,
		Settlement:     settlement,
	}
	if ctx.Reverse.Enabled {
		b.ReverseMode = ctx.Reverse.Mode
		b.ReversePercent = ctx.Reverse.Percent
	}
	return b
}
