package pricing

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMarketplace is returned for marketplaces without a pricing model.
var ErrUnsupportedMarketplace = errors.New("pricing: unsupported marketplace")

// Quote returns the breakdown that achieves target settlement on the context's
// marketplace.
func (c *Calculator) Quote(target float64, ctx Context) (Breakdown, error) {
	switch ctx.Marketplace {
	case AJIO:
		return Alternate(target, ctx.AJIOMarginPercent, ctx.AJIOTradeDiscountPercent), nil
	case Myntra, "":
		ctx.Marketplace = Myntra
		price := c.Solve(target, ctx)
		return c.Forward(price, ctx), nil
	default:
		return Breakdown{}, fmt.Errorf("%w: %s", ErrUnsupportedMarketplace, ctx.Marketplace)
	}
}

// Evaluate returns the breakdown for amount on the context's marketplace. For
// Myntra amount is the selling price; for AJIO it is the settlement, since
// the margin model is expressed directly in terms of it.
func (c *Calculator) Evaluate(amount float64, ctx Context) (Breakdown, error) {
	switch ctx.Marketplace {
	case AJIO:
		return Alternate(amount, ctx.AJIOMarginPercent, ctx.AJIOTradeDiscountPercent), nil
	case Myntra, "":
		return c.Forward(amount, ctx), nil
	default:
		return Breakdown{}, fmt.Errorf("%w: %s", ErrUnsupportedMarketplace, ctx.Marketplace)
	}
}
