package pricing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/payout/internal/ratecard"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func myntraContext(level ratecard.Level) Context {
	return Context{
		Marketplace: Myntra,
		Brand:       ratecard.BrandOther,
		ArticleType: ratecard.ArticleTshirts,
		Level:       level,
	}
}

func TestLogisticsFee_SelfConsistentBand(t *testing.T) {
	tests := []struct {
		price float64
		level ratecard.Level
		want  float64
	}{
		{100, ratecard.Level2, 83},  // 183 lands in 0-299
		{216.5, ratecard.Level2, 83}, // 299.5 still within the 0-299 label
		{300, ratecard.Level2, 83},  // 383 lands in 300-499
		{500, ratecard.Level2, 118}, // 583 misses 300-499, 618 lands in 500-999
		{900, ratecard.Level2, 195}, // 1095 lands in 1000-1999
		{1900, ratecard.Level2, 230},
		{300, ratecard.Level5, 189},
		{100, ratecard.Level("Level 9"), 59},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, LogisticsFee(tt.price, tt.level), "price %v level %v", tt.price, tt.level)
	}
}

func TestForward_StandardBreakdown(t *testing.T) {
	calc := NewCalculator(nil)

	b := calc.Forward(500, myntraContext(ratecard.Level2))

	nearlyEqual(t, "logisticsFee", b.LogisticsFee, 118)
	nearlyEqual(t, "customerPrice", b.CustomerPrice, 618)
	nearlyEqual(t, "commissionRate", b.CommissionRate, 12)
	nearlyEqual(t, "commission", b.Commission, 60)
	nearlyEqual(t, "fixedFee", b.FixedFee, 27)
	nearlyEqual(t, "fixedFeeGst", b.FixedFeeGST, 4.86)
	nearlyEqual(t, "tcs", b.TCS, 500/1.05*0.005)
	nearlyEqual(t, "tds", b.TDS, 500/1.05*0.001)
	nearlyEqual(t, "reverseFee", b.ReverseFee, 0)
	nearlyEqual(t, "settlement", b.Settlement, 405.2828571428571)
	assert.Equal(t, Myntra, b.Marketplace)
}

func TestForward_CommissionKeyedOnCustomerPriceFixedFeeOnPrice(t *testing.T) {
	calc := NewCalculator(nil)

	// 900 + 195 = 1095 puts the customer price in the 16% slab while the
	// selling price itself is still in the 27 fixed-fee slab.
	b := calc.Forward(900, myntraContext(ratecard.Level2))

	nearlyEqual(t, "commissionRate", b.CommissionRate, 16)
	nearlyEqual(t, "fixedFee", b.FixedFee, 27)
}

func TestForward_SettlementIdentity(t *testing.T) {
	calc := NewCalculator(nil)
	overrides := &ratecard.OverrideTable{Enabled: true, Rules: []ratecard.OverrideRule{
		{Brand: ratecard.Wildcard, ArticleType: ratecard.Wildcard, Lower: 700, Upper: 900, Kind: ratecard.KindCommission, Rate: floatPtr(5.9)},
	}}

	contexts := []Context{
		myntraContext(ratecard.Level1),
		{Marketplace: Myntra, Brand: ratecard.BrandCBColebrook, ArticleType: ratecard.ArticleTrousers, Level: ratecard.Level3,
			Reverse: ReverseLogistics{Enabled: true, Mode: ReverseFixed, Region: ratecard.RegionNational}},
		{Marketplace: Myntra, Brand: ratecard.BrandIndoprimo, ArticleType: ratecard.ArticleDresses, Level: ratecard.Level4,
			Reverse: ReverseLogistics{Enabled: true, Mode: ReversePercentage, Percent: 10}, Overrides: overrides},
		{Marketplace: Myntra, Brand: ratecard.BrandDeelmo, ArticleType: ratecard.ArticleFreeGifts, Level: ratecard.Level5},
	}

	for _, ctx := range contexts {
		for price := 0.0; price <= 5000; price += 37.37 {
			b := calc.Forward(price, ctx)
			want := b.SellingPrice - b.Commission - b.FixedFee - b.FixedFeeGST - b.TCS - b.TDS - b.ReverseFee - b.ReverseFeeGST
			require.Equalf(t, want, b.Settlement, "price %v ctx %+v", price, ctx)
			require.Equal(t, b.FixedFeeGST+b.ReverseFeeGST, b.GSTOnFees)
		}
	}
}

func TestForward_ReverseLogistics(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := myntraContext(ratecard.Level2)
	ctx.Reverse = ReverseLogistics{Enabled: true, Mode: ReverseFixed, Region: ratecard.RegionLocal}

	for _, price := range []float64{100, 750, 4000} {
		b := calc.Forward(price, ctx)
		nearlyEqual(t, "reverseFee", b.ReverseFee, 112)
		nearlyEqual(t, "reverseFeeGst", b.ReverseFeeGST, 112*GSTRate)
	}

	ctx.Reverse = ReverseLogistics{Enabled: true, Mode: ReversePercentage, Percent: 10}
	b := calc.Forward(800, ctx)
	nearlyEqual(t, "reverseFee", b.ReverseFee, 80)
	assert.Equal(t, ReversePercentage, b.ReverseMode)
}

func TestForward_OverridesOnlyForMyntra(t *testing.T) {
	calc := NewCalculator(nil)
	overrides := &ratecard.OverrideTable{Enabled: true, Rules: []ratecard.OverrideRule{
		{Brand: ratecard.Wildcard, ArticleType: ratecard.Wildcard, Lower: 0, Upper: 1e6, Kind: ratecard.KindCommission, Rate: floatPtr(1)},
	}}

	ctx := myntraContext(ratecard.Level2)
	ctx.Overrides = overrides
	nearlyEqual(t, "myntra rate", calc.Forward(500, ctx).CommissionRate, 1)

	ctx.Marketplace = Amazon
	nearlyEqual(t, "amazon rate", calc.Forward(500, ctx).CommissionRate, 12)
}

func TestSolve_ReachesTargetWithinOnePaisa(t *testing.T) {
	calc := NewCalculator(nil)

	for _, level := range ratecard.Levels {
		for _, target := range []float64{150, 250, 397.83, 600, 900, 1500, 3000} {
			ctx := myntraContext(level)
			price := calc.Solve(target, ctx)
			got := calc.Forward(price, ctx).Settlement
			assert.InDeltaf(t, target, got, 0.01, "target %v level %v price %v", target, level, price)
		}
	}
}

func TestSolve_FindsFirstCrossingAfterDownwardJump(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := myntraContext(ratecard.Level2)

	// Around 417 the customer price crosses 500 and the commission rate jumps
	// from 1.5% to 12%, pushing the solution well above the jump.
	price := calc.Solve(397.83, ctx)
	assert.InDelta(t, 491.4755, price, 0.001)
}

func TestSolve_FallsBackToFullRangeWhenUnreachable(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := myntraContext(ratecard.Level2)
	ctx.Reverse = ReverseLogistics{Enabled: true, Mode: ReversePercentage, Percent: 100}

	price := calc.Solve(500, ctx)
	assert.InDelta(t, 2000, price, 1e-6)
}

func TestSolve_HugeTargetsTerminate(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := myntraContext(ratecard.Level2)

	done := make(chan float64, 1)
	go func() { done <- calc.Solve(1e17, ctx) }()

	select {
	case price := <-done:
		assert.GreaterOrEqual(t, price, 1e17)
	case <-time.After(5 * time.Second):
		t.Fatal("Solve(1e17) did not return")
	}
}

func TestSolve_BeyondScanRangeStillConverges(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := myntraContext(ratecard.Level3)

	// 2e6 needs more scan steps than allowed, so only bisection runs.
	price := calc.Solve(2e6, ctx)
	assert.InDelta(t, 2e6, calc.Forward(price, ctx).Settlement, 0.01)
}

func TestAlternate_MarginAndTradeDiscount(t *testing.T) {
	b := Alternate(1000, 34, 65)
	require.NotNil(t, b.Alternate)
	d := b.Alternate

	purchase := 1000 / 1.05
	nearlyEqual(t, "purchasePrice", d.PurchasePrice, purchase)
	nearlyEqual(t, "purchaseGstPercent", d.PurchaseGSTPercent, 5)
	nearlyEqual(t, "purchaseGst", d.PurchaseGST, 1000-purchase)

	// 5% sale GST gives ~1555 which is above the bracket, so 12% is used.
	gross := purchase / (1/1.12 - 0.34)
	nearlyEqual(t, "gross", d.GrossSellingPrice, gross)
	nearlyEqual(t, "saleGstPercent", d.SaleGSTPercent, 12)
	nearlyEqual(t, "saleGst", d.SaleGST, gross-gross/1.12)
	nearlyEqual(t, "netSales", d.NetSalesValue, gross/1.12)
	nearlyEqual(t, "margin", d.Margin, gross*0.34)
	nearlyEqual(t, "mrp", d.MRP, gross/0.35)
	nearlyEqual(t, "saleDiscount", d.SaleDiscount, gross/0.35-gross)

	nearlyEqual(t, "settlement", b.Settlement, 1000)
	nearlyEqual(t, "sellingPrice", b.SellingPrice, gross)
	assert.Equal(t, AJIO, b.Marketplace)
}

func TestAlternate_BracketsAndEdges(t *testing.T) {
	low := Alternate(300, 34, 65)
	nearlyEqual(t, "low purchase gst", low.Alternate.PurchaseGSTPercent, 5)
	nearlyEqual(t, "low sale gst", low.Alternate.SaleGSTPercent, 5)

	high := Alternate(1200, 34, 65)
	nearlyEqual(t, "high purchase gst", high.Alternate.PurchaseGSTPercent, 12)
	nearlyEqual(t, "high purchase", high.Alternate.PurchasePrice, 1200/1.12)

	noDiscount := Alternate(500, 34, 100)
	nearlyEqual(t, "mrp equals gross", noDiscount.Alternate.MRP, noDiscount.Alternate.GrossSellingPrice)

	// A margin larger than the net-of-GST share is not clamped.
	broken := Alternate(500, 96, 65)
	assert.Less(t, broken.Alternate.GrossSellingPrice, 0.0)
}

func TestQuote_DispatchesByMarketplace(t *testing.T) {
	calc := NewCalculator(nil)

	myntra, err := calc.Quote(600, myntraContext(ratecard.Level2))
	require.NoError(t, err)
	assert.InDelta(t, 600, myntra.Settlement, 0.01)
	assert.InDelta(t, 722.7157, myntra.SellingPrice, 0.001)

	ajio, err := calc.Quote(1000, Context{Marketplace: AJIO, AJIOMarginPercent: 34, AJIOTradeDiscountPercent: 65})
	require.NoError(t, err)
	assert.Equal(t, Alternate(1000, 34, 65), ajio)

	_, err = calc.Quote(600, Context{Marketplace: Amazon})
	assert.ErrorIs(t, err, ErrUnsupportedMarketplace)
}

func TestEvaluate_DispatchesByMarketplace(t *testing.T) {
	calc := NewCalculator(nil)

	ctx := myntraContext(ratecard.Level2)
	ctx.Marketplace = ""
	b, err := calc.Evaluate(500, ctx)
	require.NoError(t, err)
	assert.Equal(t, Myntra, b.Marketplace)
	nearlyEqual(t, "settlement", b.Settlement, 405.2828571428571)

	ajioCtx := Context{Marketplace: AJIO, AJIOMarginPercent: 34, AJIOTradeDiscountPercent: 65}
	b, err = calc.Evaluate(1000, ajioCtx)
	require.NoError(t, err)
	assert.Equal(t, Alternate(1000, 34, 65), b)

	_, err = calc.Evaluate(500, Context{Marketplace: Amazon})
	assert.ErrorIs(t, err, ErrUnsupportedMarketplace)
}

func TestForward_AlwaysLabelledMyntra(t *testing.T) {
	calc := NewCalculator(nil)
	ctx := myntraContext(ratecard.Level2)
	ctx.Marketplace = AJIO

	b := calc.Forward(1000, ctx)
	assert.Equal(t, Myntra, b.Marketplace)
	assert.Nil(t, b.Alternate)
}

func TestBreakdown_Finite(t *testing.T) {
	calc := NewCalculator(nil)
	assert.True(t, calc.Forward(500, myntraContext(ratecard.Level2)).Finite())
	assert.True(t, Alternate(1000, 34, 65).Finite())

	assert.False(t, Breakdown{Settlement: math.Inf(1)}.Finite())
	assert.False(t, Breakdown{Alternate: &AlternateDetail{MRP: math.NaN()}}.Finite())
}

func TestBuffers_TargetProfitAndRounding(t *testing.T) {
	nearlyEqual(t, "total", DefaultBuffers.Total(), 37)
	nearlyEqual(t, "target", TargetFromCost(350, DefaultBuffers, true), 479.5)
	nearlyEqual(t, "target disabled", TargetFromCost(350, DefaultBuffers, false), 350)

	amounts := DefaultBuffers.Amounts(333)
	nearlyEqual(t, "ads", amounts.Ads, 16.65)
	nearlyEqual(t, "deal", amounts.DealDiscount, 33.3)
	nearlyEqual(t, "review", amounts.Review, 6.66)
	nearlyEqual(t, "profit", amounts.ProfitMargin, 49.95)
	nearlyEqual(t, "return", amounts.Return, 16.65)

	profit, roi := Profit(479.5, 350)
	nearlyEqual(t, "profit", profit, 129.5)
	nearlyEqual(t, "roi", roi, 37)

	_, roi = Profit(10, 0)
	nearlyEqual(t, "roi without cost", roi, 0)

	nearlyEqual(t, "round half up", Round2(1.005), 1.01)
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
}

func floatPtr(v float64) *float64 { return &v }
