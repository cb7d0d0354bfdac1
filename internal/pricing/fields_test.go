package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/payout/internal/ratecard"
)

func TestFieldsContext_Defaults(t *testing.T) {
	overrides := &ratecard.OverrideTable{Enabled: true}

	ctx, err := Fields{}.Context(overrides)
	require.NoError(t, err)

	assert.Equal(t, Myntra, ctx.Marketplace)
	assert.Equal(t, ratecard.BrandBellstone, ctx.Brand)
	assert.Equal(t, ratecard.ArticleTshirts, ctx.ArticleType)
	assert.Equal(t, ratecard.Level2, ctx.Level)
	assert.False(t, ctx.Reverse.Enabled)
	assert.Same(t, overrides, ctx.Overrides)
	assert.Equal(t, DefaultAJIOMarginPercent, ctx.AJIOMarginPercent)
	assert.Equal(t, DefaultAJIOTradeDiscountPercent, ctx.AJIOTradeDiscountPercent)
}

func TestFieldsContext_ParsesEverything(t *testing.T) {
	margin, discount := 30.0, 0.0
	ctx, err := Fields{
		Marketplace:  "ajio",
		Brand:        "deelmo",
		ArticleType:  "kurtas",
		Reverse:      true,
		ReverseMode:  "percentage",
		Region:       "national",
		Percent:      12,
		AJIOMargin:   &margin,
		AJIODiscount: &discount,
	}.Context(nil)
	require.NoError(t, err)

	assert.Equal(t, AJIO, ctx.Marketplace)
	assert.Equal(t, ratecard.BrandDeelmo, ctx.Brand)
	assert.Equal(t, ratecard.Level1, ctx.Level, "kurtas default to level 1")
	assert.Equal(t, ReverseLogistics{Enabled: true, Mode: ReversePercentage, Region: ratecard.RegionNational, Percent: 12}, ctx.Reverse)
	assert.Equal(t, 30.0, ctx.AJIOMarginPercent)
	assert.Equal(t, 0.0, ctx.AJIOTradeDiscountPercent, "explicit zero discount is kept")
}

func TestFieldsContext_Errors(t *testing.T) {
	for _, f := range []Fields{
		{Marketplace: "flipkart"},
		{Brand: "Acme"},
		{ArticleType: "Capes"},
		{Level: "Level 9"},
		{Reverse: true, ReverseMode: "sometimes"},
		{Reverse: true, Region: "Mars"},
		{Reverse: true, ReverseMode: "percentage", Percent: 120},
	} {
		_, err := f.Context(nil)
		assert.Errorf(t, err, "fields %+v", f)
	}
}
