package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// Buffers are the business markups, in percent of base cost, stacked on top of
// the cost to arrive at a target settlement.
type Buffers struct {
	AdsPercent          float64 `json:"adsPercent" db:"ads_percent" validate:"gte=0,lte=1000"`
	DealDiscountPercent float64 `json:"dealDiscountPercent" db:"deal_discount_percent" validate:"gte=0,lte=1000"`
	ReviewPercent       float64 `json:"reviewPercent" db:"review_percent" validate:"gte=0,lte=1000"`
	ProfitMarginPercent float64 `json:"profitMarginPercent" db:"profit_margin_percent" validate:"gte=0,lte=1000"`
	ReturnPercent       float64 `json:"returnPercent" db:"return_percent" validate:"gte=0,lte=1000"`
}

// DefaultBuffers are applied until an administrator saves different values.
var DefaultBuffers = Buffers{
	AdsPercent:          5,
	DealDiscountPercent: 10,
	ReviewPercent:       2,
	ProfitMarginPercent: 15,
	ReturnPercent:       5,
}

func (b Buffers) Total() float64 {
	return b.AdsPercent + b.DealDiscountPercent + b.ReviewPercent + b.ProfitMarginPercent + b.ReturnPercent
}

// BufferAmounts is the per-buffer markup on a base cost, rounded to paise.
type BufferAmounts struct {
	Ads          float64 `json:"ads"`
	DealDiscount float64 `json:"dealDiscount"`
	Review       float64 `json:"review"`
	ProfitMargin float64 `json:"profitMargin"`
	Return       float64 `json:"return"`
}

func (b Buffers) Amounts(cost float64) BufferAmounts {
	return BufferAmounts{
		Ads:          Round2(cost * b.AdsPercent / 100),
		DealDiscount: Round2(cost * b.DealDiscountPercent / 100),
		Review:       Round2(cost * b.ReviewPercent / 100),
		ProfitMargin: Round2(cost * b.ProfitMarginPercent / 100),
		Return:       Round2(cost * b.ReturnPercent / 100),
	}
}

// TargetFromCost returns the settlement needed to recover cost plus buffers.
func TargetFromCost(cost float64, b Buffers, enabled bool) float64 {
	markup := 0.0
	if enabled {
		markup = cost * b.Total() / 100
	}
	return Round2(cost + markup)
}

// Profit is settlement minus base cost; ROI is profit as a percentage of cost.
func Profit(settlement, cost float64) (profit, roi float64) {
	profit = Round2(settlement - cost)
	if cost > 0 {
		roi = Round2(profit / cost * 100)
	}
	return profit, roi
}

// Round2 rounds half away from zero to two decimal places.
// Non-finite values are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// MaxAmount caps costs, targets and prices accepted from requests, flags and
// sheets.
const MaxAmount = 1e9
