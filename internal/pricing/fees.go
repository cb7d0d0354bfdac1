package pricing

import (
	"math"

	"github.com/Simplici0/payout/internal/ratecard"
)

const (
	// GSTRate applies to platform fees (fixed fee, reverse logistics).
	GSTRate = 0.18
	// ProductGSTRate is used to back out the taxable value of a sale.
	ProductGSTRate = 0.05
	TCSRate        = 0.005
	TDSRate        = 0.001
)

type priceBand struct {
	min, max float64
}

// customerPriceBands are the customer-price ranges that determine the platform
// logistics fee. Bounds are whole-rupee labels: 0-299, 300-499, ...
var customerPriceBands = []priceBand{
	{0, 299},
	{300, 499},
	{500, 999},
	{1000, 1999},
	{2000, math.Inf(1)},
}

// platformLogisticsFees holds, per level, the fee charged when the customer
// price lands in the band with the same index.
var platformLogisticsFees = map[ratecard.Level][5]float64{
	ratecard.Level1: {59, 59, 94, 171, 207},
	ratecard.Level2: {83, 83, 118, 195, 230},
	ratecard.Level3: {100, 106, 148, 230, 266},
	ratecard.Level4: {100, 153, 189, 277, 313},
	ratecard.Level5: {100, 189, 283, 395, 431},
}

var reverseLogisticsFees = map[ratecard.Level]map[ratecard.Region]float64{
	ratecard.Level1: {ratecard.RegionLocal: 91, ratecard.RegionZone: 112, ratecard.RegionNational: 167},
	ratecard.Level2: {ratecard.RegionLocal: 112, ratecard.RegionZone: 153, ratecard.RegionNational: 218},
	ratecard.Level3: {ratecard.RegionLocal: 142, ratecard.RegionZone: 194, ratecard.RegionNational: 259},
	ratecard.Level4: {ratecard.RegionLocal: 214, ratecard.RegionZone: 276, ratecard.RegionNational: 331},
	ratecard.Level5: {ratecard.RegionLocal: 460, ratecard.RegionZone: 542, ratecard.RegionNational: 649},
}

// LogisticsFee finds the first band whose own fee, added to price, lands the
// customer price inside that band. With no self-consistent band the first
// band's fee is used.
func LogisticsFee(price float64, level ratecard.Level) float64 {
	fees, ok := platformLogisticsFees[level]
	if !ok {
		fees = platformLogisticsFees[ratecard.Level1]
	}
	for i, band := range customerPriceBands {
		customerPrice := price + fees[i]
		// Bands are labelled in whole rupees; the tolerances close the gaps
		// between 299 and 300 etc. for fractional prices.
		if customerPrice >= band.min-0.0001 && customerPrice < band.max+0.9999 {
			return fees[i]
		}
	}
	return fees[0]
}

// ReverseLogisticsFee returns the return-shipment charge for price under r.
func ReverseLogisticsFee(price float64, level ratecard.Level, r ReverseLogistics) float64 {
	if !r.Enabled {
		return 0
	}
	if r.Mode == ReversePercentage {
		return price * r.Percent / 100
	}
	return reverseLogisticsFees[level][r.Region]
}
