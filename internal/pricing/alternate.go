package pricing

const (
	lowGSTRate  = 0.05
	highGSTRate = 0.12
	// gstBracketThreshold is the amount above which the higher GST rate applies.
	gstBracketThreshold = 1000
)

// Alternate decomposes a target settlement for the margin/trade-discount
// marketplace. The settlement is the purchase price inclusive of GST, so no
// search is involved and the output settlement equals the input.
//
// When marginPercent/100 >= 1/(1+saleGST) the gross selling price comes out
// non-finite or negative; the result is returned as is.
func Alternate(settlement, marginPercent, tradeDiscountPercent float64) Breakdown {
	purchaseGSTRate := lowGSTRate
	purchasePrice := settlement / (1 + purchaseGSTRate)
	if purchasePrice > gstBracketThreshold {
		purchaseGSTRate = highGSTRate
		purchasePrice = settlement / (1 + purchaseGSTRate)
	}
	purchaseGST := settlement - purchasePrice

	marginRate := marginPercent / 100
	saleGSTRate := lowGSTRate
	gross := purchasePrice / (1/(1+saleGSTRate) - marginRate)
	if gross > gstBracketThreshold {
		saleGSTRate = highGSTRate
		gross = purchasePrice / (1/(1+saleGSTRate) - marginRate)
	}

	saleGST := gross - gross/(1+saleGSTRate)
	netSales := gross - saleGST
	margin := gross * marginRate

	discountRate := tradeDiscountPercent / 100
	mrp := gross
	if discountRate < 1 {
		mrp = gross / (1 - discountRate)
	}

	return Breakdown{
		Marketplace:    AJIO,
		SellingPrice:   gross,
		CustomerPrice:  gross,
		CommissionRate: marginPercent,
		Commission:     margin,
		Settlement:     settlement,
		Alternate: &AlternateDetail{
			MRP:                  mrp,
			TradeDiscountPercent: tradeDiscountPercent,
			SaleDiscount:         mrp - gross,
			GrossSellingPrice:    gross,
			SaleGSTPercent:       saleGSTRate * 100,
			SaleGST:              saleGST,
			NetSalesValue:        netSales,
			MarginPercent:        marginPercent,
			Margin:               margin,
			PurchasePrice:        purchasePrice,
			PurchaseGSTPercent:   purchaseGSTRate * 100,
			PurchaseGST:          purchaseGST,
		},
	}
}
