package pricing

import "math"

// Breakdown is the full financial decomposition of one price point.
type Breakdown struct {
	Marketplace    Marketplace `json:"marketplace"`
	SellingPrice   float64     `json:"sellingPrice"`
	CustomerPrice  float64     `json:"customerPrice"`
	CommissionRate float64     `json:"commissionRate"`
	Commission     float64     `json:"commission"`
	FixedFee       float64     `json:"fixedFee"`
	FixedFeeGST    float64     `json:"fixedFeeGst"`
	LogisticsFee   float64     `json:"logisticsFee"`
	ReverseFee     float64     `json:"reverseLogisticsFee"`
	ReverseFeeGST  float64     `json:"reverseLogisticsFeeGst"`
	ReverseMode    ReverseMode `json:"reverseMode,omitempty"`
	ReversePercent float64     `json:"reversePercent,omitempty"`
	GSTOnFees      float64     `json:"gstOnFees"`
	TaxableValue   float64     `json:"taxableValue"`
	TCS            float64     `json:"tcs"`
	TDS            float64     `json:"tds"`
	Settlement     float64     `json:"settlement"`

	// Alternate is set only for the margin/trade-discount marketplace.
	Alternate *AlternateDetail `json:"alternate,omitempty"`
}

// AlternateDetail carries the margin/trade-discount decomposition.
type AlternateDetail struct {
	MRP                  float64 `json:"mrp"`
	TradeDiscountPercent float64 `json:"tradeDiscountPercent"`
	SaleDiscount         float64 `json:"saleDiscount"`
	GrossSellingPrice    float64 `json:"grossSellingPrice"`
	SaleGSTPercent       float64 `json:"saleGstPercent"`
	SaleGST              float64 `json:"saleGst"`
	NetSalesValue        float64 `json:"netSalesValue"`
	MarginPercent        float64 `json:"marginPercent"`
	Margin               float64 `json:"margin"`
	PurchasePrice        float64 `json:"purchasePrice"`
	PurchaseGSTPercent   float64 `json:"purchaseGstPercent"`
	PurchaseGST          float64 `json:"purchaseGst"`
}

// Finite reports whether every amount in b is a finite number. Margin
// percentages near the net-of-GST share drive the alternate model to
// infinities that cannot be represented in JSON.
func (b Breakdown) Finite() bool {
	values := []float64{
		b.SellingPrice, b.CustomerPrice, b.CommissionRate, b.Commission, b.FixedFee, b.FixedFeeGST,
		b.LogisticsFee, b.ReverseFee, b.ReverseFeeGST, b.ReversePercent, b.GSTOnFees, b.TaxableValue,
		b.TCS, b.TDS, b.Settlement,
	}
	if d := b.Alternate; d != nil {
		values = append(values,
			d.MRP, d.TradeDiscountPercent, d.SaleDiscount, d.GrossSellingPrice, d.SaleGSTPercent, d.SaleGST,
			d.NetSalesValue, d.MarginPercent, d.Margin, d.PurchasePrice, d.PurchaseGSTPercent, d.PurchaseGST,
		)
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
