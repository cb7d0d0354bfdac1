package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Simplici0/payout/internal/pricing"
)

var bufferColumns = []string{"ADS AMT", "DEAL DISCOUNT AMT", "REVIEW AMT", "PROFIT MARGIN AMT", "RETURN AMT"}

// Template returns the import sheet header and a sample row for marketplace.
func Template(marketplace pricing.Marketplace) [][]string {
	if marketplace == pricing.AJIO {
		return [][]string{
			{"AJIO SKU*", "ARTICLE CODE*", "ASIN*", "AMAZON SKU*", "TP COST*"},
			{"AJ-001", "ART-101", "B0SAMPLE", "AMZ-101", "450"},
		}
	}
	return [][]string{
		{"Brand*", "ASIN*", "Amazon sku*", "Myntra sku*", "Sku id*", "Style id*", "Gender*", "Article type*", "TP (Cost)*"},
		{"CB-COLEBROOK", "B0SAMPLE", "AMZ-101", "MYN-101", "SKU-01", "STYLE-A", "Men", "Trousers", "350"},
	}
}

// WriteTemplate writes Template(marketplace) as CSV.
func WriteTemplate(w io.Writer, marketplace pricing.Marketplace) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Template(marketplace)); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// WriteReport writes the detailed settlement report. Buffer amount columns
// are present only when buffers were enabled for the run.
func WriteReport(w io.Writer, marketplace pricing.Marketplace, results []Result, buffersEnabled bool) error {
	cw := csv.NewWriter(w)

	header := reportHeader(marketplace, buffersEnabled)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for i, res := range results {
		var record []string
		if marketplace == pricing.AJIO {
			record = alternateRecord(res, buffersEnabled)
		} else {
			record = standardRecord(res, buffersEnabled)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write report row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

func reportHeader(marketplace pricing.Marketplace, buffersEnabled bool) []string {
	var lead, tail []string
	if marketplace == pricing.AJIO {
		lead = []string{"AJIO SKU*", "ARTICLE CODE*", "ASIN*", "AMAZON SKU*", "TP COST*"}
		tail = []string{"FINAL TP COST", "AVG MRP", "Trade Discount %", "SALE DISCOUNT AMT", "ASP (GROSS)", "GST % on ASP",
			"GST Amt on ASP", "Net Sales Value", "AJIO Margin %", "AJIO Margin (Rs.)", "Purchase price", "GST % (Purchase)",
			"GST (Purchase)", "BANK SETTLEMENT", "NET PROFIT", "ROI %"}
	} else {
		lead = []string{"Brand*", "ASIN*", "Amazon sku*", "Myntra sku*", "Sku id*", "Style id*", "Gender*", "Article type*", "TP (Cost)*"}
		tail = []string{"Target Settlement", "Seller Price (AISP)", "GTA Fee (Logistics)", "Customer Price", "Commission % (Inc. GST)",
			"Commission Amt (Inc. GST)", "Fixed Fee (Excl. GST)", "LEVEL", "Fixed Fee GST AMT", "TCS", "TDS", "Bank Settlement",
			"Net Profit", "ROI %"}
	}

	header := append([]string{}, lead...)
	if buffersEnabled {
		header = append(header, bufferColumns...)
	}
	return append(header, tail...)
}

func standardRecord(res Result, buffersEnabled bool) []string {
	b := res.Breakdown
	record := []string{
		string(res.Brand), res.ASIN, res.AmazonSKU, res.MyntraSKU, res.SKUID, res.StyleID,
		string(res.Gender), string(res.ArticleType), money(res.Cost),
	}
	if buffersEnabled {
		record = append(record, bufferRecord(res.Amounts)...)
	}
	return append(record,
		money(res.Target),
		money(b.SellingPrice),
		money(b.LogisticsFee),
		money(b.CustomerPrice),
		percent(b.CommissionRate),
		money(b.Commission),
		money(b.FixedFee),
		string(res.Level),
		money(b.FixedFeeGST),
		money(b.TCS),
		money(b.TDS),
		money(b.Settlement),
		money(res.Profit),
		percent(res.ROI),
	)
}

func alternateRecord(res Result, buffersEnabled bool) []string {
	d := res.Breakdown.Alternate
	if d == nil {
		d = &pricing.AlternateDetail{}
	}
	record := []string{res.StyleID, res.ArticleCode, res.ASIN, res.AmazonSKU, money(res.Cost)}
	if buffersEnabled {
		record = append(record, bufferRecord(res.Amounts)...)
	}
	return append(record,
		money(res.Target),
		money(d.MRP),
		percent(d.TradeDiscountPercent),
		money(d.SaleDiscount),
		money(d.GrossSellingPrice),
		percent(d.SaleGSTPercent),
		money(d.SaleGST),
		money(d.NetSalesValue),
		percent(d.MarginPercent),
		money(d.Margin),
		money(d.PurchasePrice),
		percent(d.PurchaseGSTPercent),
		money(d.PurchaseGST),
		money(res.Breakdown.Settlement),
		money(res.Profit),
		percent(res.ROI),
	)
}

func bufferRecord(a pricing.BufferAmounts) []string {
	return []string{money(a.Ads), money(a.DealDiscount), money(a.Review), money(a.ProfitMargin), money(a.Return)}
}

func money(v float64) string {
	return strconv.FormatFloat(pricing.Round2(v), 'f', -1, 64)
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
