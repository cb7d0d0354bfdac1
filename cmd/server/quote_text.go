package main

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/storage"
)

// renderQuoteText renders a stored quote as a plain-text summary. Amounts come
// from the stored snapshot only.
func renderQuoteText(q storage.Quote) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	line := func(label string, amount float64) {
		b.WriteString(p.Sprintf("%-26s ₹%.2f\n", label+":", amount))
	}

	title := q.Title
	if title == "" {
		title = "Untitled quote"
	}
	b.WriteString(title + "\n")
	b.WriteString("ID: " + q.ID + "\n")
	b.WriteString("Created: " + q.CreatedAt.UTC().Format("2006-01-02 15:04 MST") + "\n")
	b.WriteString("Marketplace: " + q.Marketplace + "\n\n")

	bd := q.Breakdown
	line("Target settlement", q.Target)
	line("Selling price", q.SellingPrice)

	if d := bd.Alternate; d != nil {
		b.WriteString("\nMargin model:\n")
		line("MRP", d.MRP)
		line("Sale discount", d.SaleDiscount)
		b.WriteString(p.Sprintf("%-26s %v%%\n", "Trade discount:", d.TradeDiscountPercent))
		line("Gross selling price", d.GrossSellingPrice)
		line(p.Sprintf("Sale GST (%v%%)", d.SaleGSTPercent), d.SaleGST)
		line("Net sales value", d.NetSalesValue)
		line(p.Sprintf("Margin (%v%%)", d.MarginPercent), d.Margin)
		line("Purchase price", d.PurchasePrice)
		line(p.Sprintf("Purchase GST (%v%%)", d.PurchaseGSTPercent), d.PurchaseGST)
	} else {
		b.WriteString("\nDeductions:\n")
		line("Customer price", bd.CustomerPrice)
		line("Logistics fee", bd.LogisticsFee)
		line(p.Sprintf("Commission (%v%%)", bd.CommissionRate), bd.Commission)
		line("Fixed fee", bd.FixedFee)
		line("Fixed fee GST", bd.FixedFeeGST)
		if bd.ReverseMode != "" {
			line("Reverse logistics", bd.ReverseFee)
			line("Reverse logistics GST", bd.ReverseFeeGST)
		}
		line("TCS", bd.TCS)
		line("TDS", bd.TDS)
	}

	b.WriteString("\n")
	line("Bank settlement", bd.Settlement)
	if bd.Marketplace == pricing.AJIO {
		b.WriteString("Margin and trade discount as configured at quote time.\n")
	}
	return b.String()
}
