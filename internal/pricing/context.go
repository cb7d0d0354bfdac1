package pricing

import (
	"fmt"
	"strings"

	"github.com/Simplici0/payout/internal/ratecard"
)

// Marketplace selects the pricing model.
type Marketplace string

const (
	Myntra Marketplace = "Myntra"
	AJIO   Marketplace = "AJIO"
	Amazon Marketplace = "Amazon"
)

var Marketplaces = []Marketplace{Myntra, AJIO, Amazon}

func ParseMarketplace(raw string) (Marketplace, error) {
	needle := strings.TrimSpace(raw)
	for _, m := range Marketplaces {
		if strings.EqualFold(string(m), needle) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown marketplace %q", raw)
}

// ReverseMode selects how the reverse-logistics fee is charged.
type ReverseMode string

const (
	ReverseFixed      ReverseMode = "Fixed Value"
	ReversePercentage ReverseMode = "Percentage %"
)

func ParseReverseMode(raw string) (ReverseMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "fixed", "fixed value":
		return ReverseFixed, nil
	case "percentage", "percent", "percentage %", "%":
		return ReversePercentage, nil
	}
	return "", fmt.Errorf("unknown reverse logistics mode %q", raw)
}

// ReverseLogistics describes how return shipments are charged.
type ReverseLogistics struct {
	Enabled bool
	Mode    ReverseMode
	Region  ratecard.Region
	Percent float64
}

const (
	DefaultAJIOMarginPercent        = 34.0
	DefaultAJIOTradeDiscountPercent = 65.0
)

// Context bundles everything besides the price that a calculation depends on.
// Overrides is a snapshot and is only consulted for Myntra.
type Context struct {
	Marketplace Marketplace
	Brand       ratecard.Brand
	ArticleType ratecard.ArticleType
	Level       ratecard.Level
	Reverse     ReverseLogistics
	Overrides   *ratecard.OverrideTable

	AJIOMarginPercent        float64
	AJIOTradeDiscountPercent float64
}

func (c Context) overrides() *ratecard.OverrideTable {
	if c.Marketplace != Myntra && c.Marketplace != "" {
		return nil
	}
	return c.Overrides
}
