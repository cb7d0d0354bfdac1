package pricing

import (
	"fmt"

	"github.com/Simplici0/payout/internal/ratecard"
)

// Fields is the textual form of a Context as received from requests and
// command-line flags. Empty fields take defaults: Myntra, Bellstone, Tshirts,
// the article's default level, fixed reverse mode, Local region and the
// standard AJIO margin and trade discount.
type Fields struct {
	Marketplace  string   `json:"marketplace"`
	Brand        string   `json:"brand"`
	ArticleType  string   `json:"articleType"`
	Level        string   `json:"level"`
	Reverse      bool     `json:"reverseLogistics"`
	ReverseMode  string   `json:"reverseMode"`
	Region       string   `json:"region"`
	Percent      float64  `json:"reversePercent" validate:"gte=0,lte=100"`
	AJIOMargin   *float64 `json:"ajioMarginPercent,omitempty" validate:"omitempty,gte=0,lt=100"`
	AJIODiscount *float64 `json:"ajioTradeDiscountPercent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// Context parses f into a calculation context using overrides as the
// rate-card snapshot.
func (f Fields) Context(overrides *ratecard.OverrideTable) (Context, error) {
	ctx := Context{
		Marketplace:              Myntra,
		Brand:                    ratecard.BrandBellstone,
		ArticleType:              ratecard.ArticleTshirts,
		Overrides:                overrides,
		AJIOMarginPercent:        DefaultAJIOMarginPercent,
		AJIOTradeDiscountPercent: DefaultAJIOTradeDiscountPercent,
	}

	var err error
	if f.Marketplace != "" {
		if ctx.Marketplace, err = ParseMarketplace(f.Marketplace); err != nil {
			return Context{}, err
		}
	}
	if f.Brand != "" {
		if ctx.Brand, err = ratecard.ParseBrand(f.Brand); err != nil {
			return Context{}, err
		}
	}
	if f.ArticleType != "" {
		if ctx.ArticleType, err = ratecard.ParseArticleType(f.ArticleType); err != nil {
			return Context{}, err
		}
	}

	if f.Level != "" {
		if ctx.Level, err = ratecard.ParseLevel(f.Level); err != nil {
			return Context{}, err
		}
	} else if spec, ok := ratecard.SpecFor(ctx.ArticleType); ok {
		ctx.Level = spec.DefaultLevel
	} else {
		ctx.Level = ratecard.Level2
	}

	if f.Reverse {
		ctx.Reverse = ReverseLogistics{Enabled: true, Mode: ReverseFixed, Region: ratecard.RegionLocal, Percent: f.Percent}
		if f.ReverseMode != "" {
			if ctx.Reverse.Mode, err = ParseReverseMode(f.ReverseMode); err != nil {
				return Context{}, err
			}
		}
		if f.Region != "" {
			if ctx.Reverse.Region, err = ratecard.ParseRegion(f.Region); err != nil {
				return Context{}, err
			}
		}
		if f.Percent < 0 || f.Percent > 100 {
			return Context{}, fmt.Errorf("reverse percent %v outside 0-100", f.Percent)
		}
	}

	if f.AJIOMargin != nil {
		ctx.AJIOMarginPercent = *f.AJIOMargin
	}
	if f.AJIODiscount != nil {
		ctx.AJIOTradeDiscountPercent = *f.AJIODiscount
	}

	return ctx, nil
}
