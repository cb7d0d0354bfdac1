package ratecard

import "math"

// Unbounded is the upper bound of the last slab in every schedule.
var Unbounded = math.Inf(1)

// Slab maps a price interval to a commission rate (percent) or a flat fee.
type Slab struct {
	Lower float64
	Upper float64
	Value float64
}

// Schedule is a contiguous sequence of slabs ordered by Lower.
type Schedule []Slab

// Lookup returns the value of the slab whose half-open interval [Lower, Upper)
// contains price. A price past every finite bound resolves to the last slab.
func (s Schedule) Lookup(price float64) float64 {
	if len(s) == 0 {
		return 0
	}
	for _, slab := range s {
		if price >= slab.Lower && price < slab.Upper {
			return slab.Value
		}
	}
	return s[len(s)-1].Value
}

// lookupClosed matches closed intervals [Lower, Upper] and falls back to the
// first slab when price lands in a gap between them.
func (s Schedule) lookupClosed(price float64) float64 {
	if len(s) == 0 {
		return 0
	}
	for _, slab := range s {
		if price >= slab.Lower && price <= slab.Upper {
			return slab.Value
		}
	}
	return s[0].Value
}

// Table keys slab schedules by brand and then by article type. The DefaultBrand
// entry and the Wildcard article entry supply fallbacks.
type Table map[string]map[string]Schedule

// DefaultBrand is the brand key consulted when a brand has no bespoke slabs.
const DefaultBrand = "default"

// Schedule resolves the slab schedule for brand and article, walking the
// fallback chain brand → default and article → ALL → default/ALL.
func (t Table) Schedule(brand Brand, article ArticleType) Schedule {
	byArticle := firstDefined(map[string]map[string]Schedule(t), string(brand), DefaultBrand)
	if s := firstDefined(byArticle, string(article), Wildcard); s != nil {
		return s
	}
	return t[DefaultBrand][Wildcard]
}

// firstDefined returns the entry for the first key present in m.
func firstDefined[V any](m map[string]V, keys ...string) V {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	var zero V
	return zero
}
