package ratecard

// Resolver returns the commission rate and fixed fee applicable at a price point.
// It is read-only after construction and safe for concurrent use.
type Resolver struct {
	commission Table
	fixedFee   Table
	freeItems  Schedule
}

// NewResolver builds a resolver over the built-in slab tables.
func NewResolver() *Resolver {
	return &Resolver{
		commission: BuiltinCommission(),
		fixedFee:   BuiltinFixedFee(),
		freeItems:  BuiltinFreeItemCommission(),
	}
}

// Commission returns the commission rate in percent. An enabled override table
// fully pre-empts the built-in slabs when one of its rules matches.
func (r *Resolver) Commission(price float64, article ArticleType, brand Brand, overrides *OverrideTable) float64 {
	if rate, ok := overrides.Lookup(KindCommission, price, brand, article); ok {
		return rate
	}
	if IsFreeItem(article) {
		return r.freeItems.lookupClosed(price)
	}
	return r.commission.Schedule(brand, article).Lookup(price)
}

// FixedFee returns the flat platform fee, exclusive of GST.
func (r *Resolver) FixedFee(price float64, article ArticleType, brand Brand, overrides *OverrideTable) float64 {
	if fee, ok := overrides.Lookup(KindFixedFee, price, brand, article); ok {
		return fee
	}
	return r.fixedFee.Schedule(brand, article).Lookup(price)
}
