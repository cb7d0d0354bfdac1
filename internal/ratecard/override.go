package ratecard

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// RuleKind selects which resolution an override rule participates in.
type RuleKind string

const (
	KindCommission RuleKind = "COMMISSION"
	KindFixedFee   RuleKind = "FIXED_FEE"
)

func ParseRuleKind(raw string) (RuleKind, error) {
	switch RuleKind(strings.ToUpper(strings.TrimSpace(raw))) {
	case KindCommission:
		return KindCommission, nil
	case KindFixedFee:
		return KindFixedFee, nil
	}
	return "", fmt.Errorf("unknown rule kind %q", raw)
}

// OverrideRule is a single manual rate-card entry. Brand, ArticleType and Gender
// hold either a concrete value or Wildcard. Lower and Upper are inclusive.
type OverrideRule struct {
	Brand       string   `json:"brand" yaml:"brand" validate:"required"`
	ArticleType string   `json:"articleType" yaml:"articleType" validate:"required"`
	Gender      string   `json:"gender" yaml:"gender"`
	Lower       float64  `json:"lowerLimit" yaml:"lowerLimit" validate:"finite,gte=0"`
	Upper       float64  `json:"upperLimit" yaml:"upperLimit" validate:"finite,gtefield=Lower"`
	Kind        RuleKind `json:"type" yaml:"type" validate:"oneof=COMMISSION FIXED_FEE"`
	Rate        *float64 `json:"rate,omitempty" yaml:"rate,omitempty" validate:"omitempty,finite,gte=0,lte=100"`
	Fee         *float64 `json:"fee,omitempty" yaml:"fee,omitempty" validate:"omitempty,finite,gte=0"`
}

func (r OverrideRule) matches(kind RuleKind, price float64, brand Brand, article ArticleType) bool {
	return r.Kind == kind &&
		(r.Brand == Wildcard || r.Brand == string(brand)) &&
		(r.ArticleType == Wildcard || r.ArticleType == string(article)) &&
		price >= r.Lower && price <= r.Upper
}

// value returns the rule's amount for its kind, if one was supplied.
func (r OverrideRule) value() (float64, bool) {
	var v *float64
	switch r.Kind {
	case KindCommission:
		v = r.Rate
	case KindFixedFee:
		v = r.Fee
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// OverrideTable is an imported manual rate card. Rules are unordered; the first
// structural match wins.
type OverrideTable struct {
	Enabled bool           `json:"enabled" yaml:"enabled"`
	Rules   []OverrideRule `json:"rules" yaml:"rules" validate:"dive"`
}

// Lookup finds the first rule of kind that matches the price, brand and article.
// A matching rule without a value for its kind ends the scan unresolved.
func (t *OverrideTable) Lookup(kind RuleKind, price float64, brand Brand, article ArticleType) (float64, bool) {
	if t == nil || !t.Enabled {
		return 0, false
	}
	for _, r := range t.Rules {
		if r.matches(kind, price, brand, article) {
			return r.value()
		}
	}
	return 0, false
}

// Store holds the current override table. Imports replace the table wholesale;
// readers take a snapshot and never observe a partial update.
type Store struct {
	current atomic.Pointer[OverrideTable]
}

func NewStore(initial OverrideTable) *Store {
	s := &Store{}
	s.Replace(initial)
	return s
}

// Snapshot returns the table in effect at call time. Callers must treat it as
// read-only.
func (s *Store) Snapshot() *OverrideTable {
	return s.current.Load()
}

// Replace installs a copy of table as the current override table.
func (s *Store) Replace(table OverrideTable) {
	rules := make([]OverrideRule, len(table.Rules))
	copy(rules, table.Rules)
	s.current.Store(&OverrideTable{Enabled: table.Enabled, Rules: rules})
}

// SetEnabled swaps in a copy of the current table with the flag changed.
func (s *Store) SetEnabled(enabled bool) {
	prev := s.Snapshot()
	next := OverrideTable{Enabled: enabled}
	if prev != nil {
		next.Rules = prev.Rules
	}
	s.Replace(next)
}
