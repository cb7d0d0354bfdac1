package ratecard

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeTable reads an override table from YAML or JSON and canonicalises
// its fields. Validation of limits and values is left to the caller.
func DecodeTable(r io.Reader) (OverrideTable, error) {
	var table OverrideTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil && err != io.EOF {
		return OverrideTable{}, fmt.Errorf("decode rate card: %w", err)
	}
	return table.Canonical(), nil
}

// Canonical returns a copy with wildcard, brand, article and kind spellings
// normalised so that lookups, which compare exactly, match imported rules.
// Unknown brands and articles are kept verbatim.
func (t OverrideTable) Canonical() OverrideTable {
	out := OverrideTable{Enabled: t.Enabled, Rules: make([]OverrideRule, len(t.Rules))}
	for i, r := range t.Rules {
		r.Brand = canonical(r.Brand, func(s string) (string, error) {
			b, err := ParseBrand(s)
			return string(b), err
		})
		r.ArticleType = canonical(r.ArticleType, func(s string) (string, error) {
			a, err := ParseArticleType(s)
			return string(a), err
		})
		r.Gender = canonical(r.Gender, func(s string) (string, error) {
			g, err := ParseGender(s)
			return string(g), err
		})
		if r.Gender == "" {
			r.Gender = Wildcard
		}
		if k, err := ParseRuleKind(string(r.Kind)); err == nil {
			r.Kind = k
		}
		out.Rules[i] = r
	}
	return out
}

func canonical(raw string, parse func(string) (string, error)) string {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, Wildcard) {
		return Wildcard
	}
	if v, err := parse(trimmed); err == nil {
		return v
	}
	return trimmed
}
