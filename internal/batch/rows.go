// Package batch prices many products at once from a CSV sheet and renders the
// detailed settlement report.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Simplici0/payout/internal/pricing"
	"github.com/Simplici0/payout/internal/ratecard"
)

// ErrMissingCost is returned when a sheet has no recognisable cost column.
var ErrMissingCost = errors.New("batch: no cost column")

const notAvailable = "N/A"

// Row is one product line of an imported sheet.
type Row struct {
	Cost        float64              `json:"cost"`
	Brand       ratecard.Brand       `json:"brand"`
	ArticleType ratecard.ArticleType `json:"articleType"`
	Gender      ratecard.Gender      `json:"gender"`
	StyleID     string               `json:"styleId"`
	ArticleCode string               `json:"articleCode"`
	ASIN        string               `json:"asin"`
	AmazonSKU   string               `json:"amazonSku"`
	MyntraSKU   string               `json:"myntraSku"`
	SKUID       string               `json:"skuId"`
}

// Header aliases in priority order, normalised by normaliseHeader.
var (
	costHeaders        = []string{"tp cost", "tp (cost)", "tp"}
	brandHeaders       = []string{"brand"}
	articleCodeHeaders = []string{"article code"}
	asinHeaders        = []string{"asin"}
	amazonSKUHeaders   = []string{"amazon sku"}
	myntraSKUHeaders   = []string{"myntra sku"}
	skuIDHeaders       = []string{"sku id"}
	styleIDHeaders     = []string{"style id", "ajio sku", "sku"}
	articleTypeHeaders = []string{"article type"}
	genderHeaders      = []string{"gender"}
)

func normaliseHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.TrimSuffix(strings.TrimSpace(h), "*"))
}

// ReadRows parses a CSV sheet. Rows whose cost is missing, unparsable, not
// positive or above pricing.MaxAmount are dropped and counted in skipped.
// Unknown brands default to Bellstone, unknown article types to Tshirts and
// unknown genders to Unisex.
func ReadRows(r io.Reader) (rows []Row, skipped int, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, ErrMissingCost
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normaliseHeader(h)
		if _, dup := index[key]; !dup {
			index[key] = i
		}
	}
	if !hasAny(index, costHeaders) {
		return nil, 0, ErrMissingCost
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv line %d: %w", line, err)
		}

		get := func(aliases []string) string { return cell(record, index, aliases) }

		cost := parseCost(get(costHeaders))
		if cost <= 0 || cost > pricing.MaxAmount {
			skipped++
			continue
		}

		row := Row{
			Cost:        cost,
			Brand:       ratecard.BrandBellstone,
			ArticleType: ratecard.ArticleTshirts,
			Gender:      ratecard.GenderUnisex,
			StyleID:     orNA(get(styleIDHeaders)),
			ArticleCode: orNA(get(articleCodeHeaders)),
			ASIN:        orNA(get(asinHeaders)),
			AmazonSKU:   orNA(get(amazonSKUHeaders)),
			MyntraSKU:   orNA(get(myntraSKUHeaders)),
			SKUID:       orNA(get(skuIDHeaders)),
		}
		if b, err := ratecard.ParseBrand(get(brandHeaders)); err == nil {
			row.Brand = b
		}
		if a, err := ratecard.ParseArticleType(get(articleTypeHeaders)); err == nil {
			row.ArticleType = a
		}
		if g, err := ratecard.ParseGender(get(genderHeaders)); err == nil {
			row.Gender = g
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}

func hasAny(index map[string]int, aliases []string) bool {
	for _, a := range aliases {
		if _, ok := index[a]; ok {
			return true
		}
	}
	return false
}

// cell returns the first non-empty value among the aliased columns.
func cell(record []string, index map[string]int, aliases []string) string {
	for _, a := range aliases {
		i, ok := index[a]
		if !ok || i >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[i]); v != "" {
			return v
		}
	}
	return ""
}

func parseCost(raw string) float64 {
	cleaned := strings.NewReplacer("₹", "", ",", "").Replace(raw)
	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil || math.IsNaN(v) {
		return 0
	}
	return v
}

func orNA(v string) string {
	if v == "" {
		return notAvailable
	}
	return v
}
