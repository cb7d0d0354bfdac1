package ratecard

import (
	"fmt"
	"strings"
)

// Wildcard matches any brand, article type or gender in rule tables and overrides.
const Wildcard = "ALL"

// Brand identifies a seller brand with its own negotiated slabs.
type Brand string

const (
	BrandBellstone   Brand = "Bellstone"
	BrandIndoprimo   Brand = "INDOPRIMO"
	BrandDeelmo      Brand = "Deelmo"
	BrandCBColebrook Brand = "CB-COLEBROOK"
	BrandOther       Brand = "Other"
)

// Brands lists every known brand in display order.
var Brands = []Brand{BrandBellstone, BrandIndoprimo, BrandDeelmo, BrandCBColebrook, BrandOther}

// ArticleType is the marketplace article classification of a product.
type ArticleType string

const (
	ArticleBoxers         ArticleType = "Boxers"
	ArticleTshirts        ArticleType = "Tshirts"
	ArticleJeans          ArticleType = "Jeans"
	ArticleTrousers       ArticleType = "Trousers"
	ArticleShorts         ArticleType = "Shorts"
	ArticleInnerwearVests ArticleType = "Innerwear Vests"
	ArticleSweatshirts    ArticleType = "Sweatshirts"
	ArticleSweaters       ArticleType = "Sweaters"
	ArticleJackets        ArticleType = "Jackets"
	ArticlePyjamas        ArticleType = "Pyjamas"
	ArticleShirts         ArticleType = "Shirts"
	ArticleKurtas         ArticleType = "Kurtas"
	ArticleDresses        ArticleType = "Dresses"
	ArticleTrackPants     ArticleType = "Track Pants"
	ArticleFreeGifts      ArticleType = "Free Gifts"
)

// ArticleTypes lists every known article type in display order.
var ArticleTypes = []ArticleType{
	ArticleBoxers, ArticleTshirts, ArticleJeans, ArticleTrousers, ArticleShorts,
	ArticleInnerwearVests, ArticleSweatshirts, ArticleSweaters, ArticleJackets, ArticlePyjamas,
	ArticleShirts, ArticleKurtas, ArticleDresses, ArticleTrackPants, ArticleFreeGifts,
}

type Gender string

const (
	GenderMen    Gender = "Men"
	GenderWomen  Gender = "Women"
	GenderUnisex Gender = "Unisex"
)

var Genders = []Gender{GenderMen, GenderWomen, GenderUnisex}

type MasterCategory string

const (
	CategoryApparel   MasterCategory = "APPAREL"
	CategoryFreeItems MasterCategory = "FREE_ITEMS"
)

// Level is the platform logistics tier assigned to an article.
type Level string

const (
	Level1 Level = "Level 1"
	Level2 Level = "Level 2"
	Level3 Level = "Level 3"
	Level4 Level = "Level 4"
	Level5 Level = "Level 5"
)

var Levels = []Level{Level1, Level2, Level3, Level4, Level5}

// Region is the shipping distance band used by fixed reverse-logistics fees.
type Region string

const (
	RegionLocal    Region = "Local"
	RegionZone     Region = "Zone"
	RegionNational Region = "National"
)

var Regions = []Region{RegionLocal, RegionZone, RegionNational}

// ArticleSpec describes the static attributes of an article type.
type ArticleSpec struct {
	Category     MasterCategory
	Gender       Gender
	DefaultLevel Level
}

var articleSpecs = map[ArticleType]ArticleSpec{
	ArticleBoxers:         {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level1},
	ArticleTshirts:        {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level2},
	ArticleJeans:          {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level1},
	ArticleTrousers:       {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level2},
	ArticleShorts:         {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level1},
	ArticleInnerwearVests: {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level1},
	ArticleSweatshirts:    {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level2},
	ArticleSweaters:       {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level2},
	ArticleJackets:        {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level2},
	ArticlePyjamas:        {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level1},
	ArticleShirts:         {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level1},
	ArticleKurtas:         {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level1},
	ArticleDresses:        {Category: CategoryApparel, Gender: GenderWomen, DefaultLevel: Level1},
	ArticleTrackPants:     {Category: CategoryApparel, Gender: GenderMen, DefaultLevel: Level1},
	ArticleFreeGifts:      {Category: CategoryFreeItems, Gender: GenderUnisex, DefaultLevel: Level1},
}

// SpecFor returns the static attributes of an article type.
func SpecFor(article ArticleType) (ArticleSpec, bool) {
	spec, ok := articleSpecs[article]
	return spec, ok
}

// IsFreeItem reports whether the article belongs to the free-items master category.
func IsFreeItem(article ArticleType) bool {
	spec, ok := articleSpecs[article]
	return ok && spec.Category == CategoryFreeItems
}

func ParseBrand(raw string) (Brand, error) {
	if v, ok := matchFold(raw, Brands); ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown brand %q", raw)
}

func ParseArticleType(raw string) (ArticleType, error) {
	if v, ok := matchFold(raw, ArticleTypes); ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown article type %q", raw)
}

func ParseGender(raw string) (Gender, error) {
	if v, ok := matchFold(raw, Genders); ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown gender %q", raw)
}

// ParseLevel accepts either the full label ("Level 2") or the bare tier number ("2").
func ParseLevel(raw string) (Level, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 1 {
		trimmed = "Level " + trimmed
	}
	if v, ok := matchFold(trimmed, Levels); ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown level %q", raw)
}

func ParseRegion(raw string) (Region, error) {
	if v, ok := matchFold(raw, Regions); ok {
		return v, nil
	}
	return "", fmt.Errorf("unknown region %q", raw)
}

func matchFold[T ~string](raw string, values []T) (T, bool) {
	needle := strings.TrimSpace(raw)
	for _, v := range values {
		if strings.EqualFold(string(v), needle) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
