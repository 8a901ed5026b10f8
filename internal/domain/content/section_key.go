package content

import (
	"fmt"
	"strings"

	"github.com/storefront/backend/internal/domain/shared"
)

// SectionKey identifies one homepage content block
type SectionKey string

const (
	SectionHeroSlides       SectionKey = "hero_slides"
	SectionGridSections     SectionKey = "grid_sections"
	SectionCategoryItems    SectionKey = "category_items"
	SectionOfferSections    SectionKey = "offer_sections"
	SectionFeaturedProducts SectionKey = "featured_products"
	SectionNewArrivals      SectionKey = "new_arrivals"
	SectionFeatureBar       SectionKey = "feature_bar"
	SectionBannerCards      SectionKey = "banner_cards"
	SectionInfoText         SectionKey = "info_text"
	SectionBrandStrip       SectionKey = "brand_strip"
	SectionNewsletter       SectionKey = "newsletter"
)

// AllSectionKeys lists every section in default page order
var AllSectionKeys = []SectionKey{
	SectionHeroSlides,
	SectionFeatureBar,
	SectionCategoryItems,
	SectionGridSections,
	SectionFeaturedProducts,
	SectionOfferSections,
	SectionNewArrivals,
	SectionBannerCards,
	SectionBrandStrip,
	SectionInfoText,
	SectionNewsletter,
}

// ErrUnknownSection is returned for a section key outside AllSectionKeys
var ErrUnknownSection = shared.NewDomainError("UNKNOWN_SECTION", "Unknown homepage section")

// ParseSectionKey validates a raw key
func ParseSectionKey(raw string) (SectionKey, error) {
	key := SectionKey(strings.TrimSpace(raw))
	if !key.IsValid() {
		return "", shared.NewDomainError(ErrUnknownSection.Code, fmt.Sprintf("Unknown homepage section %q", raw))
	}
	return key, nil
}

// IsValid checks if the key names a known section
func (k SectionKey) IsValid() bool {
	return k.DefaultOrder() >= 0
}

// DefaultOrder is the position of the section on a page that was never reordered, or -1
func (k SectionKey) DefaultOrder() int {
	for i, key := range AllSectionKeys {
		if key == k {
			return i
		}
	}
	return -1
}

// String returns the string representation of SectionKey
func (k SectionKey) String() string {
	return string(k)
}
