package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPromoKeywords marks free/bonus line items whose SKUs get reused
// across unrelated products. Extend via Options.PromoKeywords.
var DefaultPromoKeywords = []string{
	"gift", "free", "promo", "bonus", "sample", "complimentary", "gwp", "giveaway",
}

// Below this a price is "effectively free".
var promoPriceEpsilon = decimal.NewFromFloat(0.01)

// IsPromotionalItem classifies a catalog line item as a likely
// non-physical/promotional entry from its title and price.
func IsPromotionalItem(title string, price decimal.Decimal, keywords []string) bool {
	if price.LessThan(promoPriceEpsilon) {
		return true
	}
	if keywords == nil {
		keywords = DefaultPromoKeywords
	}
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
