package service

import (
	"fmt"
	"strings"

	"product-recon/internal/reconcile/model"
)

// MatchOne runs the strategy chain for one catalog record against one
// supplier's index: exact SKU, normalized SKU (with supplier-prefix
// stripping), barcode, then fuzzy title match. First strategy with a
// single acceptable candidate wins.
func MatchOne(rec model.CatalogRecord, idx *Index, opt model.Options) model.MatchResult {
	opt = opt.WithDefaults()
	res := model.MatchResult{
		CatalogID:         rec.ID,
		Strategy:          model.StrategyNone,
		IsPromotionalItem: IsPromotionalItem(rec.Title, rec.Price, opt.PromoKeywords),
	}

	var matched *model.SupplierRecord

	// (1) raw SKU, verbatim
	if sku := strings.TrimSpace(rec.SKU); sku != "" {
		if m := single(idx.byRawSKU, sku); m != nil {
			matched = m
			res.Strategy = model.StrategyExactSKU
			res.Confidence = 1.0
		}
	}

	// (2) normalized SKU, then again with the embedded supplier code stripped
	if matched == nil {
		if n := Normalize(rec.SKU); n != "" {
			matched = single(idx.bySKU, n)
		}
		if matched == nil {
			if rest, ok := StripSupplierPrefix(rec.SKU); ok {
				if n := Normalize(rest); n != "" {
					matched = single(idx.bySKU, n)
				}
			}
		}
		if matched != nil {
			res.Strategy = model.StrategyNormalizedSKU
			res.Confidence = 1.0
		}
	}

	// (3) barcode, only when both sides carry one
	if matched == nil {
		if b := NormalizeBarcode(rec.Barcode); b != "" {
			if m := single(idx.byBarcode, b); m != nil {
				matched = m
				res.Strategy = model.StrategyBarcode
				res.Confidence = 0.9
			}
		}
	}

	// (4) fuzzy title match over the supplier's full collection
	if matched == nil {
		best := -1.0
		var bestRec *model.SupplierRecord
		for i := range idx.records {
			if s := Similarity(rec.Title, idx.records[i].Title); s > best {
				best = s
				bestRec = &idx.records[i]
			}
		}
		threshold := opt.SimilarityThreshold
		if res.IsPromotionalItem && opt.PromoFuzzyThreshold > threshold {
			// fuzzy matching on a promo title is the least reliable path
			threshold = opt.PromoFuzzyThreshold
		}
		if bestRec != nil && best >= threshold {
			matched = bestRec
			res.Strategy = model.StrategyFuzzyName
			res.Confidence = best
		}
	}

	if matched == nil {
		return res
	}

	// Sanity-check the titles even when an identifier matched. A confident
	// exact hit on a reused promo SKU is the known failure mode here.
	sim := Similarity(rec.Title, matched.Title)
	res.TitleSimilarity = sim
	if res.Strategy != model.StrategyFuzzyName && res.IsPromotionalItem && sim < opt.PromoSimilarityFloor {
		res.Warning = fmt.Sprintf(
			"promotional item %q matched unrelated supplier title %q via %s; match discarded",
			rec.Title, matched.Title, res.Strategy)
		res.Strategy = model.StrategyNone
		res.Confidence = 0
		return res
	}
	if sim < opt.WarnThreshold {
		res.Warning = fmt.Sprintf(
			"low title agreement %.2f between %q and %q", sim, rec.Title, matched.Title)
	}

	res.MatchedSupplierID = matched.ID
	res.SupplierName = idx.supplierName
	return res
}
