package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"product-recon/internal/reconcile/model"
)

func supplierIndex(records ...model.SupplierRecord) *Index {
	for i := range records {
		records[i].SupplierName = "uhp"
	}
	return BuildIndex("uhp", records)
}

func TestMatchOne_ExactSKU(t *testing.T) {
	idx := supplierIndex(model.SupplierRecord{ID: "s1", SKU: "OB-100", Title: "Organic Coconut Oil 500ml"})
	rec := model.CatalogRecord{
		ID: "1", SKU: "OB-100", Title: "Organic Coconut Oil 500ml",
		Price: decimal.RequireFromString("14.95"),
	}

	res := MatchOne(rec, idx, model.DefaultOptions())
	assert.Equal(t, model.StrategyExactSKU, res.Strategy)
	assert.Equal(t, "s1", res.MatchedSupplierID)
	assert.Equal(t, "uhp", res.SupplierName)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, 1.0, res.TitleSimilarity)
	assert.Empty(t, res.Warning)
}

func TestMatchOne_NormalizedSKU(t *testing.T) {
	t.Run("separator differences", func(t *testing.T) {
		idx := supplierIndex(model.SupplierRecord{ID: "s1", SKU: "TEE 250", Title: "Teelixir Lions Mane 50g"})
		rec := model.CatalogRecord{ID: "1", SKU: "tee-250", Title: "Teelixir Lions Mane 50g", Price: decimal.RequireFromString("29")}

		res := MatchOne(rec, idx, model.DefaultOptions())
		assert.Equal(t, model.StrategyNormalizedSKU, res.Strategy)
		assert.Equal(t, "s1", res.MatchedSupplierID)
		assert.Equal(t, 1.0, res.Confidence)
	})

	t.Run("storefront supplier-code prefix is stripped", func(t *testing.T) {
		idx := supplierIndex(model.SupplierRecord{ID: "s1", SKU: "TEE-250", Title: "Teelixir Lions Mane 50g"})
		rec := model.CatalogRecord{ID: "1", SKU: "KIK-TEE-250", Title: "Teelixir Lions Mane 50g", Price: decimal.RequireFromString("29")}

		res := MatchOne(rec, idx, model.DefaultOptions())
		assert.Equal(t, model.StrategyNormalizedSKU, res.Strategy)
		assert.Equal(t, "s1", res.MatchedSupplierID)
		assert.Equal(t, 1.0, res.Confidence)
	})

	t.Run("normalization collision falls through", func(t *testing.T) {
		// "AB-1" and "AB1" both normalize to "AB1": not a reliable signal
		idx := supplierIndex(
			model.SupplierRecord{ID: "s1", SKU: "AB-1", Title: "Almond Butter Crunchy 250g"},
			model.SupplierRecord{ID: "s2", SKU: "AB1", Title: "Apricot Bars 5pk"},
		)
		rec := model.CatalogRecord{ID: "1", SKU: "ab_1", Title: "Almond Butter Crunchy 250g", Price: decimal.RequireFromString("9")}

		res := MatchOne(rec, idx, model.DefaultOptions())
		// falls back to the fuzzy strategy, which finds the right record by title
		assert.Equal(t, model.StrategyFuzzyName, res.Strategy)
		assert.Equal(t, "s1", res.MatchedSupplierID)
	})
}

func TestMatchOne_Barcode(t *testing.T) {
	t.Run("leading zero padding", func(t *testing.T) {
		idx := supplierIndex(model.SupplierRecord{ID: "s1", SKU: "XYZ", Barcode: "9312345678901", Title: "Macro Mike Peanut Protein 1kg"})
		rec := model.CatalogRecord{ID: "1", SKU: "", Barcode: "09312345678901", Title: "Macro Mike Peanut Protein 1kg", Price: decimal.RequireFromString("49.95")}

		res := MatchOne(rec, idx, model.DefaultOptions())
		assert.Equal(t, model.StrategyBarcode, res.Strategy)
		assert.Equal(t, "s1", res.MatchedSupplierID)
		assert.Equal(t, 0.9, res.Confidence)
	})

	t.Run("missing barcode is never matched on", func(t *testing.T) {
		idx := supplierIndex(model.SupplierRecord{ID: "s1", SKU: "XYZ", Barcode: "", Title: "Something Else Entirely"})
		rec := model.CatalogRecord{ID: "1", SKU: "NOPE", Barcode: "", Title: "Completely Different Product", Price: decimal.RequireFromString("5")}

		res := MatchOne(rec, idx, model.DefaultOptions())
		assert.Equal(t, model.StrategyNone, res.Strategy)
		assert.Empty(t, res.MatchedSupplierID)
	})
}

func TestMatchOne_FuzzyName(t *testing.T) {
	t.Run("best candidate above threshold", func(t *testing.T) {
		idx := supplierIndex(
			model.SupplierRecord{ID: "s1", SKU: "L225", Title: "Lakanto Monkfruit Sweetener Golden 225g"},
			model.SupplierRecord{ID: "s2", SKU: "G500", Title: "Generic Sugar Substitute 500g"},
		)
		rec := model.CatalogRecord{ID: "1", SKU: "UNKNOWN", Title: "Lakanto Golden Monkfruit Sweetener", Price: decimal.RequireFromString("12")}

		res := MatchOne(rec, idx, model.DefaultOptions())
		require.Equal(t, model.StrategyFuzzyName, res.Strategy)
		assert.Equal(t, "s1", res.MatchedSupplierID)
		assert.Greater(t, res.Confidence, 0.3)
		assert.Equal(t, res.Confidence, res.TitleSimilarity)
	})

	t.Run("below threshold yields none", func(t *testing.T) {
		idx := supplierIndex(model.SupplierRecord{ID: "s2", SKU: "G500", Title: "Generic Sugar Substitute 500g"})
		rec := model.CatalogRecord{ID: "1", SKU: "", Title: "Lakanto Brown Monkfruit Sweetener 225g", Price: decimal.RequireFromString("12")}

		res := MatchOne(rec, idx, model.DefaultOptions())
		assert.Equal(t, model.StrategyNone, res.Strategy)
		assert.Empty(t, res.MatchedSupplierID)
		assert.Equal(t, 0.0, res.Confidence)
	})

	t.Run("promo items get the stricter floor", func(t *testing.T) {
		// similarity 1/3: acceptable for a normal item, not for a promo one
		idx := supplierIndex(model.SupplierRecord{ID: "s1", SKU: "X", Title: "Shaker Bottle"})
		regular := model.CatalogRecord{ID: "1", SKU: "", Title: "Shaker Cup", Price: decimal.RequireFromString("9")}
		promo := model.CatalogRecord{ID: "2", SKU: "", Title: "Bonus Shaker", Price: decimal.RequireFromString("9")}

		resRegular := MatchOne(regular, idx, model.DefaultOptions())
		assert.Equal(t, model.StrategyFuzzyName, resRegular.Strategy)

		resPromo := MatchOne(promo, idx, model.DefaultOptions())
		assert.True(t, resPromo.IsPromotionalItem)
		assert.Equal(t, model.StrategyNone, resPromo.Strategy)
	})
}

func TestMatchOne_PromoOverride(t *testing.T) {
	idx := supplierIndex(model.SupplierRecord{ID: "s1", SKU: "ABC123", Title: "Organic Turmeric Capsules 60ct"})
	rec := model.CatalogRecord{ID: "1", SKU: "ABC123", Title: "Free Gift Sample", Price: decimal.Zero}

	res := MatchOne(rec, idx, model.DefaultOptions())
	assert.Equal(t, model.StrategyNone, res.Strategy)
	assert.Empty(t, res.MatchedSupplierID)
	assert.True(t, res.IsPromotionalItem)
	require.NotEmpty(t, res.Warning)
	assert.Contains(t, res.Warning, "Free Gift Sample")
	assert.Contains(t, res.Warning, "Organic Turmeric Capsules 60ct")
}

func TestMatchOne_LowTitleAgreementWarning(t *testing.T) {
	idx := supplierIndex(model.SupplierRecord{ID: "s1", SKU: "OB-100", Title: "Coconut Oil Refined Bulk 20L Drum"})
	rec := model.CatalogRecord{ID: "1", SKU: "OB-100", Title: "Organic Coconut Oil 500ml", Price: decimal.RequireFromString("14.95")}

	res := MatchOne(rec, idx, model.DefaultOptions())
	// the identifier match survives, flagged for review
	assert.Equal(t, model.StrategyExactSKU, res.Strategy)
	assert.Equal(t, "s1", res.MatchedSupplierID)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Less(t, res.TitleSimilarity, 0.5)
	assert.NotEmpty(t, res.Warning)
}
