package handler

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"product-recon/internal/reconcile/model"
	"product-recon/internal/utils"
)

// Default column aliases, covering BigCommerce/Shopify/WooCommerce exports
// and the common supplier price-list headers. "|" separates alternatives.
const (
	defaultIDKey      = "ID|Product ID|Variant ID"
	defaultSkuKey     = "SKU|Variant SKU|Supplier SKU|Item Code|Product Code"
	defaultBarcodeKey = "Barcode|UPC|EAN|GTIN"
	defaultTitleKey   = "Title|Name|Product Name|Description"
	defaultPriceKey   = "Price|Variant Price|RRP|Cost Price"
	defaultBrandKey   = "Brand|Vendor|Manufacturer"
)

var rxNonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normHeaderKey: lower-case, punctuation/underscores to spaces, collapse.
// "Variant_SKU " and "variant sku" resolve to the same key.
func normHeaderKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", " ", " ", " ").Replace(s)
	s = rxNonAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveKey finds the real column key in a record for the wanted name.
// Tries the alternatives verbatim, then normalized, then scored partial
// matches ("Variant SKU" contains "sku").
func resolveKey(rec map[string]string, want string) string {
	want = strings.TrimSpace(want)
	if want == "" {
		return ""
	}
	alts := strings.Split(want, "|")
	for i := range alts {
		alts[i] = strings.TrimSpace(alts[i])
	}

	for _, a := range alts {
		if _, ok := rec[a]; ok {
			return a
		}
	}

	var nWantAll []string
	for _, a := range alts {
		nWantAll = append(nWantAll, normHeaderKey(a))
	}

	bestKey := ""
	bestScore := 0
	for k := range rec {
		nk := normHeaderKey(k)
		for _, n := range nWantAll {
			if nk == n {
				return k
			}
		}
		score := 0
		for _, n := range nWantAll {
			if n == "" {
				continue
			}
			if strings.Contains(nk, n) || strings.Contains(n, nk) {
				if len(n) > score {
					score = len(n)
				}
			}
		}
		if score > bestScore {
			bestScore, bestKey = score, k
		}
	}
	return bestKey
}

// toCatalogRecords maps raw export rows into catalog records. Rows with a
// missing id are kept: the engine reports them as skipped rather than the
// handler silently dropping them.
func toCatalogRecords(maps []map[string]string, m model.Mapping) []model.CatalogRecord {
	out := make([]model.CatalogRecord, 0, len(maps))
	for _, rec := range maps {
		idKey := resolveKey(rec, m.IDKey)
		skuKey := resolveKey(rec, m.SkuKey)
		bcKey := resolveKey(rec, m.BarcodeKey)
		titleKey := resolveKey(rec, m.TitleKey)
		priceKey := resolveKey(rec, m.PriceKey)
		brandKey := resolveKey(rec, m.BrandKey)

		price, _ := utils.ParseMoney(rec[priceKey])
		out = append(out, model.CatalogRecord{
			ID:      strings.TrimSpace(rec[idKey]),
			SKU:     strings.TrimSpace(rec[skuKey]),
			Barcode: strings.TrimSpace(rec[bcKey]),
			Title:   strings.TrimSpace(rec[titleKey]),
			Price:   price,
			Brand:   strings.TrimSpace(rec[brandKey]),
		})
	}
	return out
}

// toSupplierRecords maps feed rows. Supplier feeds often have no id
// column, so the SKU, then the row number, stands in.
func toSupplierRecords(maps []map[string]string, m model.Mapping, supplierName string) []model.SupplierRecord {
	out := make([]model.SupplierRecord, 0, len(maps))
	for i, rec := range maps {
		idKey := resolveKey(rec, m.IDKey)
		skuKey := resolveKey(rec, m.SkuKey)
		bcKey := resolveKey(rec, m.BarcodeKey)
		titleKey := resolveKey(rec, m.TitleKey)

		id := strings.TrimSpace(rec[idKey])
		sku := strings.TrimSpace(rec[skuKey])
		if id == "" {
			id = sku
		}
		if id == "" {
			id = fmt.Sprintf("row-%d", i+1)
		}
		out = append(out, model.SupplierRecord{
			ID:           id,
			SupplierName: supplierName,
			SKU:          sku,
			Barcode:      strings.TrimSpace(rec[bcKey]),
			Title:        strings.TrimSpace(rec[titleKey]),
		})
	}
	return out
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func toBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func toFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
