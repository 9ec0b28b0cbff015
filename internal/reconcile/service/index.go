package service

import (
	"strings"

	"product-recon/internal/reconcile/model"
)

// Index is the per-supplier lookup structure. Built once before matching
// starts, read-only afterwards, so concurrent match workers need no locks.
//
// Identifier maps hold slices: normalization can collide ("AB-1" and "AB1"
// both normalize to "AB1"), and a collision means the identifier is not a
// reliable signal for that supplier.
type Index struct {
	supplierName string
	records      []model.SupplierRecord
	byRawSKU     map[string][]model.SupplierRecord
	bySKU        map[string][]model.SupplierRecord // normalized SKU
	byBarcode    map[string][]model.SupplierRecord // normalized barcode
}

func BuildIndex(supplierName string, records []model.SupplierRecord) *Index {
	idx := &Index{
		supplierName: supplierName,
		records:      records,
		byRawSKU:     make(map[string][]model.SupplierRecord),
		bySKU:        make(map[string][]model.SupplierRecord),
		byBarcode:    make(map[string][]model.SupplierRecord),
	}
	for _, r := range records {
		if raw := strings.TrimSpace(r.SKU); raw != "" {
			idx.byRawSKU[raw] = append(idx.byRawSKU[raw], r)
		}
		if n := Normalize(r.SKU); n != "" {
			idx.bySKU[n] = append(idx.bySKU[n], r)
		}
		if b := NormalizeBarcode(r.Barcode); b != "" {
			idx.byBarcode[b] = append(idx.byBarcode[b], r)
		}
	}
	return idx
}

func (idx *Index) SupplierName() string { return idx.supplierName }
func (idx *Index) Len() int             { return len(idx.records) }

// single returns the sole hit for key, or nil when the key is absent or
// collides. Picking one of several ambiguous candidates would be worse
// than falling through to a weaker but singular signal.
func single(m map[string][]model.SupplierRecord, key string) *model.SupplierRecord {
	if list, ok := m[key]; ok && len(list) == 1 {
		return &list[0]
	}
	return nil
}
