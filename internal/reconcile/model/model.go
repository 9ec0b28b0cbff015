package model

import "github.com/shopspring/decimal"

// Mapping describes which export columns feed which record fields.
// Keys support alternatives via "|" (e.g. "SKU|Variant SKU").
type Mapping struct {
	IDKey      string
	SkuKey     string
	BarcodeKey string
	TitleKey   string
	PriceKey   string
	BrandKey   string
	HeaderRow  int // header row, 1-based
}

// Options tunes the match strategy chain. Zero values fall back to the
// defaults below, so model.Options{} is always usable.
type Options struct {
	SimilarityThreshold  float64  // minimum fuzzy score to accept a match
	WarnThreshold        float64  // accepted matches below this get a warning
	PromoSimilarityFloor float64  // promo items below this lose their identifier match
	PromoFuzzyThreshold  float64  // stricter fuzzy floor for promo items
	PromoKeywords        []string // nil = built-in keyword set
	Workers              int      // match worker pool size, 0 = NumCPU
	FirstMatchWins       bool     // stop at the first supplier that matches
}

const (
	DefaultSimilarityThreshold  = 0.3
	DefaultWarnThreshold        = 0.5
	DefaultPromoSimilarityFloor = 0.2
	DefaultPromoFuzzyThreshold  = 0.4
)

func DefaultOptions() Options {
	return Options{
		SimilarityThreshold:  DefaultSimilarityThreshold,
		WarnThreshold:        DefaultWarnThreshold,
		PromoSimilarityFloor: DefaultPromoSimilarityFloor,
		PromoFuzzyThreshold:  DefaultPromoFuzzyThreshold,
	}
}

// WithDefaults fills unset fields; thresholds outside (0,1] are replaced.
func (o Options) WithDefaults() Options {
	if o.SimilarityThreshold <= 0 || o.SimilarityThreshold > 1 {
		o.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if o.WarnThreshold <= 0 || o.WarnThreshold > 1 {
		o.WarnThreshold = DefaultWarnThreshold
	}
	if o.PromoSimilarityFloor <= 0 || o.PromoSimilarityFloor > 1 {
		o.PromoSimilarityFloor = DefaultPromoSimilarityFloor
	}
	if o.PromoFuzzyThreshold <= 0 || o.PromoFuzzyThreshold > 1 {
		o.PromoFuzzyThreshold = DefaultPromoFuzzyThreshold
	}
	return o
}

// CatalogRecord is a product as the storefront of record knows it.
// Read-only snapshot for the duration of a run.
type CatalogRecord struct {
	ID      string          `json:"id"`
	SKU     string          `json:"sku"`
	Barcode string          `json:"barcode,omitempty"`
	Title   string          `json:"title"`
	Price   decimal.Decimal `json:"price"`
	Brand   string          `json:"brand,omitempty"`
}

// SupplierRecord is a product as one supplier feed knows it.
type SupplierRecord struct {
	ID           string `json:"id"`
	SupplierName string `json:"supplierName"`
	SKU          string `json:"sku"`
	Barcode      string `json:"barcode,omitempty"`
	Title        string `json:"title"`
}

// Strategy names which rung of the match chain produced a result.
type Strategy string

const (
	StrategyExactSKU      Strategy = "exact_sku"
	StrategyNormalizedSKU Strategy = "normalized_sku"
	StrategyBarcode       Strategy = "barcode"
	StrategyFuzzyName     Strategy = "fuzzy_name"
	StrategyNone          Strategy = "none"
)

// MatchResult is the outcome for one catalog record.
// MatchedSupplierID is empty iff Strategy == StrategyNone.
type MatchResult struct {
	CatalogID         string   `json:"catalogId"`
	MatchedSupplierID string   `json:"matchedSupplierId,omitempty"`
	SupplierName      string   `json:"supplierName,omitempty"`
	Strategy          Strategy `json:"strategy"`
	Confidence        float64  `json:"confidence"`
	// TitleSimilarity is auxiliary context: the name agreement between the
	// two sides, kept even when an identifier strategy set Confidence.
	TitleSimilarity   float64 `json:"titleSimilarity"`
	IsPromotionalItem bool    `json:"isPromotionalItem"`
	Ambiguous         bool    `json:"ambiguous,omitempty"`
	Warning           string  `json:"warning,omitempty"`
}

// Matched reports whether the result links to a supplier record.
func (r MatchResult) Matched() bool { return r.Strategy != StrategyNone }

// RecordError is a catalog record excluded from matching, with the reason.
type RecordError struct {
	Index  int    `json:"index"` // position in the input slice
	SKU    string `json:"sku,omitempty"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// Summary holds the aggregate counts of one run.
type Summary struct {
	Total      int              `json:"total"`
	Matched    int              `json:"matched"`
	Warned     int              `json:"matchedWithWarning"`
	Unmatched  int              `json:"unmatched"`
	Ambiguous  int              `json:"ambiguous"`
	Skipped    int              `json:"skipped"`
	ByStrategy map[Strategy]int `json:"byStrategy"`
	BySupplier map[string]int   `json:"bySupplier"`
}

// Report is the run's sole artifact. Buckets are sorted by catalog id so
// two runs over the same snapshots diff cleanly.
type Report struct {
	Matched   []MatchResult `json:"matched"`
	Unmatched []MatchResult `json:"unmatched"`
	Ambiguous []MatchResult `json:"ambiguous"`
	Skipped   []RecordError `json:"skipped,omitempty"`
	Summary   Summary       `json:"summary"`
}

// MatchedWithWarnings returns the subset of Matched flagged for review.
func (r Report) MatchedWithWarnings() []MatchResult {
	var out []MatchResult
	for _, m := range r.Matched {
		if m.Warning != "" {
			out = append(out, m)
		}
	}
	return out
}
