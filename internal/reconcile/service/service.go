package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"product-recon/internal/reconcile/model"
)

// Caller contract violations. Dirty data never produces an error: empty
// SKUs, collisions and unmatched records are all report content.
var (
	ErrNilCatalog   = errors.New("reconcile: catalog collection is nil")
	ErrNilSuppliers = errors.New("reconcile: supplier collections map is nil")
)

// Reconcile matches the full catalog snapshot against every supplier
// snapshot and returns the partitioned report. The run always completes
// unless ctx is cancelled or the caller broke the contract above.
func Reconcile(ctx context.Context, catalog []model.CatalogRecord, suppliers map[string][]model.SupplierRecord, opt model.Options, logger zerolog.Logger) (model.Report, error) {
	if catalog == nil {
		return model.Report{}, ErrNilCatalog
	}
	if suppliers == nil {
		return model.Report{}, ErrNilSuppliers
	}
	opt = opt.WithDefaults()
	start := time.Now()

	// 1) Split off malformed records; they are reported, not matched.
	valid := make([]model.CatalogRecord, 0, len(catalog))
	var skipped []model.RecordError
	for i, rec := range catalog {
		if strings.TrimSpace(rec.ID) == "" {
			skipped = append(skipped, model.RecordError{
				Index: i, SKU: rec.SKU, Title: rec.Title, Reason: "missing id",
			})
			continue
		}
		valid = append(valid, rec)
	}

	// 2) One index per supplier, fully built before any worker starts.
	// Name order is fixed so multi-supplier tie-breaks are reproducible.
	names := make([]string, 0, len(suppliers))
	for name := range suppliers {
		names = append(names, name)
	}
	sort.Strings(names)
	indexes := make([]*Index, 0, len(names))
	for _, name := range names {
		idx := BuildIndex(name, suppliers[name])
		logger.Debug().Str("supplier", name).Int("records", idx.Len()).Msg("supplier indexed")
		indexes = append(indexes, idx)
	}

	// 3) Per-record matching is independent and the fuzzy fallback is
	// O(supplier collection) per record, so fan out over a bounded pool.
	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]model.MatchResult, len(valid))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = matchAcross(valid[i], indexes, opt)
			}
		}()
	}
	cancelled := false
feed:
	for i := range valid {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case <-ctx.Done():
			cancelled = true
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	if cancelled {
		return model.Report{}, ctx.Err()
	}

	// 4) Second pass over the complete result set: collisions can only be
	// seen once every record has claimed its supplier record, which is what
	// keeps the outcome independent of input and completion order.
	markAmbiguous(results)

	report := BuildReport(results, skipped)
	logger.Info().
		Int("catalog", len(catalog)).
		Int("suppliers", len(suppliers)).
		Int("matched", report.Summary.Matched).
		Int("warned", report.Summary.Warned).
		Int("unmatched", report.Summary.Unmatched).
		Int("ambiguous", report.Summary.Ambiguous).
		Int("skipped", report.Summary.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("reconcile done")
	return report, nil
}

// matchAcross runs the chain against each supplier and keeps the
// best-ranked outcome (strategy priority, then confidence, then supplier
// name). With FirstMatchWins the first supplier in name order that
// produces any match short-circuits.
func matchAcross(rec model.CatalogRecord, indexes []*Index, opt model.Options) model.MatchResult {
	best := model.MatchResult{
		CatalogID:         rec.ID,
		Strategy:          model.StrategyNone,
		IsPromotionalItem: IsPromotionalItem(rec.Title, rec.Price, opt.PromoKeywords),
	}
	for _, idx := range indexes {
		r := MatchOne(rec, idx, opt)
		if better(r, best) {
			best = r
		}
		if best.Matched() && opt.FirstMatchWins {
			break
		}
	}
	return best
}

func strategyRank(s model.Strategy) int {
	switch s {
	case model.StrategyExactSKU:
		return 0
	case model.StrategyNormalizedSKU:
		return 1
	case model.StrategyBarcode:
		return 2
	case model.StrategyFuzzyName:
		return 3
	default:
		return 4
	}
}

func better(a, b model.MatchResult) bool {
	if ra, rb := strategyRank(a.Strategy), strategyRank(b.Strategy); ra != rb {
		return ra < rb
	}
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Strategy == model.StrategyNone {
		// keep the promo-override evidence when nothing matched anywhere
		return a.Warning != "" && b.Warning == ""
	}
	return a.SupplierName < b.SupplierName
}

// markAmbiguous relabels every result in a group of catalog records that
// claimed the same supplier record. Relabeling is all-or-nothing per
// group: never one ambiguous and one clean match.
func markAmbiguous(results []model.MatchResult) {
	groups := make(map[string][]int)
	for i, r := range results {
		if !r.Matched() {
			continue
		}
		key := r.SupplierName + "\x00" + r.MatchedSupplierID
		groups[key] = append(groups[key], i)
	}
	for _, members := range groups {
		ids := make(map[string]struct{}, len(members))
		for _, i := range members {
			ids[results[i].CatalogID] = struct{}{}
		}
		if len(ids) < 2 {
			continue
		}
		sorted := make([]string, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)
		for _, i := range members {
			results[i].Ambiguous = true
			results[i].Warning = fmt.Sprintf(
				"supplier record %s claimed by catalog records %s",
				results[i].MatchedSupplierID, strings.Join(sorted, ", "))
		}
	}
}
