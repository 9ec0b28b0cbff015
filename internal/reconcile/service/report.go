package service

import (
	"sort"

	"product-recon/internal/reconcile/model"
)

// BuildReport partitions results into the report buckets and sorts each
// bucket by catalog id, so two runs over the same snapshots diff cleanly
// no matter what order the workers finished in.
func BuildReport(results []model.MatchResult, skipped []model.RecordError) model.Report {
	rep := model.Report{
		Matched:   []model.MatchResult{},
		Unmatched: []model.MatchResult{},
		Ambiguous: []model.MatchResult{},
		Skipped:   skipped,
		Summary: model.Summary{
			Total:      len(results) + len(skipped),
			Skipped:    len(skipped),
			ByStrategy: make(map[model.Strategy]int),
			BySupplier: make(map[string]int),
		},
	}

	for _, r := range results {
		rep.Summary.ByStrategy[r.Strategy]++
		if r.SupplierName != "" {
			rep.Summary.BySupplier[r.SupplierName]++
		}
		switch {
		case r.Ambiguous:
			rep.Ambiguous = append(rep.Ambiguous, r)
		case !r.Matched():
			rep.Unmatched = append(rep.Unmatched, r)
		default:
			rep.Matched = append(rep.Matched, r)
			if r.Warning != "" {
				rep.Summary.Warned++
			}
		}
	}

	byCatalogID := func(rs []model.MatchResult) {
		sort.SliceStable(rs, func(i, j int) bool { return rs[i].CatalogID < rs[j].CatalogID })
	}
	byCatalogID(rep.Matched)
	byCatalogID(rep.Unmatched)
	byCatalogID(rep.Ambiguous)
	sort.SliceStable(rep.Skipped, func(i, j int) bool { return rep.Skipped[i].Index < rep.Skipped[j].Index })

	rep.Summary.Matched = len(rep.Matched)
	rep.Summary.Unmatched = len(rep.Unmatched)
	rep.Summary.Ambiguous = len(rep.Ambiguous)
	return rep
}

// GroupBy buckets results by an arbitrary key, for ad-hoc breakdowns like
// unmatched-by-brand-prefix. Keys with empty values are kept as "".
func GroupBy(results []model.MatchResult, keyFn func(model.MatchResult) string) map[string][]model.MatchResult {
	out := make(map[string][]model.MatchResult)
	for _, r := range results {
		k := keyFn(r)
		out[k] = append(out[k], r)
	}
	return out
}
