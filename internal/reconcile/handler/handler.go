package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"product-recon/internal/config"
	"product-recon/internal/fileio"
	"product-recon/internal/reconcile/model"
	recSvc "product-recon/internal/reconcile/service"
)

// Reconcile returns the handler for POST /reconcile. Multipart form:
//
//	catalog         one storefront export (csv/xlsx/xls)
//	supplier        one or more supplier feeds
//	supplier_names  comma-separated names, positional; filename otherwise
//	catalog_*       column overrides (catalog_sku, catalog_title, ...)
//	supplier_*      same for the supplier side
//	threshold, warn_threshold, promo_floor, first_match_wins
func Reconcile(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log := logger
		if rid := r.Header.Get("X-Request-ID"); rid != "" {
			log = logger.With().Str("req_id", rid).Logger()
		}

		defer r.Body.Close()
		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		catalogMaps, err := readFormFile(r, "catalog", atoi(r.FormValue("catalog_header_row"), 1))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		supplierHeaders := r.MultipartForm.File["supplier"]
		if len(supplierHeaders) == 0 {
			http.Error(w, "missing supplier file(s)", http.StatusBadRequest)
			return
		}
		names := splitNames(r.FormValue("supplier_names"))

		catMap := model.Mapping{
			IDKey:      orDefault(r.FormValue("catalog_id"), defaultIDKey),
			SkuKey:     orDefault(r.FormValue("catalog_sku"), defaultSkuKey),
			BarcodeKey: orDefault(r.FormValue("catalog_barcode"), defaultBarcodeKey),
			TitleKey:   orDefault(r.FormValue("catalog_title"), defaultTitleKey),
			PriceKey:   orDefault(r.FormValue("catalog_price"), defaultPriceKey),
			BrandKey:   orDefault(r.FormValue("catalog_brand"), defaultBrandKey),
			HeaderRow:  atoi(r.FormValue("catalog_header_row"), 1),
		}
		supMap := model.Mapping{
			IDKey:      orDefault(r.FormValue("supplier_id"), defaultIDKey),
			SkuKey:     orDefault(r.FormValue("supplier_sku"), defaultSkuKey),
			BarcodeKey: orDefault(r.FormValue("supplier_barcode"), defaultBarcodeKey),
			TitleKey:   orDefault(r.FormValue("supplier_title"), defaultTitleKey),
			HeaderRow:  atoi(r.FormValue("supplier_header_row"), 1),
		}

		catalog := toCatalogRecords(catalogMaps, catMap)

		suppliers := make(map[string][]model.SupplierRecord, len(supplierHeaders))
		for i, fh := range supplierHeaders {
			name := supplierName(names, i, fh.Filename)
			maps, err := readMultipartFile(fh, supMap.HeaderRow)
			if err != nil {
				http.Error(w, "failed to read supplier "+name+": "+err.Error(), http.StatusBadRequest)
				return
			}
			suppliers[name] = append(suppliers[name], toSupplierRecords(maps, supMap, name)...)
		}

		opt := model.Options{
			SimilarityThreshold:  toFloat(r.FormValue("threshold"), cfg.SimilarityThreshold),
			WarnThreshold:        toFloat(r.FormValue("warn_threshold"), cfg.WarnThreshold),
			PromoSimilarityFloor: toFloat(r.FormValue("promo_floor"), cfg.PromoSimilarityFloor),
			PromoFuzzyThreshold:  toFloat(r.FormValue("promo_fuzzy_threshold"), cfg.PromoFuzzyThreshold),
			Workers:              atoi(r.FormValue("workers"), cfg.MatchWorkers),
			FirstMatchWins:       toBool(r.FormValue("first_match_wins"), false),
		}

		report, err := recSvc.Reconcile(r.Context(), catalog, suppliers, opt, log)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				log.Warn().Err(err).Msg("reconcile aborted")
				return
			}
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}

		log.Info().
			Int("catalog", len(catalog)).
			Int("suppliers", len(suppliers)).
			Dur("elapsed", time.Since(start)).
			Msg("reconcile request done")
	}
}

func readFormFile(r *http.Request, field string, headerRow int) ([]map[string]string, error) {
	f, fh, err := r.FormFile(field)
	if err != nil {
		return nil, errors.New("missing " + field + ": " + err.Error())
	}
	defer f.Close()
	maps, err := fileio.ReadAnyMaps(f, fh.Filename, headerRow)
	if err != nil {
		return nil, errors.New("failed to read " + field + ": " + err.Error())
	}
	return maps, nil
}

func readMultipartFile(fh *multipart.FileHeader, headerRow int) ([]map[string]string, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return fileio.ReadAnyMaps(f, fh.Filename, headerRow)
}

func splitNames(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func supplierName(names []string, i int, filename string) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
