package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Host         string
	Port         int
	AllowOrigins []string
	LogLevel     string
	MaxUploadMB  int
	LogFile      string

	// Engine defaults; per-request form fields can override them.
	SimilarityThreshold  float64
	WarnThreshold        float64
	PromoSimilarityFloor float64
	PromoFuzzyThreshold  float64
	MatchWorkers         int
}

func Load() Config {
	port, _ := strconv.Atoi(getenv("PORT", "8083"))
	mb, _ := strconv.Atoi(getenv("MAX_UPLOAD_MB", "256"))
	workers, _ := strconv.Atoi(getenv("MATCH_WORKERS", "0"))
	origins := strings.Split(getenv("ALLOW_ORIGINS", "*"), ",")
	return Config{
		Host:         getenv("HOST", "127.0.0.1"),
		Port:         port,
		AllowOrigins: origins,
		LogLevel:     getenv("LOG_LEVEL", "info"),
		MaxUploadMB:  mb,
		LogFile:      getenv("LOG_FILE", "logs/product-recon.log"),

		SimilarityThreshold:  getenvFloat("MATCH_THRESHOLD", 0.3),
		WarnThreshold:        getenvFloat("WARN_THRESHOLD", 0.5),
		PromoSimilarityFloor: getenvFloat("PROMO_SIMILARITY_FLOOR", 0.2),
		PromoFuzzyThreshold:  getenvFloat("PROMO_FUZZY_THRESHOLD", 0.4),
		MatchWorkers:         workers,
	}
}

func (c Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvFloat(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
