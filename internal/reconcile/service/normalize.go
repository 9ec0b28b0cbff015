package service

import (
	"regexp"
	"strings"
)

// Separators that vary freely between feeds: "KIK-250" == "kik 250" == "KIK_250".
var reSeparators = regexp.MustCompile(`[\s\-_]+`)

// 2-4 letter alphabetic prefix followed by a separator, the shape storefront
// SKUs use to embed a supplier code ("KIK-TEE-250" → supplier sells "TEE-250").
var reSupplierPrefix = regexp.MustCompile(`^([A-Za-z]{2,4})[\s\-_]+(.+)$`)

// Normalize canonicalizes an identifier: upper-case, separators removed.
// Empty input stays empty; an empty result means "no identifier" and must
// never be matched on.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	return reSeparators.ReplaceAllString(strings.ToUpper(raw), "")
}

// NormalizeBarcode is Normalize plus leading-zero stripping: GTIN/UPC
// check-digit padding differs per feed ("09312..." vs "9312...").
func NormalizeBarcode(raw string) string {
	return strings.TrimLeft(Normalize(raw), "0")
}

// StripSupplierPrefix returns the raw SKU with its embedded supplier code
// removed, and whether one was present. Works on the raw string: the
// separator is what marks the prefix, and Normalize would erase it.
func StripSupplierPrefix(raw string) (string, bool) {
	m := reSupplierPrefix.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return "", false
	}
	return m[2], true
}
