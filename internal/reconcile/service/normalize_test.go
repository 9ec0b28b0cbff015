package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("strips separators and upper-cases", func(t *testing.T) {
		assert.Equal(t, "KIK250", Normalize("KIK-250"))
		assert.Equal(t, "KIK250", Normalize("kik 250"))
		assert.Equal(t, "KIK250", Normalize("KIK_250"))
		assert.Equal(t, "KIK250", Normalize("  kik - 250  "))
	})

	t.Run("empty input stays empty", func(t *testing.T) {
		assert.Equal(t, "", Normalize(""))
	})

	t.Run("separator-only input reduces to empty", func(t *testing.T) {
		assert.Equal(t, "", Normalize(" -_ "))
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, s := range []string{"", "KIK-250", "ab c_d", "ÖKO-12", "x", "123 456"} {
			once := Normalize(s)
			assert.Equal(t, once, Normalize(once), "input %q", s)
		}
	})

	t.Run("total over non-ascii", func(t *testing.T) {
		assert.NotPanics(t, func() { Normalize("产品-123 ß") })
	})
}

func TestNormalizeBarcode(t *testing.T) {
	t.Run("strips leading zeros after normalizing", func(t *testing.T) {
		assert.Equal(t, "9312345678901", NormalizeBarcode("09312345678901"))
		assert.Equal(t, "9312345678901", NormalizeBarcode("9312345678901"))
		assert.Equal(t, "9312345678901", NormalizeBarcode("0 9312-3456-78901"))
	})

	t.Run("all zeros reduce to no identifier", func(t *testing.T) {
		assert.Equal(t, "", NormalizeBarcode("0000"))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", NormalizeBarcode(""))
	})
}

func TestStripSupplierPrefix(t *testing.T) {
	t.Run("two to four letter prefixes", func(t *testing.T) {
		rest, ok := StripSupplierPrefix("KIK-TEE-250")
		require.True(t, ok)
		assert.Equal(t, "TEE-250", rest)

		rest, ok = StripSupplierPrefix("UN - 12345")
		require.True(t, ok)
		assert.Equal(t, "12345", rest)

		rest, ok = StripSupplierPrefix("ab_99")
		require.True(t, ok)
		assert.Equal(t, "99", rest)
	})

	t.Run("no separator means no prefix", func(t *testing.T) {
		_, ok := StripSupplierPrefix("KIK250")
		assert.False(t, ok)
	})

	t.Run("digit or long prefixes are not supplier codes", func(t *testing.T) {
		_, ok := StripSupplierPrefix("12-250")
		assert.False(t, ok)
		_, ok = StripSupplierPrefix("ABCDE-250")
		assert.False(t, ok)
		_, ok = StripSupplierPrefix("X-250")
		assert.False(t, ok)
	})
}
