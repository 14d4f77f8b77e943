package compat

import (
	"fmt"
	"testing"

	"github.com/itechcomputers/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func newVariant(id uint, stock int, active bool, attrs ...string) models.Variant {
	v := models.Variant{
		ID:            id,
		SKU:           fmt.Sprintf("SKU-%d", id),
		Price:         decimal.NewFromInt(int64(100 + id)),
		StockQuantity: stock,
		IsActive:      active,
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		v.Attributes = append(v.Attributes, models.VariantAttribute{Key: attrs[i], Value: attrs[i+1]})
	}
	return v
}

func laptopVariants() []models.Variant {
	return []models.Variant{
		newVariant(1, 5, true, "color", "black", "storage", "512gb"),
		newVariant(2, 0, true, "color", "black", "storage", "1tb"),
		newVariant(3, 3, true, "color", "silver", "storage", "512gb"),
		newVariant(4, 2, false, "color", "silver", "storage", "1tb"),
	}
}

// --- Tests ---

func TestResolve(t *testing.T) {
	testCases := []struct {
		name          string
		variants      []models.Variant
		current       Selection
		changedKey    string
		changedValue  string
		wantVariantID uint
		wantExact     bool
		wantSelection Selection
	}{
		{
			name:          "Exact match",
			variants:      laptopVariants(),
			current:       Selection{"color": "black", "storage": "512gb"},
			changedKey:    "storage",
			changedValue:  "1tb",
			wantVariantID: 2,
			wantExact:     true,
			wantSelection: Selection{"color": "black", "storage": "1tb"},
		},
		{
			name:          "Exact match wins over an in-stock partial match",
			variants:      laptopVariants(),
			current:       Selection{"color": "silver"},
			changedKey:    "color",
			changedValue:  "black",
			wantVariantID: 1,
			wantExact:     true,
			wantSelection: Selection{"color": "black"},
		},
		{
			name:          "Inactive exact match is skipped, changed key is honoured",
			variants:      laptopVariants(),
			current:       Selection{"color": "black", "storage": "1tb"},
			changedKey:    "color",
			changedValue:  "silver",
			wantVariantID: 3,
			wantExact:     false,
			wantSelection: Selection{"color": "silver", "storage": "512gb"},
		},
		{
			name:          "Empty value clears the key",
			variants:      laptopVariants(),
			current:       Selection{"color": "silver", "storage": "512gb"},
			changedKey:    "storage",
			changedValue:  "",
			wantVariantID: 3,
			wantExact:     true,
			wantSelection: Selection{"color": "silver"},
		},
		{
			name: "Falls back to out-of-stock variants when nothing is in stock",
			variants: []models.Variant{
				newVariant(1, 0, true, "color", "red"),
				newVariant(2, 0, true, "color", "blue"),
			},
			current:       Selection{},
			changedKey:    "color",
			changedValue:  "green",
			wantVariantID: 1,
			wantExact:     false,
			wantSelection: Selection{"color": "red"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			res := Resolve(tc.variants, tc.current, tc.changedKey, tc.changedValue)

			// Assert
			require.NotNil(t, res.Variant)
			assert.Equal(t, tc.wantVariantID, res.Variant.ID)
			assert.Equal(t, tc.wantExact, res.Exact)
			assert.Equal(t, tc.wantSelection, res.Selection)
		})
	}
}

func TestResolvePrefersChangedKeyOverScore(t *testing.T) {
	variants := []models.Variant{
		// keeps ram and storage, drops the clicked color
		newVariant(1, 1, true, "color", "black", "ram", "16gb", "storage", "1tb"),
		// keeps only the clicked color
		newVariant(2, 1, true, "color", "white", "ram", "8gb", "storage", "256gb"),
	}

	res := Resolve(variants, Selection{"ram": "16gb", "storage": "1tb"}, "color", "white")

	require.NotNil(t, res.Variant)
	assert.False(t, res.Exact)
	assert.Equal(t, uint(2), res.Variant.ID)
}

func TestResolveClickedValueOutranksHigherScore(t *testing.T) {
	variants := []models.Variant{
		// drops the clicked color but keeps all four other attributes
		newVariant(1, 1, true, "color", "black", "ram", "16gb", "storage", "1tb", "panel", "oled", "keyboard", "uk"),
		// keeps only the clicked color
		newVariant(2, 1, true, "color", "white", "ram", "8gb", "storage", "256gb", "panel", "ips", "keyboard", "us"),
	}
	current := Selection{"ram": "16gb", "storage": "1tb", "panel": "oled", "keyboard": "uk"}

	res := Resolve(variants, current, "color", "white")

	require.NotNil(t, res.Variant)
	assert.Equal(t, uint(2), res.Variant.ID)
	assert.Equal(t, "white", res.Selection["color"])
}

func TestResolveRanksByScoreWhenClickedValueKept(t *testing.T) {
	variants := []models.Variant{
		newVariant(1, 1, true, "color", "white", "ram", "8gb", "storage", "256gb"),
		newVariant(2, 1, true, "color", "white", "ram", "16gb", "storage", "256gb"),
		newVariant(3, 1, true, "color", "white", "ram", "8gb", "storage", "256gb"),
	}

	res := Resolve(variants, Selection{"ram": "16gb", "storage": "1tb"}, "color", "white")

	require.NotNil(t, res.Variant)
	assert.Equal(t, uint(2), res.Variant.ID, "higher score wins among variants keeping the clicked value")
}

func TestResolveEmptyCatalog(t *testing.T) {
	assert.NotPanics(t, func() {
		res := Resolve(nil, Selection{"color": "black"}, "storage", "1tb")
		assert.Nil(t, res.Variant)
		assert.False(t, res.Exact)
		assert.Equal(t, Selection{"color": "black", "storage": "1tb"}, res.Selection)
	})
}

func TestResolveOnlyInactiveVariants(t *testing.T) {
	variants := []models.Variant{newVariant(1, 4, false, "color", "black")}

	res := Resolve(variants, nil, "color", "black")

	assert.Nil(t, res.Variant)
}

func TestResolveConflictingDimensionsStillReturnsBestEffort(t *testing.T) {
	variants := []models.Variant{
		newVariant(1, 1, true, "color", "black", "size", "s"),
		newVariant(2, 1, true, "color", "white", "size", "m"),
	}

	res := Resolve(variants, Selection{"size": "s"}, "color", "white")

	require.NotNil(t, res.Variant)
	assert.False(t, res.Exact)
	assert.Equal(t, uint(2), res.Variant.ID)
}

func TestMatch(t *testing.T) {
	v := newVariant(1, 1, true, "color", "black", "storage", "1tb")

	assert.True(t, Match(&v, Selection{}))
	assert.True(t, Match(&v, Selection{"color": "black"}))
	assert.True(t, Match(&v, Selection{"color": "black", "storage": "1tb"}))
	assert.False(t, Match(&v, Selection{"color": "white"}))
	assert.False(t, Match(&v, Selection{"ram": "16gb"}))

	malformed := models.Variant{ID: 9, IsActive: true}
	assert.False(t, Match(&malformed, Selection{"color": "black"}))
}

func TestSelectionCloneDropsEmptyValues(t *testing.T) {
	sel := Selection{"color": "black", "storage": ""}

	clone := sel.Clone()
	clone["ram"] = "8gb"

	assert.Equal(t, Selection{"color": "black", "ram": "8gb"}, clone)
	assert.Len(t, sel, 2, "original must not change")
}
