package compat

import (
	"slices"

	"github.com/itechcomputers/storefront/models"
)

// Option is one value of a dimension as shown to the shopper.
type Option struct {
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
	HexCode      string `json:"hexCode,omitempty"`
	IsColor      bool   `json:"isColor"`
	// Available is false when no active variant carries this value together
	// with the sibling dimensions already selected.
	Available bool `json:"available"`
	// InStock is true when at least one of those variants has stock. It
	// never hides an option; it only drives the "Out of Stock" badge.
	InStock  bool `json:"inStock"`
	Selected bool `json:"selected"`
}

// DimensionOptions is the option list of one attribute dimension.
type DimensionOptions struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Options []Option `json:"options"`
}

// Availability computes, for every dimension, which values remain
// reachable. A dimension is only gated by its siblings: its own current
// value is ignored so every alternative for it stays visible.
func Availability(dimensions []models.AttributeDimension, variants []models.Variant, sel Selection) []DimensionOptions {
	if len(dimensions) == 0 {
		dimensions = DimensionsFromVariants(variants)
	}

	out := make([]DimensionOptions, 0, len(dimensions))
	for _, d := range dimensions {
		values := []string(d.PossibleValues)
		if len(values) == 0 {
			values = valuesOf(variants, d.Key)
		}

		dim := DimensionOptions{Key: d.Key, Label: d.Label, Options: make([]Option, 0, len(values))}
		for _, val := range values {
			opt := Option{Value: val, DisplayValue: val, Selected: sel[d.Key] == val}
			described := false
			for i := range variants {
				v := &variants[i]
				attr, ok := attributeOf(v, d.Key, val)
				if !ok {
					continue
				}
				if !described {
					if attr.DisplayValue != "" {
						opt.DisplayValue = attr.DisplayValue
					}
					opt.HexCode = attr.HexCode
					opt.IsColor = attr.IsColor
					described = true
				}
				if !v.IsActive || !matchExcept(v, sel, d.Key) {
					continue
				}
				opt.Available = true
				if v.StockQuantity > 0 {
					opt.InStock = true
				}
			}
			dim.Options = append(dim.Options, opt)
		}
		out = append(out, dim)
	}
	return out
}

// CompatibleValues lists the values of key reachable under sel, in the
// order they first appear in variants.
func CompatibleValues(variants []models.Variant, sel Selection, key string) []string {
	var out []string
	seen := make(map[string]bool)
	for i := range variants {
		v := &variants[i]
		if !v.IsActive || !matchExcept(v, sel, key) {
			continue
		}
		for _, a := range v.Attributes {
			if a.Key == key && !seen[a.Value] {
				seen[a.Value] = true
				out = append(out, a.Value)
			}
		}
	}
	return out
}

// DimensionsFromVariants derives the attribute dimensions from the
// variants themselves, keys and values in first-seen order. Used when a
// product ships variants but no attribute catalog.
func DimensionsFromVariants(variants []models.Variant) []models.AttributeDimension {
	var dims []models.AttributeDimension
	index := make(map[string]int)
	for _, v := range variants {
		for _, a := range v.Attributes {
			if a.Key == "" {
				continue
			}
			i, ok := index[a.Key]
			if !ok {
				i = len(dims)
				index[a.Key] = i
				dims = append(dims, models.AttributeDimension{Key: a.Key, Label: a.Key, SortOrder: i})
			}
			if !slices.Contains(dims[i].PossibleValues, a.Value) {
				dims[i].PossibleValues = append(dims[i].PossibleValues, a.Value)
			}
		}
	}
	return dims
}

func attributeOf(v *models.Variant, key, value string) (models.VariantAttribute, bool) {
	for _, a := range v.Attributes {
		if a.Key == key && a.Value == value {
			return a, true
		}
	}
	return models.VariantAttribute{}, false
}

func valuesOf(variants []models.Variant, key string) []string {
	var out []string
	for _, v := range variants {
		for _, a := range v.Attributes {
			if a.Key == key && !slices.Contains(out, a.Value) {
				out = append(out, a.Value)
			}
		}
	}
	return out
}
