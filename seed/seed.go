// Package seed loads a catalog fixture (categories, products, dimensions
// and variants) from JSON into the database.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/itechcomputers/storefront/apperr"
	"github.com/itechcomputers/storefront/models"
	"github.com/itechcomputers/storefront/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type File struct {
	Categories []Category `json:"categories" validate:"dive"`
	Products   []Product  `json:"products" validate:"dive"`
}

type Category struct {
	Slug      string `json:"slug" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Required  bool   `json:"required"`
	SortOrder int    `json:"sortOrder"`
	InBuilder bool   `json:"inBuilder"`
}

type Product struct {
	Slug          string           `json:"slug" validate:"required"`
	Name          string           `json:"name" validate:"required"`
	Description   string           `json:"description"`
	Category      string           `json:"category" validate:"required"`
	Price         decimal.Decimal  `json:"price"`
	OfferPrice    *decimal.Decimal `json:"offerPrice"`
	StockQuantity int              `json:"stockQuantity" validate:"gte=0"`
	Inactive      bool             `json:"inactive"`
	Attributes    []Dimension      `json:"attributes" validate:"dive"`
	Variants      []Variant        `json:"variants" validate:"dive"`
}

type Dimension struct {
	Key    string   `json:"key" validate:"required"`
	Label  string   `json:"label" validate:"required"`
	Values []string `json:"values"`
}

type Variant struct {
	Name          string             `json:"name" validate:"required"`
	SKU           string             `json:"sku" validate:"required"`
	Price         decimal.Decimal    `json:"price"`
	OfferPrice    *decimal.Decimal   `json:"offerPrice"`
	StockQuantity int                `json:"stockQuantity" validate:"gte=0"`
	Inactive      bool               `json:"inactive"`
	Attributes    []VariantAttribute `json:"attributes" validate:"dive"`
}

type VariantAttribute struct {
	Key          string `json:"key" validate:"required"`
	Value        string `json:"value" validate:"required"`
	DisplayValue string `json:"displayValue"`
	HexCode      string `json:"hexCode" validate:"omitempty,hexcolor"`
	IsColor      bool   `json:"isColor"`
}

// Parse decodes and validates a fixture.
func Parse(r io.Reader) (*File, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	if err := validation.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	if fields := negativePrices(&f); len(fields) > 0 {
		return nil, fmt.Errorf("invalid seed file: %w",
			apperr.InvalidErr("Please correct the highlighted fields", fields))
	}
	return &f, nil
}

// negativePrices reports every price or offer below zero, keyed like the
// validator's field paths.
func negativePrices(f *File) map[string]string {
	fields := map[string]string{}
	check := func(path string, d decimal.Decimal) {
		if d.IsNegative() {
			fields[path] = "must be at least 0"
		}
	}
	for i, p := range f.Products {
		base := fmt.Sprintf("products[%d]", i)
		check(base+".price", p.Price)
		if p.OfferPrice != nil {
			check(base+".offerPrice", *p.OfferPrice)
		}
		for j, v := range p.Variants {
			vbase := fmt.Sprintf("%s.variants[%d]", base, j)
			check(vbase+".price", v.Price)
			if v.OfferPrice != nil {
				check(vbase+".offerPrice", *v.OfferPrice)
			}
		}
	}
	return fields
}

type CategoryStore interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
}

// Result lists what Apply inserted.
type Result struct {
	Categories int
	Products   int
	Skipped    int
	// Touched holds the category slugs that received new products.
	Touched []string
}

// Apply inserts everything in f that is not there yet. Existing slugs and
// SKUs are skipped, so a fixture can be applied repeatedly.
func Apply(ctx context.Context, cats CategoryStore, products ProductStore, f *File, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	res := &Result{}

	for _, c := range f.Categories {
		err := cats.CreateCategory(ctx, &models.Category{
			Slug:      c.Slug,
			Name:      c.Name,
			Required:  c.Required,
			SortOrder: c.SortOrder,
			InBuilder: c.InBuilder,
		})
		switch {
		case errors.Is(err, models.ErrAlreadyExists):
			res.Skipped++
		case err != nil:
			return nil, fmt.Errorf("create category %q: %w", c.Slug, err)
		default:
			res.Categories++
		}
	}

	existing, err := cats.GetAllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	ids := make(map[string]uint, len(existing))
	for _, c := range existing {
		ids[c.Slug] = c.ID
	}

	touched := map[string]bool{}
	for _, p := range f.Products {
		catID, ok := ids[p.Category]
		if !ok {
			return nil, fmt.Errorf("product %q: unknown category %q", p.Slug, p.Category)
		}
		product := toProduct(p, catID)
		err := products.Create(ctx, product)
		switch {
		case errors.Is(err, models.ErrAlreadyExists):
			logger.Debug("product already present", zap.String("slug", p.Slug))
			res.Skipped++
		case err != nil:
			return nil, fmt.Errorf("create product %q: %w", p.Slug, err)
		default:
			res.Products++
			if !touched[p.Category] {
				touched[p.Category] = true
				res.Touched = append(res.Touched, p.Category)
			}
		}
	}
	return res, nil
}

func toProduct(p Product, categoryID uint) *models.Product {
	product := &models.Product{
		Slug:          p.Slug,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OfferPrice:    nullable(p.OfferPrice),
		StockQuantity: p.StockQuantity,
		IsActive:      !p.Inactive,
		CategoryID:    categoryID,
	}
	for i, d := range p.Attributes {
		product.Attributes = append(product.Attributes, models.AttributeDimension{
			Key:            d.Key,
			Label:          d.Label,
			PossibleValues: d.Values,
			SortOrder:      i,
		})
	}
	for _, v := range p.Variants {
		variant := models.Variant{
			Name:          v.Name,
			SKU:           v.SKU,
			Price:         v.Price,
			OfferPrice:    nullable(v.OfferPrice),
			StockQuantity: v.StockQuantity,
			IsActive:      !v.Inactive,
		}
		for _, a := range v.Attributes {
			variant.Attributes = append(variant.Attributes, models.VariantAttribute{
				Key:          a.Key,
				Value:        a.Value,
				DisplayValue: a.DisplayValue,
				HexCode:      a.HexCode,
				IsColor:      a.IsColor,
			})
		}
		product.Variants = append(product.Variants, variant)
	}
	return product
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
