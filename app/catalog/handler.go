package catalog

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/itechcomputers/storefront/app/httpx"
	"github.com/itechcomputers/storefront/apperr"
	"github.com/itechcomputers/storefront/compat"
	"github.com/itechcomputers/storefront/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Response struct {
	Total    int       `json:"total"`
	Products []Product `json:"products"`
}

type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type Product struct {
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	OfferPrice *float64 `json:"offerPrice,omitempty"`
	InStock    bool     `json:"inStock"`
	Category   Category `json:"category"`
}

type Attribute struct {
	Key          string `json:"key"`
	Value        string `json:"value"`
	DisplayValue string `json:"displayValue"`
	HexCode      string `json:"hexCode,omitempty"`
	IsColor      bool   `json:"isColor"`
}

type Variant struct {
	ID            uint        `json:"id"`
	Name          string      `json:"name"`
	SKU           string      `json:"sku"`
	Price         float64     `json:"price"`
	OfferPrice    *float64    `json:"offerPrice,omitempty"`
	StockQuantity int         `json:"stockQuantity"`
	InStock       bool        `json:"inStock"`
	Attributes    []Attribute `json:"attributes"`
}

type ProductDetail struct {
	Product
	Description string                    `json:"description"`
	Variants    []Variant                 `json:"variants"`
	Dimensions  []compat.DimensionOptions `json:"dimensions"`
}

type ResolveRequest struct {
	Selection    compat.Selection `json:"selection"`
	ChangedKey   string           `json:"changedKey" validate:"required"`
	ChangedValue string           `json:"changedValue"`
}

type ResolveResponse struct {
	Variant    *Variant                  `json:"variant"`
	Exact      bool                      `json:"exact"`
	Selection  compat.Selection          `json:"selection"`
	Dimensions []compat.DimensionOptions `json:"dimensions"`
}

type ProductProvider interface {
	GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
}

type CatalogHandler struct {
	repo   ProductProvider
	logger *zap.Logger
}

func NewCatalogHandler(r ProductProvider, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{
		repo:   r,
		logger: logger,
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	// Parse pagination query params
	offset := 0
	limit := 10

	if oStr := r.URL.Query().Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			offset = o
		}
	}

	if lStr := r.URL.Query().Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			if l < 1 {
				limit = 1
			} else if l > 100 {
				limit = 100
			} else {
				limit = l
			}
		}
	}

	// Parse filters
	var priceFilter *float64
	if priceStr := r.URL.Query().Get("price_lt"); priceStr != "" {
		if val, err := strconv.ParseFloat(priceStr, 64); err == nil {
			priceFilter = &val
		}
	}

	filters := models.ProductFilters{
		CategorySlug:  r.URL.Query().Get("category"),
		PriceLessThan: priceFilter,
		Search:        r.URL.Query().Get("search"),
	}

	res, total, err := h.repo.GetFilteredProducts(r.Context(), offset, limit, filters)
	if err != nil {
		httpx.WriteAppError(w, r, h.logger, apperr.Wrap(err, "failed to get products"))
		return
	}

	products := make([]Product, len(res))
	for i, p := range res {
		products[i] = toProduct(p)
	}

	httpx.WriteJSON(w, http.StatusOK, Response{
		Total:    int(total),
		Products: products,
	})
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	variants := make([]Variant, 0, len(product.Variants))
	for _, v := range product.Variants {
		if v.IsActive {
			variants = append(variants, toVariant(product, v))
		}
	}

	httpx.WriteJSON(w, http.StatusOK, ProductDetail{
		Product:     toProduct(*product),
		Description: product.Description,
		Variants:    variants,
		Dimensions:  compat.Availability(product.Attributes, product.Variants, compat.Selection{}),
	})
}

// HandleResolve applies one attribute click to the shopper's selection and
// returns the variant to show plus the refreshed option availability.
func (h *CatalogHandler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}

	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}

	res := compat.Resolve(product.Variants, req.Selection, req.ChangedKey, req.ChangedValue)
	resp := ResolveResponse{
		Exact:      res.Exact,
		Selection:  res.Selection,
		Dimensions: compat.Availability(product.Attributes, product.Variants, res.Selection),
	}
	if res.Variant != nil {
		v := toVariant(product, *res.Variant)
		resp.Variant = &v
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *CatalogHandler) loadProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	slug := r.PathValue("slug")

	product, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			httpx.WriteAppError(w, r, h.logger, apperr.NotFoundErr("Product not found"))
		} else {
			httpx.WriteAppError(w, r, h.logger, apperr.Wrap(err, "Failed to retrieve product"))
		}
		return nil, false
	}
	if !product.IsActive {
		httpx.WriteAppError(w, r, h.logger, apperr.NotFoundErr("Product not found"))
		return nil, false
	}
	return product, true
}

func toProduct(p models.Product) Product {
	return Product{
		Slug:       p.Slug,
		Name:       p.Name,
		Price:      p.Price.InexactFloat64(),
		OfferPrice: offerOf(p.Price, p.OfferPrice),
		InStock:    p.StockQuantity > 0,
		Category: Category{
			Slug: p.Category.Slug,
			Name: p.Category.Name,
		},
	}
}

// toVariant maps a variant for output. A variant without its own price
// inherits the product price.
func toVariant(p *models.Product, v models.Variant) Variant {
	price := v.Price
	offer := v.OfferPrice
	if price.IsZero() {
		price = p.Price
		if !offer.Valid {
			offer = p.OfferPrice
		}
	}

	attrs := make([]Attribute, len(v.Attributes))
	for i, a := range v.Attributes {
		display := a.DisplayValue
		if display == "" {
			display = a.Value
		}
		attrs[i] = Attribute{
			Key:          a.Key,
			Value:        a.Value,
			DisplayValue: display,
			HexCode:      a.HexCode,
			IsColor:      a.IsColor,
		}
	}

	return Variant{
		ID:            v.ID,
		Name:          v.Name,
		SKU:           v.SKU,
		Price:         price.InexactFloat64(),
		OfferPrice:    offerOf(price, offer),
		StockQuantity: v.StockQuantity,
		InStock:       v.StockQuantity > 0,
		Attributes:    attrs,
	}
}

func offerOf(price decimal.Decimal, offer decimal.NullDecimal) *float64 {
	eff := models.EffectivePrice(price, offer)
	if eff.Equal(price) {
		return nil
	}
	f := eff.InexactFloat64()
	return &f
}
