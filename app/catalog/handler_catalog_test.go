package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/itechcomputers/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// --- Mock Repo ---

type MockProductRepo struct {
	SourceProducts []models.Product
	Err            error

	// Fields to capture call arguments
	lastCalledOffset  int
	lastCalledLimit   int
	lastCalledFilters models.ProductFilters
	lastCalledSlug    string
}

func (m *MockProductRepo) GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error) {
	m.lastCalledOffset = offset
	m.lastCalledLimit = limit
	m.lastCalledFilters = filters

	if m.Err != nil {
		return nil, 0, m.Err
	}

	// Simulate filtering
	var filteredProducts []models.Product
	for _, p := range m.SourceProducts {
		match := true
		// Category filter
		if filters.CategorySlug != "" && p.Category.Slug != filters.CategorySlug {
			match = false
		}
		// Price filter
		if filters.PriceLessThan != nil && p.Price.InexactFloat64() >= *filters.PriceLessThan {
			match = false
		}
		// Search filter
		if filters.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filters.Search)) {
			match = false
		}

		if match {
			filteredProducts = append(filteredProducts, p)
		}
	}

	total := int64(len(filteredProducts))

	// Simulate pagination
	start := offset
	if start > len(filteredProducts) {
		start = len(filteredProducts)
	}
	end := offset + limit
	if end > len(filteredProducts) {
		end = len(filteredProducts)
	}

	return filteredProducts[start:end], total, nil
}

func (m *MockProductRepo) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	m.lastCalledSlug = slug

	if m.Err != nil {
		return nil, m.Err
	}

	for _, p := range m.SourceProducts {
		if p.Slug == slug {
			product := p
			return &product, nil
		}
	}
	return nil, models.ErrProductNotFound
}

// --- Helpers ---

func newTestProduct(slug, name, categorySlug, categoryName string, price float64) models.Product {
	return models.Product{
		Slug:          slug,
		Name:          name,
		Price:         decimal.NewFromFloat(price),
		StockQuantity: 3,
		IsActive:      true,
		Category: models.Category{
			Slug: categorySlug,
			Name: categoryName,
		},
	}
}

// --- Tests ---

func listingFixture() []models.Product {
	mouse := newTestProduct("logitech-g305", "Logitech G305 Mouse", "peripherals", "Peripherals", 19.99)
	fury := newTestProduct("kingston-fury-16gb", "Kingston Fury 16GB", "memory", "Memory", 24.99)
	fury.OfferPrice = decimal.NewNullDecimal(decimal.RequireFromString("21.50"))
	fan := newTestProduct("arctic-p12", "Arctic P12 Fan", "case-fan", "Case Fans", 10.00)
	fan.StockQuantity = 0
	vengeance := newTestProduct("corsair-vengeance-32gb", "Corsair Vengeance 32GB", "memory", "Memory", 95.50)
	// an offer above the list price is not an offer
	vengeance.OfferPrice = decimal.NewNullDecimal(decimal.NewFromInt(120))
	return []models.Product{mouse, fury, fan, vengeance}
}

func TestHandleGet(t *testing.T) {
	under20, under30 := 20.0, 30.0

	testCases := []struct {
		name        string
		url         string
		wantOffset  int
		wantLimit   int
		wantFilters models.ProductFilters
		wantTotal   int
		wantSlugs   []string
	}{
		{"Defaults", "/products", 0, 10, models.ProductFilters{}, 4,
			[]string{"logitech-g305", "kingston-fury-16gb", "arctic-p12", "corsair-vengeance-32gb"}},
		{"Custom page", "/products?offset=1&limit=2", 1, 2, models.ProductFilters{}, 4,
			[]string{"kingston-fury-16gb", "arctic-p12"}},
		{"Page bounds are clamped", "/products?offset=-10&limit=200", 0, 100, models.ProductFilters{}, 4,
			[]string{"logitech-g305", "kingston-fury-16gb", "arctic-p12", "corsair-vengeance-32gb"}},
		{"Limit below one", "/products?limit=0", 0, 1, models.ProductFilters{}, 4,
			[]string{"logitech-g305"}},
		{"Unparseable values fall back", "/products?offset=abc&limit=xyz&price_lt=def", 0, 10, models.ProductFilters{}, 4,
			[]string{"logitech-g305", "kingston-fury-16gb", "arctic-p12", "corsair-vengeance-32gb"}},
		{"Category", "/products?category=memory", 0, 10, models.ProductFilters{CategorySlug: "memory"}, 2,
			[]string{"kingston-fury-16gb", "corsair-vengeance-32gb"}},
		{"Price below", "/products?price_lt=20", 0, 10, models.ProductFilters{PriceLessThan: &under20}, 2,
			[]string{"logitech-g305", "arctic-p12"}},
		{"Category and price", "/products?category=memory&price_lt=30", 0, 10,
			models.ProductFilters{CategorySlug: "memory", PriceLessThan: &under30}, 1,
			[]string{"kingston-fury-16gb"}},
		{"Search", "/products?search=FURY", 0, 10, models.ProductFilters{Search: "FURY"}, 1,
			[]string{"kingston-fury-16gb"}},
		{"Nothing matches", "/products?category=gpu", 0, 10, models.ProductFilters{CategorySlug: "gpu"}, 0,
			[]string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := &MockProductRepo{SourceProducts: listingFixture()}
			handler := NewCatalogHandler(repo, nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGet(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))

			// Assert
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.wantOffset, repo.lastCalledOffset)
			assert.Equal(t, tc.wantLimit, repo.lastCalledLimit)
			assert.Equal(t, tc.wantFilters, repo.lastCalledFilters)

			var resp Response
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tc.wantTotal, resp.Total)
			slugs := make([]string, len(resp.Products))
			for i, p := range resp.Products {
				slugs[i] = p.Slug
			}
			assert.Equal(t, tc.wantSlugs, slugs)
		})
	}
}

func TestHandleGetPricesAndStock(t *testing.T) {
	// Arrange
	handler := NewCatalogHandler(&MockProductRepo{SourceProducts: listingFixture()}, nil)
	rec := httptest.NewRecorder()

	// Act
	handler.HandleGet(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	// Assert
	var resp Response
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	bySlug := map[string]Product{}
	for _, p := range resp.Products {
		bySlug[p.Slug] = p
	}

	fury := bySlug["kingston-fury-16gb"]
	if assert.NotNil(t, fury.OfferPrice) {
		assert.Equal(t, 21.5, *fury.OfferPrice)
	}
	assert.Equal(t, "Memory", fury.Category.Name)
	assert.Nil(t, bySlug["corsair-vengeance-32gb"].OfferPrice)
	assert.False(t, bySlug["arctic-p12"].InStock)
	assert.True(t, bySlug["logitech-g305"].InStock)
}

func TestHandleGetRepositoryError(t *testing.T) {
	// Arrange
	handler := NewCatalogHandler(&MockProductRepo{Err: errors.New("db down")}, nil)
	rec := httptest.NewRecorder()

	// Act
	handler.HandleGet(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	// Assert
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var errResp map[string]any
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "failed to get products", errResp["error"])
	assert.NotContains(t, rec.Body.String(), "db down")
}
