// Package pcbuilder serves the PC-builder page: its slots and components,
// live build summaries, and quote and requirements submission.
package pcbuilder

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/itechcomputers/storefront/app/httpx"
	"github.com/itechcomputers/storefront/apperr"
	"github.com/itechcomputers/storefront/build"
	"github.com/itechcomputers/storefront/cache"
	"github.com/itechcomputers/storefront/models"
	"github.com/itechcomputers/storefront/quotes"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxParallelLoads bounds the per-category queries of a config request.
const maxParallelLoads = 4

type Component struct {
	ID         uint     `json:"id"`
	Slug       string   `json:"slug"`
	Name       string   `json:"name"`
	Price      float64  `json:"price"`
	OfferPrice *float64 `json:"offerPrice,omitempty"`
	InStock    bool     `json:"inStock"`
}

type Slot struct {
	Slug       string      `json:"slug"`
	Name       string      `json:"name"`
	Required   bool        `json:"required"`
	SortOrder  int         `json:"sortOrder"`
	Components []Component `json:"components"`
}

type ConfigResponse struct {
	Categories []Slot `json:"categories"`
}

type SummaryRequest struct {
	Selection quotes.Selection `json:"selection"`
}

type QuoteCreated struct {
	Reference      string          `json:"reference"`
	Total          decimal.Decimal `json:"total"`
	ComponentCount int             `json:"componentCount"`
}

type RequirementsCreated struct {
	Reference string `json:"reference"`
}

type QuoteItem struct {
	Category     string          `json:"category"`
	CategorySlug string          `json:"categorySlug"`
	ProductID    *uint           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Selected     bool            `json:"selected"`
	Required     bool            `json:"required"`
}

type QuoteDetail struct {
	Reference      string          `json:"reference"`
	CustomerName   string          `json:"customerName"`
	Total          decimal.Decimal `json:"total"`
	ComponentCount int             `json:"componentCount"`
	Items          []QuoteItem     `json:"items"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type CategoryProvider interface {
	GetBuilderCategories(ctx context.Context) ([]models.Category, error)
}

type ComponentProvider interface {
	GetByCategory(ctx context.Context, categorySlug string) ([]models.Product, error)
}

type QuoteFinder interface {
	GetQuoteByReference(ctx context.Context, reference string) (*models.Quote, error)
}

type QuoteService interface {
	Summarize(ctx context.Context, sel quotes.Selection) (*quotes.Summary, error)
	SubmitQuote(ctx context.Context, req quotes.QuoteRequest) (*models.Quote, error)
	SubmitRequirements(ctx context.Context, req quotes.RequirementsRequest) (*models.Requirement, error)
}

type Handler struct {
	categories CategoryProvider
	components ComponentProvider
	quotes     QuoteFinder
	service    QuoteService
	cache      *cache.Components
	logger     *zap.Logger
}

// NewHandler wires the handler. cache may be nil.
func NewHandler(categories CategoryProvider, components ComponentProvider, finder QuoteFinder, service QuoteService, c *cache.Components, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		categories: categories,
		components: components,
		quotes:     finder,
		service:    service,
		cache:      c,
		logger:     logger,
	}
}

// HandleConfig returns every builder slot with its components. Slots are
// loaded concurrently; the first failure cancels the rest.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	cats, err := h.builderCategories(r.Context())
	if err != nil {
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}

	slots := make([]Slot, len(cats))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(maxParallelLoads)
	for i, c := range cats {
		g.Go(func() error {
			products, err := h.componentsOf(ctx, c.Slug)
			if err != nil {
				return err
			}
			slots[i] = toSlot(c, products)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		httpx.WriteAppError(w, r, h.logger, apperr.Wrap(err, "Failed to load PC builder configuration"))
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ConfigResponse{Categories: slots})
}

func (h *Handler) HandleComponents(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("category")

	cats, err := h.builderCategories(r.Context())
	if err != nil {
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}
	var found *models.Category
	for i := range cats {
		if cats[i].Slug == slug {
			found = &cats[i]
			break
		}
	}
	if found == nil {
		httpx.WriteAppError(w, r, h.logger, apperr.NotFoundErr("Category not found"))
		return
	}

	products, err := h.componentsOf(r.Context(), slug)
	if err != nil {
		httpx.WriteAppError(w, r, h.logger, apperr.Wrap(err, "Failed to load components"))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSlot(*found, products))
}

func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	var req SummaryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}

	sum, err := h.service.Summarize(r.Context(), req.Selection)
	if err != nil {
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sum)
}

func (h *Handler) HandleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req quotes.QuoteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}

	quote, err := h.service.SubmitQuote(r.Context(), req)
	if err != nil {
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, QuoteCreated{
		Reference:      quote.Reference,
		Total:          quote.Total,
		ComponentCount: quote.ComponentCount,
	})
}

func (h *Handler) HandleGetQuote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quotes.GetQuoteByReference(r.Context(), r.PathValue("reference"))
	if err != nil {
		if errors.Is(err, models.ErrQuoteNotFound) {
			httpx.WriteAppError(w, r, h.logger, apperr.NotFoundErr("Quote not found"))
		} else {
			httpx.WriteAppError(w, r, h.logger, apperr.Wrap(err, "Failed to retrieve quote"))
		}
		return
	}

	items := make([]QuoteItem, len(quote.Items))
	for i, it := range quote.Items {
		items[i] = QuoteItem{
			Category:     it.Category,
			CategorySlug: it.CategorySlug,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductPrice: it.ProductPrice,
			Selected:     it.Selected,
			Required:     it.Required,
		}
	}
	httpx.WriteJSON(w, http.StatusOK, QuoteDetail{
		Reference:      quote.Reference,
		CustomerName:   quote.CustomerName,
		Total:          quote.Total,
		ComponentCount: quote.ComponentCount,
		Items:          items,
		CreatedAt:      quote.CreatedAt,
	})
}

func (h *Handler) HandleCreateRequirements(w http.ResponseWriter, r *http.Request) {
	var req quotes.RequirementsRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}

	rec, err := h.service.SubmitRequirements(r.Context(), req)
	if err != nil {
		httpx.WriteAppError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, RequirementsCreated{Reference: rec.Reference})
}

func (h *Handler) builderCategories(ctx context.Context) ([]models.Category, error) {
	cats, err := h.categories.GetBuilderCategories(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to load PC builder configuration")
	}
	return cats, nil
}

// componentsOf reads through the component cache.
func (h *Handler) componentsOf(ctx context.Context, slug string) ([]models.Product, error) {
	if products, ok := h.cache.Get(ctx, slug); ok {
		return products, nil
	}
	products, err := h.components.GetByCategory(ctx, slug)
	if err != nil {
		return nil, err
	}
	h.cache.Set(ctx, slug, products)
	return products, nil
}

func toSlot(c models.Category, products []models.Product) Slot {
	components := make([]Component, len(products))
	for i, p := range products {
		components[i] = toComponent(p)
	}
	return Slot{
		Slug:       c.Slug,
		Name:       c.Name,
		Required:   c.Required,
		SortOrder:  c.SortOrder,
		Components: components,
	}
}

func toComponent(p models.Product) Component {
	c := Component{
		ID:      p.ID,
		Slug:    p.Slug,
		Name:    p.Name,
		Price:   p.Price.InexactFloat64(),
		InStock: p.StockQuantity > 0,
	}
	if eff := build.ComponentFromProduct(p).EffectivePrice(); !eff.Equal(p.Price) {
		f := eff.InexactFloat64()
		c.OfferPrice = &f
	}
	return c
}
