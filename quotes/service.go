// Package quotes turns a PC-builder selection into a priced summary, a
// stored quote, or a stored requirements request, and hands the stored
// record on to the external sales system.
package quotes

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/itechcomputers/storefront/apperr"
	"github.com/itechcomputers/storefront/build"
	"github.com/itechcomputers/storefront/models"
	"github.com/itechcomputers/storefront/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CategoryProvider interface {
	GetBuilderCategories(ctx context.Context) ([]models.Category, error)
}

type ComponentProvider interface {
	GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error)
}

type Store interface {
	CreateQuote(ctx context.Context, quote *models.Quote) error
	CreateRequirement(ctx context.Context, req *models.Requirement) error
}

// Sender delivers stored records to the external sales system.
type Sender interface {
	SendQuote(ctx context.Context, p QuotePayload) error
	SendRequirements(ctx context.Context, p RequirementsPayload) error
}

// Selection maps a builder category slug to the chosen product id. A zero
// id leaves the slot empty.
type Selection map[string]uint

type Contact struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,phone"`
	Notes string `json:"notes" validate:"max=2000"`
}

type QuoteRequest struct {
	Customer  Contact   `json:"customer"`
	Selection Selection `json:"selection"`
}

type RequirementsRequest struct {
	Name    string           `json:"name" validate:"required,max=120"`
	Email   string           `json:"email" validate:"required,email"`
	Phone   string           `json:"phone" validate:"required,phone"`
	Budget  *decimal.Decimal `json:"budget"`
	Purpose string           `json:"purpose" validate:"max=200"`
	Notes   string           `json:"notes" validate:"max=2000"`
}

// Summary is the priced state of a build.
type Summary struct {
	Total                 decimal.Decimal `json:"total"`
	SelectedCount         int             `json:"selectedCount"`
	RequiredCount         int             `json:"requiredCount"`
	SelectedRequiredCount int             `json:"selectedRequiredCount"`
	Completion            int             `json:"completion"`
	CanSubmit             bool            `json:"canSubmit"`
	Lines                 []build.Line    `json:"lines"`
}

type Service struct {
	categories CategoryProvider
	components ComponentProvider
	store      Store
	sender     Sender
	logger     *zap.Logger
}

// NewService wires the service. sender may be nil, in which case records
// are only stored locally.
func NewService(categories CategoryProvider, components ComponentProvider, store Store, sender Sender, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		categories: categories,
		components: components,
		store:      store,
		sender:     sender,
		logger:     logger,
	}
}

// Summarize prices a selection without storing anything.
func (s *Service) Summarize(ctx context.Context, sel Selection) (*Summary, error) {
	b, err := s.buildFrom(ctx, sel)
	if err != nil {
		return nil, err
	}
	return summarize(b), nil
}

// SubmitQuote stores a quote for the selection. Prices always come from
// the catalog, never from the client.
func (s *Service) SubmitQuote(ctx context.Context, req QuoteRequest) (*models.Quote, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	b, err := s.buildFrom(ctx, req.Selection)
	if err != nil {
		return nil, err
	}
	if !b.CanSubmit() {
		return nil, apperr.InvalidErr("Select at least one component before requesting a quote",
			map[string]string{"selection": "is required"})
	}

	lines := b.Lines()
	quote := &models.Quote{
		Reference:      uuid.NewString(),
		CustomerName:   req.Customer.Name,
		Email:          req.Customer.Email,
		Phone:          req.Customer.Phone,
		Notes:          req.Customer.Notes,
		Total:          b.TotalPrice(),
		ComponentCount: b.SelectedCount(),
		Items:          make([]models.QuoteItem, 0, len(lines)),
	}
	for _, l := range lines {
		quote.Items = append(quote.Items, models.QuoteItem{
			Category:     l.Category,
			CategorySlug: l.CategorySlug,
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			ProductPrice: l.ProductPrice,
			Selected:     l.Selected,
			Required:     l.Required,
		})
	}

	if err := s.store.CreateQuote(ctx, quote); err != nil {
		return nil, apperr.Wrap(err, "Failed to save quote")
	}
	s.logger.Info("quote created",
		zap.String("reference", quote.Reference),
		zap.String("total", quote.Total.StringFixed(2)),
		zap.Int("components", quote.ComponentCount),
	)

	if s.sender != nil {
		payload := QuotePayload{
			Reference:      quote.Reference,
			Customer:       Customer{Name: quote.CustomerName, Email: quote.Email, Phone: quote.Phone, Notes: quote.Notes},
			Total:          quote.Total,
			ComponentCount: quote.ComponentCount,
			Items:          lines,
		}
		if err := s.sender.SendQuote(ctx, payload); err != nil {
			s.logger.Warn("quote stored but not forwarded", zap.String("reference", quote.Reference), zap.Error(err))
		}
	}
	return quote, nil
}

// SubmitRequirements stores a free-form build request.
func (s *Service) SubmitRequirements(ctx context.Context, req RequirementsRequest) (*models.Requirement, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Budget != nil && !req.Budget.IsPositive() {
		return nil, apperr.InvalidErr("Please correct the highlighted fields",
			map[string]string{"budget": "must be greater than 0"})
	}

	record := &models.Requirement{
		Reference: uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Purpose:   req.Purpose,
		Notes:     req.Notes,
	}
	if req.Budget != nil {
		record.Budget = decimal.NewNullDecimal(*req.Budget)
	}

	if err := s.store.CreateRequirement(ctx, record); err != nil {
		return nil, apperr.Wrap(err, "Failed to save requirements")
	}
	s.logger.Info("requirements created", zap.String("reference", record.Reference))

	if s.sender != nil {
		payload := RequirementsPayload{
			Reference: record.Reference,
			Name:      record.Name,
			Email:     record.Email,
			Phone:     record.Phone,
			Budget:    req.Budget,
			Purpose:   record.Purpose,
			Notes:     record.Notes,
		}
		if err := s.sender.SendRequirements(ctx, payload); err != nil {
			s.logger.Warn("requirements stored but not forwarded", zap.String("reference", record.Reference), zap.Error(err))
		}
	}
	return record, nil
}

// buildFrom loads the builder slots and the selected products and fills a
// build. Every problem with the selection is reported per slot.
func (s *Service) buildFrom(ctx context.Context, sel Selection) (*build.Build, error) {
	cats, err := s.categories.GetBuilderCategories(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to load PC builder configuration")
	}
	b := build.New(cats)

	slugs := make([]string, 0, len(sel))
	ids := make([]uint, 0, len(sel))
	for slug, id := range sel {
		if id == 0 {
			continue
		}
		slugs = append(slugs, slug)
		ids = append(ids, id)
	}
	sort.Strings(slugs)

	products, err := s.components.GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Wrap(err, "Failed to load selected components")
	}

	fields := map[string]string{}
	for _, slug := range slugs {
		key := "selection." + slug
		p, ok := products[sel[slug]]
		if !ok {
			fields[key] = "component is not available"
			continue
		}
		if p.Category.Slug != slug {
			fields[key] = "component does not belong to this category"
			continue
		}
		if err := b.Select(slug, build.ComponentFromProduct(p)); err != nil {
			fields[key] = "is not a PC builder category"
		}
	}
	if len(fields) > 0 {
		return nil, apperr.InvalidErr("Some selected components cannot be used", fields)
	}
	return b, nil
}

func summarize(b *build.Build) *Summary {
	return &Summary{
		Total:                 b.TotalPrice(),
		SelectedCount:         b.SelectedCount(),
		RequiredCount:         b.RequiredCount(),
		SelectedRequiredCount: b.SelectedRequiredCount(),
		Completion:            b.Completion(),
		CanSubmit:             b.CanSubmit(),
		Lines:                 b.Lines(),
	}
}
