package quotes

import (
	"context"
	"errors"
	"testing"

	"github.com/itechcomputers/storefront/apperr"
	"github.com/itechcomputers/storefront/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockCategoryRepo struct {
	Categories []models.Category
	Err        error
}

func (m *MockCategoryRepo) GetBuilderCategories(ctx context.Context) ([]models.Category, error) {
	return m.Categories, m.Err
}

type MockProductRepo struct {
	Products []models.Product
	Err      error

	lastCalledIDs []uint
}

func (m *MockProductRepo) GetByIDs(ctx context.Context, ids []uint) (map[uint]models.Product, error) {
	m.lastCalledIDs = ids
	if m.Err != nil {
		return nil, m.Err
	}
	out := map[uint]models.Product{}
	for _, p := range m.Products {
		for _, id := range ids {
			if p.ID == id {
				out[id] = p
			}
		}
	}
	return out, nil
}

type MockStore struct {
	Err error

	LastQuote       *models.Quote
	LastRequirement *models.Requirement
}

func (m *MockStore) CreateQuote(ctx context.Context, q *models.Quote) error {
	m.LastQuote = q
	return m.Err
}

func (m *MockStore) CreateRequirement(ctx context.Context, r *models.Requirement) error {
	m.LastRequirement = r
	return m.Err
}

type MockSender struct {
	Err error

	Quotes       []QuotePayload
	Requirements []RequirementsPayload
}

func (m *MockSender) SendQuote(ctx context.Context, p QuotePayload) error {
	m.Quotes = append(m.Quotes, p)
	return m.Err
}

func (m *MockSender) SendRequirements(ctx context.Context, p RequirementsPayload) error {
	m.Requirements = append(m.Requirements, p)
	return m.Err
}

// --- Helpers ---

func builderCategories() []models.Category {
	return []models.Category{
		{ID: 1, Slug: "cpu", Name: "Processor", Required: true, SortOrder: 1, InBuilder: true},
		{ID: 2, Slug: "motherboard", Name: "Motherboard", Required: true, SortOrder: 2, InBuilder: true},
		{ID: 3, Slug: "case-fan", Name: "Case Fan", SortOrder: 3, InBuilder: true},
	}
}

func newComponent(id uint, slug, categorySlug string, price float64) models.Product {
	return models.Product{
		ID:       id,
		Slug:     slug,
		Name:     slug,
		Price:    decimal.NewFromFloat(price),
		IsActive: true,
		Category: models.Category{Slug: categorySlug},
	}
}

func catalog() []models.Product {
	offer := newComponent(11, "b650", "motherboard", 220)
	offer.OfferPrice = decimal.NewNullDecimal(decimal.NewFromInt(199))
	return []models.Product{
		newComponent(10, "ryzen-7", "cpu", 349.90),
		offer,
		newComponent(12, "arctic-p12", "case-fan", 9.99),
		newComponent(13, "dell-u2723", "monitor", 499),
	}
}

func validContact() Contact {
	return Contact{Name: "Lea Kramer", Email: "lea@example.com", Phone: "+49 30 1234567"}
}

func newTestService(store *MockStore, sender Sender) *Service {
	return NewService(
		&MockCategoryRepo{Categories: builderCategories()},
		&MockProductRepo{Products: catalog()},
		store, sender, nil,
	)
}

// --- Tests ---

func TestSummarize(t *testing.T) {
	testCases := []struct {
		name           string
		selection      Selection
		wantTotal      string
		wantCompletion int
		wantSelected   int
		wantCanSubmit  bool
		wantFields     map[string]string
	}{
		{
			name:           "Empty selection",
			selection:      Selection{},
			wantTotal:      "0",
			wantCompletion: 0,
			wantCanSubmit:  false,
		},
		{
			name:           "One of two required",
			selection:      Selection{"cpu": 10},
			wantTotal:      "349.9",
			wantCompletion: 50,
			wantSelected:   1,
			wantCanSubmit:  true,
		},
		{
			name:           "Both required uses offer price",
			selection:      Selection{"cpu": 10, "motherboard": 11},
			wantTotal:      "548.9",
			wantCompletion: 100,
			wantSelected:   2,
			wantCanSubmit:  true,
		},
		{
			name:           "Zero id leaves slot empty",
			selection:      Selection{"cpu": 10, "case-fan": 0},
			wantTotal:      "349.9",
			wantCompletion: 50,
			wantSelected:   1,
			wantCanSubmit:  true,
		},
		{
			name:       "Component from another category",
			selection:  Selection{"cpu": 11},
			wantFields: map[string]string{"selection.cpu": "component does not belong to this category"},
		},
		{
			name:       "Unknown component",
			selection:  Selection{"cpu": 999},
			wantFields: map[string]string{"selection.cpu": "component is not available"},
		},
		{
			name:       "Category outside the builder",
			selection:  Selection{"monitor": 13},
			wantFields: map[string]string{"selection.monitor": "is not a PC builder category"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			svc := newTestService(&MockStore{}, nil)

			// Act
			sum, err := svc.Summarize(context.Background(), tc.selection)

			// Assert
			if tc.wantFields != nil {
				ae, ok := apperr.As(err)
				require.True(t, ok)
				assert.Equal(t, apperr.Invalid, ae.Kind)
				assert.Equal(t, tc.wantFields, ae.Fields)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantTotal, sum.Total.String())
			assert.Equal(t, tc.wantCompletion, sum.Completion)
			assert.Equal(t, tc.wantSelected, sum.SelectedCount)
			assert.Equal(t, tc.wantCanSubmit, sum.CanSubmit)
			assert.Equal(t, 2, sum.RequiredCount)
			assert.Len(t, sum.Lines, 3)
		})
	}
}

func TestSummarizeRepositoryErrors(t *testing.T) {
	svc := NewService(&MockCategoryRepo{Err: errors.New("db down")}, &MockProductRepo{}, &MockStore{}, nil, nil)
	_, err := svc.Summarize(context.Background(), Selection{"cpu": 10})
	assert.Equal(t, "Failed to load PC builder configuration", apperr.PublicMessage(err))

	svc = NewService(&MockCategoryRepo{Categories: builderCategories()}, &MockProductRepo{Err: errors.New("db down")}, &MockStore{}, nil, nil)
	_, err = svc.Summarize(context.Background(), Selection{"cpu": 10})
	assert.Equal(t, "Failed to load selected components", apperr.PublicMessage(err))
}

func TestSubmitQuote(t *testing.T) {
	store := &MockStore{}
	sender := &MockSender{}
	svc := newTestService(store, sender)

	quote, err := svc.SubmitQuote(context.Background(), QuoteRequest{
		Customer:  validContact(),
		Selection: Selection{"cpu": 10, "case-fan": 12},
	})

	require.NoError(t, err)
	require.NotNil(t, store.LastQuote)
	assert.Same(t, quote, store.LastQuote)
	assert.NotEmpty(t, quote.Reference)
	assert.Equal(t, "359.89", quote.Total.String())
	assert.Equal(t, 2, quote.ComponentCount)
	require.Len(t, quote.Items, 3)
	assert.Equal(t, "cpu", quote.Items[0].CategorySlug)
	assert.True(t, quote.Items[0].Selected)
	assert.Equal(t, "motherboard", quote.Items[1].CategorySlug)
	assert.False(t, quote.Items[1].Selected)
	assert.True(t, quote.Items[1].Required)
	assert.Nil(t, quote.Items[1].ProductID)

	require.Len(t, sender.Quotes, 1)
	assert.Equal(t, quote.Reference, sender.Quotes[0].Reference)
	assert.Equal(t, "lea@example.com", sender.Quotes[0].Customer.Email)
	assert.Len(t, sender.Quotes[0].Items, 3)
}

func TestSubmitQuoteRejectsEmptyBuild(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)

	_, err := svc.SubmitQuote(context.Background(), QuoteRequest{Customer: validContact(), Selection: Selection{}})

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.Invalid, ae.Kind)
	assert.Equal(t, "is required", ae.Fields["selection"])
	assert.Nil(t, store.LastQuote, "nothing is stored for an empty build")
}

func TestSubmitQuoteValidatesContact(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, nil)

	_, err := svc.SubmitQuote(context.Background(), QuoteRequest{
		Customer:  Contact{Name: "", Email: "nope", Phone: "abc"},
		Selection: Selection{"cpu": 10},
	})

	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, map[string]string{
		"customer.name":  "is required",
		"customer.email": "must be a valid email address",
		"customer.phone": "must be a valid phone number",
	}, ae.Fields)
	assert.Nil(t, store.LastQuote)
}

func TestSubmitQuoteStoreFailure(t *testing.T) {
	sender := &MockSender{}
	svc := newTestService(&MockStore{Err: errors.New("insert failed")}, sender)

	_, err := svc.SubmitQuote(context.Background(), QuoteRequest{Customer: validContact(), Selection: Selection{"cpu": 10}})

	assert.Equal(t, "Failed to save quote", apperr.PublicMessage(err))
	assert.Empty(t, sender.Quotes, "unsaved quotes are not forwarded")
}

func TestSubmitQuoteForwardFailureKeepsQuote(t *testing.T) {
	store := &MockStore{}
	svc := newTestService(store, &MockSender{Err: errors.New("crm timeout")})

	quote, err := svc.SubmitQuote(context.Background(), QuoteRequest{Customer: validContact(), Selection: Selection{"cpu": 10}})

	require.NoError(t, err)
	assert.NotNil(t, quote)
	assert.NotNil(t, store.LastQuote)
}

func TestSubmitRequirements(t *testing.T) {
	budget := decimal.NewFromInt(1500)

	testCases := []struct {
		name       string
		req        RequirementsRequest
		wantFields map[string]string
	}{
		{
			name: "Valid with budget",
			req:  RequirementsRequest{Name: "Jo", Email: "jo@example.com", Phone: "0170 1234567", Budget: &budget, Purpose: "gaming"},
		},
		{
			name: "Valid without budget",
			req:  RequirementsRequest{Name: "Jo", Email: "jo@example.com", Phone: "0170 1234567"},
		},
		{
			name:       "Non-positive budget",
			req:        RequirementsRequest{Name: "Jo", Email: "jo@example.com", Phone: "0170 1234567", Budget: &decimal.Zero},
			wantFields: map[string]string{"budget": "must be greater than 0"},
		},
		{
			name:       "Missing email",
			req:        RequirementsRequest{Name: "Jo", Phone: "0170 1234567"},
			wantFields: map[string]string{"email": "is required"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store := &MockStore{}
			sender := &MockSender{}
			svc := newTestService(store, sender)

			rec, err := svc.SubmitRequirements(context.Background(), tc.req)

			if tc.wantFields != nil {
				ae, ok := apperr.As(err)
				require.True(t, ok)
				assert.Equal(t, tc.wantFields, ae.Fields)
				assert.Nil(t, store.LastRequirement)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, rec.Reference)
			assert.Equal(t, tc.req.Budget != nil, rec.Budget.Valid)
			require.Len(t, sender.Requirements, 1)
			assert.Equal(t, rec.Reference, sender.Requirements[0].Reference)
		})
	}
}
