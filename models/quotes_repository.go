package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrQuoteNotFound is returned when no quote has the given reference.
var ErrQuoteNotFound = errors.New("quote not found")

type QuotesRepository struct {
	db *gorm.DB
}

func NewQuotesRepository(db *gorm.DB) *QuotesRepository {
	return &QuotesRepository{db: db}
}

// CreateQuote stores the quote and its items in one transaction.
func (r *QuotesRepository) CreateQuote(ctx context.Context, quote *Quote) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(quote).Error
	})
}

func (r *QuotesRepository) GetQuoteByReference(ctx context.Context, reference string) (*Quote, error) {
	var quote Quote
	if err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("quote_items.id") }).
		Where("reference = ?", reference).
		First(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (r *QuotesRepository) CreateRequirement(ctx context.Context, req *Requirement) error {
	return r.db.WithContext(ctx).Create(req).Error
}
