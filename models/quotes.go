package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a stored PC-builder quotation request.
type Quote struct {
	ID             uint            `gorm:"primaryKey"`
	Reference      string          `gorm:"uniqueIndex;not null"`
	CustomerName   string          `gorm:"not null"`
	Email          string          `gorm:"not null"`
	Phone          string          `gorm:"not null"`
	Notes          string          `gorm:"type:text"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ComponentCount int             `gorm:"not null"`
	Items          []QuoteItem     `gorm:"foreignKey:QuoteID"`
	CreatedAt      time.Time
}

func (q *Quote) TableName() string {
	return "quotes"
}

// QuoteItem is one builder slot as it was when the quote was submitted.
// Unselected slots are kept so the sales team sees what was left open.
type QuoteItem struct {
	ID           uint   `gorm:"primaryKey"`
	QuoteID      uint   `gorm:"not null;index"`
	Category     string `gorm:"not null"`
	CategorySlug string `gorm:"not null"`
	ProductID    *uint
	ProductName  string
	ProductPrice decimal.Decimal `gorm:"type:decimal(10,2)"`
	Selected     bool            `gorm:"not null"`
	Required     bool            `gorm:"not null"`
}

func (i *QuoteItem) TableName() string {
	return "quote_items"
}

// Requirement is a free-form "build me a PC" request.
type Requirement struct {
	ID        uint                `gorm:"primaryKey"`
	Reference string              `gorm:"uniqueIndex;not null"`
	Name      string              `gorm:"not null"`
	Email     string              `gorm:"not null"`
	Phone     string              `gorm:"not null"`
	Budget    decimal.NullDecimal `gorm:"type:decimal(12,2)"`
	Purpose   string
	Notes     string `gorm:"type:text"`
	CreatedAt time.Time
}

func (r *Requirement) TableName() string {
	return "pc_requirements"
}
