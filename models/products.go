package models

import (
	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
// It includes a unique slug, price, category, its selectable attribute
// dimensions and the concrete variants that can be bought.
type Product struct {
	ID            uint                 `gorm:"primaryKey"`
	Slug          string               `gorm:"uniqueIndex;not null"`
	Name          string               `gorm:"not null"`
	Description   string               `gorm:"type:text"`
	Price         decimal.Decimal      `gorm:"type:decimal(10,2);not null"`
	OfferPrice    decimal.NullDecimal  `gorm:"type:decimal(10,2)"`
	StockQuantity int                  `gorm:"not null;default:0"`
	IsActive      bool                 `gorm:"not null"`
	CategoryID    uint                 `gorm:"not null;index"`
	Category      Category             `gorm:"foreignKey:CategoryID"`
	Variants      []Variant            `gorm:"foreignKey:ProductID"`
	Attributes    []AttributeDimension `gorm:"foreignKey:ProductID"`
}

func (p *Product) TableName() string {
	return "products"
}

// EffectivePrice is the offer price when one is set, positive and lower
// than the list price; the list price otherwise.
func EffectivePrice(price decimal.Decimal, offer decimal.NullDecimal) decimal.Decimal {
	if offer.Valid && offer.Decimal.IsPositive() && offer.Decimal.LessThan(price) {
		return offer.Decimal
	}
	return price
}
