package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Variant is a concrete purchasable SKU of a product, tagged with the
// attribute values that identify it.
type Variant struct {
	ID            uint                `gorm:"primaryKey"`
	ProductID     uint                `gorm:"not null;index"`
	Name          string              `gorm:"not null"`
	SKU           string              `gorm:"uniqueIndex;not null"`
	Price         decimal.Decimal     `gorm:"type:decimal(10,2);not null"`
	OfferPrice    decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	StockQuantity int                 `gorm:"not null;default:0"`
	IsActive      bool                `gorm:"not null"`
	Attributes    []VariantAttribute  `gorm:"foreignKey:VariantID"`
}

func (v *Variant) TableName() string {
	return "variants"
}

// VariantAttribute is one identifying key/value pair of a variant.
type VariantAttribute struct {
	ID           uint   `gorm:"primaryKey"`
	VariantID    uint   `gorm:"not null;index"`
	Key          string `gorm:"not null"`
	Value        string `gorm:"not null"`
	DisplayValue string
	HexCode      string
	IsColor      bool `gorm:"not null;default:false"`
}

func (a *VariantAttribute) TableName() string {
	return "variant_attributes"
}

// AttributeDimension is a selectable axis of a configurable product, e.g.
// "color" or "storage".
type AttributeDimension struct {
	ID             uint                        `gorm:"primaryKey"`
	ProductID      uint                        `gorm:"not null;index"`
	Key            string                      `gorm:"not null"`
	Label          string                      `gorm:"not null"`
	PossibleValues datatypes.JSONSlice[string]
	SortOrder      int                         `gorm:"not null;default:0"`
}

func (d *AttributeDimension) TableName() string {
	return "product_attributes"
}
