package storefront

import (
	"github.com/shopspring/decimal"
)

type CategoryRef struct {
	Slug string `json:"slug" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type Category struct {
	Slug      string `json:"slug" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Required  bool   `json:"required"`
	SortOrder int    `json:"sortOrder"`
	InBuilder bool   `json:"inBuilder"`
}

type ProductSummary struct {
	Slug       string      `json:"slug" validate:"required"`
	Name       string      `json:"name" validate:"required"`
	Price      float64     `json:"price" validate:"gte=0"`
	OfferPrice *float64    `json:"offerPrice" validate:"omitempty,gt=0"`
	InStock    bool        `json:"inStock"`
	Category   CategoryRef `json:"category"`
}

type ProductList struct {
	Total    int              `json:"total" validate:"gte=0"`
	Products []ProductSummary `json:"products" validate:"dive"`
}

type Attribute struct {
	Key          string `json:"key" validate:"required"`
	Value        string `json:"value" validate:"required"`
	DisplayValue string `json:"displayValue"`
	HexCode      string `json:"hexCode"`
	IsColor      bool   `json:"isColor"`
}

type Variant struct {
	ID            uint        `json:"id" validate:"required"`
	Name          string      `json:"name"`
	SKU           string      `json:"sku" validate:"required"`
	Price         float64     `json:"price" validate:"gte=0"`
	OfferPrice    *float64    `json:"offerPrice" validate:"omitempty,gt=0"`
	StockQuantity int         `json:"stockQuantity"`
	InStock       bool        `json:"inStock"`
	Attributes    []Attribute `json:"attributes" validate:"dive"`
}

type Option struct {
	Value        string `json:"value" validate:"required"`
	DisplayValue string `json:"displayValue"`
	HexCode      string `json:"hexCode"`
	IsColor      bool   `json:"isColor"`
	Available    bool   `json:"available"`
	InStock      bool   `json:"inStock"`
	Selected     bool   `json:"selected"`
}

type Dimension struct {
	Key     string   `json:"key" validate:"required"`
	Label   string   `json:"label"`
	Options []Option `json:"options" validate:"dive"`
}

type ProductDetail struct {
	ProductSummary
	Description string      `json:"description"`
	Variants    []Variant   `json:"variants" validate:"dive"`
	Dimensions  []Dimension `json:"dimensions" validate:"dive"`
}

type ResolveRequest struct {
	Selection    map[string]string `json:"selection"`
	ChangedKey   string            `json:"changedKey"`
	ChangedValue string            `json:"changedValue"`
}

// Resolution is the outcome of one attribute click. Variant is nil when
// the product has no active variant at all.
type Resolution struct {
	Variant    *Variant          `json:"variant"`
	Exact      bool              `json:"exact"`
	Selection  map[string]string `json:"selection"`
	Dimensions []Dimension       `json:"dimensions" validate:"dive"`
}

type Component struct {
	ID         uint     `json:"id" validate:"required"`
	Slug       string   `json:"slug" validate:"required"`
	Name       string   `json:"name" validate:"required"`
	Price      float64  `json:"price" validate:"gte=0"`
	OfferPrice *float64 `json:"offerPrice" validate:"omitempty,gt=0"`
	InStock    bool     `json:"inStock"`
}

type Slot struct {
	Slug       string      `json:"slug" validate:"required"`
	Name       string      `json:"name" validate:"required"`
	Required   bool        `json:"required"`
	SortOrder  int         `json:"sortOrder"`
	Components []Component `json:"components" validate:"dive"`
}

type BuilderConfig struct {
	Categories []Slot `json:"categories" validate:"dive"`
}

type Line struct {
	Category     string          `json:"category" validate:"required"`
	CategorySlug string          `json:"categorySlug" validate:"required"`
	ProductID    *uint           `json:"productId" validate:"required_if=Selected true"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Selected     bool            `json:"selected"`
	Required     bool            `json:"required"`
}

type Summary struct {
	Total                 decimal.Decimal `json:"total"`
	SelectedCount         int             `json:"selectedCount" validate:"gte=0"`
	RequiredCount         int             `json:"requiredCount" validate:"gte=0"`
	SelectedRequiredCount int             `json:"selectedRequiredCount" validate:"gte=0,ltefield=RequiredCount"`
	Completion            int             `json:"completion" validate:"gte=0,lte=100"`
	CanSubmit             bool            `json:"canSubmit"`
	Lines                 []Line          `json:"lines" validate:"dive"`
}

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes,omitempty"`
}

type QuoteRequest struct {
	Customer  Contact         `json:"customer"`
	Selection map[string]uint `json:"selection"`
}

type QuoteReceipt struct {
	Reference      string          `json:"reference" validate:"required"`
	Total          decimal.Decimal `json:"total"`
	ComponentCount int             `json:"componentCount" validate:"gte=1"`
}

type RequirementsRequest struct {
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Phone   string           `json:"phone"`
	Budget  *decimal.Decimal `json:"budget,omitempty"`
	Purpose string           `json:"purpose,omitempty"`
	Notes   string           `json:"notes,omitempty"`
}

type RequirementsReceipt struct {
	Reference string `json:"reference" validate:"required"`
}
