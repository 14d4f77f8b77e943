// Package build holds the PC-builder selection: one slot per builder
// category, each empty or holding exactly one component.
package build

import (
	"errors"
	"fmt"
	"sort"

	"github.com/itechcomputers/storefront/models"
	"github.com/shopspring/decimal"
)

// ErrUnknownCategory is returned when a component is put into a slot that
// the builder configuration does not have.
var ErrUnknownCategory = errors.New("unknown builder category")

// Component is what a slot holds.
type Component struct {
	ProductID  uint
	Name       string
	SKU        string
	Price      decimal.Decimal
	OfferPrice decimal.NullDecimal
}

// ComponentFromProduct maps a catalog product to a builder component.
func ComponentFromProduct(p models.Product) *Component {
	return &Component{
		ProductID:  p.ID,
		Name:       p.Name,
		SKU:        p.Slug,
		Price:      p.Price,
		OfferPrice: p.OfferPrice,
	}
}

// EffectivePrice is the price the component contributes to the total.
func (c *Component) EffectivePrice() decimal.Decimal {
	return models.EffectivePrice(c.Price, c.OfferPrice)
}

// Line is one slot flattened for display or quote submission.
type Line struct {
	Category     string          `json:"category"`
	CategorySlug string          `json:"categorySlug"`
	ProductID    *uint           `json:"productId"`
	ProductName  string          `json:"productName"`
	ProductPrice decimal.Decimal `json:"productPrice"`
	Selected     bool            `json:"selected"`
	Required     bool            `json:"required"`
}

// Build is a PC-builder configuration in progress. The zero value is not
// usable; create one with New. A Build is owned by a single caller.
type Build struct {
	categories []models.Category
	index      map[string]int
	slots      map[string]*Component
}

// New returns an empty build whose slots are the given categories, ordered
// by sort order then name.
func New(categories []models.Category) *Build {
	cats := make([]models.Category, len(categories))
	copy(cats, categories)
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].SortOrder != cats[j].SortOrder {
			return cats[i].SortOrder < cats[j].SortOrder
		}
		return cats[i].Name < cats[j].Name
	})

	b := &Build{
		categories: cats,
		index:      make(map[string]int, len(cats)),
		slots:      make(map[string]*Component, len(cats)),
	}
	for i, c := range cats {
		b.index[c.Slug] = i
	}
	return b
}

// Select fills the slot for slug with c, replacing whatever was there.
// A nil component empties the slot.
func (b *Build) Select(slug string, c *Component) error {
	if _, ok := b.index[slug]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, slug)
	}
	if c == nil {
		delete(b.slots, slug)
		return nil
	}
	cp := *c
	b.slots[slug] = &cp
	return nil
}

// Clear empties the slot for slug. Unknown slugs are ignored.
func (b *Build) Clear(slug string) {
	delete(b.slots, slug)
}

// Selected returns the component in the slot for slug, if any.
func (b *Build) Selected(slug string) (*Component, bool) {
	c, ok := b.slots[slug]
	return c, ok
}

// Categories returns the builder categories in display order.
func (b *Build) Categories() []models.Category {
	out := make([]models.Category, len(b.categories))
	copy(out, b.categories)
	return out
}

// TotalPrice sums the effective prices of all filled slots. It is
// recomputed on every call.
func (b *Build) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.slots {
		total = total.Add(c.EffectivePrice())
	}
	return total
}

// SelectedCount is the number of filled slots.
func (b *Build) SelectedCount() int {
	return len(b.slots)
}

// RequiredCount is the number of required slots.
func (b *Build) RequiredCount() int {
	n := 0
	for _, c := range b.categories {
		if c.Required {
			n++
		}
	}
	return n
}

// SelectedRequiredCount is the number of required slots that are filled.
func (b *Build) SelectedRequiredCount() int {
	n := 0
	for _, c := range b.categories {
		if _, ok := b.slots[c.Slug]; ok && c.Required {
			n++
		}
	}
	return n
}

// Completion is the share of required slots filled, as a whole percentage
// rounded down. A build with no required slots is complete.
func (b *Build) Completion() int {
	required := b.RequiredCount()
	if required == 0 {
		return 100
	}
	return b.SelectedRequiredCount() * 100 / required
}

// CanSubmit reports whether there is anything to quote. Completion is
// advisory and does not gate submission.
func (b *Build) CanSubmit() bool {
	return b.SelectedCount() > 0
}

// Lines flattens every slot, filled or not, in display order.
func (b *Build) Lines() []Line {
	lines := make([]Line, 0, len(b.categories))
	for _, cat := range b.categories {
		line := Line{
			Category:     cat.Name,
			CategorySlug: cat.Slug,
			ProductPrice: decimal.Zero,
			Required:     cat.Required,
		}
		if c, ok := b.slots[cat.Slug]; ok {
			id := c.ProductID
			line.ProductID = &id
			line.ProductName = c.Name
			line.ProductPrice = c.EffectivePrice()
			line.Selected = true
		}
		lines = append(lines, line)
	}
	return lines
}
