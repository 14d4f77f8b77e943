// Package compat decides which attribute values of a configurable product
// are still reachable given a partial selection, and which concrete variant
// a selection should resolve to.
//
// Every function here is pure: it reads the variant list and never mutates
// it. Empty or malformed input yields "nothing compatible", never a panic.
package compat

import (
	"sort"

	"github.com/itechcomputers/storefront/models"
)

// Selection maps an attribute key to the chosen value.
type Selection map[string]string

// changedKeyBonus is added to a candidate's score when it honours the
// attribute the shopper just clicked.
const changedKeyBonus = 2

// Resolution is the outcome of one attribute click.
type Resolution struct {
	// Variant is the adopted variant, nil when no active variant exists.
	Variant *models.Variant
	// Exact reports whether Variant matches every proposed attribute.
	Exact bool
	// Selection is what the caller should store as its new state.
	Selection Selection
}

// Clone returns a copy of s that is safe to modify. Keys with an empty
// value mean "not chosen" and are dropped.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s)+1)
	for k, v := range s {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// HasValue reports whether v carries key=value among its identifying
// attributes.
func HasValue(v *models.Variant, key, value string) bool {
	for _, a := range v.Attributes {
		if a.Key == key && a.Value == value {
			return true
		}
	}
	return false
}

// Match reports whether v carries every key/value of sel.
func Match(v *models.Variant, sel Selection) bool {
	for k, val := range sel {
		if !HasValue(v, k, val) {
			return false
		}
	}
	return true
}

// matchExcept is Match with one key left out of the check.
func matchExcept(v *models.Variant, sel Selection, skip string) bool {
	for k, val := range sel {
		if k == skip || val == "" {
			continue
		}
		if !HasValue(v, k, val) {
			return false
		}
	}
	return true
}

// Resolve applies changedKey=changedValue on top of current and picks the
// variant to adopt. The first active exact match in list order wins. With
// no exact match the best partial match is adopted: in-stock variants
// first, ranked by whether they keep the clicked value, then by how many
// proposed attributes they keep. Keeping the clicked value outranks any
// score difference.
func Resolve(variants []models.Variant, current Selection, changedKey, changedValue string) Resolution {
	proposed := current.Clone()
	if changedValue == "" {
		delete(proposed, changedKey)
	} else {
		proposed[changedKey] = changedValue
	}

	for i := range variants {
		v := &variants[i]
		if v.IsActive && Match(v, proposed) {
			return Resolution{Variant: v, Exact: true, Selection: proposed}
		}
	}

	best := bestEffort(variants, proposed, changedKey, func(v *models.Variant) bool {
		return v.IsActive && v.StockQuantity > 0
	})
	if best == nil {
		best = bestEffort(variants, proposed, changedKey, func(v *models.Variant) bool {
			return v.IsActive
		})
	}
	if best == nil {
		return Resolution{Selection: proposed}
	}
	return Resolution{Variant: best, Selection: SelectionOf(best)}
}

type candidate struct {
	variant *models.Variant
	changed bool
	score   int
}

func bestEffort(variants []models.Variant, proposed Selection, changedKey string, eligible func(*models.Variant) bool) *models.Variant {
	var cands []candidate
	for i := range variants {
		v := &variants[i]
		if !eligible(v) {
			continue
		}
		c := candidate{variant: v}
		for k, val := range proposed {
			if HasValue(v, k, val) {
				c.score++
				if k == changedKey {
					c.changed = true
					c.score += changedKeyBonus
				}
			}
		}
		cands = append(cands, c)
	}
	if len(cands) == 0 {
		return nil
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].changed != cands[j].changed {
			return cands[i].changed
		}
		return cands[i].score > cands[j].score
	})
	return cands[0].variant
}

// SelectionOf returns the identifying attributes of v as a Selection.
func SelectionOf(v *models.Variant) Selection {
	sel := make(Selection, len(v.Attributes))
	for _, a := range v.Attributes {
		sel[a.Key] = a.Value
	}
	return sel
}
