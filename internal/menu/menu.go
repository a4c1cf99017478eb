package menu

import "github.com/shopspring/decimal"

// Item is a catalog entry. Items are loaded once at startup and never
// mutated afterwards.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Section     string
	Subcategory string
	Tag         string

	// ModifierSet overrides the section/subcategory derivation for items
	// that share a subcategory but not a customization flow (e.g. a fixed
	// recipe bowl next to build-your-own bowls).
	ModifierSet string
}

// ModifierOption is one selectable choice within a group.
type ModifierOption struct {
	Label      string
	PriceDelta decimal.Decimal
}

// ModifierGroup is a named set of related options with a selection
// discipline. Groups are static configuration shared across items; per-line
// selections are snapshotted into the cart, never referenced live.
type ModifierGroup struct {
	ID          string
	Name        string
	Type        string
	Required    bool
	Description string

	// MaxSelections caps checkbox groups. Zero means uncapped.
	MaxSelections int

	Options []ModifierOption
}

// SingleSelect reports whether choosing an option replaces the group's
// whole selection.
func (g ModifierGroup) SingleSelect() bool {
	return g.Type != "checkbox"
}

// Option returns the option with the given label.
func (g ModifierGroup) Option(label string) (ModifierOption, bool) {
	for _, o := range g.Options {
		if o.Label == label {
			return o, true
		}
	}
	return ModifierOption{}, false
}
