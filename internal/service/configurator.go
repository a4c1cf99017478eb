package service

import (
	"errors"
	"fmt"

	"github.com/notebook-cafe/api/internal/cart"
	"github.com/notebook-cafe/api/internal/menu"
	"github.com/shopspring/decimal"
)

// Errors returned by the configurator.
var (
	ErrSessionClosed      = errors.New("configurator session is closed")
	ErrUnknownGroup       = errors.New("unknown modifier group")
	ErrUnknownOption      = errors.New("unknown modifier option")
	ErrRequiredGroup      = errors.New("required group needs a selection")
	ErrMultipleSelections = errors.New("single-select group allows exactly one option")
	ErrTooManySelections  = errors.New("selection exceeds group maximum")
)

// Configurator turns raw option picks for a catalog item into priced,
// snapshotted cart modifiers. It owns the selection discipline rules;
// the cart store trusts whatever it confirms.
type Configurator struct {
	catalog *menu.Catalog
}

func NewConfigurator(catalog *menu.Catalog) *Configurator {
	return &Configurator{catalog: catalog}
}

// Resolve validates a full selection map against the item's groups and
// returns the snapshot list in group order. Used by the HTTP add/update
// path, where the client submits the whole selection at once.
func (c *Configurator) Resolve(item menu.Item, raw map[string][]string) ([]cart.SelectedModifier, error) {
	groups := c.catalog.GroupsFor(item)
	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.ID] = true
	}
	for gid := range raw {
		if !known[gid] {
			return nil, fmt.Errorf("group %q: %w", gid, ErrUnknownGroup)
		}
	}

	var snapshots []cart.SelectedModifier
	for _, g := range groups {
		labels := raw[g.ID]

		if g.SingleSelect() {
			if len(labels) > 1 {
				return nil, fmt.Errorf("group %q: %w", g.ID, ErrMultipleSelections)
			}
			if g.Required && len(labels) == 0 {
				return nil, fmt.Errorf("group %q: %w", g.ID, ErrRequiredGroup)
			}
		} else {
			if g.Required && len(labels) == 0 {
				return nil, fmt.Errorf("group %q: %w", g.ID, ErrRequiredGroup)
			}
			if g.MaxSelections > 0 && len(labels) > g.MaxSelections {
				return nil, fmt.Errorf("group %q: %w", g.ID, ErrTooManySelections)
			}
		}

		seen := make(map[string]bool, len(labels))
		for _, label := range labels {
			if seen[label] {
				continue
			}
			seen[label] = true
			opt, ok := g.Option(label)
			if !ok {
				return nil, fmt.Errorf("group %q: option %q: %w", g.ID, label, ErrUnknownOption)
			}
			snapshots = append(snapshots, cart.SelectedModifier{
				GroupID:     g.ID,
				GroupName:   g.Name,
				OptionLabel: opt.Label,
				PriceDelta:  opt.PriceDelta,
			})
		}
	}
	return snapshots, nil
}

// Price computes quantity x (base price + sum of modifier deltas).
func Price(item menu.Item, modifiers []cart.SelectedModifier, quantity int) decimal.Decimal {
	unit := item.Price
	for _, m := range modifiers {
		unit = unit.Add(m.PriceDelta)
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity)))
}

// Session is one configurator modal lifecycle: opened for an item (fresh
// or editing an existing cart line), mutated by toggles, and finished by
// exactly one Confirm or Cancel.
type Session struct {
	item     menu.Item
	groups   []menu.ModifierGroup
	byID     map[string]menu.ModifierGroup
	picks    map[string]map[string]bool
	quantity int
	notes    string

	editingID string
	closed    bool
}

// Open starts a fresh session: quantity one, empty notes, and the first
// option pre-selected for every required single-select group.
func (c *Configurator) Open(item menu.Item) *Session {
	s := c.newSession(item)
	for _, g := range s.groups {
		if g.SingleSelect() && g.Required && len(g.Options) > 0 {
			s.picks[g.ID][g.Options[0].Label] = true
		}
	}
	return s
}

// OpenForEdit starts a session seeded from an existing cart line. Snapshots
// are mapped back onto groups by group ID; snapshots for groups the item
// no longer has are dropped.
func (c *Configurator) OpenForEdit(item menu.Item, line cart.Item) *Session {
	s := c.newSession(item)
	s.editingID = line.CartID
	s.quantity = line.Quantity
	s.notes = line.Notes

	seeded := make(map[string]bool)
	for _, m := range line.Modifiers {
		if _, ok := s.byID[m.GroupID]; ok {
			s.picks[m.GroupID][m.OptionLabel] = true
			seeded[m.GroupID] = true
		}
	}
	for _, g := range s.groups {
		if !seeded[g.ID] && g.SingleSelect() && g.Required && len(g.Options) > 0 {
			s.picks[g.ID][g.Options[0].Label] = true
		}
	}
	return s
}

func (c *Configurator) newSession(item menu.Item) *Session {
	groups := c.catalog.GroupsFor(item)
	s := &Session{
		item:     item,
		groups:   groups,
		byID:     make(map[string]menu.ModifierGroup, len(groups)),
		picks:    make(map[string]map[string]bool, len(groups)),
		quantity: 1,
	}
	for _, g := range groups {
		s.byID[g.ID] = g
		s.picks[g.ID] = make(map[string]bool)
	}
	return s
}

// Toggle applies one option pick. Single-select groups replace their whole
// selection. Checkbox groups toggle; adding beyond the group's cap is a
// silent no-op, mirroring the soft limit in the UI.
func (s *Session) Toggle(groupID, label string) error {
	if s.closed {
		return ErrSessionClosed
	}
	g, ok := s.byID[groupID]
	if !ok {
		return fmt.Errorf("group %q: %w", groupID, ErrUnknownGroup)
	}
	if _, ok := g.Option(label); !ok {
		return fmt.Errorf("group %q: option %q: %w", groupID, label, ErrUnknownOption)
	}

	set := s.picks[groupID]
	if g.SingleSelect() {
		for picked := range set {
			delete(set, picked)
		}
		set[label] = true
		return nil
	}

	if set[label] {
		delete(set, label)
		return nil
	}
	if g.MaxSelections > 0 && len(set) >= g.MaxSelections {
		return nil
	}
	set[label] = true
	return nil
}

// SetQuantity sets the line quantity, clamped to a minimum of one.
func (s *Session) SetQuantity(quantity int) error {
	if s.closed {
		return ErrSessionClosed
	}
	if quantity < 1 {
		quantity = 1
	}
	s.quantity = quantity
	return nil
}

func (s *Session) SetNotes(notes string) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.notes = notes
	return nil
}

func (s *Session) Quantity() int { return s.quantity }
func (s *Session) Notes() string { return s.notes }

// Editing reports whether the session was opened on an existing cart line.
func (s *Session) Editing() bool { return s.editingID != "" }

// Selected reports whether an option is currently picked.
func (s *Session) Selected(groupID, label string) bool {
	set, ok := s.picks[groupID]
	return ok && set[label]
}

// Selections snapshots the current picks for every group with at least one
// selection, in group order then option order.
func (s *Session) Selections() []cart.SelectedModifier {
	var out []cart.SelectedModifier
	for _, g := range s.groups {
		set := s.picks[g.ID]
		for _, opt := range g.Options {
			if set[opt.Label] {
				out = append(out, cart.SelectedModifier{
					GroupID:     g.ID,
					GroupName:   g.Name,
					OptionLabel: opt.Label,
					PriceDelta:  opt.PriceDelta,
				})
			}
		}
	}
	return out
}

// Total is the live price: recomputed from scratch on demand, never cached.
func (s *Session) Total() decimal.Decimal {
	return Price(s.item, s.Selections(), s.quantity)
}

// Confirm snapshots the session into the cart (a new line, or an overwrite
// of the edited line) and closes the session.
func (s *Session) Confirm(c *cart.Cart) (cart.Item, error) {
	if s.closed {
		return cart.Item{}, ErrSessionClosed
	}
	s.closed = true

	modifiers := s.Selections()
	if s.editingID != "" {
		c.UpdateItem(s.editingID, s.quantity, modifiers, s.notes)
		line, ok := c.Item(s.editingID)
		if !ok {
			// The line was removed while the modal was open; the edit is
			// simply dropped, same as the unmatched-ID no-op elsewhere.
			return cart.Item{}, nil
		}
		return line, nil
	}
	return c.AddWithTotal(s.item, s.quantity, modifiers, s.notes, s.Total()), nil
}

// Cancel discards the session without touching the cart.
func (s *Session) Cancel() {
	s.closed = true
}
