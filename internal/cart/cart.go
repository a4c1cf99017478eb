package cart

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/notebook-cafe/api/internal/menu"
	"github.com/shopspring/decimal"
)

// SelectedModifier is a snapshot of a chosen option taken at confirm time.
// Copying the label and price delta (instead of referencing the catalog)
// keeps an existing line's price and description stable across catalog edits.
type SelectedModifier struct {
	GroupID     string
	GroupName   string
	OptionLabel string
	PriceDelta  decimal.Decimal
}

// Item is one configured line in the cart.
type Item struct {
	CartID      string
	ItemID      string
	Name        string
	Description string
	BasePrice   decimal.Decimal
	Section     string
	Subcategory string
	Tag         string

	Modifiers  []SelectedModifier
	Notes      string
	Quantity   int
	TotalPrice decimal.Decimal
}

// UnitPrice is the per-unit price: base price plus the sum of modifier deltas.
func (i Item) UnitPrice() decimal.Decimal {
	price := i.BasePrice
	for _, m := range i.Modifiers {
		price = price.Add(m.PriceDelta)
	}
	return price
}

// Cart is the single source of truth for one visitor's order in progress.
// All operations are total: an unmatched cart ID is a no-op, a quantity
// below one removes the line. Safe for concurrent use.
type Cart struct {
	mu     sync.Mutex
	items  []Item
	isOpen bool
}

func New() *Cart {
	return &Cart{}
}

// Add appends a configured line, computing its total from the unit price.
// If an existing line has the same item, notes, and modifier set, that
// line's quantity is bumped instead and no new line is created.
func (c *Cart) Add(item menu.Item, quantity int, modifiers []SelectedModifier, notes string) Item {
	return c.add(item, quantity, modifiers, notes, decimal.Decimal{}, false)
}

// AddWithTotal is Add with a caller-supplied total, used when the
// configurator already displayed a computed price. Merged lines are always
// re-priced from the unit price regardless of the override.
func (c *Cart) AddWithTotal(item menu.Item, quantity int, modifiers []SelectedModifier, notes string, total decimal.Decimal) Item {
	return c.add(item, quantity, modifiers, notes, total, true)
}

func (c *Cart) add(item menu.Item, quantity int, modifiers []SelectedModifier, notes string, total decimal.Decimal, hasTotal bool) Item {
	if quantity < 1 {
		quantity = 1
	}
	notes = strings.TrimSpace(notes)

	c.mu.Lock()
	defer c.mu.Unlock()

	sig := signature(item.ID, notes, modifiers)
	for idx := range c.items {
		line := &c.items[idx]
		if signature(line.ItemID, line.Notes, line.Modifiers) == sig {
			line.Quantity += quantity
			line.TotalPrice = line.UnitPrice().Mul(decimal.NewFromInt(int64(line.Quantity)))
			return cloneItem(*line)
		}
	}

	line := Item{
		CartID:      uuid.NewString(),
		ItemID:      item.ID,
		Name:        item.Name,
		Description: item.Description,
		BasePrice:   item.Price,
		Section:     item.Section,
		Subcategory: item.Subcategory,
		Tag:         item.Tag,
		Modifiers:   cloneModifiers(modifiers),
		Notes:       notes,
		Quantity:    quantity,
	}
	if hasTotal {
		line.TotalPrice = total
	} else {
		line.TotalPrice = line.UnitPrice().Mul(decimal.NewFromInt(int64(quantity)))
	}
	c.items = append(c.items, line)
	return cloneItem(line)
}

// RemoveItem deletes the line with the given cart ID, if present.
func (c *Cart) RemoveItem(cartID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(cartID)
}

func (c *Cart) removeLocked(cartID string) {
	for idx := range c.items {
		if c.items[idx].CartID == cartID {
			c.items = append(c.items[:idx], c.items[idx+1:]...)
			return
		}
	}
}

// UpdateQuantity sets a line's quantity and re-prices it from its unit
// price. A quantity below one removes the line instead of storing it.
func (c *Cart) UpdateQuantity(cartID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity < 1 {
		c.removeLocked(cartID)
		return
	}
	for idx := range c.items {
		line := &c.items[idx]
		if line.CartID == cartID {
			line.Quantity = quantity
			line.TotalPrice = line.UnitPrice().Mul(decimal.NewFromInt(int64(quantity)))
			return
		}
	}
}

// UpdateItem overwrites a line's quantity, modifiers, and notes (the edit
// flow) and recomputes its total. Unlike Add, this never merges with
// another line, even when the edit makes two lines identical.
func (c *Cart) UpdateItem(cartID string, quantity int, modifiers []SelectedModifier, notes string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity < 1 {
		c.removeLocked(cartID)
		return
	}
	for idx := range c.items {
		line := &c.items[idx]
		if line.CartID == cartID {
			line.Quantity = quantity
			line.Modifiers = cloneModifiers(modifiers)
			line.Notes = strings.TrimSpace(notes)
			line.TotalPrice = line.UnitPrice().Mul(decimal.NewFromInt(int64(quantity)))
			return
		}
	}
}

// Clear empties the cart unconditionally.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Open, Close, and Toggle control the drawer visibility flag. They never
// touch line data.
func (c *Cart) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isOpen = true
}

func (c *Cart) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isOpen = false
}

func (c *Cart) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isOpen = !c.isOpen
}

func (c *Cart) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isOpen
}

// Items returns a copy of the current lines.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Item, len(c.items))
	for idx, line := range c.items {
		out[idx] = cloneItem(line)
	}
	return out
}

// Item returns the line with the given cart ID.
func (c *Cart) Item(cartID string) (Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range c.items {
		if line.CartID == cartID {
			return cloneItem(line), true
		}
	}
	return Item{}, false
}

// Subtotal is the sum of line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum := decimal.Zero
	for _, line := range c.items {
		sum = sum.Add(line.TotalPrice)
	}
	return sum
}

// Count is the sum of line quantities.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, line := range c.items {
		n += line.Quantity
	}
	return n
}

// signature builds the order-independent merge key: item identity, notes,
// and the modifier multiset as group+option+delta triples.
func signature(itemID, notes string, modifiers []SelectedModifier) string {
	keys := make([]string, len(modifiers))
	for idx, m := range modifiers {
		keys[idx] = m.GroupID + "\x00" + m.OptionLabel + "\x00" + m.PriceDelta.String()
	}
	sort.Strings(keys)
	return itemID + "\x01" + strings.TrimSpace(notes) + "\x01" + strings.Join(keys, "\x01")
}

func cloneModifiers(modifiers []SelectedModifier) []SelectedModifier {
	if len(modifiers) == 0 {
		return nil
	}
	out := make([]SelectedModifier, len(modifiers))
	copy(out, modifiers)
	return out
}

func cloneItem(line Item) Item {
	line.Modifiers = cloneModifiers(line.Modifiers)
	return line
}
