package menu

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/notebook-cafe/api/internal/enum"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Catalog holds the menu items and the static modifier-group tables.
// It is immutable after Load; lookups are safe for concurrent use.
type Catalog struct {
	items  []Item
	byID   map[string]Item
	groups map[string]ModifierGroup

	// sets maps a set name to an ordered list of group IDs.
	sets map[string][]string

	sectionSets     map[string]string
	subcategorySets map[string]string
}

// --- Raw YAML shapes ---

type rawCatalog struct {
	Items           []rawItem           `yaml:"items"`
	Groups          []rawGroup          `yaml:"groups"`
	Sets            map[string][]string `yaml:"sets"`
	SectionSets     map[string]string   `yaml:"section_sets"`
	SubcategorySets map[string]string   `yaml:"subcategory_sets"`
}

type rawItem struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Section     string `yaml:"section"`
	Subcategory string `yaml:"subcategory"`
	Tag         string `yaml:"tag"`
	ModifierSet string `yaml:"modifier_set"`
}

type rawGroup struct {
	ID            string      `yaml:"id"`
	Name          string      `yaml:"name"`
	Type          string      `yaml:"type"`
	Required      bool        `yaml:"required"`
	MaxSelections int         `yaml:"max_selections"`
	Description   string      `yaml:"description"`
	Options       []rawOption `yaml:"options"`
}

type rawOption struct {
	Label      string `yaml:"label"`
	PriceDelta string `yaml:"price_delta"`
}

// Default loads the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFile loads a catalog from a YAML file on disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates catalog YAML. Malformed catalog data is a
// deployment error, so every problem fails loudly here rather than
// surfacing mid-order.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{
		byID:            make(map[string]Item),
		groups:          make(map[string]ModifierGroup),
		sets:            make(map[string][]string),
		sectionSets:     raw.SectionSets,
		subcategorySets: raw.SubcategorySets,
	}
	if c.sectionSets == nil {
		c.sectionSets = map[string]string{}
	}
	if c.subcategorySets == nil {
		c.subcategorySets = map[string]string{}
	}

	for _, rg := range raw.Groups {
		g, err := buildGroup(rg)
		if err != nil {
			return nil, err
		}
		if _, dup := c.groups[g.ID]; dup {
			return nil, fmt.Errorf("modifier group %q: duplicate id", g.ID)
		}
		c.groups[g.ID] = g
	}

	for name, groupIDs := range raw.Sets {
		for _, gid := range groupIDs {
			if _, ok := c.groups[gid]; !ok {
				return nil, fmt.Errorf("set %q: unknown modifier group %q", name, gid)
			}
		}
		c.sets[name] = groupIDs
	}

	for section, set := range c.sectionSets {
		if _, ok := c.sets[set]; !ok {
			return nil, fmt.Errorf("section %q: unknown set %q", section, set)
		}
	}
	for subcategory, set := range c.subcategorySets {
		if _, ok := c.sets[set]; !ok {
			return nil, fmt.Errorf("subcategory %q: unknown set %q", subcategory, set)
		}
	}

	for _, ri := range raw.Items {
		item, err := buildItem(ri)
		if err != nil {
			return nil, err
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("item %q: duplicate id", item.ID)
		}
		if item.ModifierSet != "" {
			if _, ok := c.sets[item.ModifierSet]; !ok {
				return nil, fmt.Errorf("item %q: unknown modifier set %q", item.ID, item.ModifierSet)
			}
		}
		c.byID[item.ID] = item
		c.items = append(c.items, item)
	}

	return c, nil
}

func buildItem(ri rawItem) (Item, error) {
	if ri.ID == "" || ri.Name == "" {
		return Item{}, fmt.Errorf("item %q: id and name are required", ri.ID)
	}
	switch ri.Section {
	case enum.SectionDrinks, enum.SectionMeals, enum.SectionDesserts:
	default:
		return Item{}, fmt.Errorf("item %q: invalid section %q", ri.ID, ri.Section)
	}
	switch ri.Tag {
	case "", enum.TagPopular, enum.TagSeasonal, enum.TagNew:
	default:
		return Item{}, fmt.Errorf("item %q: invalid tag %q", ri.ID, ri.Tag)
	}
	price, err := decimal.NewFromString(ri.Price)
	if err != nil {
		return Item{}, fmt.Errorf("item %q: invalid price %q", ri.ID, ri.Price)
	}
	if price.IsNegative() {
		return Item{}, fmt.Errorf("item %q: price must be >= 0", ri.ID)
	}
	return Item{
		ID:          ri.ID,
		Name:        ri.Name,
		Description: ri.Description,
		Price:       price,
		Section:     ri.Section,
		Subcategory: ri.Subcategory,
		Tag:         ri.Tag,
		ModifierSet: ri.ModifierSet,
	}, nil
}

func buildGroup(rg rawGroup) (ModifierGroup, error) {
	if rg.ID == "" || rg.Name == "" {
		return ModifierGroup{}, fmt.Errorf("modifier group %q: id and name are required", rg.ID)
	}
	switch rg.Type {
	case enum.GroupTypeRadio, enum.GroupTypeSelect, enum.GroupTypeCheckbox:
	default:
		return ModifierGroup{}, fmt.Errorf("modifier group %q: invalid type %q", rg.ID, rg.Type)
	}
	if rg.MaxSelections != 0 {
		if rg.Type != enum.GroupTypeCheckbox {
			return ModifierGroup{}, fmt.Errorf("modifier group %q: max_selections only applies to checkbox groups", rg.ID)
		}
		if rg.MaxSelections < 1 {
			return ModifierGroup{}, fmt.Errorf("modifier group %q: max_selections must be >= 1", rg.ID)
		}
	}
	if len(rg.Options) == 0 {
		return ModifierGroup{}, fmt.Errorf("modifier group %q: at least one option is required", rg.ID)
	}

	g := ModifierGroup{
		ID:            rg.ID,
		Name:          rg.Name,
		Type:          rg.Type,
		Required:      rg.Required,
		Description:   rg.Description,
		MaxSelections: rg.MaxSelections,
	}
	seen := make(map[string]bool, len(rg.Options))
	for _, ro := range rg.Options {
		if ro.Label == "" {
			return ModifierGroup{}, fmt.Errorf("modifier group %q: option label is required", rg.ID)
		}
		if seen[ro.Label] {
			return ModifierGroup{}, fmt.Errorf("modifier group %q: duplicate option %q", rg.ID, ro.Label)
		}
		seen[ro.Label] = true

		deltaStr := ro.PriceDelta
		if deltaStr == "" {
			deltaStr = "0"
		}
		delta, err := decimal.NewFromString(deltaStr)
		if err != nil {
			return ModifierGroup{}, fmt.Errorf("modifier group %q: option %q: invalid price_delta %q", rg.ID, ro.Label, ro.PriceDelta)
		}
		g.Options = append(g.Options, ModifierOption{Label: ro.Label, PriceDelta: delta})
	}
	return g, nil
}

// --- Lookups ---

// Items returns all catalog items in file order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the item with the given id.
func (c *Catalog) Item(id string) (Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// Group returns the modifier group with the given id.
func (c *Catalog) Group(id string) (ModifierGroup, bool) {
	g, ok := c.groups[id]
	return g, ok
}

// GroupsFor returns the ordered modifier groups applicable to an item.
// Resolution order: the item's explicit modifier_set, then its subcategory,
// then its section. Items with no applicable set have no options and are
// priced on base price alone.
func (c *Catalog) GroupsFor(item Item) []ModifierGroup {
	set := item.ModifierSet
	if set == "" {
		set = c.subcategorySets[item.Subcategory]
	}
	if set == "" {
		set = c.sectionSets[item.Section]
	}
	if set == "" {
		return nil
	}

	ids := c.sets[set]
	groups := make([]ModifierGroup, 0, len(ids))
	for _, gid := range ids {
		groups = append(groups, c.groups[gid])
	}
	return groups
}
