package menu

import (
	"strings"
	"testing"
)

func TestDefaultCatalogLoads(t *testing.T) {
	catalog, err := Default()
	if err != nil {
		t.Fatalf("embedded catalog: %v", err)
	}

	items := catalog.Items()
	if len(items) == 0 {
		t.Fatal("embedded catalog has no items")
	}

	// Spot-check a known item.
	capp, ok := catalog.Item("4")
	if !ok {
		t.Fatal("cappuccino missing from embedded catalog")
	}
	if capp.Name != "Cappuccino" {
		t.Errorf("item 4 name: got %q, want Cappuccino", capp.Name)
	}
	if got := capp.Price.StringFixed(2); got != "4.50" {
		t.Errorf("cappuccino price: got %s, want 4.50", got)
	}
}

func TestGroupsForResolvesBySection(t *testing.T) {
	catalog, err := Default()
	if err != nil {
		t.Fatalf("embedded catalog: %v", err)
	}

	capp, _ := catalog.Item("4")
	groups := catalog.GroupsFor(capp)
	if len(groups) == 0 {
		t.Fatal("drinks item should resolve section modifier groups")
	}
	if groups[0].ID != "size" {
		t.Errorf("first drinks group: got %q, want size", groups[0].ID)
	}
}

func TestGroupsForItemOverrideWinsOverSubcategory(t *testing.T) {
	catalog, err := Default()
	if err != nil {
		t.Fatalf("embedded catalog: %v", err)
	}

	// The Classic Chapter carries its own modifier set, narrower than the
	// one its subcategory would give it.
	classic, ok := catalog.Item("29")
	if !ok {
		t.Fatal("item 29 missing from embedded catalog")
	}
	groups := catalog.GroupsFor(classic)
	if len(groups) != 1 || groups[0].ID != "extraToppings" {
		ids := make([]string, len(groups))
		for i, g := range groups {
			ids[i] = g.ID
		}
		t.Errorf("item override groups: got %v, want [extraToppings]", ids)
	}
}

func TestGroupsForPlainItemIsEmpty(t *testing.T) {
	catalog, err := Parse([]byte(`
items:
  - id: cookie
    name: Cookie
    description: Plain
    price: "3.00"
    section: desserts
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	item, _ := catalog.Item("cookie")
	if groups := catalog.GroupsFor(item); len(groups) != 0 {
		t.Errorf("plain item groups: got %d, want 0", len(groups))
	}
}

// --- Validation failures ---

func wantParseError(t *testing.T, yaml, fragment string) {
	t.Helper()
	_, err := Parse([]byte(yaml))
	if err == nil {
		t.Fatalf("expected parse error containing %q, got nil", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Errorf("error %q does not mention %q", err, fragment)
	}
}

func TestParseRejectsDuplicateItemID(t *testing.T) {
	wantParseError(t, `
items:
  - { id: a, name: One, price: "1.00", section: drinks }
  - { id: a, name: Two, price: "2.00", section: drinks }
`, "duplicate id")
}

func TestParseRejectsUnknownSection(t *testing.T) {
	wantParseError(t, `
items:
  - { id: a, name: One, price: "1.00", section: brunch }
`, "section")
}

func TestParseRejectsUnknownModifierSet(t *testing.T) {
	wantParseError(t, `
items:
  - { id: a, name: One, price: "1.00", section: drinks, modifier_set: nope }
`, "unknown modifier set")
}

func TestParseRejectsBadPrice(t *testing.T) {
	wantParseError(t, `
items:
  - { id: a, name: One, price: "free", section: drinks }
`, "price")
}

func TestParseRejectsNegativePrice(t *testing.T) {
	wantParseError(t, `
items:
  - { id: a, name: One, price: "-1.00", section: drinks }
`, "price")
}

func TestParseRejectsBadGroupType(t *testing.T) {
	wantParseError(t, `
groups:
  - id: g
    name: G
    type: dropdown
    options:
      - { label: X, price_delta: "0" }
`, "type")
}

func TestParseRejectsMaxSelectionsOnRadio(t *testing.T) {
	wantParseError(t, `
groups:
  - id: g
    name: G
    type: radio
    max_selections: 2
    options:
      - { label: X, price_delta: "0" }
`, "max_selections")
}

func TestParseRejectsGroupWithoutOptions(t *testing.T) {
	wantParseError(t, `
groups:
  - id: g
    name: G
    type: radio
`, "option")
}

func TestParseRejectsDuplicateOptionLabel(t *testing.T) {
	wantParseError(t, `
groups:
  - id: g
    name: G
    type: radio
    options:
      - { label: X, price_delta: "0" }
      - { label: X, price_delta: "1.00" }
`, "duplicate")
}

func TestParseRejectsSetWithUnknownGroup(t *testing.T) {
	wantParseError(t, `
sets:
  drinks: [nope]
`, "unknown modifier group")
}
