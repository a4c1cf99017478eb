package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/notebook-cafe/api/internal/menu"
)

// MenuHandler serves the read-only menu catalog.
type MenuHandler struct {
	catalog *menu.Catalog
}

func NewMenuHandler(catalog *menu.Catalog) *MenuHandler {
	return &MenuHandler{catalog: catalog}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/items/{id}", h.GetItem)
	r.Get("/items/{id}/modifiers", h.GetModifiers)
}

// --- Response types ---

type menuItemResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Section     string `json:"section"`
	Subcategory string `json:"subcategory,omitempty"`
	Tag         string `json:"tag,omitempty"`
}

type modifierOptionResponse struct {
	Label      string `json:"label"`
	PriceDelta string `json:"price_delta"`
}

type modifierGroupResponse struct {
	ID            string                   `json:"id"`
	Name          string                   `json:"name"`
	Type          string                   `json:"type"`
	Required      bool                     `json:"required"`
	Description   string                   `json:"description,omitempty"`
	MaxSelections int                      `json:"max_selections,omitempty"`
	Options       []modifierOptionResponse `json:"options"`
}

func toMenuItemResponse(item menu.Item) menuItemResponse {
	return menuItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.StringFixed(2),
		Section:     item.Section,
		Subcategory: item.Subcategory,
		Tag:         item.Tag,
	}
}

func toModifierGroupResponse(g menu.ModifierGroup) modifierGroupResponse {
	resp := modifierGroupResponse{
		ID:            g.ID,
		Name:          g.Name,
		Type:          g.Type,
		Required:      g.Required,
		Description:   g.Description,
		MaxSelections: g.MaxSelections,
		Options:       make([]modifierOptionResponse, len(g.Options)),
	}
	for i, opt := range g.Options {
		resp.Options[i] = modifierOptionResponse{
			Label:      opt.Label,
			PriceDelta: opt.PriceDelta.StringFixed(2),
		}
	}
	return resp
}

// --- Handlers ---

// List returns every menu item grouped by section, in catalog order.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.catalog.Items()

	sections := make(map[string][]menuItemResponse)
	var order []string
	for _, item := range items {
		if _, seen := sections[item.Section]; !seen {
			order = append(order, item.Section)
		}
		sections[item.Section] = append(sections[item.Section], toMenuItemResponse(item))
	}

	type sectionResponse struct {
		Section string             `json:"section"`
		Items   []menuItemResponse `json:"items"`
	}
	resp := make([]sectionResponse, len(order))
	for i, s := range order {
		resp[i] = sectionResponse{Section: s, Items: sections[s]}
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetItem returns a single menu item together with its modifier groups,
// which is everything the configurator needs to open.
func (h *MenuHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.catalog.Item(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
		return
	}

	groups := h.catalog.GroupsFor(item)
	groupResp := make([]modifierGroupResponse, len(groups))
	for i, g := range groups {
		groupResp[i] = toModifierGroupResponse(g)
	}

	writeJSON(w, http.StatusOK, struct {
		menuItemResponse
		ModifierGroups []modifierGroupResponse `json:"modifier_groups"`
	}{toMenuItemResponse(item), groupResp})
}

// GetModifiers returns the modifier groups applicable to a menu item. An
// item with no groups returns an empty list, meaning it is added directly
// without the configurator.
func (h *MenuHandler) GetModifiers(w http.ResponseWriter, r *http.Request) {
	item, ok := h.catalog.Item(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
		return
	}

	groups := h.catalog.GroupsFor(item)
	resp := make([]modifierGroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = toModifierGroupResponse(g)
	}
	writeJSON(w, http.StatusOK, resp)
}
