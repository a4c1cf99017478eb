package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/notebook-cafe/api/internal/cart"
	"github.com/notebook-cafe/api/internal/menu"
	"github.com/notebook-cafe/api/internal/middleware"
	"github.com/notebook-cafe/api/internal/service"
	"github.com/notebook-cafe/api/internal/ws"
)

// CartHandler exposes the per-session cart. Every mutation responds with
// the full cart state and pushes the same state to the session's open
// WebSocket connections, so all tabs stay in sync.
type CartHandler struct {
	carts        *cart.Manager
	catalog      *menu.Catalog
	configurator *service.Configurator
	hub          *ws.Hub
}

func NewCartHandler(carts *cart.Manager, catalog *menu.Catalog, configurator *service.Configurator, hub *ws.Hub) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalog, configurator: configurator, hub: hub}
}

// RegisterRoutes registers cart endpoints on the given Chi router. All
// routes expect the session middleware to have run.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Delete("/", h.Clear)
	r.Post("/items", h.AddItem)
	r.Put("/items/{cartID}", h.UpdateItem)
	r.Patch("/items/{cartID}/quantity", h.UpdateQuantity)
	r.Delete("/items/{cartID}", h.RemoveItem)
	r.Post("/open", h.Open)
	r.Post("/close", h.Close)
	r.Post("/toggle", h.Toggle)
}

// --- Request / Response types ---

type addItemRequest struct {
	ItemID    string              `json:"item_id"`
	Quantity  int                 `json:"quantity"`
	Notes     string              `json:"notes"`
	Modifiers map[string][]string `json:"modifiers"`
}

type updateItemRequest struct {
	Quantity  int                 `json:"quantity"`
	Notes     string              `json:"notes"`
	Modifiers map[string][]string `json:"modifiers"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type selectedModifierResponse struct {
	GroupID     string `json:"group_id"`
	GroupName   string `json:"group_name"`
	OptionLabel string `json:"option_label"`
	PriceDelta  string `json:"price_delta"`
}

type cartItemResponse struct {
	CartID      string                     `json:"cart_id"`
	ItemID      string                     `json:"item_id"`
	Name        string                     `json:"name"`
	Description string                     `json:"description"`
	BasePrice   string                     `json:"base_price"`
	UnitPrice   string                     `json:"unit_price"`
	Section     string                     `json:"section"`
	Subcategory string                     `json:"subcategory,omitempty"`
	Tag         string                     `json:"tag,omitempty"`
	Modifiers   []selectedModifierResponse `json:"modifiers"`
	Notes       string                     `json:"notes,omitempty"`
	Quantity    int                        `json:"quantity"`
	TotalPrice  string                     `json:"total_price"`
}

type cartResponse struct {
	Items    []cartItemResponse `json:"items"`
	Subtotal string             `json:"subtotal"`
	Count    int                `json:"count"`
	IsOpen   bool               `json:"is_open"`
}

func toCartItemResponse(line cart.Item) cartItemResponse {
	resp := cartItemResponse{
		CartID:      line.CartID,
		ItemID:      line.ItemID,
		Name:        line.Name,
		Description: line.Description,
		BasePrice:   line.BasePrice.StringFixed(2),
		UnitPrice:   line.UnitPrice().StringFixed(2),
		Section:     line.Section,
		Subcategory: line.Subcategory,
		Tag:         line.Tag,
		Modifiers:   make([]selectedModifierResponse, len(line.Modifiers)),
		Notes:       line.Notes,
		Quantity:    line.Quantity,
		TotalPrice:  line.TotalPrice.StringFixed(2),
	}
	for i, m := range line.Modifiers {
		resp.Modifiers[i] = selectedModifierResponse{
			GroupID:     m.GroupID,
			GroupName:   m.GroupName,
			OptionLabel: m.OptionLabel,
			PriceDelta:  m.PriceDelta.StringFixed(2),
		}
	}
	return resp
}

func toCartResponse(c *cart.Cart) cartResponse {
	items := c.Items()
	resp := cartResponse{
		Items:    make([]cartItemResponse, len(items)),
		Subtotal: c.Subtotal().StringFixed(2),
		Count:    c.Count(),
		IsOpen:   c.IsOpen(),
	}
	for i, line := range items {
		resp.Items[i] = toCartItemResponse(line)
	}
	return resp
}

// sessionCart resolves the visitor's cart from the session cookie context.
func (h *CartHandler) sessionCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	sessionID := middleware.SessionFromContext(r.Context())
	if sessionID == uuid.Nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing session"})
		return nil, false
	}
	return h.carts.Cart(sessionID), true
}

// respondAndBroadcast writes the cart state and fans it out over WebSocket.
func (h *CartHandler) respondAndBroadcast(w http.ResponseWriter, r *http.Request, c *cart.Cart, eventType string) {
	resp := toCartResponse(c)
	writeJSON(w, http.StatusOK, resp)

	if h.hub == nil {
		return
	}
	sessionID := middleware.SessionFromContext(r.Context())
	if sessionID == uuid.Nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		log.Printf("ERROR: marshal cart event: %v", err)
		return
	}
	h.hub.BroadcastToSession(sessionID, ws.Event{Type: eventType, Payload: payload})
}

// --- Handlers ---

// Get returns the current cart state.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// AddItem validates the selection against the item's modifier groups and
// adds a line. An identical line (same item, notes, modifiers) is merged.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	item, ok := h.catalog.Item(req.ItemID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
		return
	}

	modifiers, err := h.configurator.Resolve(item, req.Modifiers)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	c.Add(item, req.Quantity, modifiers, req.Notes)
	h.respondAndBroadcast(w, r, c, "cart.updated")
}

// UpdateItem overwrites a line's quantity, modifiers, and notes. The line
// keeps its identity even if the edit makes it identical to another line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	cartID := chi.URLParam(r, "cartID")
	line, ok := c.Item(cartID)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "cart item not found"})
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	item, ok := h.catalog.Item(line.ItemID)
	if !ok {
		// Line references an item since removed from the catalog. The
		// snapshot keeps the cart usable but the edit has nothing to
		// validate against.
		writeJSON(w, http.StatusConflict, map[string]string{"error": "menu item no longer available"})
		return
	}

	modifiers, err := h.configurator.Resolve(item, req.Modifiers)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}

	c.UpdateItem(cartID, req.Quantity, modifiers, req.Notes)
	h.respondAndBroadcast(w, r, c, "cart.updated")
}

// UpdateQuantity sets a line's quantity. Zero or below removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c.UpdateQuantity(chi.URLParam(r, "cartID"), req.Quantity)
	h.respondAndBroadcast(w, r, c, "cart.updated")
}

// RemoveItem deletes a line. Removing an unknown ID is a no-op, not an error.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	c.RemoveItem(chi.URLParam(r, "cartID"))
	h.respondAndBroadcast(w, r, c, "cart.updated")
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	c.Clear()
	h.respondAndBroadcast(w, r, c, "cart.cleared")
}

// Open marks the cart drawer visible.
func (h *CartHandler) Open(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	c.Open()
	h.respondAndBroadcast(w, r, c, "cart.opened")
}

// Close marks the cart drawer hidden.
func (h *CartHandler) Close(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	c.Close()
	h.respondAndBroadcast(w, r, c, "cart.closed")
}

// Toggle flips the drawer visibility.
func (h *CartHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	c.Toggle()
	h.respondAndBroadcast(w, r, c, "cart.toggled")
}
