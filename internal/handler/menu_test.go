package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/notebook-cafe/api/internal/handler"
	"github.com/notebook-cafe/api/internal/menu"
)

const testCatalogYAML = `
groups:
  - id: size
    name: Size
    type: radio
    required: true
    options:
      - { label: Small, price_delta: "0" }
      - { label: Large, price_delta: "0.75" }

  - id: extras
    name: Extras
    type: checkbox
    max_selections: 2
    options:
      - { label: Shot, price_delta: "1.00" }
      - { label: Syrup, price_delta: "0.50" }
      - { label: Foam, price_delta: "1.25" }

sets:
  drinks: [size, extras]

section_sets:
  drinks: drinks

items:
  - id: latte
    name: Latte
    description: Espresso with steamed milk
    price: "4.50"
    section: drinks

  - id: cookie
    name: Cookie
    description: One big cookie
    price: "3.00"
    section: desserts
`

func testCatalog(t *testing.T) *menu.Catalog {
	t.Helper()
	catalog, err := menu.Parse([]byte(testCatalogYAML))
	if err != nil {
		t.Fatalf("parse test catalog: %v", err)
	}
	return catalog
}

func setupMenuRouter(t *testing.T) *chi.Mux {
	t.Helper()
	h := handler.NewMenuHandler(testCatalog(t))
	r := chi.NewRouter()
	r.Route("/menu", h.RegisterRoutes)
	return r
}

// doRequest runs one request through the router and returns the recorder.
func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestMenuList(t *testing.T) {
	router := setupMenuRouter(t)

	rr := doRequest(t, router, "GET", "/menu", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200; body: %s", rr.Code, rr.Body.String())
	}

	var sections []struct {
		Section string `json:"section"`
		Items   []struct {
			ID    string `json:"id"`
			Price string `json:"price"`
		} `json:"items"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&sections); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(sections) != 2 {
		t.Fatalf("sections: got %d, want 2", len(sections))
	}
	if sections[0].Section != "drinks" || sections[0].Items[0].ID != "latte" {
		t.Errorf("first section: got %s/%s, want drinks/latte", sections[0].Section, sections[0].Items[0].ID)
	}
	if sections[0].Items[0].Price != "4.50" {
		t.Errorf("latte price: got %s, want 4.50", sections[0].Items[0].Price)
	}
}

func TestMenuGetItem(t *testing.T) {
	router := setupMenuRouter(t)

	rr := doRequest(t, router, "GET", "/menu/items/latte", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var item map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&item); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if item["name"] != "Latte" {
		t.Errorf("name: got %v, want Latte", item["name"])
	}
	groups, ok := item["modifier_groups"].([]interface{})
	if !ok || len(groups) != 2 {
		t.Errorf("modifier groups in item response: got %v, want 2 groups", item["modifier_groups"])
	}
}

func TestMenuGetItemNotFound(t *testing.T) {
	router := setupMenuRouter(t)

	rr := doRequest(t, router, "GET", "/menu/items/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}

func TestMenuGetModifiers(t *testing.T) {
	router := setupMenuRouter(t)

	rr := doRequest(t, router, "GET", "/menu/items/latte/modifiers", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var groups []struct {
		ID            string `json:"id"`
		Type          string `json:"type"`
		Required      bool   `json:"required"`
		MaxSelections int    `json:"max_selections"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&groups); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups: got %d, want 2", len(groups))
	}
	if groups[0].ID != "size" || !groups[0].Required {
		t.Errorf("first group: got %+v, want required size group", groups[0])
	}
	if groups[1].MaxSelections != 2 {
		t.Errorf("extras max_selections: got %d, want 2", groups[1].MaxSelections)
	}
}

func TestMenuGetModifiersPlainItem(t *testing.T) {
	router := setupMenuRouter(t)

	rr := doRequest(t, router, "GET", "/menu/items/cookie/modifiers", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var groups []interface{}
	if err := json.NewDecoder(rr.Body).Decode(&groups); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("plain item groups: got %d, want 0", len(groups))
	}
}
