package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/notebook-cafe/api/internal/database"
)

// NewsletterStore defines the database methods needed by newsletter handlers.
// Satisfied by *database.Store; narrow interface for testability.
type NewsletterStore interface {
	UpsertNewsletterSubscriber(ctx context.Context, arg database.UpsertNewsletterSubscriberParams) (database.NewsletterSubscriber, error)
	UnsubscribeNewsletter(ctx context.Context, email string) (bool, error)
}

// NewsletterHandler handles newsletter subscription endpoints.
type NewsletterHandler struct {
	store NewsletterStore
}

func NewNewsletterHandler(store NewsletterStore) *NewsletterHandler {
	return &NewsletterHandler{store: store}
}

// RegisterRoutes registers newsletter endpoints on the given Chi router.
func (h *NewsletterHandler) RegisterRoutes(r chi.Router) {
	r.Post("/subscribe", h.Subscribe)
	r.Post("/unsubscribe", h.Unsubscribe)
}

type subscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

type unsubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe adds the email to the newsletter list. Subscribing an address
// that is already on the list (or previously unsubscribed) reactivates it.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid email address"})
		return
	}

	sub, err := h.store.UpsertNewsletterSubscriber(r.Context(), database.UpsertNewsletterSubscriberParams{
		Email:  req.Email,
		Source: strings.TrimSpace(req.Source),
	})
	if err != nil {
		log.Printf("ERROR: subscribe newsletter: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"email":  sub.Email,
		"status": sub.Status,
	})
}

// Unsubscribe flags the email as unsubscribed.
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	found, err := h.store.UnsubscribeNewsletter(r.Context(), req.Email)
	if err != nil {
		log.Printf("ERROR: unsubscribe newsletter: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "email is not subscribed"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
