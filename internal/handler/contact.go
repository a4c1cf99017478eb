package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/notebook-cafe/api/internal/database"
	"github.com/notebook-cafe/api/internal/email"
)

// ContactStore defines the database methods needed by the contact handler.
// Satisfied by *database.Store; narrow interface for testability.
type ContactStore interface {
	InsertContactMessage(ctx context.Context, arg database.InsertContactMessageParams) (database.ContactMessage, error)
}

// ContactHandler handles the contact form endpoint.
type ContactHandler struct {
	store  ContactStore
	mailer *email.Client
	to     string
}

func NewContactHandler(store ContactStore, mailer *email.Client, to string) *ContactHandler {
	return &ContactHandler{store: store, mailer: mailer, to: to}
}

// RegisterRoutes registers the contact endpoint on the given Chi router.
func (h *ContactHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Submit)
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submit validates and persists a contact message, then notifies staff by
// email. Delivery failure is logged but does not fail the submission; the
// message is already stored.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, email, subject, and message are required"})
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid email address"})
		return
	}

	msg, err := h.store.InsertContactMessage(r.Context(), database.InsertContactMessageParams{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		log.Printf("ERROR: insert contact message: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if h.mailer.Enabled() {
		body := fmt.Sprintf(
			"<h2>New contact message</h2><p><strong>From:</strong> %s (%s)</p><p><strong>Subject:</strong> %s</p><p>%s</p>",
			html.EscapeString(req.Name),
			html.EscapeString(req.Email),
			html.EscapeString(req.Subject),
			html.EscapeString(req.Message),
		)
		if err := h.mailer.Send(r.Context(), email.Message{
			To:      []string{h.to},
			Subject: "Contact form: " + req.Subject,
			HTML:    body,
			ReplyTo: req.Email,
		}); err != nil {
			log.Printf("ERROR: send contact email: %v", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     msg.ID.String(),
		"status": "received",
	})
}
