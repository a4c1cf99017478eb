package handler

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/notebook-cafe/api/internal/auth"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler handles the preview password gate. The site runs behind a
// shared password before launch; verifying it issues a short-lived token
// the frontend stores and sends with preview requests.
type AuthHandler struct {
	passwordHash string
	jwtSecret    string
}

func NewAuthHandler(passwordHash, jwtSecret string) *AuthHandler {
	return &AuthHandler{passwordHash: passwordHash, jwtSecret: jwtSecret}
}

// RegisterRoutes registers auth endpoints on the given Chi router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/verify", h.Verify)
}

type verifyRequest struct {
	Password string `json:"password"`
}

type verifyResponse struct {
	Token string `json:"token"`
}

// Verify checks the preview password and returns a preview token. When no
// password hash is configured the gate is open and verification always
// succeeds.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if h.passwordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "incorrect password"})
			return
		}
	}

	token, err := auth.GeneratePreviewToken(h.jwtSecret)
	if err != nil {
		log.Printf("ERROR: generate preview token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{Token: token})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: encoding JSON response: %v", err)
	}
}
