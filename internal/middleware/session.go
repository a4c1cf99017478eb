package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/notebook-cafe/api/internal/auth"
)

type contextKey string

const sessionKey contextKey = "session"

const sessionCookie = "cafe_session"

// Session attaches a guest session ID to every request. A valid session
// cookie is reused; anything else gets a fresh session and a new cookie.
// Carts are keyed by this ID, so losing the cookie means losing the cart,
// which matches the browser-session scope of the order flow.
func Session(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID uuid.UUID

			if cookie, err := r.Cookie(sessionCookie); err == nil {
				if id, err := auth.ValidateSessionToken(jwtSecret, cookie.Value); err == nil {
					sessionID = id
				}
			}

			if sessionID == uuid.Nil {
				sessionID = uuid.New()
				token, err := auth.GenerateSessionToken(jwtSecret, sessionID)
				if err != nil {
					writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), sessionKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the request's session ID, or uuid.Nil when the
// Session middleware did not run.
func SessionFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(sessionKey).(uuid.UUID)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
