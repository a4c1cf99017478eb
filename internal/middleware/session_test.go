package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/notebook-cafe/api/internal/auth"
)

const testSecret = "test-secret"

func sessionEcho() (http.Handler, *uuid.UUID) {
	var captured uuid.UUID
	h := Session(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = SessionFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	return h, &captured
}

func TestSessionIssuesCookieForNewVisitor(t *testing.T) {
	h, captured := sessionEcho()

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/cart", nil))

	if *captured == uuid.Nil {
		t.Fatal("handler did not receive a session ID")
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "cafe_session" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("no session cookie set")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie should be HttpOnly")
	}

	got, err := auth.ValidateSessionToken(testSecret, cookie.Value)
	if err != nil {
		t.Fatalf("cookie token invalid: %v", err)
	}
	if got != *captured {
		t.Errorf("cookie session %s != context session %s", got, *captured)
	}
}

func TestSessionReusesValidCookie(t *testing.T) {
	h, captured := sessionEcho()

	sessionID := uuid.New()
	token, err := auth.GenerateSessionToken(testSecret, sessionID)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest("GET", "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cafe_session", Value: token})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if *captured != sessionID {
		t.Errorf("session: got %s, want %s", *captured, sessionID)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == "cafe_session" {
			t.Error("valid cookie should not be reissued")
		}
	}
}

func TestSessionReplacesTamperedCookie(t *testing.T) {
	h, captured := sessionEcho()

	req := httptest.NewRequest("GET", "/cart", nil)
	req.AddCookie(&http.Cookie{Name: "cafe_session", Value: "tampered"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if *captured == uuid.Nil {
		t.Fatal("handler did not receive a fresh session ID")
	}

	replaced := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == "cafe_session" && c.Value != "tampered" {
			replaced = true
		}
	}
	if !replaced {
		t.Error("tampered cookie should be replaced with a fresh one")
	}
}
