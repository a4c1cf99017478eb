package auth

import (
	"testing"

	"github.com/google/uuid"
)

const testSecret = "test-secret"

func TestSessionTokenRoundTrip(t *testing.T) {
	sessionID := uuid.New()

	token, err := GenerateSessionToken(testSecret, sessionID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	got, err := ValidateSessionToken(testSecret, token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != sessionID {
		t.Errorf("session id: got %s, want %s", got, sessionID)
	}
}

func TestSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken(testSecret, uuid.New())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateSessionToken("other-secret", token); err == nil {
		t.Error("token signed with another secret should not validate")
	}
}

func TestSessionTokenRejectsGarbage(t *testing.T) {
	if _, err := ValidateSessionToken(testSecret, "not-a-token"); err == nil {
		t.Error("garbage token should not validate")
	}
}

func TestPreviewTokenRoundTrip(t *testing.T) {
	token, err := GeneratePreviewToken(testSecret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if err := ValidatePreviewToken(testSecret, token); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestPreviewTokenIsNotASessionToken(t *testing.T) {
	token, err := GeneratePreviewToken(testSecret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := ValidateSessionToken(testSecret, token); err == nil {
		t.Error("preview token should not validate as a session token")
	}
}
