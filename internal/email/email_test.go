package email_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/notebook-cafe/api/internal/email"
)

func TestSendPostsResendPayload(t *testing.T) {
	var got map[string]interface{}
	var authHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/emails" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	client := email.NewClient("re_test_key", "cafe@example.com").WithBaseURL(srv.URL)

	err := client.Send(context.Background(), email.Message{
		To:      []string{"staff@example.com"},
		Subject: "New application",
		HTML:    "<p>hello</p>",
		ReplyTo: "applicant@example.com",
		Attachments: []email.Attachment{
			{Filename: "resume.pdf", Content: []byte("%PDF-fake")},
		},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if authHeader != "Bearer re_test_key" {
		t.Errorf("auth header: got %q", authHeader)
	}
	if got["from"] != "cafe@example.com" {
		t.Errorf("from: got %v", got["from"])
	}
	if got["reply_to"] != "applicant@example.com" {
		t.Errorf("reply_to: got %v", got["reply_to"])
	}

	attachments := got["attachments"].([]interface{})
	if len(attachments) != 1 {
		t.Fatalf("attachments: got %d, want 1", len(attachments))
	}
	content := attachments[0].(map[string]interface{})["content"].(string)
	decoded, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		t.Fatalf("attachment not base64: %v", err)
	}
	if string(decoded) != "%PDF-fake" {
		t.Errorf("attachment content: got %q", decoded)
	}
}

func TestSendSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid from address"}`))
	}))
	defer srv.Close()

	client := email.NewClient("re_test_key", "bad").WithBaseURL(srv.URL)

	err := client.Send(context.Background(), email.Message{To: []string{"x@example.com"}})
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestDisabledClientIsNoOp(t *testing.T) {
	client := email.NewClient("", "cafe@example.com")

	if client.Enabled() {
		t.Error("client without API key should be disabled")
	}
	if err := client.Send(context.Background(), email.Message{To: []string{"x@example.com"}}); err != nil {
		t.Errorf("disabled send: %v", err)
	}
}
