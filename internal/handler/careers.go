package handler

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/notebook-cafe/api/internal/database"
	"github.com/notebook-cafe/api/internal/email"
	"github.com/notebook-cafe/api/internal/storage"
)

const maxResumeSize = 5 << 20 // 5MB

// resumeContentTypes maps accepted resume extensions to their MIME type.
var resumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// CareersStore defines the database methods needed by the careers handler.
// Satisfied by *database.Store; narrow interface for testability.
type CareersStore interface {
	InsertCareerApplication(ctx context.Context, arg database.InsertCareerApplicationParams) (database.CareerApplication, error)
}

// CareersHandler handles job application submissions.
type CareersHandler struct {
	store   CareersStore
	mailer  *email.Client
	uploads *storage.Client
	to      string
}

func NewCareersHandler(store CareersStore, mailer *email.Client, uploads *storage.Client, to string) *CareersHandler {
	return &CareersHandler{store: store, mailer: mailer, uploads: uploads, to: to}
}

// RegisterRoutes registers the careers endpoint on the given Chi router.
func (h *CareersHandler) RegisterRoutes(r chi.Router) {
	r.Post("/apply", h.Apply)
}

// Apply accepts a multipart application form with an optional resume file.
// Resumes must be .pdf, .doc, or .docx and at most 5MB.
func (h *CareersHandler) Apply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxResumeSize+1<<20)
	if err := r.ParseMultipartForm(maxResumeSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	emailAddr := strings.TrimSpace(r.FormValue("email"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	position := strings.TrimSpace(r.FormValue("position"))
	availability := strings.TrimSpace(r.FormValue("availability"))
	message := strings.TrimSpace(r.FormValue("message"))

	if name == "" || emailAddr == "" || phone == "" || position == "" || availability == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name, email, phone, position, and availability are required"})
		return
	}
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid email address"})
		return
	}

	var (
		resumeName  string
		resumeBytes []byte
		resumeURL   pgtype.Text
	)
	file, header, err := r.FormFile("resume")
	switch {
	case err == http.ErrMissingFile:
		// Resume is optional.
	case err != nil:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid resume upload"})
		return
	default:
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		contentType, ok := resumeContentTypes[ext]
		if !ok {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "resume must be a .pdf, .doc, or .docx file"})
			return
		}
		if header.Size > maxResumeSize {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "resume must be 5MB or smaller"})
			return
		}

		resumeBytes, err = io.ReadAll(io.LimitReader(file, maxResumeSize+1))
		if err != nil {
			log.Printf("ERROR: read resume: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		if len(resumeBytes) > maxResumeSize {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "resume must be 5MB or smaller"})
			return
		}
		resumeName = header.Filename

		if h.uploads.Enabled() {
			key := fmt.Sprintf("resumes/%s%s", uuid.NewString(), ext)
			url, err := h.uploads.Upload(r.Context(), key, contentType, bytes.NewReader(resumeBytes))
			if err != nil {
				log.Printf("ERROR: upload resume: %v", err)
			} else {
				resumeURL = pgtype.Text{String: url, Valid: true}
			}
		}
	}

	messageText := pgtype.Text{}
	if message != "" {
		messageText = pgtype.Text{String: message, Valid: true}
	}

	app, err := h.store.InsertCareerApplication(r.Context(), database.InsertCareerApplicationParams{
		Name:         name,
		Email:        emailAddr,
		Phone:        phone,
		Position:     position,
		Availability: availability,
		Message:      messageText,
		ResumeURL:    resumeURL,
	})
	if err != nil {
		log.Printf("ERROR: insert career application: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if h.mailer.Enabled() {
		body := fmt.Sprintf(
			"<h2>New job application</h2><p><strong>Name:</strong> %s</p><p><strong>Email:</strong> %s</p><p><strong>Phone:</strong> %s</p><p><strong>Position:</strong> %s</p><p><strong>Availability:</strong> %s</p><p>%s</p>",
			html.EscapeString(name),
			html.EscapeString(emailAddr),
			html.EscapeString(phone),
			html.EscapeString(position),
			html.EscapeString(availability),
			html.EscapeString(message),
		)
		msg := email.Message{
			To:      []string{h.to},
			Subject: "Job application: " + position,
			HTML:    body,
			ReplyTo: emailAddr,
		}
		if resumeName != "" {
			msg.Attachments = []email.Attachment{{Filename: resumeName, Content: resumeBytes}}
		}
		if err := h.mailer.Send(r.Context(), msg); err != nil {
			log.Printf("ERROR: send application email: %v", err)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":     app.ID.String(),
		"status": "received",
	})
}
