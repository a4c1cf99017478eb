package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/notebook-cafe/api/internal/enum"
)

// Store holds the handwritten queries for form submissions. The ordering
// flow itself never touches the database; only the contact, careers, and
// newsletter endpoints persist anything.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool and verifies the connection.
func Connect(ctx context.Context, databaseURL string) (*Store, *pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}
	return New(pool), pool, nil
}

// --- Contact messages ---

type ContactMessage struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Subject   string
	Message   string
	Status    string
	CreatedAt time.Time
}

type InsertContactMessageParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}

func (s *Store) InsertContactMessage(ctx context.Context, arg InsertContactMessageParams) (ContactMessage, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		RETURNING id, name, email, subject, message, status, created_at`,
		uuid.New(), arg.Name, arg.Email, arg.Subject, arg.Message, enum.SubmissionStatusNew,
	)
	var m ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.CreatedAt)
	return m, err
}

// --- Career applications ---

type CareerApplication struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	Position     string
	Availability string
	Message      pgtype.Text
	ResumeURL    pgtype.Text
	Status       string
	CreatedAt    time.Time
}

type InsertCareerApplicationParams struct {
	Name         string
	Email        string
	Phone        string
	Position     string
	Availability string
	Message      pgtype.Text
	ResumeURL    pgtype.Text
}

func (s *Store) InsertCareerApplication(ctx context.Context, arg InsertCareerApplicationParams) (CareerApplication, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO career_applications
			(id, name, email, phone, position, availability, message, resume_url, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		RETURNING id, name, email, phone, position, availability, message, resume_url, status, created_at`,
		uuid.New(), arg.Name, arg.Email, arg.Phone, arg.Position, arg.Availability,
		arg.Message, arg.ResumeURL, enum.SubmissionStatusNew,
	)
	var a CareerApplication
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Phone, &a.Position, &a.Availability,
		&a.Message, &a.ResumeURL, &a.Status, &a.CreatedAt)
	return a, err
}

// --- Newsletter subscribers ---

type NewsletterSubscriber struct {
	ID        uuid.UUID
	Email     string
	Source    string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UpsertNewsletterSubscriberParams struct {
	Email  string
	Source string
}

// UpsertNewsletterSubscriber inserts a subscriber or reactivates an
// unsubscribed one. Subscribing twice is idempotent.
func (s *Store) UpsertNewsletterSubscriber(ctx context.Context, arg UpsertNewsletterSubscriberParams) (NewsletterSubscriber, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO newsletter_subscribers (id, email, source, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		ON CONFLICT (email) DO UPDATE
			SET status = EXCLUDED.status, source = EXCLUDED.source, updated_at = now()
		RETURNING id, email, source, status, created_at, updated_at`,
		uuid.New(), arg.Email, arg.Source, enum.SubscriberStatusActive,
	)
	var sub NewsletterSubscriber
	err := row.Scan(&sub.ID, &sub.Email, &sub.Source, &sub.Status, &sub.CreatedAt, &sub.UpdatedAt)
	return sub, err
}

// UnsubscribeNewsletter flags the subscriber as unsubscribed. Returns false
// when the email was never subscribed.
func (s *Store) UnsubscribeNewsletter(ctx context.Context, email string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE newsletter_subscribers
		SET status = $1, updated_at = now()
		WHERE email = $2`,
		enum.SubscriberStatusUnsubscribed, email,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
