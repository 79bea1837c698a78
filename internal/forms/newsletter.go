package forms

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Subscriber statuses.
const (
	StatusActive       = "active"
	StatusUnsubscribed = "unsubscribed"
)

// ErrAlreadySubscribed reports an email that is already active.
var ErrAlreadySubscribed = errors.New("already subscribed")

// Subscriber is one newsletter_subscribers row.
type Subscriber struct {
	ID               int64
	Email            string
	Status           string
	UnsubscribeToken string
	SubscribedAt     time.Time
}

// NewsletterStore manages newsletter subscriptions.
type NewsletterStore struct {
	db *sql.DB
}

func NewNewsletterStore(db *sql.DB) *NewsletterStore {
	return &NewsletterStore{db: db}
}

// Subscribe adds an email to the list. An existing unsubscribed row is
// reactivated in place instead of duplicated; an existing active row
// yields ErrAlreadySubscribed. reactivated distinguishes a returning
// subscriber from a brand-new one.
func (s *NewsletterStore) Subscribe(email string) (sub Subscriber, reactivated bool, err error) {
	if err := ValidateEmailField(&email); err != nil {
		return Subscriber{}, false, err
	}

	existing, err := s.byEmail(email)
	if err == nil {
		if existing.Status == StatusActive {
			return Subscriber{}, false, ErrAlreadySubscribed
		}
		// Reactivate the same row; the token survives.
		now := time.Now().UTC()
		if _, err := s.db.Exec(
			"UPDATE newsletter_subscribers SET status = ?, subscribed_at = ?, unsubscribed_at = NULL WHERE id = ?",
			StatusActive, now, existing.ID,
		); err != nil {
			return Subscriber{}, false, fmt.Errorf("reactivate subscriber: %w", err)
		}
		existing.Status = StatusActive
		existing.SubscribedAt = now
		return existing, true, nil
	}
	if err != sql.ErrNoRows {
		return Subscriber{}, false, fmt.Errorf("lookup subscriber: %w", err)
	}

	sub = Subscriber{
		Email:            email,
		Status:           StatusActive,
		UnsubscribeToken: uuid.NewString(),
		SubscribedAt:     time.Now().UTC(),
	}
	res, err := s.db.Exec(`
		INSERT INTO newsletter_subscribers (email, status, unsubscribe_token, subscribed_at)
		VALUES (?, ?, ?, ?)
	`, sub.Email, sub.Status, sub.UnsubscribeToken, sub.SubscribedAt)
	if err != nil {
		return Subscriber{}, false, fmt.Errorf("insert subscriber: %w", err)
	}
	sub.ID, _ = res.LastInsertId()
	return sub, false, nil
}

// Unsubscribe flips the row matching token to unsubscribed. The token is
// the only credential; there is no login. ok=false means no such token.
func (s *NewsletterStore) Unsubscribe(token string) (ok bool, err error) {
	res, err := s.db.Exec(
		"UPDATE newsletter_subscribers SET status = ?, unsubscribed_at = ? WHERE unsubscribe_token = ?",
		StatusUnsubscribed, time.Now().UTC(), token,
	)
	if err != nil {
		return false, fmt.Errorf("unsubscribe: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (s *NewsletterStore) byEmail(email string) (Subscriber, error) {
	var sub Subscriber
	err := s.db.QueryRow(`
		SELECT id, email, status, unsubscribe_token, subscribed_at
		FROM newsletter_subscribers WHERE email = ?
	`, email).Scan(&sub.ID, &sub.Email, &sub.Status, &sub.UnsubscribeToken, &sub.SubscribedAt)
	return sub, err
}
