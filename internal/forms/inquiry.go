package forms

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Inquiry is one persisted contact-form submission.
type Inquiry struct {
	ID        int64
	Reference string
	Name      string
	Email     string
	Phone     string
	Message   string
	CreatedAt time.Time
}

// InquiryStore persists contact submissions.
type InquiryStore struct {
	db *sql.DB
}

func NewInquiryStore(db *sql.DB) *InquiryStore {
	return &InquiryStore{db: db}
}

// Create validates inputs and persists the inquiry. Validation failures
// come back as *FieldError; anything else is a storage failure.
func (s *InquiryStore) Create(name, email, phone, message string) (Inquiry, error) {
	if err := ValidateInquiry(&name, &email, &phone, &message); err != nil {
		return Inquiry{}, err
	}

	inq := Inquiry{
		Reference: uuid.NewString(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	res, err := s.db.Exec(`
		INSERT INTO inquiries (reference, name, email, phone, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, inq.Reference, inq.Name, inq.Email, nullable(inq.Phone), inq.Message, inq.CreatedAt)
	if err != nil {
		return Inquiry{}, fmt.Errorf("insert inquiry: %w", err)
	}
	inq.ID, _ = res.LastInsertId()
	return inq, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
