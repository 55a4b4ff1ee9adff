package registrations

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Registration struct {
	ID              string    `json:"id"`
	EventID         string    `json:"eventId"`
	Attendee        Attendee  `json:"attendee"`
	Message         string    `json:"message,omitempty"`
	PaymentProofURL string    `json:"paymentProofUrl,omitempty"`
	Status          Status    `json:"status"`
	RegisteredAt    time.Time `json:"registeredAt"`
}

// Submission is the flat record forwarded to the spreadsheet backend. The
// registration proxy accepts the same shape, so both ends validate it.
type Submission struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone,omitempty"`
	EventID    string  `json:"eventId"`
	EventTitle string  `json:"eventTitle,omitempty"`
	Message    *string `json:"message,omitempty"`
	ProofURL   *string `json:"proofUrl,omitempty"`
	Timestamp  string  `json:"timestamp,omitempty"`
}

var ErrMissingFields = errors.New("Missing required fields")

// Validate checks the fields the backend cannot work without.
func (s Submission) Validate() error {
	var missing []string
	if s.Name == "" {
		missing = append(missing, "name")
	}
	if s.Email == "" {
		missing = append(missing, "email")
	}
	if s.EventID == "" {
		missing = append(missing, "eventId")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrMissingFields, missing)
	}
	return nil
}

const ContactKind = "contact"

// ContactMessage is a contact-page enquiry, forwarded as a spreadsheet row
// alongside registrations.
type ContactMessage struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
