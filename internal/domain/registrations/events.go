package registrations

import (
	"github.com/google/uuid"
	"time"
)

type EventHeader struct {
	Id          string    `json:"id"`
	PublishedAt time.Time `json:"published_at"`
}

func NewEventHeader(now time.Time) EventHeader {
	return EventHeader{
		Id:          uuid.NewString(),
		PublishedAt: now,
	}
}

// RegistrationConfirmed_v1 is published after the spreadsheet accepted a
// registration and the seat was taken.
type RegistrationConfirmed_v1 struct {
	Header         EventHeader `json:"header"`
	RegistrationID string      `json:"registration_id"`
	EventID        string      `json:"event_id"`
	EventTitle     string      `json:"event_title"`
	AttendeeEmail  string      `json:"attendee_email"`
	SpotsLeft      int         `json:"spots_left"`
	ProofAttached  bool        `json:"proof_attached"`
	RegisteredAt   time.Time   `json:"registered_at"`
}
