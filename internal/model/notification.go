package model

import (
	"time"

	"github.com/google/uuid"
)

type AttemptStatus string

const (
	AttemptStatusSent      AttemptStatus = "sent"
	AttemptStatusFailed    AttemptStatus = "failed"
	AttemptStatusSimulated AttemptStatus = "simulated"
)

// NotificationAttempt records one best-effort delivery to one contact
// for one event. Attempts are a log, not a queue: nothing retries them.
type NotificationAttempt struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	EventID   uuid.UUID     `json:"event_id" db:"event_id"`
	ContactID uuid.UUID     `json:"contact_id" db:"contact_id"`
	Channel   string        `json:"channel" db:"channel"`
	Status    AttemptStatus `json:"status" db:"status"`
	Message   string        `json:"message" db:"message"`
	SentAt    time.Time     `json:"sent_at" db:"sent_at"`
}

// NotifyResult is the aggregate outcome of one fan-out. Partial failure
// is expected and reported as the Delivered/Total ratio, never as an
// error. NoContacts distinguishes "nothing configured" from "all
// deliveries failed".
type NotifyResult struct {
	Delivered  int  `json:"delivered"`
	Total      int  `json:"total"`
	NoContacts bool `json:"no_contacts,omitempty"`
}

type NotifyRequest struct {
	EventType string `json:"event_type" binding:"required"`
	EventID   string `json:"event_id" binding:"required,uuid"`
}
