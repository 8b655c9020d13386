package model

import (
	"github.com/google/uuid"
)

// Event types recorded in the feed.
const (
	EventTypeFallDetected   = "Fall Detected"
	EventTypeNormalActivity = "Normal Activity"
	EventTypeManualAlert    = "Manual Alert"
)

// Event is an immutable, append-only record of a classification
// outcome or manual trigger. ConfidenceScore is nil for manual alerts.
type Event struct {
	Base
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	EventType       string    `json:"event_type" db:"event_type"`
	ConfidenceScore *float64  `json:"confidence_score" db:"confidence_score"`
}

// AlertWorthy reports whether an event of this type fans out to the
// user's emergency contacts.
func AlertWorthy(eventType string) bool {
	return eventType == EventTypeFallDetected || eventType == EventTypeManualAlert
}

// ValidEventType reports whether t is one of the recorded event types.
func ValidEventType(t string) bool {
	switch t {
	case EventTypeFallDetected, EventTypeNormalActivity, EventTypeManualAlert:
		return true
	}
	return false
}
