package monitor

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vertiguard/vertiguard-api/internal/model"
)

// Status is the session-local safety state shown on the dashboard.
type Status string

const (
	StatusSafe  Status = "safe"
	StatusAlert Status = "alert"
)

// statusTracker keeps per-user status in memory. It is a reflection of
// the latest action, not a derived read of the event log: it starts at
// safe and resets on process restart.
type statusTracker struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]Status
}

func newStatusTracker() *statusTracker {
	return &statusTracker{statuses: make(map[uuid.UUID]Status)}
}

func (t *statusTracker) get(userID uuid.UUID) Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.statuses[userID]; ok {
		return s
	}
	return StatusSafe
}

// apply transitions the user's status for a recorded event type:
// a fall or manual alert raises it, a normal-activity classification
// clears it. A manual alert is never auto-cleared by anything else.
func (t *statusTracker) apply(userID uuid.UUID, eventType string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch eventType {
	case model.EventTypeFallDetected, model.EventTypeManualAlert:
		t.statuses[userID] = StatusAlert
	case model.EventTypeNormalActivity:
		t.statuses[userID] = StatusSafe
	}

	if s, ok := t.statuses[userID]; ok {
		return s
	}
	return StatusSafe
}
