package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/vertiguard/vertiguard-api/internal/model"
)

// UserRepository manages account rows. Accounts are created at sign-up
// and never deleted by this system.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// ContactRepository is the Contact Store. Every operation is scoped by
// the owning user id; there is no update operation.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.EmergencyContact) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// EventRepository is the Event Store: an append-only, per-user log.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	Get(ctx context.Context, userID, id uuid.UUID) (*model.Event, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Event, error)
}

// NotificationRepository records best-effort delivery attempts. Writes
// here never gate the fan-out outcome.
type NotificationRepository interface {
	CreateAttempt(ctx context.Context, attempt *model.NotificationAttempt) error
}
