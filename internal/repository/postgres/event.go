package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/repository"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (id, user_id, event_type, confidence_score, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	event.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.UserID,
		event.EventType,
		event.ConfidenceScore,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *eventRepository) Get(ctx context.Context, userID, id uuid.UUID) (*model.Event, error) {
	query := `
		SELECT id, user_id, event_type, confidence_score, created_at
		FROM events
		WHERE id = $1 AND user_id = $2
	`
	var event model.Event
	if err := r.db.GetContext(ctx, &event, query, id, userID); err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return &event, nil
}

func (r *eventRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	query := `
		SELECT id, user_id, event_type, confidence_score, created_at
		FROM events
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	var events []*model.Event
	if err := r.db.SelectContext(ctx, &events, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
