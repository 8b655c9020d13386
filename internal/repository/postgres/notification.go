package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vertiguard/vertiguard-api/internal/model"
	"github.com/vertiguard/vertiguard-api/internal/repository"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateAttempt(ctx context.Context, attempt *model.NotificationAttempt) error {
	query := `
		INSERT INTO notification_attempts (id, event_id, contact_id, channel, status, message, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if attempt.SentAt.IsZero() {
		attempt.SentAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		attempt.ID,
		attempt.EventID,
		attempt.ContactID,
		attempt.Channel,
		attempt.Status,
		attempt.Message,
		attempt.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record notification attempt: %w", err)
	}
	return nil
}
