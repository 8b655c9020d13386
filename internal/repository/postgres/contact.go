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

type contactRepository struct {
	db *sqlx.DB
}

func NewContactRepository(db *sqlx.DB) repository.ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.EmergencyContact) error {
	query := `
		INSERT INTO emergency_contacts (id, user_id, name, phone, email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	contact.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		contact.ID,
		contact.UserID,
		contact.Name,
		contact.Phone,
		contact.Email,
		contact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

func (r *contactRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.EmergencyContact, error) {
	query := `
		SELECT id, user_id, name, phone, email, created_at
		FROM emergency_contacts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	var contacts []*model.EmergencyContact
	if err := r.db.SelectContext(ctx, &contacts, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (r *contactRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM emergency_contacts WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("contact %s not found for user", id)
	}
	return nil
}
