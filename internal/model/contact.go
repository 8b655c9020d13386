package model

import (
	"github.com/google/uuid"
)

// EmergencyContact is a person registered by the user to receive
// alerts. Contacts are created and deleted, never edited in place.
//
// Canonical validation rule: name is required (max 100 chars); phone
// and email are each optional but at least one must be present so the
// contact is notifiable. Phone accepts 10-20 chars of digits, spaces,
// parentheses, plus and hyphen.
type EmergencyContact struct {
	Base
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	Name   string    `json:"name" db:"name"`
	Phone  *string   `json:"phone,omitempty" db:"phone"`
	Email  *string   `json:"email,omitempty" db:"email"`
}

type CreateContactRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Phone string `json:"phone" binding:"omitempty,min=10,max=20"`
	Email string `json:"email" binding:"omitempty,email,max=255"`
}
