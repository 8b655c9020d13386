package model

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account holder. All other entities are scoped by
// the user's id; users are never shared and never deleted by this
// system.
type User struct {
	Base
	Email        string     `json:"email" db:"email"`
	Password     string     `json:"password,omitempty" db:"-"`
	PasswordHash string     `json:"-" db:"password_hash"`
	DisplayName  *string    `json:"display_name" db:"display_name"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NotifyName returns the name used when addressing this user in alert
// messages: display name, else account email, else a generic label.
func (u *User) NotifyName() string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	if u.Email != "" {
		return u.Email
	}
	return "A VertiGuard user"
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthContext identifies the acting user for a request. It is threaded
// explicitly into every store and service call rather than read from
// ambient state.
type AuthContext struct {
	UserID uuid.UUID
	Email  string
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
