package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCustomer = "Customer"
	RoleAdmin    = "Admin"
)

// User is a registered customer or administrator.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// RegisterRequest represents the request payload for registering a user.
type RegisterRequest struct {
	Email string `json:"email"`
}

// Actor identifies who performs a mutation. It is passed explicitly to every
// write operation and stamped into the audit columns.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AuditID returns the actor id for nullable audit columns.
func (a Actor) AuditID() *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}
