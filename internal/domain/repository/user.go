package repository

import (
	"context"
	"time"
)

// User status values.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User is a login identity.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Status       string
	IsSuperuser  bool
	PersonID     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the user may log in.
func (u *User) IsActive() bool { return u != nil && u.Status == UserStatusActive }

type CreateUserInput struct {
	Email        string
	PasswordHash string
	Status       string
	IsSuperuser  bool
	PersonID     *string
}

// UserRepository manages credential records. Emails are stored lowercased.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	// Create returns ErrConflict if the email is taken.
	Create(ctx context.Context, in CreateUserInput) (*User, error)
	// Activate sets the hash and status=active.
	Activate(ctx context.Context, id, passwordHash string) (*User, error)
	// UpdatePassword keeps the current status.
	UpdatePassword(ctx context.Context, id, passwordHash string) (*User, error)
	SetSuperuser(ctx context.Context, id string, superuser bool) (*User, error)
	AttachPerson(ctx context.Context, id, personID string) error
	Delete(ctx context.Context, id string) error
}
