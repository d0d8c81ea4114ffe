package repository

import (
	"context"
	"time"
)

// RoleAttorneyOwner is the tenant role of the attorney who owns a firm.
const RoleAttorneyOwner = "attorney_owner"

// Tenant is a firm-like boundary owning clients.
type Tenant struct {
	ID          string
	OwnerUserID string
	DisplayName string
	CreatedAt   time.Time
}

// Membership links a user to a tenant with a role. Inactive until the
// invited user activates the account.
type Membership struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"-"`
	Role     string `json:"role"`
	IsActive bool   `json:"-"`
}

type TenantRepository interface {
	Create(ctx context.Context, ownerUserID, displayName string) (*Tenant, error)
	GetByID(ctx context.Context, id string) (*Tenant, error)
	Delete(ctx context.Context, id string) error
}

type MembershipRepository interface {
	// Create returns ErrConflict for an existing (tenant, user, role).
	Create(ctx context.Context, m Membership) error
	// Activate returns ErrNotFound when no row matches.
	Activate(ctx context.Context, tenantID, userID, role string) error
	ListActiveByUser(ctx context.Context, userID string) ([]Membership, error)
}
