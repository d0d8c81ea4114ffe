package repository

import (
	"context"
	"strings"
	"time"
)

// Client account roles.
const (
	ClientRoleOwner    = "owner"
	ClientRoleSpouse   = "spouse"
	ClientRoleDelegate = "delegate"
)

// ClientStatusActive is the status of newly created clients.
const ClientStatusActive = "active"

// Residence is the postal residence of a client household.
type Residence struct {
	Country    string  `json:"residence_country"`
	AdminArea  string  `json:"residence_admin_area"`
	Locality   string  `json:"residence_locality"`
	PostalCode *string `json:"residence_postal_code"`
	Line1      *string `json:"residence_line1"`
	Line2      *string `json:"residence_line2"`
}

// Client is an estate-planning case owned by a tenant, with exactly one
// primary attorney.
type Client struct {
	ID                    string
	TenantID              string
	PrimaryAttorneyUserID string
	Label                 string
	Status                string
	RelationshipStatus    string
	EditingFrozen         bool
	Residence             Residence
	CreatedAt             time.Time
}

// ClientAccount links a household user (owner/spouse/delegate) to a client.
type ClientAccount struct {
	ID        string `json:"client_account_id"`
	TenantID  string `json:"tenant_id"`
	ClientID  string `json:"client_id"`
	UserID    string `json:"-"`
	Role      string `json:"role"`
	CanWrite  bool   `json:"can_write"`
	IsEnabled bool   `json:"is_enabled"`
}

// ClientGrant delegates an explicit set of permissions on one client.
type ClientGrant struct {
	ID          string   `json:"grant_id"`
	TenantID    string   `json:"tenant_id"`
	ClientID    string   `json:"client_id"`
	UserID      string   `json:"-"`
	Permissions []string `json:"permissions"`
	IsEnabled   bool     `json:"is_enabled"`
}

// Allows reports whether the grant lists action, case-insensitively.
func (g ClientGrant) Allows(action string) bool {
	for _, p := range g.Permissions {
		if strings.EqualFold(strings.TrimSpace(p), action) {
			return true
		}
	}
	return false
}

type CreateClientInput struct {
	TenantID              string
	PrimaryAttorneyUserID string
	Label                 string
	RelationshipStatus    string
	Residence             Residence
}

type ClientRepository interface {
	Create(ctx context.Context, in CreateClientInput) (*Client, error)
	GetByID(ctx context.Context, id string) (*Client, error)
	SetEditingFrozen(ctx context.Context, id string, frozen bool) (*Client, error)
	UpdateResidence(ctx context.Context, id string, r Residence) (*Client, error)
	// FindPrimaryForUser returns the client of the user's first enabled account.
	FindPrimaryForUser(ctx context.Context, userID string) (*Client, error)
	Delete(ctx context.Context, id string) error
}

type ClientAccountRepository interface {
	Create(ctx context.Context, a ClientAccount) (*ClientAccount, error)
	// Get returns ErrNotFound when (user, client) has no account.
	Get(ctx context.Context, userID, clientID string) (*ClientAccount, error)
	Enable(ctx context.Context, userID, clientID string) error
	ListEnabledByUser(ctx context.Context, userID string) ([]ClientAccount, error)
}

type ClientGrantRepository interface {
	Create(ctx context.Context, g ClientGrant) (*ClientGrant, error)
	ListEnabledByUser(ctx context.Context, userID string) ([]ClientGrant, error)
}
