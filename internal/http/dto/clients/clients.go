// Package clients holds the DTOs of /clients.
package clients

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type CreateClientRequest struct {
	Email              string  `json:"email"`
	Label              string  `json:"label"`
	RelationshipStatus string  `json:"relationship_status"`
	ResidenceCountry   string  `json:"residence_country"`
	ResidenceAdminArea string  `json:"residence_admin_area"`
	ResidenceLocality  string  `json:"residence_locality"`
	ResidencePostal    *string `json:"residence_postal_code"`
	ResidenceLine1     *string `json:"residence_line1"`
	ResidenceLine2     *string `json:"residence_line2"`
}

func (r CreateClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Label, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.RelationshipStatus, validation.Required),
		validation.Field(&r.ResidenceCountry, validation.Required),
		validation.Field(&r.ResidenceAdminArea, validation.Required),
		validation.Field(&r.ResidenceLocality, validation.Required),
	)
}

// Residence maps the flat request fields; empty optionals become nil.
func (r CreateClientRequest) Residence() repository.Residence {
	return repository.Residence{
		Country:    r.ResidenceCountry,
		AdminArea:  r.ResidenceAdminArea,
		Locality:   r.ResidenceLocality,
		PostalCode: NilIfEmpty(r.ResidencePostal),
		Line1:      NilIfEmpty(r.ResidenceLine1),
		Line2:      NilIfEmpty(r.ResidenceLine2),
	}
}

// FreezeRequest toggles editing on a client. A pointer so a missing field
// is told apart from false.
type FreezeRequest struct {
	EditingFrozen *bool `json:"editing_frozen"`
}

func (r FreezeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.EditingFrozen, validation.NotNil),
	)
}

// ClientView is the JSON form of a client.
type ClientView struct {
	ClientID              string    `json:"client_id"`
	TenantID              string    `json:"tenant_id"`
	PrimaryAttorneyUserID string    `json:"primary_attorney_user_id"`
	Label                 string    `json:"label"`
	Status                string    `json:"status"`
	RelationshipStatus    string    `json:"relationship_status"`
	EditingFrozen         bool      `json:"editing_frozen"`
	CreatedAt             time.Time `json:"created_at"`
	repository.Residence
}

func NewClientView(c *repository.Client) *ClientView {
	if c == nil {
		return nil
	}
	return &ClientView{
		ClientID:              c.ID,
		TenantID:              c.TenantID,
		PrimaryAttorneyUserID: c.PrimaryAttorneyUserID,
		Label:                 c.Label,
		Status:                c.Status,
		RelationshipStatus:    c.RelationshipStatus,
		EditingFrozen:         c.EditingFrozen,
		CreatedAt:             c.CreatedAt,
		Residence:             c.Residence,
	}
}

type Invitation struct {
	UserID    string `json:"user_id"`
	Token     string `json:"token"`
	AcceptURL string `json:"accept_url"`
}

type CreateClientResponse struct {
	Client     *ClientView `json:"client"`
	Invitation Invitation  `json:"invitation"`
}

type ClientResponse struct {
	Client *ClientView `json:"client"`
	Via    string      `json:"access_via,omitempty"`
}

// NilIfEmpty maps "" to nil.
func NilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
