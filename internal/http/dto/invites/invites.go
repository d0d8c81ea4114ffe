// Package invites holds the DTOs of /invites.
package invites

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type AttorneyRequest struct {
	Email string `json:"email"`
}

func (r AttorneyRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

type ClientRequest struct {
	Email    string `json:"email"`
	ClientID string `json:"clientId"`
}

func (r ClientRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.ClientID, validation.Required),
	)
}

// DelegateRequest invites a household member. Role is spouse or delegate.
type DelegateRequest struct {
	Email    string `json:"email"`
	ClientID string `json:"clientId"`
	Role     string `json:"role"`
}

func (r *DelegateRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.ClientID = strings.TrimSpace(r.ClientID)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
}

func (r DelegateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.ClientID, validation.Required),
		validation.Field(&r.Role, validation.Required,
			validation.In(repository.ClientRoleSpouse, repository.ClientRoleDelegate).Error("must be spouse or delegate")),
	)
}

type InviteResponse struct {
	Token      string `json:"token"`
	InviteLink string `json:"inviteLink"`
}
