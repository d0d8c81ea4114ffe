// Package admin holds the DTOs of superuser bootstrap and tenant onboarding.
package admin

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type CreateSuperuserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r CreateSuperuserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type SuperuserResponse struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type OnboardTenantRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (r *OnboardTenantRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.DisplayName = strings.TrimSpace(r.DisplayName)
}

func (r OnboardTenantRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 200)),
	)
}

type OnboardTenantResponse struct {
	TenantID   string `json:"tenant_id"`
	UserID     string `json:"user_id"`
	Token      string `json:"token"`
	InviteLink string `json:"inviteLink"`
}
