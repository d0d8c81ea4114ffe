// Package auth contiene los DTOs de /auth.
package auth

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/session"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest is self-registration. The minimum password length is
// enforced by the service policy.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type AcceptInviteRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (r AcceptInviteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// Normalize trims the token; the password is left as typed.
func (r *AcceptInviteRequest) Normalize() { r.Token = strings.TrimSpace(r.Token) }

// SessionView is the redacted session returned by login, register and me.
type SessionView struct {
	UserID         string                     `json:"user_id"`
	Email          string                     `json:"email"`
	IsSuperuser    bool                       `json:"is_superuser"`
	TenantIDs      []string                   `json:"tenant_ids"`
	Roles          []string                   `json:"roles"`
	Memberships    []repository.Membership    `json:"memberships"`
	ClientGrants   []repository.ClientGrant   `json:"client_grants"`
	ClientAccounts []repository.ClientAccount `json:"client_accounts"`
	ActiveTenant   *string                    `json:"active_tenant"`
	CreatedAt      time.Time                  `json:"created_at"`
	ExpiresAt      time.Time                  `json:"expires_at"`
}

type UserResponse struct {
	User SessionView `json:"user"`
}

type ActivatedUser struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// SessionInfo describes one of the caller's sessions. ID is the public key,
// never the cookie value.
type SessionInfo struct {
	ID         string    `json:"id"`
	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Current    bool      `json:"current"`
}

type SessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

type RevokedResponse struct {
	Revoked int `json:"revoked"`
}

// NewSessionView redacts a stored session for the client.
func NewSessionView(s *session.Session) SessionView {
	return SessionView{
		UserID:         s.UserID,
		Email:          s.Email,
		IsSuperuser:    s.IsSuperuser,
		TenantIDs:      orEmpty(s.TenantIDs),
		Roles:          orEmpty(s.Roles),
		Memberships:    orEmpty(s.Memberships),
		ClientGrants:   orEmpty(s.ClientGrants),
		ClientAccounts: orEmpty(s.ClientAccounts),
		ActiveTenant:   s.ActiveTenant,
		CreatedAt:      s.CreatedAt,
		ExpiresAt:      s.ExpiresAt,
	}
}

func NewSessionInfo(s *session.Session, currentKey string) SessionInfo {
	return SessionInfo{
		ID:         s.Key,
		IP:         s.IP,
		UserAgent:  s.UserAgent,
		CreatedAt:  s.CreatedAt,
		LastSeenAt: s.LastSeenAt,
		ExpiresAt:  s.ExpiresAt,
		Current:    s.Key == currentKey,
	}
}

func orEmpty[T any](xs []T) []T {
	if xs == nil {
		return []T{}
	}
	return xs
}
