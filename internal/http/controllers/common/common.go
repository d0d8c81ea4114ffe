// Package common holds what every controller shares: body decoding with
// validation and the mapping from service errors to HTTP errors.
package common

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/dto"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/admin"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/auth"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/clients"
	svccommon "github.com/Project-Legacy-LA/legacy-la/internal/http/services/common"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/invites"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/profile"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
)

// Decode reads the JSON body into v and validates it. It writes the 400
// and returns false on failure; nothing reaches a store before this passes.
func Decode(w http.ResponseWriter, r *http.Request, v dto.Validatable) bool {
	if !helpers.ReadJSON(w, r, v) {
		return false
	}
	if n, ok := v.(interface{ Normalize() }); ok {
		n.Normalize()
	}
	if err := v.Validate(); err != nil {
		httperrors.WriteError(w, httperrors.ErrMissingFields.WithMessage(dto.Message(err)))
		return false
	}
	return true
}

var sentinels = []struct {
	err  error
	http *httperrors.AppError
}{
	{auth.ErrInvalidCredentials, httperrors.ErrInvalidCredentials},
	{auth.ErrAccountDisabled, httperrors.ErrAccountDisabled},
	{auth.ErrInviteInvalid, httperrors.ErrInviteExpired},
	{auth.ErrSessionNotFound, httperrors.ErrNotFound.WithMessage("Session not found")},
	{svccommon.ErrEmailTaken, httperrors.ErrEmailAlreadyInUse},
	{svccommon.ErrActiveTenantRequired, httperrors.ErrActiveTenantRequired},
	{authz.ErrNotFound, httperrors.ErrClientNotFound},
	{authz.ErrFrozen, httperrors.ErrClientFrozen},
	{authz.ErrNoGrant, httperrors.ErrForbidden},
	{authz.ErrInsufficientGrant, httperrors.ErrForbidden},
	{invites.ErrClientNotInTenant, httperrors.ErrClientNotFound},
	{clients.ErrNotPrimaryAttorney, httperrors.ErrForbidden.WithMessage("Only the primary attorney can change the frozen state")},
	{profile.ErrUserNotFound, httperrors.ErrUserNotFound},
	{profile.ErrNoWorkspace, httperrors.ErrNotFound.WithMessage("Client workspace not found")},
	{admin.ErrSecretNotConfigured, httperrors.ErrServerMisconfigured},
	{admin.ErrBadSecret, httperrors.ErrForbidden},
	{repository.ErrNotFound, httperrors.ErrNotFound},
	{repository.ErrConflict, httperrors.ErrConflict},
	{repository.ErrInvalidInput, httperrors.ErrBadRequest},
}

// ToAppError maps a service error to its HTTP form. Unknown errors are a
// generic 500 wrapping err.
func ToAppError(err error) *httperrors.AppError {
	var appErr *httperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var pe *password.PolicyError
	if errors.As(err, &pe) {
		return httperrors.ErrBadRequest.WithMessage("Password " + strings.Join(pe.Reasons, ", "))
	}
	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return s.http.WithCause(err)
		}
	}
	return httperrors.ErrInternalServerError.WithCause(err)
}

// WriteServiceError writes err and logs it at the level its status deserves.
func WriteServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	appErr := ToAppError(err)
	if appErr.HTTPStatus >= 500 {
		log.Error("request failed", logger.String("code", appErr.Code), logger.Err(err))
	} else {
		log.Debug("request rejected", logger.String("code", appErr.Code), logger.Err(err))
	}
	httperrors.WriteError(w, appErr)
}
