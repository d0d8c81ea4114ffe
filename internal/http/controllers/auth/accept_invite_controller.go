package auth

import (
	"net/http"

	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/common"
	dto "github.com/Project-Legacy-LA/legacy-la/internal/http/dto/auth"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/auth"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// AcceptInviteController handles POST /api/v1/auth/accept-invite.
type AcceptInviteController struct {
	service svc.AcceptInviteService
}

func NewAcceptInviteController(service svc.AcceptInviteService) *AcceptInviteController {
	return &AcceptInviteController{service: service}
}

// Accept activates the account; the user logs in afterwards.
func (c *AcceptInviteController) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AcceptInviteController.Accept"))

	var req dto.AcceptInviteRequest
	if !common.Decode(w, r, &req) {
		return
	}

	u, err := c.service.Accept(ctx, req.Token, req.Password)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	httperrors.WriteSuccess(w, http.StatusOK, "Invite accepted, account activated", dto.ActivatedUser{UserID: u.ID, Email: u.Email})
}
