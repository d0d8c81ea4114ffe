// Package invites contiene los controllers de /invites.
package invites

import (
	"net/http"

	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/common"
	dto "github.com/Project-Legacy-LA/legacy-la/internal/http/dto/invites"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/middlewares"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/invites"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// InvitesController serves the three invite kinds. Tenant and role guards
// run in the router; the delegate permission check runs in the service.
type InvitesController struct {
	service svc.InviteService
}

func NewInvitesController(s svc.Services) *InvitesController {
	return &InvitesController{service: s.Invites}
}

func inviterFrom(r *http.Request) svc.Inviter {
	id, _ := middlewares.IdentityFrom(r.Context())
	return svc.Inviter{Caller: id.Caller(), Email: id.Email, TenantID: id.ActiveTenant}
}

func writeInvited(w http.ResponseWriter, out *svc.Invited) {
	httperrors.WriteSuccess(w, http.StatusCreated, "Invite sent", dto.InviteResponse{
		Token:      out.Token,
		InviteLink: email.InviteLink(out.Token),
	})
}

func (c *InvitesController) Attorney(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("InvitesController.Attorney"))

	var req dto.AttorneyRequest
	if !common.Decode(w, r, &req) {
		return
	}
	out, err := c.service.Attorney(ctx, inviterFrom(r), req.Email)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	writeInvited(w, out)
}

func (c *InvitesController) Client(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("InvitesController.Client"))

	var req dto.ClientRequest
	if !common.Decode(w, r, &req) {
		return
	}
	out, err := c.service.Client(ctx, inviterFrom(r), req.Email, req.ClientID)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	writeInvited(w, out)
}

func (c *InvitesController) Delegate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("InvitesController.Delegate"))

	var req dto.DelegateRequest
	if !common.Decode(w, r, &req) {
		return
	}
	out, err := c.service.Delegate(ctx, inviterFrom(r), req.Email, req.ClientID, req.Role)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	writeInvited(w, out)
}
