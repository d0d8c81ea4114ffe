// Package clients contiene los controllers de /clients.
package clients

import (
	"net/http"

	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/common"
	dto "github.com/Project-Legacy-LA/legacy-la/internal/http/dto/clients"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/middlewares"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/clients"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

type ClientsController struct {
	service svc.ClientService
}

func NewClientsController(s svc.Services) *ClientsController {
	return &ClientsController{service: s.Clients}
}

// Create handles POST /api/v1/clients.
func (c *ClientsController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ClientsController.Create"))

	var req dto.CreateClientRequest
	if !common.Decode(w, r, &req) {
		return
	}
	id, _ := middlewares.IdentityFrom(ctx)

	out, err := c.service.Create(ctx, svc.Attorney{UserID: id.UserID, Email: id.Email, TenantID: id.ActiveTenant}, svc.CreateInput{
		Email:              req.Email,
		Label:              req.Label,
		RelationshipStatus: req.RelationshipStatus,
		Residence:          req.Residence(),
	})
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	httperrors.WriteSuccess(w, http.StatusCreated, "Client created", dto.CreateClientResponse{
		Client: dto.NewClientView(out.Client),
		Invitation: dto.Invitation{
			UserID:    out.UserID,
			Token:     out.Token,
			AcceptURL: out.AcceptURL,
		},
	})
}

// Get handles GET /api/v1/clients/{clientID}. RequireClientPermission already
// loaded the client.
func (c *ClientsController) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := middlewares.DecisionFrom(r.Context())
	if !ok || d.Client == nil {
		httperrors.WriteError(w, httperrors.ErrClientNotFound)
		return
	}
	httperrors.WriteSuccess(w, http.StatusOK, "", dto.ClientResponse{Client: dto.NewClientView(d.Client), Via: string(d.Via)})
}

// SetFrozen handles PUT /api/v1/clients/{clientID}/frozen.
func (c *ClientsController) SetFrozen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ClientsController.SetFrozen"))

	var req dto.FreezeRequest
	if !common.Decode(w, r, &req) {
		return
	}
	d, ok := middlewares.DecisionFrom(ctx)
	if !ok || d.Client == nil {
		httperrors.WriteError(w, httperrors.ErrClientNotFound)
		return
	}
	id, _ := middlewares.IdentityFrom(ctx)

	updated, err := c.service.SetFrozen(ctx, id.UserID, d.Client, *req.EditingFrozen)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	msg := "Client unfrozen"
	if updated.EditingFrozen {
		msg = "Client frozen"
	}
	httperrors.WriteSuccess(w, http.StatusOK, msg, dto.ClientResponse{Client: dto.NewClientView(updated)})
}
