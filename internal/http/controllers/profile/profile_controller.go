// Package profile contiene el controller de /profile/me.
package profile

import (
	"net/http"

	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/common"
	dtoclients "github.com/Project-Legacy-LA/legacy-la/internal/http/dto/clients"
	dto "github.com/Project-Legacy-LA/legacy-la/internal/http/dto/profile"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/middlewares"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/profile"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

type ProfileController struct {
	service svc.ProfileService
}

func NewProfileController(s svc.Services) *ProfileController {
	return &ProfileController{service: s.Profile}
}

func toResponse(p *svc.Profile) dto.Response {
	return dto.Response{Person: p.Person, Client: dtoclients.NewClientView(p.Client)}
}

func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProfileController.Get"))

	id, _ := middlewares.IdentityFrom(ctx)
	p, err := c.service.Get(ctx, id.UserID)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	httperrors.WriteSuccess(w, http.StatusOK, "", toResponse(p))
}

func (c *ProfileController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ProfileController.Update"))

	var req dto.UpdateRequest
	if !common.Decode(w, r, &req) {
		return
	}
	id, _ := middlewares.IdentityFrom(ctx)

	p, err := c.service.Update(ctx, id.Caller(), req.Person.Person(), req.Client.Residence())
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	httperrors.WriteSuccess(w, http.StatusOK, "Profile updated", toResponse(p))
}
