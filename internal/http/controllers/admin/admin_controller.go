// Package admin contiene los controllers de bootstrap y onboarding.
package admin

import (
	"net/http"

	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/common"
	dto "github.com/Project-Legacy-LA/legacy-la/internal/http/dto/admin"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/middlewares"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/admin"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

const AdminSecretHeader = "X-Admin-Secret"

type Controllers struct {
	Superuser  *SuperuserController
	Onboarding *OnboardingController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Superuser:  &SuperuserController{service: s.Superuser},
		Onboarding: &OnboardingController{service: s.Onboarding},
	}
}

// SuperuserController handles POST /api/v1/users/superuser.
type SuperuserController struct {
	service svc.SuperuserService
}

// Create checks the secret before reading the body.
func (c *SuperuserController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SuperuserController.Create"))

	if err := c.service.CheckSecret(r.Header.Get(AdminSecretHeader)); err != nil {
		log.Warn("superuser bootstrap refused", logger.Err(err), logger.ClientIP(r.RemoteAddr))
		common.WriteServiceError(w, log, err)
		return
	}

	var req dto.CreateSuperuserRequest
	if !common.Decode(w, r, &req) {
		return
	}
	u, err := c.service.Create(ctx, req.Email, req.Password)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	log.Info("superuser created", logger.UserID(u.ID))
	httperrors.WriteSuccess(w, http.StatusCreated, "Superuser created", dto.SuperuserResponse{UserID: u.ID, Email: u.Email})
}

// OnboardingController handles POST /api/v1/tenants/onboard.
type OnboardingController struct {
	service svc.OnboardingService
}

func (c *OnboardingController) Onboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("OnboardingController.Onboard"))

	var req dto.OnboardTenantRequest
	if !common.Decode(w, r, &req) {
		return
	}
	id, _ := middlewares.IdentityFrom(ctx)

	out, err := c.service.Onboard(ctx, svc.OnboardInput{
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		InviterEmail: id.Email,
	})
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	httperrors.WriteSuccess(w, http.StatusCreated, "Tenant onboarded", dto.OnboardTenantResponse{
		TenantID:   out.TenantID,
		UserID:     out.UserID,
		Token:      out.Token,
		InviteLink: email.InviteLink(out.Token),
	})
}
