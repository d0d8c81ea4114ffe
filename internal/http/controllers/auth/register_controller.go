package auth

import (
	"net/http"

	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/common"
	dto "github.com/Project-Legacy-LA/legacy-la/internal/http/dto/auth"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/auth"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// RegisterController handles POST /api/v1/auth/register.
type RegisterController struct {
	service svc.RegisterService
	cookie  helpers.CookieConfig
}

func NewRegisterController(service svc.RegisterService, cookie helpers.CookieConfig) *RegisterController {
	return &RegisterController{service: service, cookie: cookie}
}

func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	var req dto.RegisterRequest
	if !common.Decode(w, r, &req) {
		return
	}

	issued, err := c.service.Register(ctx, svc.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Client:   svc.Client{IP: helpers.ClientIP(r), UserAgent: r.UserAgent()},
	})
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}

	http.SetCookie(w, c.cookie.Build(issued.SessionID))
	httperrors.WriteSuccess(w, http.StatusCreated, "Registration successful", dto.UserResponse{User: dto.NewSessionView(issued.Session)})
}
