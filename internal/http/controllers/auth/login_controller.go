package auth

import (
	"net/http"

	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/common"
	dto "github.com/Project-Legacy-LA/legacy-la/internal/http/dto/auth"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/middlewares"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/auth"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// LoginController handles POST /api/v1/auth/login.
type LoginController struct {
	service svc.LoginService
	cookie  helpers.CookieConfig
}

func NewLoginController(service svc.LoginService, cookie helpers.CookieConfig) *LoginController {
	return &LoginController{service: service, cookie: cookie}
}

// Login sets the sid cookie. X-Tenant-ID, when sent, is the preferred
// active tenant.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.LoginRequest
	if !common.Decode(w, r, &req) {
		return
	}

	issued, err := c.service.Login(ctx, svc.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		TenantHint: r.Header.Get(middlewares.TenantHeader),
		Client:     svc.Client{IP: helpers.ClientIP(r), UserAgent: r.UserAgent()},
	})
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}

	http.SetCookie(w, c.cookie.Build(issued.SessionID))
	httperrors.WriteSuccess(w, http.StatusOK, "Login successful", dto.UserResponse{User: dto.NewSessionView(issued.Session)})
}
