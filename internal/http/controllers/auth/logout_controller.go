package auth

import (
	"net/http"

	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/common"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/auth"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// LogoutController handles POST /api/v1/auth/logout.
type LogoutController struct {
	service svc.LogoutService
	cookie  helpers.CookieConfig
}

func NewLogoutController(service svc.LogoutService, cookie helpers.CookieConfig) *LogoutController {
	return &LogoutController{service: service, cookie: cookie}
}

// Logout needs the cookie but not a live session: an expired sid still
// logs out cleanly.
func (c *LogoutController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LogoutController.Logout"))

	sid := c.cookie.Read(r)
	if sid == "" {
		httperrors.WriteError(w, httperrors.ErrNoActiveSession)
		return
	}
	if err := c.service.Logout(ctx, sid); err != nil {
		common.WriteServiceError(w, log, err)
		return
	}

	http.SetCookie(w, c.cookie.Clear())
	httperrors.WriteSuccess(w, http.StatusOK, "Logout successful", nil)
}
