package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Project-Legacy-LA/legacy-la/internal/http/controllers/common"
	dto "github.com/Project-Legacy-LA/legacy-la/internal/http/dto/auth"
	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/helpers"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/middlewares"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/auth"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// SessionController serves the caller's own session endpoints. Every route
// sits behind RequireAuth.
type SessionController struct {
	service svc.SessionService
	cookie  helpers.CookieConfig
}

func NewSessionController(service svc.SessionService, cookie helpers.CookieConfig) *SessionController {
	return &SessionController{service: service, cookie: cookie}
}

// Me handles GET /api/v1/auth/me. active_tenant is the one resolved for
// this request.
func (c *SessionController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SessionController.Me"))

	id, ok := middlewares.IdentityFrom(ctx)
	if !ok {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	sess, err := c.service.Me(ctx, id.SessionID)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	view := dto.NewSessionView(sess)
	if id.ActiveTenant != "" {
		active := id.ActiveTenant
		view.ActiveTenant = &active
	}
	httperrors.WriteSuccess(w, http.StatusOK, "Session active", dto.UserResponse{User: view})
}

// List handles GET /api/v1/auth/sessions.
func (c *SessionController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SessionController.List"))

	id, _ := middlewares.IdentityFrom(ctx)
	sessions, err := c.service.List(ctx, id.UserID)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	out := dto.SessionsResponse{Sessions: make([]dto.SessionInfo, 0, len(sessions))}
	for _, s := range sessions {
		out.Sessions = append(out.Sessions, dto.NewSessionInfo(s, id.SessionKey))
	}
	httperrors.WriteSuccess(w, http.StatusOK, "", out)
}

// Revoke handles DELETE /api/v1/auth/sessions/{sessionID}.
func (c *SessionController) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SessionController.Revoke"))

	id, _ := middlewares.IdentityFrom(ctx)
	key := chi.URLParam(r, "sessionID")
	if err := c.service.Revoke(ctx, id.UserID, key); err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	if key == id.SessionKey {
		http.SetCookie(w, c.cookie.Clear())
	}
	httperrors.WriteSuccess(w, http.StatusOK, "Session revoked", dto.RevokedResponse{Revoked: 1})
}

// RevokeAll handles DELETE /api/v1/auth/sessions, including the current one.
func (c *SessionController) RevokeAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SessionController.RevokeAll"))

	id, _ := middlewares.IdentityFrom(ctx)
	n, err := c.service.RevokeAll(ctx, id.UserID)
	if err != nil {
		common.WriteServiceError(w, log, err)
		return
	}
	http.SetCookie(w, c.cookie.Clear())
	httperrors.WriteSuccess(w, http.StatusOK, "Sessions revoked", dto.RevokedResponse{Revoked: n})
}
