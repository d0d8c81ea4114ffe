// Package health contiene los controllers de liveness y readiness.
package health

import (
	"net/http"

	httperrors "github.com/Project-Legacy-LA/legacy-la/internal/http/errors"
	svc "github.com/Project-Legacy-LA/legacy-la/internal/http/services/health"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

type HealthController struct {
	service svc.HealthService
}

func NewHealthController(s svc.Services) *HealthController {
	return &HealthController{service: s.Health}
}

// Live handles GET /healthz. It never touches a dependency.
func (c *HealthController) Live(w http.ResponseWriter, _ *http.Request) {
	httperrors.WriteSuccess(w, http.StatusOK, "ok", nil)
}

// Ready handles GET /readyz.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	rep := c.service.Check(r.Context())
	if rep.Status != "ready" {
		logger.From(r.Context()).Warn("readiness failed", logger.Any("components", rep.Components))
		httperrors.WriteFailure(w, http.StatusServiceUnavailable, httperrors.ErrServiceUnavailable.Message, rep)
		return
	}
	httperrors.WriteSuccess(w, http.StatusOK, "ready", rep)
}
