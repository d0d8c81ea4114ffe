package auth

import (
	"context"

	"github.com/Project-Legacy-LA/legacy-la/internal/metrics"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/session"
)

type LogoutService interface {
	// Logout deletes the session. An unknown sid is not an error.
	Logout(ctx context.Context, sid string) error
}

type logoutService struct {
	sessions *session.Store
}

func NewLogoutService(sessions *session.Store) LogoutService {
	return &logoutService{sessions: sessions}
}

func (s *logoutService) Logout(ctx context.Context, sid string) error {
	if err := s.sessions.Delete(ctx, sid); err != nil {
		logger.From(ctx).Error("logout failed",
			logger.Layer("service"), logger.Component("auth.logout"), logger.Err(err))
		return err
	}
	metrics.SessionsRevoked.Inc()
	return nil
}
