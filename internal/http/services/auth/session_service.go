package auth

import (
	"context"
	"errors"

	"github.com/Project-Legacy-LA/legacy-la/internal/metrics"
	"github.com/Project-Legacy-LA/legacy-la/internal/session"
)

// SessionService reads and revokes the caller's own sessions.
type SessionService interface {
	Me(ctx context.Context, sid string) (*session.Session, error)
	List(ctx context.Context, userID string) ([]*session.Session, error)
	// Revoke deletes one of userID's sessions by public key.
	Revoke(ctx context.Context, userID, key string) error
	RevokeAll(ctx context.Context, userID string) (int, error)
}

type sessionService struct {
	sessions *session.Store
}

func NewSessionService(sessions *session.Store) SessionService {
	return &sessionService{sessions: sessions}
}

func (s *sessionService) Me(ctx context.Context, sid string) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, sid)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrSessionNotFound
	}
	return sess, err
}

func (s *sessionService) List(ctx context.Context, userID string) ([]*session.Session, error) {
	return s.sessions.ListForUser(ctx, userID)
}

func (s *sessionService) Revoke(ctx context.Context, userID, key string) error {
	err := s.sessions.DeleteByID(ctx, userID, key)
	if errors.Is(err, session.ErrNotFound) {
		return ErrSessionNotFound
	}
	if err == nil {
		metrics.SessionsRevoked.Inc()
	}
	return err
}

func (s *sessionService) RevokeAll(ctx context.Context, userID string) (int, error) {
	n, err := s.sessions.DeleteAllForUser(ctx, userID)
	if err == nil {
		metrics.SessionsRevoked.Add(float64(n))
	}
	return n, err
}
