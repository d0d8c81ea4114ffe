package admin

import (
	"context"
	"crypto/subtle"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/common"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
)

type SuperuserService interface {
	// CheckSecret compares the presented X-Admin-Secret in constant time.
	CheckSecret(presented string) error
	Create(ctx context.Context, email, plain string) (*repository.User, error)
}

type superuserService struct {
	users  repository.UserRepository
	hasher password.Hasher
	secret string
}

func NewSuperuserService(users repository.UserRepository, hasher password.Hasher, secret string) SuperuserService {
	return &superuserService{users: users, hasher: hasher, secret: secret}
}

func (s *superuserService) CheckSecret(presented string) error {
	if s.secret == "" {
		return ErrSecretNotConfigured
	}
	if presented == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(s.secret)) != 1 {
		return ErrBadSecret
	}
	return nil
}

func (s *superuserService) Create(ctx context.Context, email, plain string) (*repository.User, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("admin.superuser"),
		logger.Op("Create"),
	)
	hash, err := s.hasher.Hash(plain)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, repository.CreateUserInput{
		Email:        common.NormalizeEmail(email),
		PasswordHash: hash,
		Status:       repository.UserStatusActive,
		IsSuperuser:  true,
	})
	if repository.IsConflict(err) {
		return nil, common.ErrEmailTaken
	}
	if err != nil {
		log.Error("create superuser failed", logger.Err(err))
		return nil, err
	}
	log.Info("superuser created", logger.UserID(u.ID))
	return u, nil
}
