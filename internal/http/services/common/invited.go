// Package common holds the steps shared by every flow that invites a user.
package common

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/metrics"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
)

// Errores compartidos
var (
	ErrEmailTaken           = errors.New("email already in use")
	ErrActiveTenantRequired = errors.New("active tenant required")
)

// NormalizeEmail trims and lowercases.
func NormalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// CreateInvitedUser inserts a disabled user with an unusable random password.
// A duplicate email is ErrEmailTaken.
func CreateInvitedUser(ctx context.Context, users repository.UserRepository, hasher password.Hasher, emailAddr string) (*repository.User, error) {
	temp, err := password.TempPassword(16)
	if err != nil {
		return nil, fmt.Errorf("temp password: %w", err)
	}
	hash, err := hasher.Hash(temp)
	if err != nil {
		return nil, fmt.Errorf("hash temp password: %w", err)
	}
	u, err := users.Create(ctx, repository.CreateUserInput{
		Email:        NormalizeEmail(emailAddr),
		PasswordHash: hash,
		Status:       repository.UserStatusDisabled,
	})
	if repository.IsConflict(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// IssueInvite stores the token after the rows it activates were committed.
// If issuing fails, undo removes those rows; an undo failure is logged, and
// the issue error is what the caller gets.
func IssueInvite(ctx context.Context, invites *invite.Store, p invite.Payload, undo func(context.Context) error) (string, error) {
	tok, err := invites.Issue(ctx, p)
	if err == nil {
		metrics.InvitesIssued.WithLabelValues(p.Role).Inc()
		return tok, nil
	}
	log := logger.From(ctx).With(logger.UserID(p.UserID), logger.Role(p.Role))
	log.Error("invite issue failed, compensating", logger.Err(err))
	if undo != nil {
		// the request context may be what failed
		if uerr := undo(context.WithoutCancel(ctx)); uerr != nil {
			log.Error("invite compensation failed, orphaned rows left", logger.Err(uerr))
		}
	}
	return "", fmt.Errorf("issue invite: %w", err)
}

// SendInvite emails an invitation. Mail failures are logged only; the
// token is already valid and is returned to the caller either way.
func SendInvite(ctx context.Context, sender email.Sender, kind, to, replyTo string, vars email.InviteVars) {
	if sender == nil {
		return
	}
	log := logger.From(ctx).With(logger.Email(to), logger.String("invite_kind", kind))
	msg, err := email.BuildInvite(kind, to, vars)
	if err != nil {
		log.Error("invite email build failed", logger.Err(err))
		return
	}
	msg.ReplyTo = replyTo
	if err := sender.Send(ctx, msg); err != nil {
		log.Warn("invite email not sent", logger.Err(err))
		return
	}
	log.Info("invite email sent")
}
