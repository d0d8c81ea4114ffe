package admin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Project-Legacy-LA/legacy-la/internal/cache"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/services/common"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
	"github.com/Project-Legacy-LA/legacy-la/internal/store/memstore"
)

type outbox struct {
	mu   sync.Mutex
	sent []email.Message
}

func (o *outbox) Send(_ context.Context, m email.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, m)
	return nil
}

type readOnly struct{ cache.Client }

func (readOnly) Set(context.Context, string, string, time.Duration) error {
	return errors.New("cache is read-only")
}

func newServices(t *testing.T, c cache.Client, secret string) (Services, repository.Store, *invite.Store, *outbox) {
	t.Helper()
	if c == nil {
		mc := cache.NewMemory("test", time.Hour)
		t.Cleanup(func() { _ = mc.Close() })
		c = mc
	}
	st := memstore.New()
	inv := invite.NewStore(c, time.Hour)
	mail := &outbox{}
	s := NewServices(Deps{
		Store:       st,
		Invites:     inv,
		Hasher:      password.Bcrypt{Cost: bcrypt.MinCost},
		Mailer:      mail,
		AdminSecret: secret,
		BaseURL:     "https://app.example.com",
	})
	return s, st, inv, mail
}

func TestCheckSecret(t *testing.T) {
	s, _, _, _ := newServices(t, nil, "s3cret")
	require.NoError(t, s.Superuser.CheckSecret("s3cret"))
	require.ErrorIs(t, s.Superuser.CheckSecret(""), ErrBadSecret)
	require.ErrorIs(t, s.Superuser.CheckSecret("s3cret "), ErrBadSecret)

	unset, _, _, _ := newServices(t, nil, "")
	require.ErrorIs(t, unset.Superuser.CheckSecret("anything"), ErrSecretNotConfigured)
}

func TestCreateSuperuser(t *testing.T) {
	ctx := context.Background()
	s, st, _, _ := newServices(t, nil, "s3cret")

	u, err := s.Superuser.Create(ctx, " Root@Example.com ", "rootpass1")
	require.NoError(t, err)
	require.True(t, u.IsSuperuser)
	require.True(t, u.IsActive())

	got, err := st.Users().FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.Superuser.Create(ctx, "root@example.com", "rootpass1")
	require.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestOnboard(t *testing.T) {
	ctx := context.Background()
	s, st, inv, mail := newServices(t, nil, "s3cret")

	out, err := s.Onboarding.Onboard(ctx, OnboardInput{
		Email: "alice@example.com", DisplayName: "Alice Law", InviterEmail: "root@example.com",
	})
	require.NoError(t, err)

	u, err := st.Users().FindByID(ctx, out.UserID)
	require.NoError(t, err)
	require.False(t, u.IsActive())

	tn, err := st.Tenants().GetByID(ctx, out.TenantID)
	require.NoError(t, err)
	require.Equal(t, u.ID, tn.OwnerUserID)

	// la membership queda inactiva hasta aceptar el invite
	ms, err := st.Memberships().ListActiveByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Empty(t, ms)

	p, err := inv.Resolve(ctx, out.Token)
	require.NoError(t, err)
	require.Equal(t, repository.RoleAttorneyOwner, p.Role)
	require.Equal(t, out.TenantID, p.TenantID)

	require.Len(t, mail.sent, 1)
	require.Equal(t, "alice@example.com", mail.sent[0].To)
	require.Contains(t, mail.sent[0].Text, "/accept-invite?token="+out.Token)

	_, err = s.Onboarding.Onboard(ctx, OnboardInput{Email: "ALICE@example.com", DisplayName: "Again"})
	require.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestOnboardCompensatesWhenTokenFails(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemory("test", time.Hour)
	t.Cleanup(func() { _ = mc.Close() })
	s, st, _, mail := newServices(t, readOnly{mc}, "s3cret")

	_, err := s.Onboarding.Onboard(ctx, OnboardInput{Email: "alice@example.com", DisplayName: "Alice Law"})
	require.Error(t, err)

	_, err = st.Users().FindByEmail(ctx, "alice@example.com")
	require.True(t, repository.IsNotFound(err))
	require.Empty(t, mail.sent)
}
