package clients

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

// readOnly refuses writes, so issuing an invite fails.
type readOnly struct{ cache.Client }

func (readOnly) Set(context.Context, string, string, time.Duration) error {
	return errors.New("cache is read-only")
}

func newService(t *testing.T, c cache.Client) (ClientService, repository.Store, *outbox) {
	t.Helper()
	st := memstore.New()
	mail := &outbox{}
	svc := NewServices(Deps{
		Store:   st,
		Invites: invite.NewStore(c, time.Hour),
		Hasher:  password.Bcrypt{Cost: bcrypt.MinCost},
		Mailer:  mail,
		BaseURL: "https://app.example.com",
	}).Clients
	return svc, st, mail
}

func memCache(t *testing.T) cache.Client {
	c := cache.NewMemory("test", time.Hour)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func attorney(t *testing.T, st repository.Store) Attorney {
	t.Helper()
	ctx := context.Background()
	u, err := st.Users().Create(ctx, repository.CreateUserInput{
		Email: "alice@example.com", PasswordHash: "x", Status: repository.UserStatusActive,
	})
	require.NoError(t, err)
	tn, err := st.Tenants().Create(ctx, u.ID, "Alice Law")
	require.NoError(t, err)
	return Attorney{UserID: u.ID, Email: u.Email, TenantID: tn.ID}
}

var input = CreateInput{
	Email:              "Bob@Example.com",
	Label:              "Bob Estate",
	RelationshipStatus: "married",
	Residence:          repository.Residence{Country: "US", AdminArea: "LA", Locality: "New Orleans"},
}

func TestCreateClient(t *testing.T) {
	svc, st, mail := newService(t, memCache(t))
	ctx := context.Background()
	by := attorney(t, st)

	out, err := svc.Create(ctx, by, input)
	require.NoError(t, err)
	require.Equal(t, by.TenantID, out.Client.TenantID)
	require.Equal(t, by.UserID, out.Client.PrimaryAttorneyUserID)
	require.Equal(t, repository.ClientStatusActive, out.Client.Status)
	require.Equal(t, "https://app.example.com/accept-invite?token="+out.Token, out.AcceptURL)

	u, err := st.Users().FindByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.Equal(t, repository.UserStatusDisabled, u.Status)

	acct, err := st.ClientAccounts().Get(ctx, u.ID, out.Client.ID)
	require.NoError(t, err)
	require.False(t, acct.IsEnabled)
	require.Equal(t, repository.ClientRoleOwner, acct.Role)

	require.Len(t, mail.sent, 1)
	require.Equal(t, "bob@example.com", mail.sent[0].To)
	require.Equal(t, by.Email, mail.sent[0].ReplyTo)

	_, err = svc.Create(ctx, by, input)
	require.ErrorIs(t, err, common.ErrEmailTaken)
}

func TestCreateClientCompensatesWhenTokenFails(t *testing.T) {
	svc, st, mail := newService(t, readOnly{memCache(t)})
	ctx := context.Background()
	by := attorney(t, st)

	_, err := svc.Create(ctx, by, input)
	require.Error(t, err)
	require.Empty(t, mail.sent)

	_, err = st.Users().FindByEmail(ctx, "bob@example.com")
	require.True(t, repository.IsNotFound(err))
}

func TestCreateClientNeedsTenant(t *testing.T) {
	svc, st, _ := newService(t, memCache(t))
	by := attorney(t, st)
	by.TenantID = ""
	_, err := svc.Create(context.Background(), by, input)
	require.ErrorIs(t, err, common.ErrActiveTenantRequired)
}

func TestSetFrozenOnlyPrimaryAttorney(t *testing.T) {
	svc, st, _ := newService(t, memCache(t))
	ctx := context.Background()
	by := attorney(t, st)
	out, err := svc.Create(ctx, by, input)
	require.NoError(t, err)

	_, err = svc.SetFrozen(ctx, out.UserID, out.Client, true)
	require.ErrorIs(t, err, ErrNotPrimaryAttorney)

	c, err := svc.SetFrozen(ctx, by.UserID, out.Client, true)
	require.NoError(t, err)
	require.True(t, c.EditingFrozen)

	c, err = svc.SetFrozen(ctx, by.UserID, c, false)
	require.NoError(t, err)
	require.False(t, c.EditingFrozen)
}
