package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

// setupStore starts a PostgreSQL container, migrates it and returns a Store.
// Skipped when -short is set or Docker is not reachable.
func setupStore(t *testing.T) *Store {
	t.Helper()

	if testing.Short() || os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("skipping PostgreSQL integration tests")
	}
	ctx := context.Background()

	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("legacy_test"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(ctx, Config{DSN: dsn, MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	applied, err := s.Migrate(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, applied)

	again, err := s.Migrate(ctx)
	require.NoError(t, err)
	require.Zero(t, again)
	return s
}

func seedOwner(t *testing.T, s *Store) (*repository.User, *repository.Tenant) {
	t.Helper()
	ctx := context.Background()

	u, err := s.Users().Create(ctx, repository.CreateUserInput{Email: "Owner@Example.com", PasswordHash: "h"})
	require.NoError(t, err)
	tn, err := s.Tenants().Create(ctx, u.ID, "Owner Law")
	require.NoError(t, err)
	require.NoError(t, s.Memberships().Create(ctx, repository.Membership{
		TenantID: tn.ID, UserID: u.ID, Role: repository.RoleAttorneyOwner,
	}))
	return u, tn
}

func TestUsers(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	u, tn := seedOwner(t, s)
	require.Equal(t, "owner@example.com", u.Email)
	require.Equal(t, repository.UserStatusDisabled, u.Status)

	got, err := s.Users().FindByEmail(ctx, "  OWNER@example.com ")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.Users().Create(ctx, repository.CreateUserInput{Email: "owner@example.com", PasswordHash: "x"})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.Users().FindByID(ctx, "not-a-uuid")
	require.ErrorIs(t, err, repository.ErrNotFound)

	active, err := s.Users().Activate(ctx, u.ID, "h2")
	require.NoError(t, err)
	require.True(t, active.IsActive())
	require.Equal(t, "h2", active.PasswordHash)

	su, err := s.Users().SetSuperuser(ctx, u.ID, true)
	require.NoError(t, err)
	require.True(t, su.IsSuperuser)

	require.NoError(t, s.Memberships().Activate(ctx, tn.ID, u.ID, repository.RoleAttorneyOwner))
	ms, err := s.Memberships().ListActiveByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	require.Equal(t, tn.ID, ms[0].TenantID)

	err = s.Memberships().Activate(ctx, tn.ID, u.ID, "paralegal")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestClientsAccountsAndGrants(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	owner, tn := seedOwner(t, s)

	c, err := s.Clients().Create(ctx, repository.CreateClientInput{
		TenantID: tn.ID, PrimaryAttorneyUserID: owner.ID, Label: "Smith Family", RelationshipStatus: "married",
		Residence: repository.Residence{Country: "US", AdminArea: "LA", Locality: "New Orleans"},
	})
	require.NoError(t, err)
	require.False(t, c.EditingFrozen)
	require.Equal(t, repository.ClientStatusActive, c.Status)

	frozen, err := s.Clients().SetEditingFrozen(ctx, c.ID, true)
	require.NoError(t, err)
	require.True(t, frozen.EditingFrozen)

	zip := "70112"
	moved, err := s.Clients().UpdateResidence(ctx, c.ID, repository.Residence{
		Country: "US", AdminArea: "LA", Locality: "Metairie", PostalCode: &zip,
	})
	require.NoError(t, err)
	require.Equal(t, "Metairie", moved.Residence.Locality)
	require.Equal(t, "70112", *moved.Residence.PostalCode)

	member, err := s.Users().Create(ctx, repository.CreateUserInput{Email: "client@example.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = s.ClientAccounts().Create(ctx, repository.ClientAccount{
		TenantID: tn.ID, ClientID: c.ID, UserID: member.ID, Role: repository.ClientRoleOwner, CanWrite: true,
	})
	require.NoError(t, err)

	_, err = s.Clients().FindPrimaryForUser(ctx, member.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, s.ClientAccounts().Enable(ctx, member.ID, c.ID))
	primary, err := s.Clients().FindPrimaryForUser(ctx, member.ID)
	require.NoError(t, err)
	require.Equal(t, c.ID, primary.ID)

	accts, err := s.ClientAccounts().ListEnabledByUser(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, accts, 1)

	g, err := s.ClientGrants().Create(ctx, repository.ClientGrant{
		TenantID: tn.ID, ClientID: c.ID, UserID: member.ID, Permissions: []string{"read"}, IsEnabled: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, g.ID)

	grants, err := s.ClientGrants().ListEnabledByUser(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.True(t, grants[0].Allows("READ"))
}

func TestPersons(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	owner, tn := seedOwner(t, s)

	dob := "1970-03-01"
	p, err := s.Persons().Create(ctx, repository.Person{TenantID: tn.ID, FirstName: "Ann", LastName: "Lee", DateOfBirth: &dob})
	require.NoError(t, err)
	require.Equal(t, "1970-03-01", *p.DateOfBirth)
	require.NoError(t, s.Users().AttachPerson(ctx, owner.ID, p.ID))

	nick := "Annie"
	p.PreferredName = &nick
	p.DateOfBirth = nil
	up, err := s.Persons().Update(ctx, *p)
	require.NoError(t, err)
	require.Equal(t, "Annie", *up.PreferredName)
	require.Nil(t, up.DateOfBirth)
}

func TestInTxRollsBack(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(r repository.Repositories) error {
		_, err := r.Users().Create(ctx, repository.CreateUserInput{Email: "tx@example.com", PasswordHash: "h"})
		require.NoError(t, err)
		_, err = r.Users().Create(ctx, repository.CreateUserInput{Email: "tx@example.com", PasswordHash: "h"})
		return err
	})
	require.ErrorIs(t, err, repository.ErrConflict)

	_, err = s.Users().FindByEmail(ctx, "tx@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestActingIdentityIsPublished(t *testing.T) {
	s := setupStore(t)

	actor := repository.Actor{TenantID: uuid.NewString(), UserID: uuid.NewString()}
	ctx := repository.WithActor(context.Background(), actor)
	var tenantID, userID *string
	require.NoError(t, s.Pool().QueryRow(ctx,
		`SELECT app.current_tenant_id()::text, app.current_user_id()::text`).Scan(&tenantID, &userID))
	require.NotNil(t, tenantID)
	require.Equal(t, actor.TenantID, *tenantID)
	require.Equal(t, actor.UserID, *userID)

	require.NoError(t, s.Pool().QueryRow(context.Background(),
		`SELECT app.current_tenant_id()::text`).Scan(&tenantID))
	require.Nil(t, tenantID)
}
