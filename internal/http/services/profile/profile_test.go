package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Project-Legacy-LA/legacy-la/internal/authz"
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/store/memstore"
)

func seed(t *testing.T, st repository.Store, withWorkspace bool) *repository.User {
	t.Helper()
	ctx := context.Background()
	atty, err := st.Users().Create(ctx, repository.CreateUserInput{Email: "alice@example.com", PasswordHash: "x", Status: repository.UserStatusActive})
	require.NoError(t, err)
	u, err := st.Users().Create(ctx, repository.CreateUserInput{Email: "bob@example.com", PasswordHash: "x", Status: repository.UserStatusActive})
	require.NoError(t, err)
	if !withWorkspace {
		return u
	}
	tn, err := st.Tenants().Create(ctx, atty.ID, "Alice Law")
	require.NoError(t, err)
	c, err := st.Clients().Create(ctx, repository.CreateClientInput{
		TenantID: tn.ID, PrimaryAttorneyUserID: atty.ID, Label: "Bob Estate", RelationshipStatus: "single",
	})
	require.NoError(t, err)
	_, err = st.ClientAccounts().Create(ctx, repository.ClientAccount{
		TenantID: tn.ID, ClientID: c.ID, UserID: u.ID, Role: repository.ClientRoleOwner, CanWrite: true,
	})
	require.NoError(t, err)
	require.NoError(t, st.ClientAccounts().Enable(ctx, u.ID, c.ID))
	return u
}

func TestUpdateCreatesThenUpdatesPerson(t *testing.T) {
	st := memstore.New()
	svc := NewServices(st, nil).Profile
	ctx := context.Background()
	u := seed(t, st, true)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Nil(t, got.Person)
	require.NotNil(t, got.Client)

	res := repository.Residence{Country: "US", AdminArea: "LA", Locality: "Metairie"}
	out, err := svc.Update(ctx, authz.Caller{UserID: u.ID}, repository.Person{FirstName: "Bob", LastName: "Smith"}, res)
	require.NoError(t, err)
	require.Equal(t, "Bob", out.Person.FirstName)
	require.Equal(t, got.Client.TenantID, out.Person.TenantID)
	require.Equal(t, "Metairie", out.Client.Residence.Locality)
	personID := out.Person.ID

	out, err = svc.Update(ctx, authz.Caller{UserID: u.ID}, repository.Person{FirstName: "Robert", LastName: "Smith"}, res)
	require.NoError(t, err)
	require.Equal(t, personID, out.Person.ID)
	require.Equal(t, "Robert", out.Person.FirstName)

	got, err = svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Robert", got.Person.FirstName)
}

func TestUpdateWithoutWorkspace(t *testing.T) {
	st := memstore.New()
	svc := NewServices(st, nil).Profile
	u := seed(t, st, false)

	_, err := svc.Update(context.Background(), authz.Caller{UserID: u.ID}, repository.Person{FirstName: "Bob", LastName: "Smith"}, repository.Residence{})
	require.ErrorIs(t, err, ErrNoWorkspace)

	_, err = svc.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateRefusedWhileClientFrozen(t *testing.T) {
	st := memstore.New()
	svc := NewServices(st, nil).Profile
	ctx := context.Background()
	u := seed(t, st, true)

	before, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	_, err = st.Clients().SetEditingFrozen(ctx, before.Client.ID, true)
	require.NoError(t, err)

	res := repository.Residence{Country: "US", AdminArea: "LA", Locality: "Kenner"}
	_, err = svc.Update(ctx, authz.Caller{UserID: u.ID}, repository.Person{FirstName: "Bob", LastName: "Smith"}, res)
	require.ErrorIs(t, err, authz.ErrFrozen)

	after, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, before.Client.Residence, after.Client.Residence)
	require.True(t, after.Client.EditingFrozen)
	require.Nil(t, after.Person, "nothing in the update is applied")
}
