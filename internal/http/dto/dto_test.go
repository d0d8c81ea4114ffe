package dto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Project-Legacy-LA/legacy-la/internal/http/dto"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/dto/admin"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/dto/auth"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/dto/clients"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/dto/invites"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/dto/profile"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     dto.Validatable
		wantErr string
	}{
		{"login ok", auth.LoginRequest{Email: "a@example.com", Password: "x"}, ""},
		{"login missing", auth.LoginRequest{}, "email: cannot be blank; password: cannot be blank"},
		{"register bad email", auth.RegisterRequest{Email: "nope", Password: "x"}, "email: must be a valid email address"},
		{"accept missing token", auth.AcceptInviteRequest{Password: "x"}, "token: cannot be blank"},
		{"superuser ok", admin.CreateSuperuserRequest{Email: "root@example.com", Password: "x"}, ""},
		{"onboard missing name", admin.OnboardTenantRequest{Email: "a@example.com"}, "display_name: cannot be blank"},
		{"client invite missing id", invites.ClientRequest{Email: "a@example.com"}, "clientId: cannot be blank"},
		{"delegate bad role", invites.DelegateRequest{Email: "a@example.com", ClientID: "c1", Role: "owner"}, "role: must be spouse or delegate"},
		{"delegate ok", invites.DelegateRequest{Email: "a@example.com", ClientID: "c1", Role: "spouse"}, ""},
		{"create client missing residence", clients.CreateClientRequest{Email: "a@example.com", Label: "L", RelationshipStatus: "married"},
			"residence_admin_area: cannot be blank; residence_country: cannot be blank; residence_locality: cannot be blank"},
		{"freeze missing", clients.FreezeRequest{}, "editing_frozen: is required"},
		{"freeze false ok", clients.FreezeRequest{EditingFrozen: boolPtr(false)}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.req.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Equal(t, tc.wantErr, dto.Message(err))
		})
	}
}

func TestProfileValidatesNested(t *testing.T) {
	req := profile.UpdateRequest{
		Person: profile.PersonInput{FirstName: "A", LastName: "B", DateOfBirth: strPtr("31/12/1960")},
		Client: profile.ResidenceInput{Country: "US", AdminArea: "LA"},
	}
	err := req.Validate()
	require.Error(t, err)
	msg := dto.Message(err)
	require.Contains(t, msg, "date_of_birth: must be a valid date")
	require.Contains(t, msg, "residence_locality: cannot be blank")

	req.Person.DateOfBirth = strPtr("1960-12-31")
	req.Client.Locality = "New Orleans"
	require.NoError(t, req.Validate())
}

func TestDelegateNormalize(t *testing.T) {
	r := invites.DelegateRequest{Email: " Bob@Example.COM ", ClientID: " c1 ", Role: " Spouse "}
	r.Normalize()
	require.Equal(t, invites.DelegateRequest{Email: "bob@example.com", ClientID: "c1", Role: "spouse"}, r)
}

func TestEmptyOptionalsBecomeNil(t *testing.T) {
	res := clients.CreateClientRequest{ResidenceCountry: "US", ResidencePostal: strPtr(""), ResidenceLine1: strPtr("1 Main St")}.Residence()
	require.Nil(t, res.PostalCode)
	require.Equal(t, "1 Main St", *res.Line1)
	require.Nil(t, res.Line2)

	p := profile.PersonInput{FirstName: "A", LastName: "B", Suffix: strPtr("")}.Person()
	require.Nil(t, p.Suffix)
}
