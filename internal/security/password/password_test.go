package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := Bcrypt{Cost: bcrypt.MinCost}
	hash, err := h.Hash("NewPass123!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2a$"))

	require.NoError(t, h.Verify(hash, "NewPass123!"))
	require.ErrorIs(t, h.Verify(hash, "wrong"), ErrMismatch)
}

func TestBcryptVerifyMalformedHash(t *testing.T) {
	err := Bcrypt{}.Verify("not-a-hash", "x")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrMismatch)
}

func TestBcryptRejectsEmpty(t *testing.T) {
	_, err := Bcrypt{}.Hash("")
	require.Error(t, err)
}

func TestTempPassword(t *testing.T) {
	a, err := TempPassword(12)
	require.NoError(t, err)
	require.Len(t, a, 12)
	for _, r := range a {
		require.Contains(t, tempAlphabet, string(r))
	}
	b, _ := TempPassword(12)
	require.NotEqual(t, a, b)
}

func TestPolicy(t *testing.T) {
	require.NoError(t, DefaultPolicy.Validate("12345678"))

	err := DefaultPolicy.Validate("short")
	var pe *PolicyError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.Reasons, 1)

	strict := Policy{MinLength: 8, RequireUpper: true, RequireDigit: true, RequireSymbol: true}
	require.NoError(t, strict.Validate("NewPass123!"))
	require.ErrorAs(t, strict.Validate("newpassword"), &pe)
	require.Len(t, pe.Reasons, 3)
}
