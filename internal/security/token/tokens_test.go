package token

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateOpaque(t *testing.T) {
	a, err := GenerateOpaque(SessionIDBytes)
	require.NoError(t, err)
	b, err := GenerateOpaque(SessionIDBytes)
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	raw, err := base64.RawURLEncoding.DecodeString(a)
	require.NoError(t, err)
	require.Len(t, raw, SessionIDBytes)
}

func TestDigestIsStable(t *testing.T) {
	require.Equal(t, Digest("abc"), Digest("abc"))
	require.NotEqual(t, Digest("abc"), Digest("abd"))
	// sha256("abc") base64url
	require.Equal(t, "ungWv48Bz-pBQUDeXa4iI7ADYaOWF3qctBD_YfIAFa0", Digest("abc"))
}
