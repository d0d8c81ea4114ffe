package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestCountersMove(t *testing.T) {
	before := testutil.ToFloat64(SessionsCreated.WithLabelValues("login"))
	SessionsCreated.WithLabelValues("login").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(SessionsCreated.WithLabelValues("login")))

	before = testutil.ToFloat64(AuthzDecisions.WithLabelValues("write", "frozen"))
	AuthzDecisions.WithLabelValues("write", "frozen").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(AuthzDecisions.WithLabelValues("write", "frozen")))
}
